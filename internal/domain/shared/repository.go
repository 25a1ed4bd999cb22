package shared

// Filter carries common list query parameters for repositories
type Filter struct {
	Limit   int
	Offset  int
	OrderBy string
}

// DefaultFilter returns a filter with sane pagination defaults
func DefaultFilter() Filter {
	return Filter{Limit: 20, Offset: 0, OrderBy: "created_at DESC"}
}

// Normalize clamps the filter into allowed bounds
func (f *Filter) Normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at DESC"
	}
}
