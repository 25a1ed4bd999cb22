package handler

import "github.com/google/uuid"

// mustParseUUID parses an ID that already passed binding validation
func mustParseUUID(id string) uuid.UUID {
	parsed, _ := uuid.Parse(id)
	return parsed
}
