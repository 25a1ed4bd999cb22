package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/podsync/backend/internal/domain/design"
	"github.com/podsync/backend/internal/domain/shared"
)

// newMockDB creates a GORM handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormTemplateRepository_FindByID(t *testing.T) {
	t.Run("finds existing template", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTemplateRepository(gormDB)

		templateID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "external_template_id", "product_title", "variant_ids"}).
			AddRow(templateID, int64(12345), "Summer Tee", `[101,102]`)

		mock.ExpectQuery(`SELECT \* FROM "design_templates" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(templateID, 1).
			WillReturnRows(rows)

		tpl, err := repo.FindByID(context.Background(), templateID)

		require.NoError(t, err)
		require.NotNil(t, tpl)
		assert.Equal(t, templateID, tpl.ID)
		assert.Equal(t, int64(12345), tpl.ExternalTemplateID)
		assert.Equal(t, []int64{101, 102}, tpl.VariantIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing template", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTemplateRepository(gormDB)

		templateID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "design_templates" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(templateID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		tpl, err := repo.FindByID(context.Background(), templateID)

		assert.Nil(t, tpl)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTemplateRepository_FindByExternalID(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormTemplateRepository(gormDB)

	templateID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "external_template_id", "product_title", "variant_ids"}).
		AddRow(templateID, int64(12345), "Summer Tee", `[101]`)

	mock.ExpectQuery(`SELECT \* FROM "design_templates" WHERE external_template_id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(int64(12345), 1).
		WillReturnRows(rows)

	tpl, err := repo.FindByExternalID(context.Background(), 12345)

	require.NoError(t, err)
	assert.Equal(t, "Summer Tee", tpl.ProductTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTemplateRepository_Save(t *testing.T) {
	t.Run("upserts on external template id", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTemplateRepository(gormDB)

		tpl, err := design.NewTemplate(12345, "Summer Tee", []int64{101, 102})
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "design_templates" .* ON CONFLICT \("external_template_id"\) DO UPDATE SET .*`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = repo.Save(context.Background(), tpl)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTemplateRepository_UpdateImageURL(t *testing.T) {
	t.Run("updates resolved image", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTemplateRepository(gormDB)

		templateID := uuid.New()

		mock.ExpectExec(`UPDATE "design_templates" SET .*image_url.*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateImageURL(context.Background(), templateID, "https://img.example.com/preview.png")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not found when no row matched", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTemplateRepository(gormDB)

		mock.ExpectExec(`UPDATE "design_templates" SET .*image_url.*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateImageURL(context.Background(), uuid.New(), "https://img.example.com/preview.png")

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
