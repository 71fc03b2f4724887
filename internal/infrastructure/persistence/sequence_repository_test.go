package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSequenceRepository creates a GormSequenceRepository with a mocked SQL connection
func newMockSequenceRepository(t *testing.T) (*GormSequenceRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormSequenceRepository(gormDB), mock, mockDB
}

func TestGormSequenceRepository_Increment(t *testing.T) {
	t.Run("first increment of a new key returns 1", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequences .* ON CONFLICT \(key\) DO UPDATE SET value = sequences\.value \+ 1.* RETURNING value`).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1))

		value, err := repo.Increment(context.Background(), "customsRef2026")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("subsequent increments return the next value", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequences .* RETURNING value`).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(42))

		value, err := repo.Increment(context.Background(), "customsRef2026")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), value)
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequences`).
			WillReturnError(assert.AnError)

		value, err := repo.Increment(context.Background(), "customsRef2026")

		assert.Error(t, err)
		assert.Equal(t, int64(0), value)
	})
}

func TestGormSequenceRepository_Current(t *testing.T) {
	t.Run("unknown key reports zero", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE`).
			WithArgs("customsRef2030").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		value, err := repo.Current(context.Background(), "customsRef2030")

		assert.NoError(t, err)
		assert.Equal(t, int64(0), value)
	})
}
