package agencies

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestGetAgencyByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "slug", "city", "district"}).
		AddRow(id, "Ankara – AŞTİ", "ankara-asti", "Ankara", "AŞTİ")

	mock.ExpectQuery(`SELECT \* FROM "agencies" WHERE id = .+ ORDER BY "agencies"\."id" LIMIT .+`).
		WillReturnRows(rows)

	agency, err := repo.GetAgencyByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "ankara-asti", agency.Slug)
	assert.Equal(t, "Ankara", agency.City)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAgencyByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "agencies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "city", "district"}))

	_, err := repo.GetAgencyByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAgencyNotFound)
}

func TestListAgenciesFiltersByCity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "city", "district"}).
		AddRow(uuid.New(), "İstanbul – Alibeyköy", "istanbul-alibeykoy", "İstanbul", "Alibeyköy").
		AddRow(uuid.New(), "İstanbul – Bayrampaşa", "istanbul-bayrampasa", "İstanbul", "Bayrampaşa")

	mock.ExpectQuery(`SELECT \* FROM "agencies" WHERE city = .+ ORDER BY city ASC, district ASC`).
		WithArgs("İstanbul").
		WillReturnRows(rows)

	found, err := repo.ListAgencies(context.Background(), "İstanbul")
	require.NoError(t, err)

	assert.Len(t, found, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCompanies(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "code", "color"}).
		AddRow(uuid.New(), "Atlas Lines", "ATL", "#C0392B").
		AddRow(uuid.New(), "Metro Express", "MET", "#2980B9")

	mock.ExpectQuery(`SELECT \* FROM "companies" ORDER BY name ASC`).
		WillReturnRows(rows)

	found, err := repo.ListCompanies(context.Background())
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, "ATL", found[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
