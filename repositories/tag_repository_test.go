package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, TagRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db, mock, NewTagRepository(gdb)
}

func TestGetBySlugFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "usage_count"}).
		AddRow(3, "Go Lang", "go-lang", 7)

	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE slug`).
		WithArgs("go-lang", 1).
		WillReturnRows(rows)

	tag, err := repo.GetBySlug("go-lang")
	require.NoError(t, err)
	assert.Equal(t, uint(3), tag.ID)
	assert.Equal(t, "Go Lang", tag.Name)
	assert.Equal(t, 7, tag.UsageCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlugNotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE slug`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "usage_count"}))

	_, err := repo.GetBySlug("missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllOrderedByName(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "usage_count"}).
		AddRow(2, "alpha", "alpha", 0).
		AddRow(1, "beta", "beta", 0)

	mock.ExpectQuery(`SELECT (.+) FROM "tags" (.+)ORDER BY name asc`).
		WillReturnRows(rows)

	tags, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "alpha", tags[0].Name)
	assert.Equal(t, "beta", tags[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountPostsByTag(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"tag_id", "count"}).
		AddRow(1, 4).
		AddRow(9, 1)

	mock.ExpectQuery(`FROM post_tags pt`).
		WillReturnRows(rows)

	counts, err := repo.CountPostsByTag()
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{1: 4, 9: 1}, counts)

	assert.NoError(t, mock.ExpectationsWereMet())
}
