package repositories

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gopress-cms/models"
)

func setupPostMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, PostRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db, mock, NewPostRepository(gdb)
}

func TestSearchUsesCaseInsensitiveMatchOnBothFields(t *testing.T) {
	db, mock, repo := setupPostMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE \(?title ILIKE \$1 OR description ILIKE \$2\)?`).
		WithArgs("%gopher%", "%gopher%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE \(?title ILIKE \$1 OR description ILIKE \$2\)?`).
		WithArgs("%gopher%", "%gopher%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image_url"}))

	posts, total, err := repo.Search("gopher", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetListTagFilterUsesJoinTableSubquery(t *testing.T) {
	db, mock, repo := setupPostMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE posts\.id IN \(SELECT post_id FROM "post_tags" WHERE tag_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`SELECT (.+) FROM "posts" WHERE posts\.id IN \(SELECT post_id FROM "post_tags" WHERE tag_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image_url"}))

	params := models.PostListParams{Tags: "go"}
	params.Normalize()

	posts, total, err := repo.GetList(params, []uint{5}, true)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}
