package repository

import (
	"testing"

	"entrelinhas/internal/database"
	"entrelinhas/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the full schema for
// behavioral tests of the transactional engines.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupMockDB returns a gorm DB backed by sqlmock for SQL-shape tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createTestPost(t *testing.T, db *gorm.DB) *models.Post {
	t.Helper()
	post := &models.Post{Body: "hoje eu só queria sumir um pouco", Category: "outros", Visible: true}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, postID uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, Body: "força, vai passar", Visible: true}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
