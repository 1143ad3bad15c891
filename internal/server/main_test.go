package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"entrelinhas/internal/config"
	"entrelinhas/internal/database"
	"entrelinhas/internal/middleware"
	"entrelinhas/internal/models"
	"entrelinhas/internal/repository"
	"entrelinhas/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testCfg = &config.Config{
	JWTSecret:           "test-secret",
	Env:                 "test",
	ReportHideThreshold: 5,
}

var initMiddlewareOnce sync.Once

// newTestServer wires a Server against an in-memory sqlite database, skipping
// the Prometheus middleware so repeated setups don't re-register collectors.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	initMiddlewareOnce.Do(func() { middleware.InitMiddleware(testCfg) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	catalog, err := config.LoadCatalog()
	require.NoError(t, err)

	s := &Server{
		config:       testCfg,
		db:           db,
		catalog:      catalog,
		userRepo:     repository.NewUserRepository(db),
		profileRepo:  repository.NewProfileRepository(db),
		postRepo:     repository.NewPostRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		reactionRepo: repository.NewReactionRepository(db),
		karmaRepo:    repository.NewKarmaRepository(db),
		reportRepo:   repository.NewReportRepository(db, testCfg.ReportHideThreshold),
	}
	s.identity = service.NewIdentityResolver(s.userRepo, s.profileRepo)
	s.postService = service.NewPostService(s.postRepo, catalog)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.reactionService = service.NewReactionService(s.reactionRepo, s.postRepo, catalog)
	s.karmaService = service.NewKarmaService(s.karmaRepo, s.commentRepo)
	s.reportService = service.NewReportService(s.reportRepo, s.postRepo)

	return s, db
}

// newBoardApp returns a fiber app with all application routes registered.
func newBoardApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	s, db := newTestServer(t)
	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

func createBoardPost(t *testing.T, db *gorm.DB, body string) *models.Post {
	t.Helper()
	post := &models.Post{Body: body, Category: "outros", Visible: true}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createBoardComment(t *testing.T, db *gorm.DB, postID uint, body string) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, Body: body, Visible: true}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

// createAdmin stores an admin account and returns a bearer token for it.
func createAdmin(t *testing.T, db *gorm.DB) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("mod-password"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.User{
		Username: "moderator",
		Nickname: "Moderação",
		Password: string(hash),
		IsAdmin:  true,
		IsActive: true,
	}
	require.NoError(t, db.Create(admin).Error)

	token, err := middleware.GenerateToken(admin.ID)
	require.NoError(t, err)
	return token
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
