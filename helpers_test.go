package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMail struct {
	to      string
	subject string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(to, subject, html string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

type stubMedia struct {
	uploads   []string
	removals  []string
	uploadErr error
	removeErr error
}

func (s *stubMedia) Upload(ctx context.Context, localPath, contentType, folder string) (string, string, error) {
	if s.uploadErr != nil {
		return "", "", s.uploadErr
	}
	publicID := folder + "/object-" + contentType
	s.uploads = append(s.uploads, publicID)
	return "http://127.0.0.1:9000/echosphere/" + publicID, publicID, nil
}

func (s *stubMedia) Remove(ctx context.Context, publicID string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removals = append(s.removals, publicID)
	return nil
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	// Preload order inside gorm is not part of the contract under test.
	mock.MatchExpectationsInOrder(false)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return gdb, mock
}

// setupTest wires the package globals to test doubles and returns the
// router plus the seams the assertions need.
func setupTest(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *stubMailer, *stubMedia) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg = Config{
		BaseURL:    "http://localhost:3000",
		UploadPath: t.TempDir(),
	}

	gdb, mock := newMockDB(t)
	db = gdb
	rdb = nil

	mailer := &stubMailer{}
	mail = mailer
	store := &stubMedia{}
	media = store

	return setupRouter(), mock, mailer, store
}

// userColumns is the row shape handed to sqlmock for user lookups.
var userColumns = []string{"id", "username", "email", "password", "is_admin", "is_verified", "token", "picture_id"}

func userRow(id int64, username, email, password string, isAdmin, isVerified bool, token interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(id, username, email, password, isAdmin, isVerified, token, nil)
}

var postColumns = []string{"id", "title", "content", "author_id"}

// expectPostLookup registers the post query plus the preload queries
// findPost always runs. Media rows are optional.
func expectPostLookup(mock sqlmock.Sqlmock, id int64, title string, mediaPublicIDs ...string) {
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(id, title, "content", 1))

	mediaRows := sqlmock.NewRows([]string{"id", "url", "public_id", "post_id"})
	for i, publicID := range mediaPublicIDs {
		mediaRows.AddRow(i+1, "http://127.0.0.1:9000/echosphere/"+publicID, publicID, id)
	}
	mock.ExpectQuery("SELECT (.+) FROM `media_files`").WillReturnRows(mediaRows)
	mock.ExpectQuery("SELECT (.+) FROM `comments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "author_id", "post_id"}))
	mock.ExpectQuery("SELECT (.+) FROM `likes`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id"}))
	mock.ExpectQuery("SELECT (.+) FROM `shares`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id"}))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns))
}
