package main

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLikeThenUnlikeReturnsToUnliked(t *testing.T) {
	_, mock, _, _ := setupTest(t)

	// First call: no like row yet, so one is created.
	expectPostLookup(mock, 9, "a post")
	mock.ExpectQuery("SELECT (.+) FROM `likes`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id"}))
	mock.ExpectExec("INSERT INTO `likes`").
		WillReturnResult(sqlmock.NewResult(2, 1))

	c, rec := handlerContext(t, http.MethodPost, "/api/v1/posts/like/9",
		gin.Params{{Key: "postId", Value: "9"}}, 1)
	likePost(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post liked successfully")

	// Second call: the row exists, so it is deleted.
	expectPostLookup(mock, 9, "a post")
	mock.ExpectQuery("SELECT (.+) FROM `likes`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id"}).AddRow(2, 1, 9))
	mock.ExpectExec("UPDATE `likes`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec = handlerContext(t, http.MethodPost, "/api/v1/posts/like/9",
		gin.Params{{Key: "postId", Value: "9"}}, 1)
	likePost(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post unliked successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeMissingPost(t *testing.T) {
	_, mock, _, _ := setupTest(t)

	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows(postColumns))

	c, rec := handlerContext(t, http.MethodPost, "/api/v1/posts/like/99",
		gin.Params{{Key: "postId", Value: "99"}}, 1)
	likePost(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found!")
}

func TestSharePostAppendsAndBuildsLinks(t *testing.T) {
	_, mock, _, _ := setupTest(t)

	expectPostLookup(mock, 9, "hello world")
	mock.ExpectExec("INSERT INTO `shares`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := handlerContext(t, http.MethodPost, "/api/v1/posts/share/9",
		gin.Params{{Key: "postId", Value: "9"}}, 1)
	sharePost(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Post shared successfully")
	assert.Contains(t, body, "facebook.com/sharer")
	assert.Contains(t, body, "twitter.com/intent/tweet")
	assert.Contains(t, body, "linkedin.com/sharing")
	assert.Contains(t, body, "viewapost/9")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareTwiceAppendsTwice(t *testing.T) {
	_, mock, _, _ := setupTest(t)

	for i := 0; i < 2; i++ {
		expectPostLookup(mock, 9, "hello world")
		mock.ExpectExec("INSERT INTO `shares`").
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}

	for i := 0; i < 2; i++ {
		c, rec := handlerContext(t, http.MethodPost, "/api/v1/posts/share/9",
			gin.Params{{Key: "postId", Value: "9"}}, 1)
		sharePost(c)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
