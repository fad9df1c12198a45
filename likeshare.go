package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"echosphere/models"
)

// likePost toggles the like row for (user, post): absent creates it,
// present deletes it. The check and the write are two statements, so two
// concurrent requests can double-create or double-delete.
func likePost(c *gin.Context) {
	userID := c.GetUint("user_id")

	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found!"})
		return
	}

	var like models.Like
	err = db.Where("user_id = ? AND post_id = ?", userID, post.ID).First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&models.Like{UserID: userID, PostID: post.ID}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Post liked successfully"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	if err := db.Delete(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post unliked successfully"})
}

// sharePost appends a share event and hands back ready-made share links for
// the external platforms.
func sharePost(c *gin.Context) {
	userID := c.GetUint("user_id")

	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found!"})
		return
	}

	if err := db.Create(&models.Share{UserID: userID, PostID: post.ID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	postURL := fmt.Sprintf("%s/api/v1/viewapost/%d", cfg.BaseURL, post.ID)
	title := url.QueryEscape(post.Title)

	c.JSON(http.StatusOK, gin.H{
		"message": "Post shared successfully",
		"shareButtons": gin.H{
			"facebook": "https://www.facebook.com/sharer/sharer.php?u=" + postURL + "&quote=" + title,
			"twitter":  "https://twitter.com/intent/tweet?url=" + postURL + "&text=" + title,
			"linkedin": "https://www.linkedin.com/sharing/share-offsite/?url=" + postURL + "&title=" + title,
		},
	})
}
