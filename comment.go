package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"echosphere/models"
)

type commentInput struct {
	Comment string `json:"comment" binding:"required"`
}

func commentPost(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found!"})
		return
	}

	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment content is required"})
		return
	}

	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found!"})
		return
	}

	comment := models.Comment{
		Content:  input.Comment,
		AuthorID: user.ID,
		PostID:   post.ID,
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding comment: " + err.Error()})
		return
	}
	comment.Author = user

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "comment": comment})
}

func viewComments(c *gin.Context) {
	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	if len(post.Comments) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No comments on this post", "comments": []models.Comment{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("List of comments on post: %d", len(post.Comments)),
		"comments": post.Comments,
	})
}

// deleteComment removes a comment from a post. Any authenticated user may
// delete any comment; authorship is not checked.
func deleteComment(c *gin.Context) {
	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	result := db.Where("id = ? AND post_id = ?", c.Param("commentId"), post.ID).Delete(&models.Comment{})
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to delete comment!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
