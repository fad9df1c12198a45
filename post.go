package main

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"echosphere/models"
)

const maxMediaFiles = 10

// findPost loads a post with every related row the response payloads need:
// media, comments with their authors, likes, shares, author.
func findPost(id string) (*models.Post, error) {
	var post models.Post
	err := db.
		Preload("MediaFiles").
		Preload("Comments.Author").
		Preload("Likes").
		Preload("Shares").
		Preload("Author").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// postMediaFiles pulls the mediaFiles multipart field, capped at ten files.
// A non-multipart body means no files; a multipart body that fails to parse
// is an upload error the client needs to see.
func postMediaFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid upload: %v", err)
	}
	files := form.File["mediaFiles"]
	if len(files) > maxMediaFiles {
		return nil, fmt.Errorf("a maximum of %d media files is allowed", maxMediaFiles)
	}
	return files, nil
}

// uploadPostMedia pushes each file to the media host in sequence. A failure
// mid-loop returns immediately; files already uploaded stay on the host.
func uploadPostMedia(c *gin.Context, files []*multipart.FileHeader) ([]models.MediaFile, error) {
	var uploaded []models.MediaFile
	for _, fh := range files {
		url, publicID, err := uploadMedia(c, fh, "blog-media")
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, models.MediaFile{URL: url, PublicID: publicID})
	}
	return uploaded, nil
}

func createPost(c *gin.Context) {
	userID := c.GetUint("user_id")

	// Parse the body before the field checks so a corrupt upload is not
	// reported as missing fields.
	files, err := postMediaFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	if title == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and content are required"})
		return
	}

	uploaded, err := uploadPostMedia(c, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	post := models.Post{
		Title:      title,
		Content:    content,
		AuthorID:   userID,
		MediaFiles: uploaded,
	}
	if err := db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post created successfully", "post": post})
}

func viewOnePost(c *gin.Context) {
	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "The selected post is:", "Post": post})
}

func viewPosts(c *gin.Context) {
	var posts []models.Post
	err := db.
		Preload("MediaFiles").
		Preload("Comments").
		Preload("Likes").
		Preload("Shares").
		Preload("Author").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("List of all posts in the blog: %d", len(posts)),
		"Posts":   posts,
	})
}

func updatePost(c *gin.Context) {
	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found"})
		return
	}

	files, err := postMediaFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if title := c.PostForm("title"); title != "" {
		post.Title = title
	}
	if content := c.PostForm("content"); content != "" {
		post.Content = content
	}

	// New files replace the attached media set; without new files the
	// existing rows stay connected.
	if len(files) > 0 {
		uploaded, err := uploadPostMedia(c, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
			return
		}
		if err := db.Where("post_id = ?", post.ID).Delete(&models.MediaFile{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
			return
		}
		for i := range uploaded {
			uploaded[i].PostID = post.ID
		}
		if err := db.Create(&uploaded).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
			return
		}
		post.MediaFiles = uploaded
	}

	if err := db.Model(post).Updates(map[string]interface{}{
		"title":   post.Title,
		"content": post.Content,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"Post": gin.H{
			"title":      post.Title,
			"content":    post.Content,
			"mediaFiles": post.MediaFiles,
		},
	})
}

func deletePost(c *gin.Context) {
	post, err := findPost(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No post found"})
		return
	}

	// Remote deletes come first. A failure here leaves earlier deletions
	// done and the post row intact; there is no rollback.
	for _, m := range post.MediaFiles {
		if err := media.Remove(c.Request.Context(), m.PublicID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error: " + err.Error()})
			return
		}
	}

	for _, m := range []interface{}{&models.Comment{}, &models.Like{}, &models.Share{}, &models.MediaFile{}} {
		if err := db.Where("post_id = ?", post.ID).Delete(m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete the post from the database"})
			return
		}
	}
	if err := db.Delete(post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete the post from the database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post and associated media files deleted successfully"})
}
