package main

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Uploaded files are capped at 4 MB.
const maxUploadSize = 4 << 20

// MediaStore proxies media files to the remote object host.
type MediaStore interface {
	Upload(ctx context.Context, localPath, contentType, folder string) (url string, publicID string, err error)
	Remove(ctx context.Context, publicID string) error
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func (s *minioStore) Upload(ctx context.Context, localPath, contentType, folder string) (string, string, error) {
	objectName := folder + "/" + uuid.New().String() + filepath.Ext(localPath)
	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return s.publicURL + "/" + s.bucket + "/" + objectName, objectName, nil
}

func (s *minioStore) Remove(ctx context.Context, publicID string) error {
	return s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{})
}

// allowedUpload enforces the size cap and the image/PDF/Word allow-list.
func allowedUpload(fh *multipart.FileHeader) error {
	if fh.Size > maxUploadSize {
		return fmt.Errorf("%s exceeds the 4 MB file size limit", fh.Filename)
	}
	contentType := fh.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return nil
	case contentType == "application/pdf",
		contentType == "application/msword",
		contentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return nil
	}
	return fmt.Errorf("filetype not supported. Only images, PDF, and DOC/DOCX files are allowed")
}

// uploadMedia writes the multipart file to the local upload path, pushes it
// to the media host, and removes the local copy. A failed local cleanup is
// logged, not fatal.
func uploadMedia(c *gin.Context, fh *multipart.FileHeader, folder string) (string, string, error) {
	if err := allowedUpload(fh); err != nil {
		return "", "", err
	}

	localPath := filepath.Join(cfg.UploadPath, uuid.New().String()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, localPath); err != nil {
		return "", "", fmt.Errorf("save upload: %w", err)
	}

	url, publicID, err := media.Upload(c.Request.Context(), localPath, fh.Header.Get("Content-Type"), folder)
	if removeErr := os.Remove(localPath); removeErr != nil {
		slog.Error("temp file not removed", "path", localPath, "error", removeErr)
	}
	if err != nil {
		return "", "", err
	}
	return url, publicID, nil
}
