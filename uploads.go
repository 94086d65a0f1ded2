package main

import (
	"bytes"
	"context"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type uploadSignRequest struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type uploadCompleteRequest struct {
	ObjectKey string `json:"objectKey"`
	MimeType  string `json:"mimeType"`
}

type uploadSignResponse struct {
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ObjectKey string            `json:"objectKey"`
	AccessURL string            `json:"accessUrl"`
	ExpiresAt string            `json:"expiresAt"`
}

type uploadCompleteResponse struct {
	ObjectKey          string `json:"objectKey"`
	AccessURL          string `json:"accessUrl"`
	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	ThumbnailObjectKey string `json:"thumbnailObjectKey,omitempty"`
}

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

func extensionFromMimeType(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return ""
}

// signUploadHandler hands the client a short-lived V4 PUT URL so bill files
// go straight to the bucket instead of through this process.
func signUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var req uploadSignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.FileName == "" || req.MimeType == "" || req.Size <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fileName, mimeType and size are required"})
			return
		}
		if req.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		if !utils.BillFileMimeTypes[req.MimeType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
			return
		}

		ext := strings.ToLower(filepath.Ext(req.FileName))
		if ext == "" {
			ext = extensionFromMimeType(req.MimeType)
		}
		if ext == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file extension is required"})
			return
		}

		departmentId, _ := utils.GetDepartmentIdFromContext(c.Request.Context())
		objectKey := path.Join("bills", time.Now().UTC().Format("2006/01"), uuid.New().String()+ext)

		signed, err := utils.SignUpload(c.Request.Context(), objectKey, req.MimeType, 15*time.Minute)
		if err != nil {
			config.LogError(logger, "uploads.go", "signUploadHandler", "sign upload", objectKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign upload"})
			return
		}

		logger.WithFields(logrus.Fields{
			"department_id": departmentId,
			"mime_type":     req.MimeType,
			"size":          req.Size,
			"object_key":    objectKey,
		}).Info("[upload.sign]")

		c.JSON(http.StatusOK, gin.H{
			"data": uploadSignResponse{
				UploadURL: signed.UploadURL,
				Method:    signed.Method,
				Headers:   signed.Headers,
				ObjectKey: signed.ObjectKey,
				AccessURL: signed.AccessURL,
				ExpiresAt: signed.ExpiresAt.UTC().Format(time.RFC3339),
			},
		})
	}
}

// completeUploadHandler verifies the object landed and, for images, writes a
// thumbnail next to it.
func completeUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var req uploadCompleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.ObjectKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "objectKey is required"})
			return
		}
		if strings.Contains(req.ObjectKey, "..") || strings.HasPrefix(req.ObjectKey, "/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object key"})
			return
		}

		exists, err := utils.ObjectExistsInGCS(c.Request.Context(), req.ObjectKey)
		if err != nil {
			config.LogError(logger, "uploads.go", "completeUploadHandler", "check object", req.ObjectKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage check failed"})
			return
		}
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "object was not uploaded"})
			return
		}

		response := uploadCompleteResponse{
			ObjectKey: req.ObjectKey,
			AccessURL: utils.BuildObjectAccessURL(req.ObjectKey),
		}

		if imageMimeTypes[req.MimeType] {
			thumbnailKey, err := createThumbnail(c.Request.Context(), req.ObjectKey)
			if err != nil {
				config.LogError(logger, "uploads.go", "completeUploadHandler", "create thumbnail", req.ObjectKey, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate thumbnail"})
				return
			}
			response.ThumbnailURL = utils.BuildObjectAccessURL(thumbnailKey)
			response.ThumbnailObjectKey = thumbnailKey
		}

		logger.WithFields(logrus.Fields{
			"object_key": req.ObjectKey,
			"status":     "completed",
		}).Info("[upload.complete]")

		c.JSON(http.StatusOK, gin.H{"data": response})
	}
}

func createThumbnail(ctx context.Context, objectKey string) (string, error) {
	data, err := utils.DownloadBytesFromGCS(ctx, objectKey, maxUploadSizeBytes)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", err
	}

	thumbnailKey := thumbnailObjectKey(objectKey)
	if err := utils.UploadBytesToGCS(ctx, thumbnailKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	return thumbnailKey, nil
}

func thumbnailObjectKey(objectKey string) string {
	ext := path.Ext(objectKey)
	return strings.TrimSuffix(objectKey, ext) + "_thumb.jpg"
}
