package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/workflow"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func parseIdParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondModelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, utils.ErrorStaleWrite):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(verr)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// departmentScope forces non-admin users onto their own department.
func departmentScope(c *gin.Context, requested int) int {
	isAdmin, _ := utils.GetIsAdminFromContext(c.Request.Context())
	if isAdmin {
		return requested
	}
	if departmentId, ok := utils.GetDepartmentIdFromContext(c.Request.Context()); ok && departmentId > 0 {
		return departmentId
	}
	return requested
}

// createAssetHandler accepts either plain JSON or a multipart form carrying a
// "data" JSON part plus an optional "billFile" attachment. The file goes to
// GCS before the DB write; a failed write leaves the object orphaned (logged).
func createAssetHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		var input models.NewAsset

		contentType := c.ContentType()
		if strings.HasPrefix(contentType, "multipart/form-data") {
			data := c.PostForm("data")
			if data == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "data field is required"})
				return
			}
			if err := json.Unmarshal([]byte(data), &input); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data JSON"})
				return
			}

			file, header, err := c.Request.FormFile("billFile")
			if err == nil {
				defer file.Close()
				if header.Size > maxUploadSizeBytes {
					c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
					return
				}
				ext := strings.ToLower(path.Ext(header.Filename))
				objectKey := path.Join("bills", time.Now().UTC().Format("2006/01"), uuid.New().String()+ext)
				if err := utils.UploadBillFileToGCS(c.Request.Context(), objectKey, file); err != nil {
					config.LogError(logger, "assets.go", "createAssetHandler", "upload bill file", objectKey, err)
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				input.BillFileUrl = utils.BuildObjectAccessURL(objectKey)
			}
		} else {
			if err := c.ShouldBindJSON(&input); err != nil {
				respondModelError(c, err)
				return
			}
		}

		asset, err := models.CreateAsset(c.Request.Context(), &input)
		if err != nil {
			config.LogError(logger, "assets.go", "createAssetHandler", "create asset", input.ItemName, err)
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusCreated, asset)
	}
}

func listAssetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.AssetFilter{
			Category: models.AssetCategory(c.Query("category")),
		}
		if v := c.Query("department_id"); v != "" {
			filter.DepartmentId, _ = strconv.Atoi(v)
		}
		filter.DepartmentId = departmentScope(c, filter.DepartmentId)
		if v := c.Query("from"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				filter.FromDate = &t
			}
		}
		if v := c.Query("to"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				filter.ToDate = &t
			}
		}
		filter.Offset, _ = strconv.Atoi(c.Query("offset"))
		filter.Limit, _ = strconv.Atoi(c.Query("limit"))

		assets, total, err := models.PaginateAssets(c.Request.Context(), filter)
		if err != nil {
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":  assets,
			"total": total,
		})
	}
}

func getAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		asset, err := models.GetAsset(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusOK, asset)
	}
}

func updateAssetHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		var input models.UpdateAsset
		if err := c.ShouldBindJSON(&input); err != nil {
			respondModelError(c, err)
			return
		}

		asset, err := models.EditAsset(c.Request.Context(), id, &input)
		if err != nil {
			config.LogError(logger, "assets.go", "updateAssetHandler", "edit asset", id, err)
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusOK, asset)
	}
}

func deleteAssetHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		if err := models.DeleteAsset(c.Request.Context(), id); err != nil {
			config.LogError(logger, "assets.go", "deleteAssetHandler", "delete asset", id, err)
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}

func requestAssetUpdateHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		var input workflow.UpdateRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			respondModelError(c, err)
			return
		}

		asset, err := workflow.RequestAssetUpdate(c.Request.Context(), id, &input)
		if err != nil {
			config.LogError(logger, "assets.go", "requestAssetUpdateHandler", "request update", id, err)
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusOK, asset)
	}
}

func reviewAssetUpdateHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		var input workflow.ReviewDecision
		if err := c.ShouldBindJSON(&input); err != nil {
			respondModelError(c, err)
			return
		}

		asset, err := workflow.ReviewAssetUpdate(c.Request.Context(), id, &input)
		if err != nil {
			config.LogError(logger, "assets.go", "reviewAssetUpdateHandler", "review update", id, err)
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusOK, asset)
	}
}
