package main

import (
	"net/http"
	"strconv"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/gin-gonic/gin"
)

func createAnnouncementHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		var input models.NewAnnouncement
		if err := c.ShouldBindJSON(&input); err != nil {
			respondModelError(c, err)
			return
		}

		announcement, err := models.CreateAnnouncement(c.Request.Context(), &input)
		if err != nil {
			config.LogError(logger, "announcements.go", "createAnnouncementHandler", "create announcement", input.Title, err)
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, announcement)
	}
}

func listAnnouncementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, _ := strconv.Atoi(c.Query("offset"))
		limit, _ := strconv.Atoi(c.Query("limit"))

		announcements, total, err := models.ListAnnouncements(c.Request.Context(), offset, limit)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":  announcements,
			"total": total,
		})
	}
}

func getAnnouncementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		announcement, err := models.GetAnnouncement(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, announcement)
	}
}

func deleteAnnouncementHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		if err := models.DeleteAnnouncement(c.Request.Context(), id); err != nil {
			config.LogError(logger, "announcements.go", "deleteAnnouncementHandler", "delete announcement", id, err)
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}
