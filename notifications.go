package main

import (
	"net/http"
	"strconv"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/gin-gonic/gin"
)

func listNotificationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		unreadOnly := c.Query("unread") == "true"
		offset, _ := strconv.Atoi(c.Query("offset"))
		limit, _ := strconv.Atoi(c.Query("limit"))

		notifications, total, err := models.ListNotifications(c.Request.Context(), unreadOnly, offset, limit)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":  notifications,
			"total": total,
		})
	}
}

func markNotificationReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		if err := models.MarkNotificationRead(c.Request.Context(), id); err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"read": id})
	}
}
