package main

import (
	"net/http"
	"strconv"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/gin-gonic/gin"
)

func listAuditLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.AuditLogFilter{
			ReferenceType: c.Query("reference_type"),
		}
		filter.ReferenceId, _ = strconv.Atoi(c.Query("reference_id"))
		filter.UserId, _ = strconv.Atoi(c.Query("user_id"))
		filter.Offset, _ = strconv.Atoi(c.Query("offset"))
		filter.Limit, _ = strconv.Atoi(c.Query("limit"))

		logs, total, err := models.PaginateAuditLogs(c.Request.Context(), filter)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":  logs,
			"total": total,
		})
	}
}
