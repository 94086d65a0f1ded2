package main

import (
	"net/http"
	"strconv"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/gin-gonic/gin"
)

type userView struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	DepartmentId int             `json:"department_id"`
	IsActive     *bool           `json:"is_active"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentId: u.DepartmentId,
		IsActive:     u.IsActive,
	}
}

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		departmentId, _ := strconv.Atoi(c.Query("department_id"))

		users, err := models.ListUsers(c.Request.Context(), departmentId)
		if err != nil {
			respondModelError(c, err)
			return
		}

		views := make([]userView, 0, len(users))
		for i := range users {
			views = append(views, toUserView(&users[i]))
		}
		c.JSON(http.StatusOK, gin.H{"data": views})
	}
}

func updateUserHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		var input models.UpdateUser
		if err := c.ShouldBindJSON(&input); err != nil {
			respondModelError(c, err)
			return
		}

		user, err := models.EditUser(c.Request.Context(), id, &input)
		if err != nil {
			config.LogError(logger, "users.go", "updateUserHandler", "edit user", id, err)
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserView(user))
	}
}
