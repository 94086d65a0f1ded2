package main

import (
	"net/http"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		user, err := models.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if user.IsActive != nil && !*user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := utils.ComparePassword(user.Password, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := utils.JwtGenerate(user.ID, string(user.Role))
		if err != nil {
			config.LogError(logger, "auth.go", "loginHandler", "generate token", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":            user.ID,
				"name":          user.Name,
				"email":         user.Email,
				"role":          user.Role,
				"department_id": user.DepartmentId,
			},
		})
	}
}

func registerHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			if verr, ok := err.(validator.ValidationErrors); ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(verr)})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			config.LogError(logger, "auth.go", "registerHandler", "create user", input.Email, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"department_id": user.DepartmentId,
		})
	}
}
