package main

import (
	"net/http"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/gin-gonic/gin"
)

func createDepartmentHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		var input models.NewDepartment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondModelError(c, err)
			return
		}

		department, err := models.CreateDepartment(c.Request.Context(), &input)
		if err != nil {
			config.LogError(logger, "departments.go", "createDepartmentHandler", "create department", input.Name, err)
			respondModelError(c, err)
			return
		}

		c.JSON(http.StatusCreated, department)
	}
}

func listDepartmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		departments, err := models.ListDepartments(c.Request.Context())
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": departments})
	}
}

func getDepartmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		department, err := models.GetDepartment(c.Request.Context(), id)
		if err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, department)
	}
}

func updateDepartmentHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		var input models.NewDepartment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondModelError(c, err)
			return
		}

		department, err := models.EditDepartment(c.Request.Context(), id, &input)
		if err != nil {
			config.LogError(logger, "departments.go", "updateDepartmentHandler", "edit department", id, err)
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, department)
	}
}

func deleteDepartmentHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		id, ok := parseIdParam(c)
		if !ok {
			return
		}

		if err := models.DeleteDepartment(c.Request.Context(), id); err != nil {
			config.LogError(logger, "departments.go", "deleteDepartmentHandler", "delete department", id, err)
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}
