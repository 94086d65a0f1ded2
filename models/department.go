package models

import (
	"context"
	"errors"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
)

type Department struct {
	ID        int            `gorm:"primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null;uniqueIndex" json:"name" binding:"required"`
	Code      string         `gorm:"size:50" json:"code"`
	Type      DepartmentType `gorm:"type:enum('academic','administrative','support');default:academic" json:"type"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDepartment struct {
	Name string         `json:"name" binding:"required"`
	Code string         `json:"code"`
	Type DepartmentType `json:"type"`
}

func CreateDepartment(ctx context.Context, input *NewDepartment) (*Department, error) {
	if input.Type == "" {
		input.Type = DepartmentTypeAcademic
	}
	if err := input.Type.Validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Department](ctx, "name", input.Name, nil); err != nil {
		return nil, err
	}

	department := Department{
		Name: input.Name,
		Code: input.Code,
		Type: input.Type,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&department).Error; err != nil {
		if utils.IsDuplicateEntryError(err) {
			return nil, errors.New("department name already exists")
		}
		return nil, err
	}
	return &department, nil
}

func EditDepartment(ctx context.Context, id int, input *NewDepartment) (*Department, error) {
	db := config.GetDB()

	var department Department
	if err := db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if input.Type != "" {
		if err := input.Type.Validate(); err != nil {
			return nil, err
		}
		department.Type = input.Type
	}
	if input.Name != "" {
		if err := utils.ValidateUnique[Department](ctx, "name", input.Name, id); err != nil {
			return nil, err
		}
		department.Name = input.Name
	}
	if input.Code != "" {
		department.Code = input.Code
	}

	if err := db.WithContext(ctx).Save(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// DeleteDepartment refuses to remove a department that still owns assets.
func DeleteDepartment(ctx context.Context, id int) error {
	db := config.GetDB()

	var department Department
	if err := db.WithContext(ctx).First(&department, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	count, err := utils.ResourceCountWhere[Asset](ctx, "department_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("department still has assets")
	}

	return db.WithContext(ctx).Delete(&department).Error
}

func GetDepartment(ctx context.Context, id int) (*Department, error) {
	db := config.GetDB()

	var department Department
	if err := db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &department, nil
}

func ListDepartments(ctx context.Context) ([]Department, error) {
	db := config.GetDB()

	var departments []Department
	if err := db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}
