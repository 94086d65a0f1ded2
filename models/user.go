package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
)

type User struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email" binding:"required"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"type:enum('admin','department-officer','viewer');default:viewer" json:"role"`
	DepartmentId int       `gorm:"index;default:0" json:"department_id"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email" binding:"required"`
	Password     string   `json:"password" binding:"required"`
	Role         UserRole `json:"role" binding:"required"`
	DepartmentId int      `json:"department_id"`
}

func (u *User) redisKey() string {
	return fmt.Sprintf("User:%d", u.ID)
}

// RemoveInstanceRedis drops the cached copy; the session middleware will
// repopulate it on the next request.
func (u *User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey(u.redisKey())
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := input.Role.Validate(); err != nil {
		return nil, err
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email")
	}
	if err := utils.ValidateUnique[User](ctx, "email", input.Email, nil); err != nil {
		return nil, errors.New("email already registered")
	}
	if input.Role != UserRoleAdmin {
		if err := utils.ValidateResourceId[Department](ctx, input.DepartmentId); err != nil {
			return nil, errors.New("department not found")
		}
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     string(hashed),
		Role:         input.Role,
		DepartmentId: input.DepartmentId,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if utils.IsDuplicateEntryError(err) {
			return nil, errors.New("email already registered")
		}
		return nil, err
	}
	return &user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

// GetUserCached resolves a user by id, preferring the redis copy.
func GetUserCached(ctx context.Context, id int) (*User, error) {
	var user User
	exists, err := config.GetRedisObject(fmt.Sprintf("User:%d", id), &user)
	if err == nil && exists {
		return &user, nil
	}

	db := config.GetDB()
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	_ = config.SetRedisObject(user.redisKey(), user, time.Hour)
	return &user, nil
}

func ListUsers(ctx context.Context, departmentId int) ([]User, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&User{})
	if departmentId > 0 {
		query = query.Where("department_id = ?", departmentId)
	}

	var users []User
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type UpdateUser struct {
	Name         *string   `json:"name"`
	Password     *string   `json:"password"`
	Role         *UserRole `json:"role"`
	DepartmentId *int      `json:"department_id"`
	IsActive     *bool     `json:"is_active"`
}

func EditUser(ctx context.Context, id int, input *UpdateUser) (*User, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	if input.Role != nil {
		if err := input.Role.Validate(); err != nil {
			return nil, err
		}
		user.Role = *input.Role
	}
	if input.DepartmentId != nil {
		if err := utils.ValidateResourceId[Department](ctx, *input.DepartmentId); err != nil {
			return nil, errors.New("department not found")
		}
		user.DepartmentId = *input.DepartmentId
	}
	if input.IsActive != nil {
		user.IsActive = input.IsActive
	}

	if err := db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	_ = user.RemoveInstanceRedis()
	return &user, nil
}
