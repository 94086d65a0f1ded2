package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"gorm.io/gorm"
)

// AuditLog is append-only: rows are written inside the transaction of the
// change they describe and never updated or deleted.
type AuditLog struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ActionType    string    `gorm:"size:10;not null" json:"action_type"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ReferenceId   int       `gorm:"index" json:"reference_id"`
	ReferenceType string    `gorm:"size:255" json:"reference_type"`
	UserId        int       `gorm:"index;not null" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func createAuditLog(tx *gorm.DB,
	actionType string,
	referenceId int,
	referenceType string,
	before interface{},
	after interface{},
	description string) error {

	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)

	ctx := tx.Statement.Context
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok {
		return errors.New("user name is required")
	}

	log := AuditLog{
		ActionType:    actionType,
		Before:        string(b),
		After:         string(a),
		Description:   description,
		ReferenceId:   referenceId,
		ReferenceType: referenceType,
		UserId:        userId,
		UserName:      userName,
	}

	return tx.Create(&log).Error
}

// AuditLogFilter narrows audit log listings.
type AuditLogFilter struct {
	ReferenceType string
	ReferenceId   int
	UserId        int
	Offset        int
	Limit         int
}

func PaginateAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&AuditLog{})
	if filter.ReferenceType != "" {
		query = query.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.ReferenceId > 0 {
		query = query.Where("reference_id = ?", filter.ReferenceId)
	}
	if filter.UserId > 0 {
		query = query.Where("user_id = ?", filter.UserId)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = config.SearchLimit
	}

	var logs []AuditLog
	err := query.Order("created_at DESC").Offset(filter.Offset).Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
