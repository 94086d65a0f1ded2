package models

import (
	"context"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"github.com/sirupsen/logrus"
)

type Notification struct {
	ID            int              `gorm:"primary_key" json:"id"`
	UserId        int              `gorm:"index;not null" json:"user_id"`
	Kind          NotificationKind `gorm:"size:50;not null" json:"kind"`
	Message       string           `gorm:"type:text;not null" json:"message"`
	ReferenceType string           `gorm:"size:255" json:"reference_type"`
	ReferenceId   int              `gorm:"index" json:"reference_id"`
	Read          bool             `gorm:"default:false" json:"read"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// notifyUser writes a notification row and, when a topic is configured,
// publishes a matching event. Publish failures are logged and swallowed:
// the row has already been committed and the UI polls it regardless.
func notifyUser(ctx context.Context, userId int, kind NotificationKind, message, referenceType string, referenceId int) {
	logger := config.GetLogger()
	db := config.GetDB()

	n := Notification{
		UserId:        userId,
		Kind:          kind,
		Message:       message,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
	}
	if err := db.WithContext(ctx).Create(&n).Error; err != nil {
		config.LogError(logger, "notification.go", "notifyUser", "create notification", n, err)
		return
	}

	if !config.NotificationEventsEnabled() {
		return
	}
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	if _, err := config.PublishNotificationEvent(ctx, config.NotificationEvent{
		UserId:        userId,
		Kind:          string(kind),
		Message:       message,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
		OccurredAt:    time.Now().UTC(),
		CorrelationId: cid,
	}); err != nil {
		logger.WithFields(logrus.Fields{
			"field":   "notifyUser",
			"user_id": userId,
			"kind":    kind,
		}).Warn("failed to publish notification event: " + err.Error())
	}
}

// NotifyUser is the exported entry point for other packages.
func NotifyUser(ctx context.Context, userId int, kind NotificationKind, message, referenceType string, referenceId int) {
	notifyUser(ctx, userId, kind, message, referenceType, referenceId)
}

// notifyAdmins fans a notification out to every admin user.
func notifyAdmins(ctx context.Context, kind NotificationKind, message, referenceType string, referenceId int) {
	db := config.GetDB()

	var adminIds []int
	if err := db.WithContext(ctx).Model(&User{}).Where("role = ?", UserRoleAdmin).Pluck("id", &adminIds).Error; err != nil {
		config.LogError(config.GetLogger(), "notification.go", "notifyAdmins", "list admins", nil, err)
		return
	}
	for _, id := range adminIds {
		notifyUser(ctx, id, kind, message, referenceType, referenceId)
	}
}

func NotifyAdmins(ctx context.Context, kind NotificationKind, message, referenceType string, referenceId int) {
	notifyAdmins(ctx, kind, message, referenceType, referenceId)
}

// ListNotifications returns the session user's notifications, newest first.
func ListNotifications(ctx context.Context, unreadOnly bool, offset, limit int) ([]Notification, int64, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, 0, utils.ErrorRecordNotFound
	}

	query := db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userId)
	if unreadOnly {
		query = query.Where("`read` = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = config.SearchLimit
	}

	var notifications []Notification
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkNotificationRead flips the read flag; users can only touch their own rows.
func MarkNotificationRead(ctx context.Context, id int) error {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return utils.ErrorRecordNotFound
	}

	result := db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
