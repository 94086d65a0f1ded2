package models

import (
	"context"
	"fmt"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"gorm.io/gorm"
)

type Announcement struct {
	ID        int                  `gorm:"primary_key" json:"id"`
	Title     string               `gorm:"size:255;not null" json:"title" binding:"required"`
	Body      string               `gorm:"type:text;not null" json:"body" binding:"required"`
	Audience  AnnouncementAudience `gorm:"type:enum('all','admins','officers');default:all" json:"audience"`
	CreatedBy int                  `gorm:"index" json:"created_by"`
	CreatedAt time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAnnouncement struct {
	Title    string               `json:"title" binding:"required"`
	Body     string               `json:"body" binding:"required"`
	Audience AnnouncementAudience `json:"audience"`
}

func audienceRoles(audience AnnouncementAudience) []UserRole {
	switch audience {
	case AnnouncementAudienceAdmins:
		return []UserRole{UserRoleAdmin}
	case AnnouncementAudienceOfficers:
		return []UserRole{UserRoleOfficer}
	default:
		return []UserRole{UserRoleAdmin, UserRoleOfficer, UserRoleViewer}
	}
}

// fanOutAnnouncement writes a notification row for every user in the
// announcement's audience. Runs after the announcement commit so a slow
// fan-out never holds the row lock.
func fanOutAnnouncement(ctx context.Context, announcement *Announcement) {
	db := config.GetDB()

	var userIds []int
	err := db.WithContext(ctx).Model(&User{}).
		Where("role IN ? AND is_active = true", audienceRoles(announcement.Audience)).
		Pluck("id", &userIds).Error
	if err != nil {
		config.LogError(config.GetLogger(), "models", "fanOutAnnouncement", "pluck audience", announcement.ID, err)
		return
	}

	message := fmt.Sprintf("Announcement: %s", announcement.Title)
	for _, userId := range userIds {
		notifyUser(ctx, userId, NotificationKindAnnouncement, message, "announcement", announcement.ID)
	}
}

func CreateAnnouncement(ctx context.Context, input *NewAnnouncement) (*Announcement, error) {
	if input.Audience == "" {
		input.Audience = AnnouncementAudienceAll
	}
	if err := input.Audience.Validate(); err != nil {
		return nil, err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	announcement := Announcement{
		Title:     input.Title,
		Body:      input.Body,
		Audience:  input.Audience,
		CreatedBy: userId,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&announcement).Error; err != nil {
			return err
		}
		return createAuditLog(tx, AuditActionCreate, announcement.ID, "announcement", nil, announcement, "announcement published")
	})
	if err != nil {
		return nil, err
	}

	fanOutAnnouncement(ctx, &announcement)
	return &announcement, nil
}

func GetAnnouncement(ctx context.Context, id int) (*Announcement, error) {
	db := config.GetDB()

	var announcement Announcement
	if err := db.WithContext(ctx).First(&announcement, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &announcement, nil
}

func ListAnnouncements(ctx context.Context, offset, limit int) ([]Announcement, int64, error) {
	db := config.GetDB()
	if limit <= 0 || limit > config.SearchLimit {
		limit = config.SearchLimit
	}

	query := db.WithContext(ctx).Model(&Announcement{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var announcements []Announcement
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&announcements).Error
	if err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

func DeleteAnnouncement(ctx context.Context, id int) error {
	db := config.GetDB()

	var announcement Announcement
	if err := db.WithContext(ctx).First(&announcement, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&announcement).Error; err != nil {
			return err
		}
		return createAuditLog(tx, AuditActionDelete, announcement.ID, "announcement", announcement, nil, "announcement removed")
	})
}
