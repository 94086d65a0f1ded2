package models

import "errors"

type AssetCategory string

const (
	AssetCategoryCapital    AssetCategory = "capital"
	AssetCategoryRevenue    AssetCategory = "revenue"
	AssetCategoryConsumable AssetCategory = "consumable"
)

func (c AssetCategory) Validate() error {
	switch c {
	case AssetCategoryCapital, AssetCategoryRevenue, AssetCategoryConsumable:
		return nil
	}
	return errors.New("invalid asset category")
}

type UpdateRequestStatus string

const (
	UpdateRequestStatusNone     UpdateRequestStatus = "none"
	UpdateRequestStatusPending  UpdateRequestStatus = "pending"
	UpdateRequestStatusApproved UpdateRequestStatus = "approved"
	UpdateRequestStatusRejected UpdateRequestStatus = "rejected"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleOfficer UserRole = "department-officer"
	UserRoleViewer  UserRole = "viewer"
)

func (r UserRole) Validate() error {
	switch r {
	case UserRoleAdmin, UserRoleOfficer, UserRoleViewer:
		return nil
	}
	return errors.New("invalid user role")
}

type DepartmentType string

const (
	DepartmentTypeAcademic       DepartmentType = "academic"
	DepartmentTypeAdministrative DepartmentType = "administrative"
	DepartmentTypeSupport        DepartmentType = "support"
)

func (t DepartmentType) Validate() error {
	switch t {
	case DepartmentTypeAcademic, DepartmentTypeAdministrative, DepartmentTypeSupport:
		return nil
	}
	return errors.New("invalid department type")
}

type AnnouncementAudience string

const (
	AnnouncementAudienceAll      AnnouncementAudience = "all"
	AnnouncementAudienceAdmins   AnnouncementAudience = "admins"
	AnnouncementAudienceOfficers AnnouncementAudience = "officers"
)

func (a AnnouncementAudience) Validate() error {
	switch a {
	case AnnouncementAudienceAll, AnnouncementAudienceAdmins, AnnouncementAudienceOfficers:
		return nil
	}
	return errors.New("invalid announcement audience")
}

type NotificationKind string

const (
	NotificationKindAssetCreated    NotificationKind = "asset-created"
	NotificationKindUpdateRequested NotificationKind = "update-requested"
	NotificationKindUpdateApproved  NotificationKind = "update-approved"
	NotificationKindUpdateRejected  NotificationKind = "update-rejected"
	NotificationKindAnnouncement    NotificationKind = "announcement"
)

// Audit log action types.
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionDelete  = "DELETE"
	AuditActionRequest = "REQUEST"
	AuditActionApprove = "APPROVE"
	AuditActionReject  = "REJECT"
)
