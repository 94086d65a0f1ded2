package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"github.com/bsm/redislock"
)

// UpdateRequest stages field-level edits against an asset. Nothing in it
// touches the live record until an admin approves.
type UpdateRequest struct {
	RequestedFields []string               `json:"requested_fields" binding:"required"`
	TempValues      map[string]interface{} `json:"temp_values" binding:"required"`
	TempBillFileUrl string                 `json:"temp_bill_file_url"`
}

type ReviewDecision struct {
	Approve  bool   `json:"approve"`
	Remarks  string `json:"remarks"`
	Revision *int   `json:"revision"`
}

// updatableAssetFields are the field names an officer may stage. Keys match
// the asset's JSON field names.
var updatableAssetFields = map[string]bool{
	"department_id":  true,
	"category":       true,
	"item_name":      true,
	"quantity":       true,
	"price_per_item": true,
	"vendor_name":    true,
	"vendor":         true,
	"vendor_address": true,
	"vendor_contact": true,
	"vendor_email":   true,
	"bill_number":    true,
	"bill_date":      true,
	"igst":           true,
	"cgst":           true,
	"sgst":           true,
	"grand_total":    true,
	"items":          true,
}

// validateRequestedFields rejects unknown and repeated field names before
// anything touches the database.
func validateRequestedFields(requested []string) error {
	seen := make(models.StringList, 0, len(requested))
	for _, field := range requested {
		if !updatableAssetFields[field] {
			return fmt.Errorf("field %q cannot be requested for update", field)
		}
		if seen.Contains(field) {
			return fmt.Errorf("field %q requested more than once", field)
		}
		seen = append(seen, field)
	}
	return nil
}

// RequestAssetUpdate moves an asset from none to pending. Requested values
// are written to the staging columns only; live fields stay as they are.
func RequestAssetUpdate(ctx context.Context, assetId int, input *UpdateRequest) (*models.Asset, error) {
	if len(input.RequestedFields) == 0 && input.TempBillFileUrl == "" {
		return nil, errors.New("requested_fields cannot be empty")
	}
	if err := validateRequestedFields(input.RequestedFields); err != nil {
		return nil, err
	}

	asset, err := models.GetAsset(ctx, assetId)
	if err != nil {
		return nil, err
	}
	if asset.UpdateRequestStatus == models.UpdateRequestStatusPending {
		return nil, errors.New("an update request is already pending for this asset")
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	now := time.Now().UTC()

	asset.UpdateRequestStatus = models.UpdateRequestStatusPending
	asset.RequestedFields = models.StringList(input.RequestedFields)
	asset.TempValues = models.JSONMap(input.TempValues)
	asset.TempBillFileUrl = input.TempBillFileUrl
	asset.AdminRemarks = ""
	asset.RequestedBy = userId
	asset.RequestedAt = &now
	asset.ReviewedBy = 0
	asset.ReviewedAt = nil

	if err := models.SaveAssetWithAudit(ctx, asset, false, models.AuditActionRequest,
		fmt.Sprintf("Update requested for asset %q (fields: %v).", asset.ItemName, input.RequestedFields)); err != nil {
		return nil, err
	}

	models.NotifyAdmins(ctx, models.NotificationKindUpdateRequested,
		fmt.Sprintf("Update requested for asset %q.", asset.ItemName), "assets", asset.ID)

	return asset, nil
}

// ReviewAssetUpdate resolves a pending request. A redis lock guards against
// two admins resolving the same request at once; the lock is an optimization,
// the database write remains the source of truth.
func ReviewAssetUpdate(ctx context.Context, assetId int, input *ReviewDecision) (*models.Asset, error) {
	logger := config.GetLogger()

	if locker := config.GetRedisLock(); locker != nil {
		lockKey := fmt.Sprintf("lock:asset-review:%d", assetId)
		lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
		if err == redislock.ErrNotObtained {
			return nil, errors.New("this request is being reviewed by someone else")
		} else if err != nil {
			config.LogError(logger, "approval.go", "ReviewAssetUpdate", "obtain review lock", assetId, err)
		} else {
			defer func() { _ = lock.Release(ctx) }()
		}
	}

	asset, err := models.GetAsset(ctx, assetId)
	if err != nil {
		return nil, err
	}
	if asset.UpdateRequestStatus != models.UpdateRequestStatusPending {
		return nil, errors.New("no pending update request for this asset")
	}
	if err := asset.CheckRevision(input.Revision); err != nil {
		return nil, err
	}

	requestedBy := asset.RequestedBy
	userId, _ := utils.GetUserIdFromContext(ctx)
	now := time.Now().UTC()

	var action, kind, message string
	var replacedBillFileUrl string
	var itemsReplaced bool

	if input.Approve {
		itemsReplaced, err = applyStagedValues(asset, asset.RequestedFields, asset.TempValues)
		if err != nil {
			return nil, err
		}
		if asset.TempBillFileUrl != "" {
			replacedBillFileUrl = asset.BillFileUrl
			asset.BillFileUrl = asset.TempBillFileUrl
		}
		asset.UpdateRequestStatus = models.UpdateRequestStatusApproved
		asset.AdminRemarks = input.Remarks
		action = models.AuditActionApprove
		kind = string(models.NotificationKindUpdateApproved)
		message = fmt.Sprintf("Your update request for asset %q was approved.", asset.ItemName)
	} else {
		asset.UpdateRequestStatus = models.UpdateRequestStatusRejected
		asset.AdminRemarks = input.Remarks
		action = models.AuditActionReject
		kind = string(models.NotificationKindUpdateRejected)
		message = fmt.Sprintf("Your update request for asset %q was rejected.", asset.ItemName)
	}

	asset.RequestedFields = nil
	asset.TempValues = nil
	asset.TempBillFileUrl = ""
	asset.ReviewedBy = userId
	asset.ReviewedAt = &now

	if err := models.SaveAssetWithAudit(ctx, asset, itemsReplaced, action,
		fmt.Sprintf("Update request for asset %q resolved: %s.", asset.ItemName, asset.UpdateRequestStatus)); err != nil {
		return nil, err
	}

	if requestedBy > 0 {
		models.NotifyUser(ctx, requestedBy, models.NotificationKind(kind), message, "assets", asset.ID)
	}

	// The superseded bill object is removed best-effort after the approval
	// is committed.
	if replacedBillFileUrl != "" {
		if key := utils.ExtractObjectKeyFromURL(replacedBillFileUrl); key != "" {
			if err := utils.DeleteFileFromGCS(ctx, key); err != nil {
				config.LogError(logger, "approval.go", "ReviewAssetUpdate", "delete replaced bill file", key, err)
			}
		}
	}

	return asset, nil
}

// applyStagedValues copies staged values into the live asset, one field at a
// time. Values arrive as decoded JSON, so every numeric passes through the
// treat-invalid-as-zero coercion rather than strict parsing. Reports whether
// the item list was replaced.
func applyStagedValues(asset *models.Asset, fields models.StringList, values models.JSONMap) (bool, error) {
	var vendorStaged, vendorNameStaged bool
	var itemsReplaced bool

	for _, field := range fields {
		value, ok := values[field]
		if !ok {
			continue
		}
		switch field {
		case "department_id":
			asset.DepartmentId = utils.IntFromAny(value)
		case "category":
			category := models.AssetCategory(utils.StringFromAny(value))
			if err := category.Validate(); err != nil {
				return false, err
			}
			asset.Category = category
		case "item_name":
			asset.ItemName = utils.StringFromAny(value)
		case "quantity":
			asset.Quantity = utils.DecimalFromAny(value)
		case "price_per_item":
			asset.PricePerItem = utils.DecimalFromAny(value)
		case "vendor_name":
			asset.VendorName = utils.StringFromAny(value)
			vendorNameStaged = true
		case "vendor":
			asset.Vendor = utils.StringFromAny(value)
			vendorStaged = true
		case "vendor_address":
			asset.VendorAddress = utils.StringFromAny(value)
		case "vendor_contact":
			asset.VendorContact = utils.NormalizePhoneNumber(utils.StringFromAny(value))
		case "vendor_email":
			asset.VendorEmail = utils.StringFromAny(value)
		case "bill_number":
			asset.BillNumber = utils.StringFromAny(value)
		case "bill_date":
			parsed, err := parseStagedDate(utils.StringFromAny(value))
			if err != nil {
				return false, err
			}
			asset.BillDate = parsed
		case "igst":
			asset.Igst = utils.DecimalFromAny(value)
		case "cgst":
			asset.Cgst = utils.DecimalFromAny(value)
		case "sgst":
			asset.Sgst = utils.DecimalFromAny(value)
		case "grand_total":
			asset.GrandTotal = utils.DecimalFromAny(value)
		case "items":
			items, err := parseStagedItems(value)
			if err != nil {
				return false, err
			}
			asset.Items = items
			itemsReplaced = true
		}
	}

	// Staging one vendor field clears its twin so the pre-save sync
	// propagates the staged value, mirroring direct edits.
	if vendorNameStaged && !vendorStaged {
		asset.Vendor = ""
	}
	if vendorStaged && !vendorNameStaged {
		asset.VendorName = ""
	}

	return itemsReplaced, nil
}

func parseStagedDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid bill_date %q", raw)
}

func parseStagedItems(value interface{}) ([]models.AssetItem, error) {
	raw, ok := value.([]interface{})
	if !ok {
		return nil, errors.New("staged items must be a list")
	}

	items := make([]models.AssetItem, 0, len(raw))
	for i, entry := range raw {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("staged item %d is not an object", i)
		}
		particulars := utils.StringFromAny(fields["particulars"])
		if particulars == "" {
			return nil, fmt.Errorf("staged item %d is missing particulars", i)
		}
		items = append(items, models.AssetItem{
			Particulars: particulars,
			Quantity:    utils.DecimalFromAny(fields["quantity"]),
			Rate:        utils.DecimalFromAny(fields["rate"]),
			Cgst:        utils.DecimalFromAny(fields["cgst"]),
			Sgst:        utils.DecimalFromAny(fields["sgst"]),
		})
	}
	return items, nil
}
