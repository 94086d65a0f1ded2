package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Asset is one inward-material transaction. Older records carry a single
// item in the flat ItemName/Quantity/PricePerItem fields; newer records use
// the Items list, which takes precedence whenever it is non-empty.
type Asset struct {
	ID           int           `gorm:"primary_key" json:"id"`
	DepartmentId int           `gorm:"index;not null" json:"department_id" binding:"required"`
	Category     AssetCategory `gorm:"type:enum('capital','revenue','consumable');default:capital" json:"category"`

	// legacy single-item shape
	ItemName     string          `gorm:"size:255" json:"item_name"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	PricePerItem decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price_per_item"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`

	VendorName    string `gorm:"size:255" json:"vendor_name"`
	Vendor        string `gorm:"size:255" json:"vendor"`
	VendorAddress string `gorm:"size:500" json:"vendor_address"`
	VendorContact string `gorm:"size:50" json:"vendor_contact"`
	VendorEmail   string `gorm:"size:255" json:"vendor_email"`

	BillNumber  string     `gorm:"size:255" json:"bill_number"`
	BillDate    *time.Time `gorm:"default:null" json:"bill_date"`
	BillFileUrl string     `gorm:"size:500" json:"bill_file_url"`

	Igst       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"igst"`
	Cgst       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cgst"`
	Sgst       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sgst"`
	GrandTotal decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"grand_total"`

	Items []AssetItem `json:"items"`

	// UpdateRequestStatus keeps the last decision: it stays at approved or
	// rejected after review until the next request flips it back to pending.
	UpdateRequestStatus UpdateRequestStatus `gorm:"type:enum('none','pending','approved','rejected');default:none" json:"update_request_status"`
	RequestedFields     StringList          `gorm:"type:text" json:"requested_fields"`
	TempValues          JSONMap             `gorm:"type:text" json:"temp_values"`
	TempBillFileUrl     string              `gorm:"size:500" json:"temp_bill_file_url"`
	AdminRemarks        string              `gorm:"type:text" json:"admin_remarks"`
	RequestedBy         int                 `gorm:"default:0" json:"requested_by"`
	RequestedAt         *time.Time          `gorm:"default:null" json:"requested_at"`
	ReviewedBy          int                 `gorm:"default:0" json:"reviewed_by"`
	ReviewedAt          *time.Time          `gorm:"default:null" json:"reviewed_at"`

	// Revision guards against lost updates: writers pass the revision they
	// read and the save fails when it has moved on.
	Revision int `gorm:"default:0" json:"revision"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AssetItem is one priced line within an asset's bill.
type AssetItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	AssetId     int             `gorm:"index;not null" json:"asset_id"`
	Particulars string          `gorm:"size:255;not null" json:"particulars" binding:"required"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Rate        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rate"`
	Cgst        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cgst"`
	Sgst        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sgst"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"grand_total"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAssetItem struct {
	Particulars string          `json:"particulars" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Cgst        decimal.Decimal `json:"cgst"`
	Sgst        decimal.Decimal `json:"sgst"`
}

type NewAsset struct {
	DepartmentId  int             `json:"department_id" binding:"required"`
	Category      AssetCategory   `json:"category" binding:"required"`
	ItemName      string          `json:"item_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	PricePerItem  decimal.Decimal `json:"price_per_item"`
	VendorName    string          `json:"vendor_name"`
	Vendor        string          `json:"vendor"`
	VendorAddress string          `json:"vendor_address"`
	VendorContact string          `json:"vendor_contact"`
	VendorEmail   string          `json:"vendor_email"`
	BillNumber    string          `json:"bill_number"`
	BillDate      *time.Time      `json:"bill_date"`
	BillFileUrl   string          `json:"bill_file_url"`
	Igst          decimal.Decimal `json:"igst"`
	Cgst          decimal.Decimal `json:"cgst"`
	Sgst          decimal.Decimal `json:"sgst"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Items         []NewAssetItem  `json:"items"`
}

// UpdateAsset carries a partial update; nil fields are left untouched.
// A non-nil Items slice replaces the whole item list.
type UpdateAsset struct {
	DepartmentId  *int             `json:"department_id"`
	Category      *AssetCategory   `json:"category"`
	ItemName      *string          `json:"item_name"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PricePerItem  *decimal.Decimal `json:"price_per_item"`
	VendorName    *string          `json:"vendor_name"`
	Vendor        *string          `json:"vendor"`
	VendorAddress *string          `json:"vendor_address"`
	VendorContact *string          `json:"vendor_contact"`
	VendorEmail   *string          `json:"vendor_email"`
	BillNumber    *string          `json:"bill_number"`
	BillDate      *time.Time       `json:"bill_date"`
	BillFileUrl   *string          `json:"bill_file_url"`
	Igst          *decimal.Decimal `json:"igst"`
	Cgst          *decimal.Decimal `json:"cgst"`
	Sgst          *decimal.Decimal `json:"sgst"`
	GrandTotal    *decimal.Decimal `json:"grand_total"`
	Items         []NewAssetItem   `json:"items"`
	Revision      *int             `json:"revision"`
}

var oneHundred = decimal.NewFromInt(100)

// CalculateAmounts derives the line's amount and grand total:
// amount = quantity * rate; grandTotal = amount * (1 + (cgst+sgst)/100).
func (item *AssetItem) CalculateAmounts() {
	item.Amount = item.Quantity.Mul(item.Rate)
	taxPct := item.Cgst.Add(item.Sgst)
	item.GrandTotal = item.Amount.Add(item.Amount.Mul(taxPct).Div(oneHundred))
}

// ComputeTotals recomputes the asset's aggregates before every write.
//
// When items exist they are authoritative: TotalAmount is the sum of item
// amounts and ItemName mirrors the particulars for clients still reading
// the flat shape. Without items the legacy fields drive the math.
//
// GrandTotal is only derived when the stored value is zero. A caller that
// supplied an explicit non-zero GrandTotal wins, even if inconsistent with
// the items; the fix-totals maintenance pass is the path that forcibly
// reconciles such records.
func (a *Asset) ComputeTotals() {
	a.syncVendorFields()

	if len(a.Items) > 0 {
		var totalAmount, grandTotal decimal.Decimal
		names := make([]string, 0, len(a.Items))
		for i := range a.Items {
			a.Items[i].CalculateAmounts()
			totalAmount = totalAmount.Add(a.Items[i].Amount)
			grandTotal = grandTotal.Add(a.Items[i].GrandTotal)
			names = append(names, a.Items[i].Particulars)
		}
		a.TotalAmount = totalAmount
		a.ItemName = strings.Join(names, ", ")
		if a.GrandTotal.IsZero() {
			a.GrandTotal = grandTotal
		}
		return
	}

	a.TotalAmount = a.Quantity.Mul(a.PricePerItem)
	if a.GrandTotal.IsZero() {
		taxPct := a.Cgst.Add(a.Sgst).Add(a.Igst)
		a.GrandTotal = a.TotalAmount.Add(a.TotalAmount.Mul(taxPct).Div(oneHundred))
	}
}

// ForceRecomputeTotals discards the stored GrandTotal and recomputes it from
// scratch. Only the fix-totals maintenance pass uses this; the save hook
// deliberately keeps explicit values (see ComputeTotals).
func (a *Asset) ForceRecomputeTotals() {
	a.GrandTotal = decimal.Zero
	a.ComputeTotals()
}

func (a *Asset) syncVendorFields() {
	if a.VendorName == "" && a.Vendor != "" {
		a.VendorName = a.Vendor
	}
	if a.Vendor == "" && a.VendorName != "" {
		a.Vendor = a.VendorName
	}
}

// validateAmounts rejects negative money fields. Missing or malformed
// numbers have already been coerced to zero further up; only genuinely
// negative input fails here.
func (a *Asset) validateAmounts() error {
	if a.Quantity.IsNegative() || a.PricePerItem.IsNegative() {
		return errors.New("quantity and price_per_item cannot be negative")
	}
	if a.Igst.IsNegative() || a.Cgst.IsNegative() || a.Sgst.IsNegative() {
		return errors.New("tax percentages cannot be negative")
	}
	for i := range a.Items {
		item := &a.Items[i]
		if item.Quantity.IsNegative() || item.Rate.IsNegative() {
			return fmt.Errorf("item %q: quantity and rate cannot be negative", item.Particulars)
		}
		if item.Cgst.IsNegative() || item.Sgst.IsNegative() {
			return fmt.Errorf("item %q: tax percentages cannot be negative", item.Particulars)
		}
	}
	return nil
}

// BeforeSave keeps the legacy and multi-item shapes synchronized and
// recomputes totals on every create/update. A validation failure here
// aborts the write.
func (a *Asset) BeforeSave(tx *gorm.DB) error {
	if err := a.validateAmounts(); err != nil {
		return err
	}
	a.ComputeTotals()
	a.Revision++
	return nil
}

// CheckRevision rejects a write when the caller read an older revision.
// A nil expected revision opts out of the check.
func (a *Asset) CheckRevision(expected *int) error {
	if expected != nil && *expected != a.Revision {
		return utils.ErrorStaleWrite
	}
	return nil
}

func (input NewAsset) validate(ctx context.Context) error {
	if err := input.Category.Validate(); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Department](ctx, input.DepartmentId); err != nil {
		return errors.New("department not found")
	}
	if input.VendorEmail != "" && !utils.IsValidEmail(input.VendorEmail) {
		return errors.New("invalid vendor email")
	}
	return nil
}

func mapNewAssetItems(input []NewAssetItem) []AssetItem {
	items := make([]AssetItem, 0, len(input))
	for _, i := range input {
		items = append(items, AssetItem{
			Particulars: i.Particulars,
			Quantity:    i.Quantity,
			Rate:        i.Rate,
			Cgst:        i.Cgst,
			Sgst:        i.Sgst,
		})
	}
	return items
}

func CreateAsset(ctx context.Context, input *NewAsset) (*Asset, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	asset := Asset{
		DepartmentId:  input.DepartmentId,
		Category:      input.Category,
		ItemName:      input.ItemName,
		Quantity:      input.Quantity,
		PricePerItem:  input.PricePerItem,
		VendorName:    input.VendorName,
		Vendor:        input.Vendor,
		VendorAddress: input.VendorAddress,
		VendorContact: utils.NormalizePhoneNumber(input.VendorContact),
		VendorEmail:   input.VendorEmail,
		BillNumber:    input.BillNumber,
		BillDate:      input.BillDate,
		BillFileUrl:   input.BillFileUrl,
		Igst:          input.Igst,
		Cgst:          input.Cgst,
		Sgst:          input.Sgst,
		GrandTotal:    input.GrandTotal,
		Items:         mapNewAssetItems(input.Items),
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	// Always rollback on early-return or panic to avoid leaking DB locks.
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Create(&asset).Error; err != nil {
		return nil, err
	}

	if err := createAuditLog(tx, AuditActionCreate, asset.ID, "assets", nil, asset,
		fmt.Sprintf("Asset %q created for department %d.", asset.ItemName, asset.DepartmentId)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	notifyAdmins(ctx, NotificationKindAssetCreated,
		fmt.Sprintf("New %s asset %q recorded.", asset.Category, asset.ItemName), "assets", asset.ID)

	return &asset, nil
}

func (input UpdateAsset) apply(a *Asset) {
	if input.DepartmentId != nil {
		a.DepartmentId = *input.DepartmentId
	}
	if input.Category != nil {
		a.Category = *input.Category
	}
	if input.ItemName != nil {
		a.ItemName = *input.ItemName
	}
	if input.Quantity != nil {
		a.Quantity = *input.Quantity
	}
	if input.PricePerItem != nil {
		a.PricePerItem = *input.PricePerItem
	}
	if input.VendorName != nil {
		a.VendorName = *input.VendorName
		a.Vendor = ""
	}
	if input.Vendor != nil {
		a.Vendor = *input.Vendor
		if input.VendorName == nil {
			a.VendorName = ""
		}
	}
	if input.VendorAddress != nil {
		a.VendorAddress = *input.VendorAddress
	}
	if input.VendorContact != nil {
		a.VendorContact = utils.NormalizePhoneNumber(*input.VendorContact)
	}
	if input.VendorEmail != nil {
		a.VendorEmail = *input.VendorEmail
	}
	if input.BillNumber != nil {
		a.BillNumber = *input.BillNumber
	}
	if input.BillDate != nil {
		a.BillDate = input.BillDate
	}
	if input.BillFileUrl != nil {
		a.BillFileUrl = *input.BillFileUrl
	}
	if input.Igst != nil {
		a.Igst = *input.Igst
	}
	if input.Cgst != nil {
		a.Cgst = *input.Cgst
	}
	if input.Sgst != nil {
		a.Sgst = *input.Sgst
	}
	if input.GrandTotal != nil {
		// Explicit grand total wins; sending zero re-arms derivation.
		a.GrandTotal = *input.GrandTotal
	}
	if input.Items != nil {
		a.Items = mapNewAssetItems(input.Items)
	}
}

func EditAsset(ctx context.Context, id int, input *UpdateAsset) (*Asset, error) {
	db := config.GetDB()

	var asset Asset
	if err := db.WithContext(ctx).Preload("Items", itemOrder).First(&asset, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := asset.CheckRevision(input.Revision); err != nil {
		return nil, err
	}
	if input.Category != nil {
		if err := input.Category.Validate(); err != nil {
			return nil, err
		}
	}
	if input.DepartmentId != nil {
		if err := utils.ValidateResourceId[Department](ctx, *input.DepartmentId); err != nil {
			return nil, errors.New("department not found")
		}
	}
	if input.VendorEmail != nil && *input.VendorEmail != "" && !utils.IsValidEmail(*input.VendorEmail) {
		return nil, errors.New("invalid vendor email")
	}

	before := asset

	tx := db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if input.Items != nil {
		if err := tx.Where("asset_id = ?", id).Delete(&AssetItem{}).Error; err != nil {
			return nil, err
		}
	}

	input.apply(&asset)

	if err := tx.Save(&asset).Error; err != nil {
		return nil, err
	}

	if err := createAuditLog(tx, AuditActionUpdate, asset.ID, "assets", before, asset,
		fmt.Sprintf("Asset %q updated.", asset.ItemName)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &asset, nil
}

// DeleteAsset removes an asset and its items. The audit log entry is written
// in the same transaction; an asset is never deleted without one.
func DeleteAsset(ctx context.Context, id int) error {
	db := config.GetDB()

	var asset Asset
	if err := db.WithContext(ctx).Preload("Items", itemOrder).First(&asset, id).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	tx := db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Where("asset_id = ?", id).Delete(&AssetItem{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&asset).Error; err != nil {
		return err
	}
	if err := createAuditLog(tx, AuditActionDelete, asset.ID, "assets", asset, nil,
		fmt.Sprintf("Asset %q deleted.", asset.ItemName)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	// The bill file is removed best-effort after commit; an orphaned object
	// is cheaper than a dangling DB reference.
	if asset.BillFileUrl != "" {
		if key := utils.ExtractObjectKeyFromURL(asset.BillFileUrl); key != "" {
			if err := utils.DeleteFileFromGCS(ctx, key); err != nil {
				config.LogError(config.GetLogger(), "asset.go", "DeleteAsset", "delete bill file", key, err)
			}
		}
	}

	return nil
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("asset_items.id ASC")
}

func GetAsset(ctx context.Context, id int) (*Asset, error) {
	db := config.GetDB()

	var asset Asset
	if err := db.WithContext(ctx).Preload("Items", itemOrder).First(&asset, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &asset, nil
}

// AssetFilter narrows asset listings.
type AssetFilter struct {
	DepartmentId int
	Category     AssetCategory
	FromDate     *time.Time
	ToDate       *time.Time
	Offset       int
	Limit        int
}

func PaginateAssets(ctx context.Context, filter AssetFilter) ([]Asset, int64, error) {
	db := config.GetDB()

	query := db.WithContext(ctx).Model(&Asset{})
	if filter.DepartmentId > 0 {
		query = query.Where("department_id = ?", filter.DepartmentId)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FromDate != nil {
		query = query.Where("bill_date >= ?", filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("bill_date <= ?", filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = config.SearchLimit
	}

	var assets []Asset
	err := query.
		Preload("Items", itemOrder).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&assets).Error
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// SaveAssetWithAudit persists an already-mutated asset together with its
// audit entry in one transaction. When replaceItems is true the stored item
// rows are dropped first and the in-memory list inserted fresh; otherwise
// existing items are updated in place.
func SaveAssetWithAudit(ctx context.Context, asset *Asset, replaceItems bool, actionType, description string) error {
	db := config.GetDB()

	var before Asset
	if err := db.WithContext(ctx).Preload("Items", itemOrder).First(&before, asset.ID).Error; err != nil {
		return utils.ErrorRecordNotFound
	}

	tx := db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if replaceItems {
		if err := tx.Where("asset_id = ?", asset.ID).Delete(&AssetItem{}).Error; err != nil {
			return err
		}
		for i := range asset.Items {
			asset.Items[i].ID = 0
			asset.Items[i].AssetId = asset.ID
		}
	}

	if err := tx.Save(asset).Error; err != nil {
		return err
	}
	if err := createAuditLog(tx, actionType, asset.ID, "assets", before, asset, description); err != nil {
		return err
	}

	return tx.Commit().Error
}
