package workflow

import (
	"testing"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyStagedValues_CopiesOnlyStagedFields(t *testing.T) {
	asset := &models.Asset{
		ItemName:   "Projector",
		BillNumber: "INV-001",
		Quantity:   dec("2"),
	}

	_, err := applyStagedValues(asset,
		models.StringList{"bill_number", "quantity"},
		models.JSONMap{
			"bill_number": "INV-002",
			"quantity":    float64(5),
			"item_name":   "should be ignored, not staged",
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if asset.BillNumber != "INV-002" {
		t.Fatalf("expected staged bill number, got %q", asset.BillNumber)
	}
	if !asset.Quantity.Equal(dec("5")) {
		t.Fatalf("expected staged quantity 5, got %s", asset.Quantity)
	}
	if asset.ItemName != "Projector" {
		t.Fatalf("unstaged field must be untouched, got %q", asset.ItemName)
	}
}

func TestApplyStagedValues_CoercesInvalidNumericsToZero(t *testing.T) {
	asset := &models.Asset{Quantity: dec("3"), Cgst: dec("9")}

	_, err := applyStagedValues(asset,
		models.StringList{"quantity", "cgst"},
		models.JSONMap{
			"quantity": "not a number",
			"cgst":     nil,
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !asset.Quantity.IsZero() {
		t.Fatalf("invalid quantity must coerce to zero, got %s", asset.Quantity)
	}
	if !asset.Cgst.IsZero() {
		t.Fatalf("nil cgst must coerce to zero, got %s", asset.Cgst)
	}
}

func TestApplyStagedValues_ParsesItems(t *testing.T) {
	asset := &models.Asset{}

	itemsReplaced, err := applyStagedValues(asset,
		models.StringList{"items"},
		models.JSONMap{
			"items": []interface{}{
				map[string]interface{}{
					"particulars": "Desk",
					"quantity":    float64(2),
					"rate":        "100",
					"cgst":        float64(9),
					"sgst":        float64(9),
				},
			},
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !itemsReplaced {
		t.Fatal("expected items to be reported as replaced")
	}
	if len(asset.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(asset.Items))
	}

	item := asset.Items[0]
	if item.Particulars != "Desk" {
		t.Fatalf("expected particulars Desk, got %q", item.Particulars)
	}
	if !item.Quantity.Equal(dec("2")) || !item.Rate.Equal(dec("100")) {
		t.Fatalf("expected qty 2 rate 100, got %s / %s", item.Quantity, item.Rate)
	}

	asset.ComputeTotals()
	if !asset.GrandTotal.Equal(dec("236")) {
		t.Fatalf("expected grand total 236 after recompute, got %s", asset.GrandTotal)
	}
}

func TestApplyStagedValues_ItemMissingParticularsFails(t *testing.T) {
	asset := &models.Asset{}

	_, err := applyStagedValues(asset,
		models.StringList{"items"},
		models.JSONMap{
			"items": []interface{}{
				map[string]interface{}{"quantity": float64(1), "rate": float64(10)},
			},
		})
	if err == nil {
		t.Fatal("expected error for item without particulars")
	}
}

func TestApplyStagedValues_VendorTwinCleared(t *testing.T) {
	asset := &models.Asset{Vendor: "Old Vendor", VendorName: "Old Vendor"}

	_, err := applyStagedValues(asset,
		models.StringList{"vendor_name"},
		models.JSONMap{"vendor_name": "New Vendor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.Vendor != "" {
		t.Fatalf("legacy vendor field must be cleared for re-sync, got %q", asset.Vendor)
	}

	asset.ComputeTotals()
	if asset.Vendor != "New Vendor" {
		t.Fatalf("expected vendor to re-sync to New Vendor, got %q", asset.Vendor)
	}
}

func TestApplyStagedValues_InvalidCategoryFails(t *testing.T) {
	asset := &models.Asset{Category: models.AssetCategoryCapital}

	_, err := applyStagedValues(asset,
		models.StringList{"category"},
		models.JSONMap{"category": "luxury"})
	if err == nil {
		t.Fatal("expected error for invalid category")
	}
	if asset.Category != models.AssetCategoryCapital {
		t.Fatalf("category must be untouched on failure, got %q", asset.Category)
	}
}

func TestApplyStagedValues_BillDateFormats(t *testing.T) {
	asset := &models.Asset{}

	_, err := applyStagedValues(asset,
		models.StringList{"bill_date"},
		models.JSONMap{"bill_date": "2026-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.BillDate == nil || asset.BillDate.Format("2006-01-02") != "2026-03-15" {
		t.Fatalf("expected bill date 2026-03-15, got %v", asset.BillDate)
	}

	_, err = applyStagedValues(asset,
		models.StringList{"bill_date"},
		models.JSONMap{"bill_date": "15/03/2026"})
	if err == nil {
		t.Fatal("expected error for unsupported date format")
	}
}

func TestApplyStagedValues_MissingValueSkipped(t *testing.T) {
	asset := &models.Asset{BillNumber: "INV-001"}

	_, err := applyStagedValues(asset,
		models.StringList{"bill_number"},
		models.JSONMap{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.BillNumber != "INV-001" {
		t.Fatalf("field without a staged value must be untouched, got %q", asset.BillNumber)
	}
}

func TestValidateRequestedFields(t *testing.T) {
	if err := validateRequestedFields([]string{"bill_number", "quantity"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := validateRequestedFields([]string{"no_such_field"}); err == nil {
		t.Fatal("expected error for unknown field")
	}

	if err := validateRequestedFields([]string{"quantity", "quantity"}); err == nil {
		t.Fatal("expected error for repeated field")
	}
}
