package models

import (
	"testing"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateAmounts_ItemMath(t *testing.T) {
	item := AssetItem{
		Particulars: "Projector",
		Quantity:    dec("2"),
		Rate:        dec("100"),
		Cgst:        dec("9"),
		Sgst:        dec("9"),
	}
	item.CalculateAmounts()

	if !item.Amount.Equal(dec("200")) {
		t.Fatalf("expected amount 200, got %s", item.Amount)
	}
	if !item.GrandTotal.Equal(dec("236")) {
		t.Fatalf("expected grand total 236, got %s", item.GrandTotal)
	}
}

func TestComputeTotals_ItemsDriveAggregates(t *testing.T) {
	asset := Asset{
		Items: []AssetItem{
			{Particulars: "Desk", Quantity: dec("2"), Rate: dec("100"), Cgst: dec("9"), Sgst: dec("9")},
			{Particulars: "Chair", Quantity: dec("4"), Rate: dec("50"), Cgst: dec("9"), Sgst: dec("9")},
		},
	}
	asset.ComputeTotals()

	if !asset.TotalAmount.Equal(dec("400")) {
		t.Fatalf("expected total amount 400, got %s", asset.TotalAmount)
	}
	if !asset.GrandTotal.Equal(dec("472")) {
		t.Fatalf("expected grand total 472, got %s", asset.GrandTotal)
	}
	if asset.ItemName != "Desk, Chair" {
		t.Fatalf("expected item name to mirror particulars, got %q", asset.ItemName)
	}
}

func TestComputeTotals_LegacyShape(t *testing.T) {
	asset := Asset{
		Quantity:     dec("5"),
		PricePerItem: dec("20"),
		Cgst:         dec("9"),
		Sgst:         dec("9"),
		Igst:         dec("0"),
	}
	asset.ComputeTotals()

	if !asset.TotalAmount.Equal(dec("100")) {
		t.Fatalf("expected total amount 100, got %s", asset.TotalAmount)
	}
	if !asset.GrandTotal.Equal(dec("118")) {
		t.Fatalf("expected grand total 118, got %s", asset.GrandTotal)
	}
}

func TestComputeTotals_LegacyIgstIncluded(t *testing.T) {
	asset := Asset{
		Quantity:     dec("1"),
		PricePerItem: dec("100"),
		Igst:         dec("18"),
	}
	asset.ComputeTotals()

	if !asset.GrandTotal.Equal(dec("118")) {
		t.Fatalf("expected grand total 118 with igst, got %s", asset.GrandTotal)
	}
}

func TestComputeTotals_ExplicitGrandTotalWins(t *testing.T) {
	asset := Asset{
		GrandTotal: dec("999"),
		Items: []AssetItem{
			{Particulars: "Desk", Quantity: dec("2"), Rate: dec("100"), Cgst: dec("9"), Sgst: dec("9")},
		},
	}
	asset.ComputeTotals()

	if !asset.GrandTotal.Equal(dec("999")) {
		t.Fatalf("explicit grand total must survive, got %s", asset.GrandTotal)
	}
	// Item-level derivations and the total amount still run.
	if !asset.TotalAmount.Equal(dec("200")) {
		t.Fatalf("expected total amount 200, got %s", asset.TotalAmount)
	}
	if !asset.Items[0].GrandTotal.Equal(dec("236")) {
		t.Fatalf("expected item grand total 236, got %s", asset.Items[0].GrandTotal)
	}
}

func TestComputeTotals_ZeroGrandTotalRearmsDerivation(t *testing.T) {
	asset := Asset{
		GrandTotal: decimal.Zero,
		Items: []AssetItem{
			{Particulars: "Desk", Quantity: dec("2"), Rate: dec("100"), Cgst: dec("9"), Sgst: dec("9")},
		},
	}
	asset.ComputeTotals()

	if !asset.GrandTotal.Equal(dec("236")) {
		t.Fatalf("zero grand total must re-arm derivation, got %s", asset.GrandTotal)
	}
}

func TestForceRecomputeTotals_OverwritesExplicitValue(t *testing.T) {
	asset := Asset{
		GrandTotal: dec("999"),
		Items: []AssetItem{
			{Particulars: "Desk", Quantity: dec("2"), Rate: dec("100"), Cgst: dec("9"), Sgst: dec("9")},
		},
	}
	asset.ForceRecomputeTotals()

	if !asset.GrandTotal.Equal(dec("236")) {
		t.Fatalf("force recompute must overwrite explicit value, got %s", asset.GrandTotal)
	}
}

func TestSyncVendorFields_BothDirections(t *testing.T) {
	a := Asset{VendorName: "Acme Supplies"}
	a.ComputeTotals()
	if a.Vendor != "Acme Supplies" {
		t.Fatalf("vendor should mirror vendor name, got %q", a.Vendor)
	}

	b := Asset{Vendor: "Acme Supplies"}
	b.ComputeTotals()
	if b.VendorName != "Acme Supplies" {
		t.Fatalf("vendor name should mirror vendor, got %q", b.VendorName)
	}
}

func TestBeforeSave_RejectsNegativeAmounts(t *testing.T) {
	cases := []struct {
		name  string
		asset Asset
	}{
		{"negative quantity", Asset{Quantity: dec("-1")}},
		{"negative tax", Asset{Sgst: dec("-9")}},
		{"negative item rate", Asset{Items: []AssetItem{
			{Particulars: "Desk", Quantity: dec("1"), Rate: dec("-5")},
		}}},
	}
	for _, tc := range cases {
		asset := tc.asset
		if err := asset.BeforeSave(nil); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestBeforeSave_BumpsRevision(t *testing.T) {
	asset := Asset{Revision: 3, Quantity: dec("1"), PricePerItem: dec("10")}
	if err := asset.BeforeSave(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.Revision != 4 {
		t.Fatalf("expected revision 4, got %d", asset.Revision)
	}
}

func TestComputeTotals_SumOfAmountsEqualsTotalAmount(t *testing.T) {
	asset := Asset{
		Items: []AssetItem{
			{Particulars: "A", Quantity: dec("1.5"), Rate: dec("33.33")},
			{Particulars: "B", Quantity: dec("7"), Rate: dec("0.01"), Cgst: dec("2.5"), Sgst: dec("2.5")},
			{Particulars: "C", Quantity: dec("100"), Rate: dec("9.99"), Cgst: dec("14"), Sgst: dec("14")},
		},
	}
	asset.ComputeTotals()

	var sum decimal.Decimal
	for _, item := range asset.Items {
		sum = sum.Add(item.Amount)
	}
	if !asset.TotalAmount.Equal(sum) {
		t.Fatalf("total amount %s != sum of item amounts %s", asset.TotalAmount, sum)
	}
}

func TestCheckRevision_StaleWriteRejected(t *testing.T) {
	asset := Asset{Revision: 3}

	stale := 2
	if err := asset.CheckRevision(&stale); err != utils.ErrorStaleWrite {
		t.Fatalf("expected stale-write error, got %v", err)
	}

	current := 3
	if err := asset.CheckRevision(&current); err != nil {
		t.Fatalf("matching revision must pass, got %v", err)
	}

	if err := asset.CheckRevision(nil); err != nil {
		t.Fatalf("nil revision opts out of the check, got %v", err)
	}
}

func TestCheckRevision_StaleAfterSave(t *testing.T) {
	asset := Asset{
		ItemName:     "Printer",
		Quantity:     dec("1"),
		PricePerItem: dec("100"),
	}
	readRevision := asset.Revision

	if err := asset.BeforeSave(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := asset.CheckRevision(&readRevision); err != utils.ErrorStaleWrite {
		t.Fatalf("revision read before a save must be stale, got %v", err)
	}
}
