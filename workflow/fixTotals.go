package workflow

import (
	"context"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"gorm.io/gorm"
)

const fixTotalsBatchSize = 100

// FixTotalsResult summarizes one fix-totals pass.
type FixTotalsResult struct {
	Scanned int  `json:"scanned"`
	Changed int  `json:"changed"`
	Failed  int  `json:"failed"`
	DryRun  bool `json:"dry_run"`
}

// FixAssetTotals walks assets (optionally scoped to one department) and
// forcibly recomputes TotalAmount and GrandTotal from the item list,
// overwriting explicitly stored values. This deliberately ignores the save
// hook's keep-if-set rule: the hook preserves operator overrides, this pass
// reconciles historical records against the arithmetic.
func FixAssetTotals(ctx context.Context, departmentId int, dryRun bool) (*FixTotalsResult, error) {
	db := config.GetDB()
	logger := config.GetLogger()
	result := &FixTotalsResult{DryRun: dryRun}

	lastId := 0
	for {
		query := db.WithContext(ctx).
			Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("asset_items.id ASC") }).
			Where("id > ?", lastId).
			Order("id ASC").
			Limit(fixTotalsBatchSize)
		if departmentId > 0 {
			query = query.Where("department_id = ?", departmentId)
		}

		var assets []models.Asset
		if err := query.Find(&assets).Error; err != nil {
			return result, err
		}
		if len(assets) == 0 {
			return result, nil
		}

		for i := range assets {
			asset := &assets[i]
			lastId = asset.ID
			result.Scanned++

			oldTotal := asset.TotalAmount
			oldGrand := asset.GrandTotal
			asset.ForceRecomputeTotals()

			if asset.TotalAmount.Equal(oldTotal) && asset.GrandTotal.Equal(oldGrand) {
				continue
			}
			result.Changed++
			if dryRun {
				logger.WithField("asset_id", asset.ID).
					WithField("old_grand_total", oldGrand.String()).
					WithField("new_grand_total", asset.GrandTotal.String()).
					Info("fix-totals: would update")
				continue
			}

			if err := db.WithContext(ctx).Save(asset).Error; err != nil {
				result.Failed++
				config.LogError(logger, "fixTotals.go", "FixAssetTotals", "save recomputed asset", asset.ID, err)
				continue
			}
		}

		if len(assets) < fixTotalsBatchSize {
			return result, nil
		}
	}
}
