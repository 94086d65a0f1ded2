package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

var assetExportHeaders = []string{
	"ID", "Department", "Category", "ItemName", "Quantity", "PricePerItem",
	"TotalAmount", "Vendor", "BillNumber", "BillDate",
	"IGST", "CGST", "SGST", "GrandTotal", "Status",
}

// exportAssetsHandler streams the asset register as .xlsx. Export reads the
// full filtered set in pages; no row cap beyond what the DB returns.
func exportAssetsHandler() gin.HandlerFunc {
	logger := config.GetLogger()

	return func(c *gin.Context) {
		filter := models.AssetFilter{
			Category: models.AssetCategory(c.Query("category")),
			Limit:    100,
		}
		filter.DepartmentId, _ = strconv.Atoi(c.Query("department_id"))
		if v := c.Query("from"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				filter.FromDate = &t
			}
		}
		if v := c.Query("to"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				filter.ToDate = &t
			}
		}

		departments, err := models.ListDepartments(c.Request.Context())
		if err != nil {
			respondModelError(c, err)
			return
		}
		departmentNames := make(map[int]string, len(departments))
		for _, d := range departments {
			departmentNames[d.ID] = d.Name
		}

		f := excelize.NewFile()
		if _, err := f.NewSheet(exportSheet); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sheet"})
			return
		}

		for i, header := range assetExportHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(exportSheet, cell, header)
		}

		row := 2
		for {
			assets, _, err := models.PaginateAssets(c.Request.Context(), filter)
			if err != nil {
				config.LogError(logger, "reports.go", "exportAssetsHandler", "paginate assets", filter, err)
				respondModelError(c, err)
				return
			}
			if len(assets) == 0 {
				break
			}

			for i := range assets {
				a := &assets[i]
				billDate := ""
				if a.BillDate != nil {
					billDate = a.BillDate.Format("2006-01-02")
				}
				values := []interface{}{
					a.ID, departmentNames[a.DepartmentId], string(a.Category), a.ItemName,
					a.Quantity.String(), a.PricePerItem.String(),
					a.TotalAmount.String(), a.VendorName, a.BillNumber, billDate,
					a.Igst.String(), a.Cgst.String(), a.Sgst.String(),
					a.GrandTotal.String(), string(a.UpdateRequestStatus),
				}
				for col, v := range values {
					cell, _ := excelize.CoordinatesToCellName(col+1, row)
					f.SetCellValue(exportSheet, cell, v)
				}
				row++
			}

			if len(assets) < filter.Limit {
				break
			}
			filter.Offset += len(assets)
		}

		filename := fmt.Sprintf("assets-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			config.LogError(logger, "reports.go", "exportAssetsHandler", "write xlsx", filename, err)
		}
	}
}
