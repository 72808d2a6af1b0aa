package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/amarsreevishnu/greennestPlants/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// InventoryImport counts what an inventory sheet changed.
type InventoryImport struct {
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportInventory applies the price and stock columns of the first sheet to
// existing variants. Rows with an unknown variant or bad numbers are skipped.
func ImportInventory(db *gorm.DB, xlFile *xlsx.File) (InventoryImport, error) {
	var res InventoryImport
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return res, models.ErrValidation
	}
	sheet := xlFile.Sheets[0]

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			get := func(index int) string {
				if row != nil && index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			skip := func(reason string) {
				res.Skipped++
				res.Errors = append(res.Errors, "row "+strconv.Itoa(i+1)+": "+reason)
			}

			id, err := strconv.ParseUint(get(colVariantID), 10, 64)
			if err != nil {
				skip("invalid variant id")
				continue
			}
			price, err := decimal.NewFromString(get(colPrice))
			if err != nil || !price.IsPositive() {
				skip("invalid price")
				continue
			}
			stock, err := strconv.Atoi(get(colStock))
			if err != nil || stock < 0 {
				skip("invalid stock")
				continue
			}

			var n int64
			if err := tx.Model(&models.ProductVariant{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				skip("unknown variant")
				continue
			}
			if err := tx.Model(&models.ProductVariant{}).Where("id = ?", id).
				Updates(map[string]interface{}{"price": pricing.Round(price), "stock": stock}).Error; err != nil {
				return err
			}
			res.Updated++
		}
		return nil
	})
	return res, err
}

// POST /admin/products/import
func ImportInventoryFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		res, err := ImportInventory(db, xlFile)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
				return
			}
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, res)
	}
}
