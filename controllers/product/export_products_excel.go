package productcontroller

import (
	"bytes"
	"io"
	"net/http"

	"github.com/amarsreevishnu/greennestPlants/controllers/respond"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// inventoryHeaders is shared by the export and the import; the import reads
// the VariantID, Price and Stock columns.
var inventoryHeaders = []string{
	"VariantID", "ProductID", "Product", "Category", "VariantType", "Price", "Stock", "Active",
}

const (
	colVariantID = 0
	colPrice     = 5
	colStock     = 6
)

// WriteInventory writes one row per variant, including inactive ones.
func WriteInventory(db *gorm.DB, w io.Writer) error {
	var variants []models.ProductVariant
	if err := db.Preload("Product.Category").Order("product_id, id").Find(&variants).Error; err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return err
	}

	// Header row
	headerRow := sheet.AddRow()
	for _, h := range inventoryHeaders {
		headerRow.AddCell().SetValue(h)
	}

	// Data rows
	for _, v := range variants {
		row := sheet.AddRow()
		row.AddCell().SetValue(v.ID)
		row.AddCell().SetValue(v.ProductID)
		row.AddCell().SetValue(v.Product.Name)
		row.AddCell().SetValue(v.Product.Category.Name)
		row.AddCell().SetValue(v.VariantType)
		row.AddCell().SetValue(v.Price.StringFixed(2))
		row.AddCell().SetValue(v.Stock)
		row.AddCell().SetValue(v.Sellable())
	}

	return file.Write(w)
}

// GET /admin/products/export
func ExportInventoryToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := WriteInventory(db, &buf); err != nil {
			respond.Error(c, err)
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=inventory.xlsx")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
