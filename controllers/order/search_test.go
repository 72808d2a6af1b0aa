package orderControllers

import (
	"testing"

	"github.com/amarsreevishnu/greennestPlants/database/dbtest"
	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSearch(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.SeedCatalog(t, db)
	dbtest.SeedUser(t, db, "u1")
	first := place(t, db, "u1", models.PaymentMethodCOD, map[uint]int{cat.Fern.ID: 1}, nil)
	second := place(t, db, "u1", models.PaymentMethodCOD, map[uint]int{cat.Monstera.ID: 1}, nil)
	_, _, err := run(t, db, func(tx *gorm.DB) (Outcome, error) {
		return CancelOrder(tx, rules, "u1", first.ID, "", dbtest.Now)
	})
	require.NoError(t, err)

	ids := func(term string) []uint {
		var orders []models.Order
		require.NoError(t, Search(db.Model(&models.Order{}), term).Order("id").Find(&orders).Error)
		out := make([]uint, len(orders))
		for i, o := range orders {
			out[i] = o.ID
		}
		return out
	}

	assert.Equal(t, []uint{first.ID, second.ID}, ids(""))
	assert.Equal(t, []uint{first.ID}, ids("CANCEL"))
	assert.Equal(t, []uint{second.ID}, ids("processing"))
	assert.Equal(t, []uint{second.ID}, ids(second.DisplayID()))
	assert.Equal(t, []uint{first.ID, second.ID}, ids("green pack"))
	assert.Empty(t, ids("orchid"))

	var extra []models.Order
	require.NoError(t, Search(db.Model(&models.Order{}), "nobody@example.com", "orders.user_id = ?", "u1").Find(&extra).Error)
	assert.Len(t, extra, 2)
}
