package orderControllers

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

var searchDateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// Search narrows an orders query by a free-text term. The term matches the
// status, any item's product name, the numeric or display id (OID12-...)
// or a calendar day. extra adds more OR-ed condition/argument pairs.
func Search(query *gorm.DB, term string, extra ...any) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return query
	}
	lower := strings.ToLower(term)
	like := "%" + lower + "%"

	conds := []string{
		"LOWER(orders.status) LIKE ?",
		"EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND LOWER(oi.product_name) LIKE ?)",
	}
	args := []any{like, like}

	idText := strings.TrimPrefix(lower, "oid")
	if i := strings.IndexByte(idText, '-'); i > 0 {
		idText = idText[:i]
	}
	if id, err := strconv.ParseUint(idText, 10, 64); err == nil {
		conds = append(conds, "orders.id = ?")
		args = append(args, id)
	}

	for _, layout := range searchDateLayouts {
		if day, err := time.ParseInLocation(layout, term, time.UTC); err == nil {
			conds = append(conds, "(orders.created_at >= ? AND orders.created_at < ?)")
			args = append(args, day, day.Add(24*time.Hour))
			break
		}
	}

	for i := 0; i+1 < len(extra); i += 2 {
		if cond, ok := extra[i].(string); ok {
			conds = append(conds, cond)
			args = append(args, extra[i+1])
		}
	}

	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}
