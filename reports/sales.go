package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dayLayout = "2006-01-02"

// Period is a half-open time range [From, To).
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Preset returns the named range ending at the end of now's day:
// today, week (last 7 days), month (since the 1st) or year (since Jan 1).
func Preset(name string, now time.Time) (Period, error) {
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := startOfDay.AddDate(0, 0, 1)
	switch name {
	case "today", "":
		return Period{From: startOfDay, To: end}, nil
	case "week":
		return Period{From: startOfDay.AddDate(0, 0, -6), To: end}, nil
	case "month":
		return Period{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), To: end}, nil
	case "year":
		return Period{From: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), To: end}, nil
	}
	return Period{}, fmt.Errorf("%w: unknown preset %q", models.ErrValidation, name)
}

// ParseRange reads an inclusive YYYY-MM-DD range.
func ParseRange(from, to string) (Period, error) {
	f, err := time.ParseInLocation(dayLayout, from, time.UTC)
	if err != nil {
		return Period{}, fmt.Errorf("%w: from must be YYYY-MM-DD", models.ErrValidation)
	}
	t, err := time.ParseInLocation(dayLayout, to, time.UTC)
	if err != nil {
		return Period{}, fmt.Errorf("%w: to must be YYYY-MM-DD", models.ErrValidation)
	}
	if t.Before(f) {
		return Period{}, fmt.Errorf("%w: from is after to", models.ErrValidation)
	}
	return Period{From: f, To: t.AddDate(0, 0, 1)}, nil
}

// DayRow aggregates the orders placed on one day.
type DayRow struct {
	Day       string          `json:"day"`
	Orders    int             `json:"orders"`
	ItemsSold int             `json:"items_sold"`
	Gross     decimal.Decimal `json:"gross"`
	Discount  decimal.Decimal `json:"discount"`
	Shipping  decimal.Decimal `json:"shipping"`
	Net       decimal.Decimal `json:"net"`
	Refunds   decimal.Decimal `json:"refunds"`
}

func newRow(day string) DayRow {
	return DayRow{Day: day, Gross: decimal.Zero, Discount: decimal.Zero, Shipping: decimal.Zero, Net: decimal.Zero, Refunds: decimal.Zero}
}

func (r *DayRow) add(o models.Order) {
	if o.Status != models.OrderStatusCancelled {
		r.Orders++
	}
	for _, it := range o.Items {
		if it.Billable() {
			r.ItemsSold += it.Quantity
		}
	}
	r.Gross = r.Gross.Add(o.TotalAmount)
	r.Discount = r.Discount.Add(o.Discount)
	r.Shipping = r.Shipping.Add(o.ShippingCharge)
	r.Net = r.Net.Add(o.FinalAmount)
	r.Refunds = r.Refunds.Add(o.RefundedAmount)
}

type SalesReport struct {
	Period Period   `json:"period"`
	Rows   []DayRow `json:"rows"`
	Totals DayRow   `json:"totals"`
}

// BuildSales aggregates orders created within p per UTC day. Totals use the
// recalculated amounts, so cancelled and returned items are already out.
func BuildSales(db *gorm.DB, p Period) (SalesReport, error) {
	var orders []models.Order
	if err := db.Preload("Items").
		Where("created_at >= ? AND created_at < ?", p.From, p.To).
		Order("created_at").
		Find(&orders).Error; err != nil {
		return SalesReport{}, fmt.Errorf("load orders: %w", err)
	}

	byDay := make(map[string]*DayRow)
	totals := newRow("total")
	for _, o := range orders {
		day := o.CreatedAt.UTC().Format(dayLayout)
		row, ok := byDay[day]
		if !ok {
			r := newRow(day)
			row = &r
			byDay[day] = row
		}
		row.add(o)
		totals.add(o)
	}

	report := SalesReport{Period: p, Totals: totals, Rows: make([]DayRow, 0, len(byDay))}
	for _, row := range byDay {
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].Day < report.Rows[j].Day })
	return report, nil
}

func (r SalesReport) header() []string {
	return []string{"Day", "Orders", "Items", "Gross", "Discount", "Shipping", "Net", "Refunds"}
}

func (row DayRow) cells() []string {
	return []string{
		row.Day,
		fmt.Sprint(row.Orders),
		fmt.Sprint(row.ItemsSold),
		row.Gross.StringFixed(2),
		row.Discount.StringFixed(2),
		row.Shipping.StringFixed(2),
		row.Net.StringFixed(2),
		row.Refunds.StringFixed(2),
	}
}
