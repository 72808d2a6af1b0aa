package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	now       = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	yesterday = now.Add(-24 * time.Hour)
	tomorrow  = now.Add(24 * time.Hour)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func live(id uint, pct int) Offer {
	return Offer{ID: id, Percentage: pct, StartsAt: yesterday, EndsAt: tomorrow, Active: true}
}

func TestResolveBestOffer(t *testing.T) {
	tests := []struct {
		name      string
		product   []Offer
		category  []Offer
		wantPrice string
		wantPct   int
		wantKind  OfferKind
		wantID    uint
	}{
		{
			name:      "no offers keeps original price",
			wantPrice: "200",
			wantKind:  OfferNone,
		},
		{
			name:      "product offer only",
			product:   []Offer{live(1, 10)},
			wantPrice: "180",
			wantPct:   10,
			wantKind:  OfferProduct,
			wantID:    1,
		},
		{
			name:      "category offer beats weaker product offer",
			product:   []Offer{live(1, 10)},
			category:  []Offer{live(2, 25)},
			wantPrice: "150",
			wantPct:   25,
			wantKind:  OfferCategory,
			wantID:    2,
		},
		{
			name:      "tie favours product offer",
			product:   []Offer{live(1, 20)},
			category:  []Offer{live(2, 20)},
			wantPrice: "160",
			wantPct:   20,
			wantKind:  OfferProduct,
			wantID:    1,
		},
		{
			name:      "strongest of several product offers",
			product:   []Offer{live(1, 5), live(3, 30), live(4, 15)},
			wantPrice: "140",
			wantPct:   30,
			wantKind:  OfferProduct,
			wantID:    3,
		},
		{
			name:      "inactive and expired offers are ignored",
			product:   []Offer{{ID: 1, Percentage: 50, StartsAt: yesterday, EndsAt: tomorrow}},
			category:  []Offer{{ID: 2, Percentage: 40, StartsAt: yesterday.Add(-48 * time.Hour), EndsAt: yesterday, Active: true}},
			wantPrice: "200",
			wantKind:  OfferNone,
		},
		{
			name:      "future offer is ignored",
			category:  []Offer{{ID: 2, Percentage: 40, StartsAt: tomorrow, EndsAt: tomorrow.Add(time.Hour), Active: true}},
			wantPrice: "200",
			wantKind:  OfferNone,
		},
		{
			name:      "percentage above 90 is clamped",
			product:   []Offer{live(1, 95)},
			wantPrice: "20",
			wantPct:   90,
			wantKind:  OfferProduct,
			wantID:    1,
		},
		{
			name:      "zero percentage is clamped to 1",
			category:  []Offer{live(2, 0)},
			wantPrice: "198",
			wantPct:   1,
			wantKind:  OfferCategory,
			wantID:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBestOffer(dec("200"), tt.product, tt.category, now)
			assert.True(t, dec(tt.wantPrice).Equal(got.FinalPrice), "final price %s", got.FinalPrice)
			assert.Equal(t, tt.wantPct, got.Discount)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantID, got.OfferID)
			assert.True(t, dec("200").Equal(got.OriginalPrice))
		})
	}
}

func TestResolveBestOffer_IsMinimumOfBoth(t *testing.T) {
	price := dec("349.99")
	for p := 0; p <= 100; p += 7 {
		for c := 0; c <= 100; c += 11 {
			got := ResolveBestOffer(price, []Offer{live(1, p)}, []Offer{live(2, c)}, now)

			productPrice := ApplyPercent(price, ClampPercent(p))
			categoryPrice := ApplyPercent(price, ClampPercent(c))
			want := decimal.Min(productPrice, categoryPrice)

			assert.True(t, want.Equal(got.FinalPrice), "p=%d c=%d got %s want %s", p, c, got.FinalPrice, want)
			assert.GreaterOrEqual(t, got.Discount, MinOfferPercent)
			assert.LessOrEqual(t, got.Discount, MaxOfferPercent)
		}
	}
}

func TestOfferLiveAtBoundaries(t *testing.T) {
	o := Offer{Percentage: 10, StartsAt: now, EndsAt: now, Active: true}
	assert.True(t, o.LiveAt(now))
	assert.False(t, o.LiveAt(now.Add(time.Nanosecond)))
	assert.False(t, o.LiveAt(now.Add(-time.Nanosecond)))
}

func TestApplyPercentRoundsHalfUp(t *testing.T) {
	// 0.15 * 0.9 = 0.135 -> 0.14
	assert.Equal(t, "0.14", ApplyPercent(dec("0.15"), 10).StringFixed(2))
	assert.Equal(t, "66.99", ApplyPercent(dec("99.99"), 33).StringFixed(2))
}
