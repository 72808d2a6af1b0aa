// Package pricing holds the money arithmetic of the storefront: best-offer
// selection, coupon discounts, shipping, tax and refund shares. Everything
// here is pure; callers load the inputs and persist the results.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferKind names where a discount came from.
type OfferKind string

const (
	OfferNone     OfferKind = "none"
	OfferProduct  OfferKind = "product"
	OfferCategory OfferKind = "category"

	MinOfferPercent = 1
	MaxOfferPercent = 90
)

var hundred = decimal.NewFromInt(100)

// Offer is a time-bounded percentage discount.
type Offer struct {
	ID         uint
	Percentage int
	StartsAt   time.Time
	EndsAt     time.Time
	Active     bool
}

// LiveAt reports whether the offer applies at now. Both bounds are inclusive.
func (o Offer) LiveAt(now time.Time) bool {
	return o.Active && !now.Before(o.StartsAt) && !now.After(o.EndsAt)
}

// BestOffer is the outcome of comparing the product and category offers for one variant.
type BestOffer struct {
	OriginalPrice decimal.Decimal `json:"original_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	Discount      int             `json:"discount"`
	Kind          OfferKind       `json:"offer_type"`
	OfferID       uint            `json:"offer_id,omitempty"`
}

// ClampPercent keeps an offer percentage inside [MinOfferPercent, MaxOfferPercent].
func ClampPercent(p int) int {
	if p < MinOfferPercent {
		return MinOfferPercent
	}
	if p > MaxOfferPercent {
		return MaxOfferPercent
	}
	return p
}

// ApplyPercent returns price reduced by pct percent, rounded to paise.
func ApplyPercent(price decimal.Decimal, pct int) decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromInt(int64(pct))).Div(hundred)
	return Round(price.Mul(factor))
}

// ResolveBestOffer picks the cheapest price among the strongest live product
// offer and the strongest live category offer. Ties go to the product offer.
func ResolveBestOffer(price decimal.Decimal, productOffers, categoryOffers []Offer, now time.Time) BestOffer {
	best := BestOffer{OriginalPrice: price, FinalPrice: price, Kind: OfferNone}

	po, hasProduct := strongest(productOffers, now)
	co, hasCategory := strongest(categoryOffers, now)

	candidate := func(o Offer, kind OfferKind) BestOffer {
		pct := ClampPercent(o.Percentage)
		return BestOffer{
			OriginalPrice: price,
			FinalPrice:    ApplyPercent(price, pct),
			Discount:      pct,
			Kind:          kind,
			OfferID:       o.ID,
		}
	}

	switch {
	case hasProduct && hasCategory:
		p, c := candidate(po, OfferProduct), candidate(co, OfferCategory)
		if p.FinalPrice.LessThanOrEqual(c.FinalPrice) {
			return p
		}
		return c
	case hasProduct:
		return candidate(po, OfferProduct)
	case hasCategory:
		return candidate(co, OfferCategory)
	}
	return best
}

func strongest(offers []Offer, now time.Time) (Offer, bool) {
	var (
		best  Offer
		found bool
	)
	for _, o := range offers {
		if !o.LiveAt(now) {
			continue
		}
		if !found || o.Percentage > best.Percentage {
			best, found = o, true
		}
	}
	return best, found
}
