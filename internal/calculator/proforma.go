package calculator

import (
	"indexcap/internal/domain"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// default fund sizes in index currency, used when no AUM is given
var defaultAumByRegion = map[string]decimal.Decimal{
	domain.RegionCopenhagen: decimal.NewFromInt(110_000_000_000),
	domain.RegionHelsinki:   decimal.NewFromInt(22_000_000_000),
}

// ResolveAum returns aum when it is positive, otherwise the region
// default (zero for regions without one)
func ResolveAum(region string, aum decimal.Decimal) decimal.Decimal {
	if aum.GreaterThan(decimal.Zero) {
		return aum
	}
	if d, ok := defaultAumByRegion[domain.NormalizeRegion(region)]; ok {
		return d
	}
	return decimal.Zero
}

// BuildProForma sizes the trades a fund of the given size would need to
// move from current to proposed weights. Rows are ordered by market
// cap, largest first.
func BuildProForma(p *domain.Proposal, aum decimal.Decimal) []domain.ProFormaRow {
	rows := make([]domain.ProFormaRow, 0, len(p.Proposed))
	for _, c := range p.Proposed {
		deltaWeight := c.NewWeight - c.OldWeight
		deltaAmount := aum.Mul(decimal.NewFromFloat(deltaWeight)).Round(2)

		deltaShares := decimal.Zero
		if c.Price > 0 {
			deltaShares = deltaAmount.Div(decimal.NewFromFloat(c.Price)).Round(2)
		}

		volume := c.Avg30dVolume
		if volume == 0 {
			volume = 1
		}
		daysToCover := math.Abs(deltaShares.InexactFloat64()) / volume

		rows = append(rows, domain.ProFormaRow{
			Ticker:       c.Ticker,
			Issuer:       c.Issuer,
			Price:        c.Price,
			MarketCap:    c.MarketCap,
			OldWeight:    c.OldWeight,
			NewWeight:    c.NewWeight,
			DeltaWeight:  deltaWeight,
			DeltaAmount:  deltaAmount,
			DeltaShares:  deltaShares,
			DaysToCover:  math.Round(daysToCover*100) / 100,
			Avg30dVolume: c.Avg30dVolume,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MarketCap > rows[j].MarketCap
	})

	return rows
}
