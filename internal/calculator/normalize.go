package calculator

import (
	"encoding/json"
	"fmt"
	"indexcap/internal/domain"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize coerces raw records into constituents. It never fails:
// anything that can't be read as a number becomes 0, and the issuer
// falls back to the ticker. Output order matches input order.
func Normalize(raw []domain.RawConstituent) []domain.Constituent {
	out := make([]domain.Constituent, 0, len(raw))
	for _, r := range raw {
		ticker := toUpperString(r.Ticker)
		issuer := toUpperString(r.Issuer)
		if issuer == "" {
			issuer = ticker
		}

		price := NonNegativeFloat(r.Price)
		marketCap := NonNegativeFloat(r.MarketCap)
		// feeds that only carry share counts
		if marketCap == 0 {
			marketCap = price * NonNegativeFloat(r.Shares)
		}

		out = append(out, domain.Constituent{
			Ticker:        ticker,
			Issuer:        issuer,
			Price:         price,
			MarketCap:     marketCap,
			Avg30dVolume:  NonNegativeFloat(r.Avg30dVolume),
			CurrentWeight: NonNegativeFloat(r.CurrentWeight),
		})
	}
	return out
}

func toUpperString(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprintf("%v", t)
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// NonNegativeFloat reads a numeric field that may arrive as any Go number,
// json.Number, decimal or string. NaN, infinities, negatives and
// anything unreadable become 0.
func NonNegativeFloat(v any) float64 {
	f := toFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case decimal.Decimal:
		return t.InexactFloat64()
	case *float64:
		if t == nil {
			return 0
		}
		return *t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
