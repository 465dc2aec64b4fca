package repository

import (
	"context"
	"fmt"
	"indexcap/internal/calculator"
	"indexcap/internal/domain"
	"indexcap/pkg/factset"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// ConstituentRepository supplies the raw index universe for a region
type ConstituentRepository interface {
	List(ctx context.Context, region string) ([]domain.RawConstituent, error)
}

type FactSetClient interface {
	GetConstituents(ctx context.Context, region string) ([]factset.Security, error)
}

type factSetConstituentRepositoryHandler struct {
	Client FactSetClient
}

func NewFactSetConstituentRepository(client FactSetClient) ConstituentRepository {
	return factSetConstituentRepositoryHandler{Client: client}
}

// List maps FactSet securities to raw constituents. FactSet gives
// shares rather than market cap, and no index weights, so the current
// weight is each security's share of total price x shares.
func (h factSetConstituentRepositoryHandler) List(ctx context.Context, region string) ([]domain.RawConstituent, error) {
	securities, err := h.Client.GetConstituents(ctx, region)
	if err != nil {
		return nil, err
	}

	marketCaps := make([]float64, len(securities))
	total := 0.0
	for i, s := range securities {
		mcap := calculator.NonNegativeFloat(s.Price) * calculator.NonNegativeFloat(s.Shares)
		if mcap > 0 {
			marketCaps[i] = mcap
			total += mcap
		}
	}

	out := make([]domain.RawConstituent, 0, len(securities))
	for i, s := range securities {
		currentWeight := 0.0
		if total > 0 {
			currentWeight = marketCaps[i] / total
		}
		out = append(out, domain.RawConstituent{
			Ticker:        s.Ticker,
			Issuer:        s.Name,
			Price:         s.Price,
			Shares:        s.Shares,
			Avg30dVolume:  s.Avg30dVolume,
			CurrentWeight: currentWeight,
		})
	}

	return out, nil
}

// csvConstituent keeps every field as text; normalization does the
// numeric coercion
type csvConstituent struct {
	Ticker        string `csv:"ticker"`
	Issuer        string `csv:"issuer"`
	Region        string `csv:"region,omitempty"`
	Price         string `csv:"price"`
	MarketCap     string `csv:"market_cap"`
	Shares        string `csv:"shares,omitempty"`
	Avg30dVolume  string `csv:"avg_30d_volume"`
	CurrentWeight string `csv:"current_weight"`
}

type csvConstituentRepositoryHandler struct {
	Path string
}

// NewCsvConstituentRepository reads constituents from a CSV file. If the
// file has a region column, List only returns rows for that region.
func NewCsvConstituentRepository(path string) ConstituentRepository {
	return csvConstituentRepositoryHandler{Path: path}
}

func (h csvConstituentRepositoryHandler) List(ctx context.Context, region string) ([]domain.RawConstituent, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open constituents csv: %w", err)
	}
	defer f.Close()

	return readCsvConstituents(f, region)
}

func readCsvConstituents(r io.Reader, region string) ([]domain.RawConstituent, error) {
	rows := []csvConstituent{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse constituents csv: %w", err)
	}

	region = domain.NormalizeRegion(region)
	out := []domain.RawConstituent{}
	for _, row := range rows {
		if region != "" && row.Region != "" && domain.NormalizeRegion(row.Region) != region {
			continue
		}
		out = append(out, domain.RawConstituent{
			Ticker:        row.Ticker,
			Issuer:        row.Issuer,
			Price:         row.Price,
			MarketCap:     row.MarketCap,
			Shares:        row.Shares,
			Avg30dVolume:  row.Avg30dVolume,
			CurrentWeight: row.CurrentWeight,
		})
	}

	return out, nil
}
