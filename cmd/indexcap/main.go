package main

import (
	"context"
	"encoding/json"
	"fmt"
	"indexcap/cmd"
	"indexcap/internal/calculator"
	"indexcap/internal/domain"
	"indexcap/internal/logger"
	"indexcap/internal/repository"
	"indexcap/internal/service"
	"indexcap/internal/util"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type computeFlags struct {
	csv        string
	indexID    string
	region     string
	quarterly  bool
	mode       string
	aum        string
	asOf       string
	paramsFile string
}

type computeOutput struct {
	AsOf     string               `json:"asOf"`
	Proposal *domain.Proposal     `json:"proposal"`
	Aum      *decimal.Decimal     `json:"aum,omitempty"`
	ProForma []domain.ProFormaRow `json:"proForma,omitempty"`
}

func writeJson(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCompute(ctx context.Context, f computeFlags, out io.Writer) error {
	switch domain.Mode(f.mode) {
	case "", domain.ModeCapped, domain.ModeUncapped:
	default:
		return fmt.Errorf("--mode must be capped or uncapped, got %q", f.mode)
	}
	asOf, err := util.ParseAsOf(f.asOf)
	if err != nil {
		return err
	}
	presets, err := util.LoadParamsTable(f.paramsFile)
	if err != nil {
		return err
	}

	raw, err := repository.NewCsvConstituentRepository(f.csv).List(ctx, f.region)
	if err != nil {
		return err
	}

	proposal := calculator.ComputeProposal(f.indexID, raw, calculator.Options{
		Mode:        domain.Mode(f.mode),
		Region:      f.region,
		Quarterly:   f.quarterly,
		GeneratedAt: time.Now().UTC(),
		Presets:     presets,
	})
	result := computeOutput{
		AsOf:     util.FormatDate(asOf),
		Proposal: proposal,
	}

	// pro-forma sizing is a quarterly review artifact
	if f.quarterly {
		aum := decimal.Zero
		if f.aum != "" {
			aum, err = decimal.NewFromString(f.aum)
			if err != nil {
				return fmt.Errorf("failed to parse --aum: %w", err)
			}
		}
		aum = calculator.ResolveAum(f.region, aum)
		if aum.IsPositive() {
			result.Aum = &aum
			result.ProForma = calculator.BuildProForma(proposal, aum)
		}
	}

	return writeJson(out, result)
}

func newComputeCmd() *cobra.Command {
	f := computeFlags{}
	c := &cobra.Command{
		Use:   "compute",
		Short: "Compute a proposal from a constituents CSV without touching the database",
		RunE: func(c *cobra.Command, args []string) error {
			return runCompute(c.Context(), f, c.OutOrStdout())
		},
	}
	c.Flags().StringVar(&f.csv, "csv", "", "constituents csv (ticker,issuer,price,market_cap,shares,avg_30d_volume,current_weight)")
	c.Flags().StringVar(&f.indexID, "index-id", "", "index id, capped mode is inferred when it contains \"cap\"")
	c.Flags().StringVar(&f.region, "region", "CPH", "region code")
	c.Flags().BoolVar(&f.quarterly, "quarterly", false, "use quarterly review rules")
	c.Flags().StringVar(&f.mode, "mode", "", "capped or uncapped, overrides inference from the index id")
	c.Flags().StringVar(&f.aum, "aum", "", "fund size for pro-forma trades, defaults per region")
	c.Flags().StringVar(&f.asOf, "as-of", "", "as-of date YYYY-MM-DD, defaults to today")
	c.Flags().StringVar(&f.paramsFile, "params", "", "YAML capping parameter presets")
	_ = c.MarkFlagRequired("csv")
	_ = c.MarkFlagRequired("index-id")
	return c
}

func newRunCmd() *cobra.Command {
	var (
		indexID   string
		region    string
		quarterly bool
		mode      string
		asOf      string
		notify    bool
	)
	c := &cobra.Command{
		Use:   "run",
		Short: "Fetch constituents, store a proposal and optionally email it",
		RunE: func(c *cobra.Command, args []string) error {
			date, err := util.ParseAsOf(asOf)
			if err != nil {
				return err
			}

			apiHandler, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(apiHandler)

			ctx := logger.WithLogger(c.Context(), logger.New())
			profile, endProfile := domain.NewRunProfile()
			defer endProfile()
			ctx = context.WithValue(ctx, domain.ContextProfileKey, profile)

			result, err := apiHandler.ProposalService.Generate(ctx, service.GenerateInput{
				IndexID:   indexID,
				Region:    region,
				Quarterly: quarterly,
				Mode:      domain.Mode(mode),
				AsOf:      date,
				Notify:    notify,
			})
			if err != nil {
				return err
			}
			return writeJson(c.OutOrStdout(), result)
		},
	}
	c.Flags().StringVar(&indexID, "index-id", "", "index id")
	c.Flags().StringVar(&region, "region", "CPH", "region code")
	c.Flags().BoolVar(&quarterly, "quarterly", false, "use quarterly review rules")
	c.Flags().StringVar(&mode, "mode", "", "capped or uncapped")
	c.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD, defaults to today")
	c.Flags().BoolVar(&notify, "notify", false, "email the proposal summary")
	_ = c.MarkFlagRequired("index-id")
	return c
}

func newServeCmd() *cobra.Command {
	var port int
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP api",
		RunE: func(c *cobra.Command, args []string) error {
			apiHandler, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}
			defer cmd.CloseDependencies(apiHandler)
			return apiHandler.StartApi(port)
		},
	}
	c.Flags().IntVar(&port, "port", 3009, "port to listen on")
	return c
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "indexcap",
		Short:         "Capped index rebalancing proposals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newComputeCmd(), newRunCmd(), newServeCmd())
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
