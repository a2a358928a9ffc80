package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	valuationTicker string
	valuationAsOf   string
)

var valuationCmd = &cobra.Command{
	Use:   "valuation",
	Short: "Recompute valuation snapshots",
	Long:  "Computes valuation ratios from the latest statements and price for one company or the whole active universe.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "valuation")
		if err != nil {
			return err
		}
		defer env.Close()

		asOf, err := parseDateFlag(valuationAsOf)
		if err != nil {
			return err
		}

		companyIDs, err := resolveCompanyIDs(ctx, env, valuationTicker)
		if err != nil {
			return err
		}

		var computed, skipped int
		for _, companyID := range companyIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := env.Orchestrator.RecomputeValuation(ctx, companyID, asOf)
			if err != nil {
				return eris.Wrapf(err, "valuation: company %d", companyID)
			}
			if snap == nil {
				skipped++
				continue
			}
			computed++
		}

		zap.L().Info("valuation recompute complete",
			zap.Time("as_of", asOf),
			zap.Int("computed", computed),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

// parseDateFlag accepts YYYY-MM-DD and defaults to today.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse date %q", s)
	}
	return d, nil
}

func init() {
	valuationCmd.Flags().StringVar(&valuationTicker, "ticker", "", "restrict to one company ticker")
	valuationCmd.Flags().StringVar(&valuationAsOf, "as-of", "", "valuation date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(valuationCmd)
}
