package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	// periodicStepDays is the spacing between forecast dates in a sweep.
	periodicStepDays = 15
	// periodicTargetDays is the horizon of each sweep forecast.
	periodicTargetDays = 30
)

var (
	forecastTicker   string
	forecastDateFlag string
	forecastTarget   string
	forecastPeriodic bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Generate price forecasts",
	Long:  "Projects target prices from price history and the latest valuation. Default mode produces the standard horizons; --target produces a single dated forecast; --periodic sweeps the available history every 15 days with a 30-day horizon.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "forecast")
		if err != nil {
			return err
		}
		defer env.Close()

		forecastDate, err := parseDateFlag(forecastDateFlag)
		if err != nil {
			return err
		}

		var targetDate *time.Time
		if forecastTarget != "" {
			d, err := parseDateFlag(forecastTarget)
			if err != nil {
				return err
			}
			targetDate = &d
		}

		companyIDs, err := resolveCompanyIDs(ctx, env, forecastTicker)
		if err != nil {
			return err
		}

		var generated, skipped int
		for _, companyID := range companyIDs {
			if err := ctx.Err(); err != nil {
				return err
			}

			if forecastPeriodic {
				g, s, err := sweepCompany(ctx, env, companyID, forecastDate)
				if err != nil {
					return eris.Wrapf(err, "forecast: company %d", companyID)
				}
				generated += g
				skipped += s
				continue
			}

			forecasts, err := env.Orchestrator.GenerateForecast(ctx, companyID, forecastDate, targetDate)
			if err != nil {
				return eris.Wrapf(err, "forecast: company %d", companyID)
			}
			if len(forecasts) == 0 {
				skipped++
				continue
			}
			generated += len(forecasts)
		}

		zap.L().Info("forecast generation complete",
			zap.Time("forecast_date", forecastDate),
			zap.Int("generated", generated),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

// sweepCompany generates a forecast every periodicStepDays across the
// company's price history up to end, each targeting periodicTargetDays out.
// Dates with too little trailing history come back empty and count as skipped.
func sweepCompany(ctx context.Context, env *env, companyID int64, end time.Time) (generated, skipped int, err error) {
	history, err := env.Store.PriceHistory(ctx, companyID, time.Time{}, end)
	if err != nil {
		return 0, 0, err
	}
	if len(history) == 0 {
		return 0, 1, nil
	}

	for d := history[0].TradeDate; !d.After(end); d = d.AddDate(0, 0, periodicStepDays) {
		if err := ctx.Err(); err != nil {
			return generated, skipped, err
		}
		target := d.AddDate(0, 0, periodicTargetDays)
		forecasts, err := env.Orchestrator.GenerateForecast(ctx, companyID, d, &target)
		if err != nil {
			return generated, skipped, err
		}
		if len(forecasts) == 0 {
			skipped++
			continue
		}
		generated += len(forecasts)
	}
	return generated, skipped, nil
}

func init() {
	forecastCmd.Flags().StringVar(&forecastTicker, "ticker", "", "restrict to one company ticker")
	forecastCmd.Flags().StringVar(&forecastDateFlag, "date", "", "forecast date (YYYY-MM-DD, default today)")
	forecastCmd.Flags().StringVar(&forecastTarget, "target", "", "explicit target date (YYYY-MM-DD)")
	forecastCmd.Flags().BoolVar(&forecastPeriodic, "periodic", false, "sweep history every 15 days, 30-day horizon each")
	forecastCmd.MarkFlagsMutuallyExclusive("target", "periodic")
	rootCmd.AddCommand(forecastCmd)
}
