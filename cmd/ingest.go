package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/fintide/internal/feed"
	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/pipeline"
)

var (
	ingestTicker    string
	ingestPriceFile string
	universeFile    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load vendor data into the store",
}

var ingestStatementsCmd = &cobra.Command{
	Use:   "statements",
	Short: "Ingest pending statement files from the feed directory",
	Long:  "Drains pending raw statement records for one company (or every active company) through the statement loaders.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "ingest")
		if err != nil {
			return err
		}
		defer env.Close()

		src := feed.NewSource(cfg.Feed.Dir, cfg.Feed.RatePerSecond, cfg.Feed.Burst).
			WithDefaultAnnual(cfg.Feed.DefaultsAnnual)

		companyIDs, err := resolveCompanyIDs(ctx, env, ingestTicker)
		if err != nil {
			return err
		}

		var loaded, skipped int
		for _, companyID := range companyIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := src.PendingStatements(ctx, companyID)
			if err != nil {
				return eris.Wrapf(err, "ingest: pending statements for company %d", companyID)
			}
			for _, rec := range records {
				ok, err := env.Orchestrator.IngestStatement(ctx, companyID, rec.Record, rec.PeriodDate, rec.Type, rec.Annual)
				switch {
				case errors.Is(err, pipeline.ErrMissingInput):
					skipped++
				case err != nil:
					return eris.Wrapf(err, "ingest: company %d", companyID)
				case ok:
					loaded++
				default:
					skipped++
				}
			}
		}

		zap.L().Info("statement ingestion complete",
			zap.Int("companies", len(companyIDs)),
			zap.Int("loaded", loaded),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

var ingestPricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Ingest a daily price file (CSV or JSON)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "prices")
		if err != nil {
			return err
		}
		defer env.Close()

		if ingestTicker == "" {
			return eris.New("ingest: --ticker is required")
		}
		company, err := env.Store.GetCompanyByTicker(ctx, ingestTicker)
		if err != nil {
			return err
		}
		if company == nil {
			return eris.Errorf("ingest: unknown ticker %q", ingestTicker)
		}

		ing := feed.NewPriceIngestor(env.Store, cfg.Feed.RatePerSecond, cfg.Feed.Burst)
		n, err := ing.IngestFile(ctx, ingestPriceFile, company.ID)
		if err != nil {
			return err
		}

		zap.L().Info("price ingestion complete",
			zap.String("ticker", ingestTicker),
			zap.Int64("rows", n),
		)
		return nil
	},
}

var ingestUniverseCmd = &cobra.Command{
	Use:   "universe",
	Short: "Seed or refresh the company universe from a JSON or YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "universe")
		if err != nil {
			return err
		}
		defer env.Close()

		companies, err := readUniverseFile(universeFile)
		if err != nil {
			return err
		}

		for i := range companies {
			if _, err := env.Store.UpsertCompany(ctx, &companies[i]); err != nil {
				return err
			}
		}

		zap.L().Info("universe seeded", zap.Int("companies", len(companies)))
		return nil
	},
}

func readUniverseFile(path string) ([]model.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read universe file %s", path)
	}

	var companies []model.Company
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &companies)
	default:
		err = json.Unmarshal(data, &companies)
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: decode universe file")
	}
	return companies, nil
}

// resolveCompanyIDs maps an optional ticker to one company id, or lists all
// active companies when no ticker is given.
func resolveCompanyIDs(ctx context.Context, env *env, ticker string) ([]int64, error) {
	if ticker != "" {
		company, err := env.Store.GetCompanyByTicker(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, eris.Errorf("unknown ticker %q", ticker)
		}
		return []int64{company.ID}, nil
	}
	return env.Store.ListCompanyIDs(ctx, true)
}

func init() {
	ingestStatementsCmd.Flags().StringVar(&ingestTicker, "ticker", "", "restrict to one company ticker")
	ingestPricesCmd.Flags().StringVar(&ingestTicker, "ticker", "", "company ticker the file belongs to")
	ingestPricesCmd.Flags().StringVar(&ingestPriceFile, "file", "", "path to the price file")
	_ = ingestPricesCmd.MarkFlagRequired("file")
	ingestUniverseCmd.Flags().StringVar(&universeFile, "file", "", "path to the universe file (JSON or YAML)")
	_ = ingestUniverseCmd.MarkFlagRequired("file")

	ingestCmd.AddCommand(ingestStatementsCmd, ingestPricesCmd, ingestUniverseCmd)
	rootCmd.AddCommand(ingestCmd)
}
