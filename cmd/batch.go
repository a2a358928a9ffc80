package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fintide/internal/pipeline"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the full pipeline across the active universe",
	Long:  "Per company: ingest pending statement files, recompute the valuation snapshot, generate forecasts. A failing company is reported and skipped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		companyIDs, err := env.Store.ListCompanyIDs(ctx, true)
		if err != nil {
			return eris.Wrap(err, "batch: list companies")
		}
		if batchLimit > 0 && len(companyIDs) > batchLimit {
			companyIDs = companyIDs[:batchLimit]
		}

		summary, err := env.Orchestrator.RunBatch(ctx, companyIDs)
		if summary != nil {
			formatBatchSummary(os.Stdout, summary)
		}
		if err != nil {
			return eris.Wrap(err, "batch")
		}

		if summary.Failed > 0 {
			zap.L().Warn("batch finished with failures",
				zap.String("run_id", summary.RunID),
				zap.Int("failed", summary.Failed),
			)
		}
		return nil
	},
}

// formatBatchSummary writes a tabular per-company report to w.
func formatBatchSummary(out io.Writer, summary *pipeline.BatchSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMPANY\tSTATEMENTS\tVALUATION\tFORECASTS\tERROR")
	_, _ = fmt.Fprintln(w, "-------\t----------\t---------\t---------\t-----")

	for _, st := range summary.Companies {
		valuation := "-"
		if st.ValuationComputed {
			valuation = "ok"
		}
		errMsg := st.Err
		if len(errMsg) > 60 {
			errMsg = errMsg[:60]
		}
		_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\n",
			st.CompanyID, st.StatementsLoaded, valuation, st.Forecasts, errMsg)
	}
	_, _ = fmt.Fprintf(w, "\nrun %s: %d processed, %d succeeded, %d failed in %s\n",
		summary.RunID, summary.Processed, summary.Succeeded, summary.Failed,
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	_ = w.Flush()
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of companies to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}
