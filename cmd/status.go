package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/fintide/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and feed freshness",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "status")
		if err != nil {
			return err
		}
		defer env.Close()

		counts, err := env.Store.Counts(ctx)
		if err != nil {
			return eris.Wrap(err, "status")
		}

		formatCounts(os.Stdout, counts)
		return nil
	},
}

func formatCounts(out io.Writer, c *store.EntityCounts) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ENTITY\tROWS")
	_, _ = fmt.Fprintln(w, "------\t----")
	_, _ = fmt.Fprintf(w, "companies\t%d\n", c.Companies)
	_, _ = fmt.Fprintf(w, "statements\t%d\n", c.Statements)
	_, _ = fmt.Fprintf(w, "price points\t%d\n", c.PricePoints)
	_, _ = fmt.Fprintf(w, "valuations\t%d\n", c.Valuations)
	_, _ = fmt.Fprintf(w, "forecasts\t%d\n", c.Forecasts)

	latest := "-"
	if c.LatestPrice != nil {
		latest = c.LatestPrice.Format("2006-01-02")
	}
	_, _ = fmt.Fprintf(w, "latest price\t%s\n", latest)
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
