package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/commentdex/commentdex/internal/bulk"
	"github.com/commentdex/commentdex/internal/config"
	syncuc "github.com/commentdex/commentdex/internal/usecase/sync"
)

var (
	syncAll       bool
	syncBatchSize int
	syncOut       string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Assemble bulk index payloads for the comment index",
	Long: `Walks the record store (with --all) or drains the dirty queue and
writes the resulting bulk NDJSON payloads to stdout or a file. Pipe the
output to the search backend's bulk endpoint.`,
	Args: cobra.NoArgs,
	RunE: runSyncCmd,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "walk the whole record store instead of the dirty queue")
	syncCmd.Flags().IntVar(&syncBatchSize, "batch-size", 0, "comments per bulk payload (0 = configured default)")
	syncCmd.Flags().StringVar(&syncOut, "out", "", "write payloads to a file instead of stdout")
	rootCmd.AddCommand(syncCmd)
}

// writerSink forwards bulk payloads to an io.Writer.
type writerSink struct {
	w io.Writer
}

func (s writerSink) Write(_ context.Context, p bulk.Payload) error {
	if _, err := s.w.Write(p.Body); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, q, err := openSyncDeps(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	defer q.Close()

	var out io.Writer = cmd.OutOrStdout()
	if syncOut != "" {
		f, err := os.Create(syncOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	batchSize := syncBatchSize
	if batchSize <= 0 {
		batchSize = cfg.Sync.BatchSize
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if syncAll {
		if total, err := st.Count(ctx); err == nil {
			cmd.PrintErrf("store holds %d comments\n", total)
		}
	}

	report, err := newSyncService(cfg, st, q).Run(ctx, writerSink{w: out}, syncuc.Options{
		All:       syncAll,
		BatchSize: batchSize,
	})
	if err != nil {
		return fmt.Errorf("sync run %s: %w", report.RunID, err)
	}

	cmd.PrintErrf("run %s: indexed %d, deleted %d (%d missing), %d batches\n",
		report.RunID, report.Indexed, report.Deleted, report.Missing, report.Batches)
	return nil
}
