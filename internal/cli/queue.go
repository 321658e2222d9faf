package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/commentdex/commentdex/internal/config"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and feed the dirty comment queue",
}

var queueAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Queue comment ids for re-indexing",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQueueAdd,
}

var queueDepthCmd = &cobra.Command{
	Use:   "depth",
	Short: "Print the number of queued comment ids",
	Args:  cobra.NoArgs,
	RunE:  runQueueDepth,
}

func init() {
	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueDepthCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid comment id %q", arg)
		}
		ids = append(ids, id)
	}

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

	queued, err := newSyncService(cfg, st, q).Enqueue(cmd.Context(), ids)
	if err != nil {
		return err
	}

	cmd.Printf("queued %d comment id(s)\n", queued)
	return nil
}

func runQueueDepth(cmd *cobra.Command, _ []string) error {
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

	depth, err := newSyncService(cfg, st, q).Depth(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("%d\n", depth)
	return nil
}
