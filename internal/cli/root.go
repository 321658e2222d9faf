// Package cli implements the commentdex command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commentdex/commentdex/internal/config"
	"github.com/commentdex/commentdex/internal/domain/comment"
	"github.com/commentdex/commentdex/internal/domain/compiler"
	"github.com/commentdex/commentdex/internal/domain/relevance"
	"github.com/commentdex/commentdex/internal/queue/redis"
	"github.com/commentdex/commentdex/internal/store/sqlite"
	syncuc "github.com/commentdex/commentdex/internal/usecase/sync"
)

var rootCmd = &cobra.Command{
	Use:   "commentdex",
	Short: "Comment index query translation and sync tooling",
	Long: `commentdex compiles flat comment query arguments into search engine
requests and keeps the comment index in step with the record store.`,
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// loadOrDefaultConfig loads the environment config. Offline commands
// fall back to built-in defaults when no config file is present.
func loadOrDefaultConfig() config.Config {
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		var def config.Config
		def.ApplyDefaults()
		return def
	}
	return cfg
}

// newCompiler assembles the query compiler from configuration.
func newCompiler(cfg config.Config) *compiler.Compiler {
	rel := relevance.New(
		relevance.WithFields(cfg.Search.Fields),
		relevance.WithPhraseBoost(cfg.Search.PhraseBoost),
		relevance.WithTermBoost(cfg.Search.TermBoost),
		relevance.WithFuzziness(cfg.Search.Fuzziness),
	)
	return compiler.New(
		compiler.WithMaxResultWindow(cfg.Index.MaxResultWindow),
		compiler.WithRelevance(rel),
	)
}

// metaPolicy maps the configured key lists onto the indexing policy.
func metaPolicy(cfg config.Config) comment.Policy {
	return comment.Policy{
		Allow:          cfg.Meta.AllowedKeys,
		Deny:           cfg.Meta.DeniedKeys,
		IndexProtected: cfg.Meta.IndexProtected,
	}
}

// openSyncDeps opens the comment store and the dirty queue. The caller
// owns both closers.
func openSyncDeps(cfg config.Config) (*sqlite.Store, *redis.Queue, error) {
	st, err := sqlite.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	q, err := redis.NewQueue(redis.Config{
		Addrs:     cfg.Redis.Addrs,
		Username:  cfg.Redis.Username,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("open queue: %w", err)
	}

	return st, q, nil
}

// newSyncService wires a sync service from opened dependencies.
func newSyncService(cfg config.Config, st *sqlite.Store, q *redis.Queue) *syncuc.Service {
	return syncuc.New(st, q,
		syncuc.WithIndex(cfg.Index.Name),
		syncuc.WithPolicy(metaPolicy(cfg)),
		syncuc.WithRateLimit(cfg.Sync.RateLimit, cfg.Sync.Burst),
	)
}
