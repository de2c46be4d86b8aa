package main

import (
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/revset/checkout/pkg/checkout"
	"github.com/revset/checkout/pkg/config"
	"github.com/revset/checkout/pkg/filesystem"
	"github.com/revset/checkout/pkg/logging"
	"github.com/revset/checkout/pkg/manifest"
	"github.com/revset/checkout/pkg/store"
	"github.com/revset/checkout/pkg/vfs"
)

var (
	applyDiffPath    string
	applyStorePath   string
	applyTargetPath  string
	applyParallelism int
	applyRemote      bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a diff manifest to a working directory",
	Long: `apply reads a YAML diff manifest, classifies it into a checkout plan,
and executes the plan against the target directory. File content is
resolved from a content-addressed blob directory. The first failing
action aborts the run; already-applied actions are not rolled back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd)
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyDiffPath, "diff", "", "diff manifest file (required)")
	applyCmd.Flags().StringVar(&applyStorePath, "store", "", "content-addressed blob directory (required)")
	applyCmd.Flags().StringVar(&applyTargetPath, "target", ".", "working directory to apply against")
	applyCmd.Flags().IntVar(&applyParallelism, "parallelism", 0, "concurrent filesystem operations per phase (0 = from config)")
	applyCmd.Flags().BoolVar(&applyRemote, "remote", false, "fetch through the prefetching store wrapper")
	_ = applyCmd.MarkFlagRequired("diff")
	_ = applyCmd.MarkFlagRequired("store")
}

func runApply(cmd *cobra.Command) error {
	logger := logging.GetLogger("cmd.apply")
	fs := filesystem.NewOS()

	cfg, err := config.Load(resolveConfigPath(), fs)
	if err != nil {
		return err
	}
	parallelism := cfg.Checkout.Parallelism
	if applyParallelism > 0 {
		parallelism = applyParallelism
	}

	entries, err := manifest.Load(applyDiffPath, fs)
	if err != nil {
		return err
	}
	plan, err := checkout.FromDiffEntries(entries)
	if err != nil {
		return err
	}
	logger.Info().
		Int("remove", len(plan.Removes())).
		Int("update_content", len(plan.ContentUpdates())).
		Int("update_meta", len(plan.MetaUpdates())).
		Msg("Plan built")

	counted := store.NewCountedStore(store.NewLocalStore(applyStorePath, fs))
	workdir := vfs.New(applyTargetPath, fs)
	executor := checkout.NewExecutor(workdir, parallelism)

	var bar *pterm.ProgressbarPrinter
	if isTerminal() && plan.ActionCount() > 0 {
		bar, _ = pterm.DefaultProgressbar.
			WithTotal(plan.ActionCount()).
			WithTitle("Applying").
			Start()
		if bar != nil {
			var mu sync.Mutex
			executor = executor.WithProgress(func(done, total int64) {
				mu.Lock()
				defer mu.Unlock()
				bar.Increment()
			})
		}
	}

	var stats checkout.Stats
	if applyRemote {
		stats, err = executor.ApplyRemote(plan, store.NewRemoteStore(counted))
	} else {
		stats, err = executor.Apply(plan, counted)
	}
	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		return err
	}

	logger.Debug().
		Int64("store_hits", counted.Hits()).
		Int64("store_misses", counted.Misses()).
		Int64("store_bytes", counted.Bytes()).
		Msg("Store statistics")
	cmd.Println(formatStats(stats))
	return nil
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(xdg.ConfigHome, "checkout", "config.toml")
}
