package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmayer/consolefs/config"
	"github.com/tmayer/consolefs/filesystem"
	"github.com/tmayer/consolefs/internal/util"
	"github.com/tmayer/consolefs/shell"
)

var (
	configPath string
	verbose    int
)

var rootCmd = &cobra.Command{
	Use:   "consolefs",
	Short: "Fixed-capacity in-memory filesystem with an interactive shell",
	Long: `consolefs runs a permission-aware, fixed-capacity in-memory filesystem
behind an interactive line shell on stdin/stdout. The tree is volatile:
every run starts from the seeded system layout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config override file")
	rootCmd.Flags().IntVarP(&verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig(&config.ConfigOverride{LogLvl: &verbose})
	if configPath != "" {
		override, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.Merge(override)
	}

	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")
	logger.Info().Int("verbose", verbose).Str("config", configPath).Msg("consolefs initializing")

	fs, err := filesystem.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize filesystem: %w", err)
	}

	shell.RegisterBuiltins()
	con := shell.NewConsole(os.Stdin, os.Stdout)
	return shell.New(fs, con).Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
