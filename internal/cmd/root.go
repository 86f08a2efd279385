package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/romdo/go-pace/internal/config"
	"github.com/romdo/go-pace/internal/logging"
)

var (
	cfgFile string
	verbose bool

	// Loaded by loadConfig before any subcommand runs.
	cfg    *config.Config
	logger *zap.Logger

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   filepath.Base(os.Args[0]),
	Short: "Debounce and throttle demo",
	Long: `Demo of the pace debounce and throttle helpers.

Use the subcommands to serve the demo over HTTP or to run a scripted
scenario in the terminal.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./pace.yaml or ./config/pace.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output (sets log level to debug)")
}

// loadConfig reads the config file and environment, and builds the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := c.Log.Level
	if verbose {
		level = "debug"
	}

	l, err := logging.New(level, logging.Format(c.Log.Format))
	if err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}

	if f := c.File(); f != "" {
		l.Debug("Using config file", zap.String("file", f))
	}

	cfg, logger = c, l

	return nil
}
