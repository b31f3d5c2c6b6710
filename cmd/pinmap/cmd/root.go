package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/schodet/pinmap/pkg/pintable"
	"github.com/schodet/pinmap/pkg/pintable/rulefile"
)

var (
	// Global flags
	verbose     bool
	databaseDir string
	excludes    []string
	rulesPath   string
	configPath  string
)

// logger writes progress messages to stderr in verbose mode only, stdout is
// reserved for tables.
var logger = log.New(io.Discard, "pinmap: ", 0)

var rootCmd = &cobra.Command{
	Use:   "pinmap",
	Short: "MCU pin mapper for STM32 CubeMX databases",
	Long: `Read the MCU database extracted from CubeMX and produce a table of all
signals that can be mapped to the microcontroller pins. The table is written
as CSV so that it can be opened with a spreadsheet.

Examples:
  pinmap parts 'STM32F4.*LQFP64'                 # Search parts
  pinmap table STM32F401RETx > f401.csv          # Pin-out table
  pinmap -x ADC -x SYS table STM32F103C8Tx       # Without ADC and SYS signals`,
	Version:           "0.9.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&databaseDir, "database", "d", "db",
		"database directory")
	rootCmd.PersistentFlags().StringArrayVarP(&excludes, "exclude", "x", nil,
		"exclude signals of a peripheral (regex, repeatable)")
	rootCmd.PersistentFlags().StringVarP(&rulesPath, "rules", "r", "",
		"additional filter rules file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"configuration file (default $XDG_CONFIG_HOME/pinmap/config.yaml)")
}

// applyConfig merges the configuration file into the global flags. Flags
// given on the command line take precedence, config exclusions come first.
func applyConfig(cmd *cobra.Command, args []string) error {
	if verbose {
		logger.SetOutput(cmd.ErrOrStderr())
	} else {
		logger.SetOutput(io.Discard)
	}

	path := configPath
	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			logger.Printf("no default configuration: %v", err)
			return nil
		}
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.path != "" {
		logger.Printf("using configuration %s", cfg.path)
	}

	flags := cmd.Flags()
	if !flags.Changed("database") && cfg.Database != "" {
		databaseDir = cfg.Database
	}
	if len(cfg.Exclude) > 0 {
		excludes = append(append([]string{}, cfg.Exclude...), excludes...)
	}
	if !flags.Changed("rules") && cfg.Rules != "" {
		rulesPath = cfg.Rules
	}
	return nil
}

// buildFilter compiles the signal filter from built-in rules, exclusions and
// the rules file. With keepNames, built-in rules are left out.
func buildFilter(keepNames bool) (*pintable.Filter, error) {
	cfg := pintable.DefaultFilterConfig()
	if keepNames {
		cfg = &pintable.FilterConfig{}
	}
	cfg.Exclude = append(cfg.Exclude, excludes...)

	if rulesPath != "" {
		logger.Printf("reading rules from %s", rulesPath)
		parser, err := rulefile.NewParser()
		if err != nil {
			return nil, err
		}
		file, err := parser.ParseFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules: %w", err)
		}
		file.Apply(cfg)
	}

	filter, err := pintable.NewFilter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter: %w", err)
	}
	return filter, nil
}
