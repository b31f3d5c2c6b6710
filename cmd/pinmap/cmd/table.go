package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/schodet/pinmap/pkg/mcudb"
	"github.com/schodet/pinmap/pkg/pintable"
)

var (
	tableHeader    bool
	tableKeepNames bool
	tableOutput    string
)

var tableCmd = &cobra.Command{
	Use:   "table <part>",
	Short: "Output a pin-out table for a given part",
	Long: `Output a CSV pin-out table for a part, one row per pin.

Parts using alternate functions get one column per AF number and a last
column for additional functions. Older parts using remaps get one column per
peripheral, each signal followed by the remaps through which it is available.

Signal names are shortened and similar signals are merged unless
--keep-names is given.

Examples:
  pinmap table STM32F401RETx
  pinmap table --header -o f103.csv STM32F103C8Tx
  pinmap -x ADC -x 'T\d+' table STM32F401RETx`,
	Args: cobra.ExactArgs(1),
	RunE: runTable,
}

func init() {
	rootCmd.AddCommand(tableCmd)

	tableCmd.Flags().BoolVar(&tableHeader, "header", false,
		"write a header row")
	tableCmd.Flags().BoolVar(&tableKeepNames, "keep-names", false,
		"disable built-in shortening and merging of signal names")
	tableCmd.Flags().StringVarP(&tableOutput, "output", "o", "",
		"output file (default stdout)")
}

func runTable(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Bad exclusion patterns are reported before reading the database.
	filter, err := buildFilter(tableKeepNames)
	if err != nil {
		return err
	}

	db := mcudb.New(databaseDir)
	logger.Printf("loading %s from %s", name, db.PartPath(name))

	part, err := db.LoadPart(name)
	if err != nil {
		return fmt.Errorf("failed to load part: %w", err)
	}
	logger.Printf("%s: %d pins, %s mode", part.Summary(), len(part.Pins), part.GpioMode)

	table, err := pintable.Render(part, filter)
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if tableOutput == "" {
		return writeTable(cmd.OutOrStdout(), table)
	}
	f, err := os.Create(tableOutput)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := writeTable(f, table); err != nil {
		f.Close()
		return err
	}
	logger.Printf("wrote %d rows to %s", len(table.Rows), tableOutput)
	return f.Close()
}

func writeTable(w io.Writer, table *pintable.Table) error {
	if err := table.WriteCSV(w, tableHeader); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}
