package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schodet/pinmap/pkg/mcudb"
)

var (
	partsShowMode bool
)

var partsCmd = &cobra.Command{
	Use:   "parts <pattern>",
	Short: "Search the database for MCUs matching the given regex",
	Long: `Search the database for parts whose name matches a regular expression
and print a one-line summary for each: part, product line and package.

Examples:
  pinmap parts STM32F103
  pinmap parts --mode 'STM32L4.*UFQFPN'`,
	Args: cobra.ExactArgs(1),
	RunE: runParts,
}

func init() {
	rootCmd.AddCommand(partsCmd)

	partsCmd.Flags().BoolVarP(&partsShowMode, "mode", "m", false,
		"show the GPIO mapping mode of each part")
}

func runParts(cmd *cobra.Command, args []string) error {
	db := mcudb.New(databaseDir)
	logger.Printf("searching %s for %q", db.Root(), args[0])

	parts, err := db.ListParts(args[0])
	if err != nil {
		return fmt.Errorf("failed to list parts: %w", err)
	}
	logger.Printf("found %d part(s)", len(parts))

	out := cmd.OutOrStdout()
	for _, name := range parts {
		part, err := db.LoadPart(name)
		if err != nil {
			return fmt.Errorf("failed to load part %s: %w", name, err)
		}
		if partsShowMode {
			fmt.Fprintf(out, "%s [%s]\n", part.Summary(), part.GpioMode)
		} else {
			fmt.Fprintln(out, part.Summary())
		}
	}
	return nil
}
