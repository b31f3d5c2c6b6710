package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesKeepNames bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the signal filter rules",
	Long: `Print the compiled signal filter: built-in substitutions and
factorizations, rules from the --rules file and the exclusion set.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesKeepNames, "keep-names", false,
		"leave out built-in rules")
}

func runRules(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter(rulesKeepNames)
	if err != nil {
		return err
	}
	for _, line := range filter.Rules() {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
