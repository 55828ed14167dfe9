package cmd

import (
	"fmt"

	"github.com/cwarden/weekcal/internal/theme"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Show or set the color theme",
	Long: `Without an argument, print the stored preference and the theme it
resolves to. With one, store the new preference; a running weekcal picks it up.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "system"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	store, err := openKV()
	if err != nil {
		return err
	}
	defer store.Close()

	themes, err := theme.NewService(store, nil)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		pref, err := theme.ParsePreference(args[0])
		if err != nil {
			return err
		}
		if err := themes.Set(pref); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", themes.Preference(), themes.Current())
	return nil
}
