package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete events by id",
	Long:  `Delete events by id. Ids are shown by "weekcal list --ids" and "weekcal add".`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	store, events, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	for _, id := range args {
		e, ok := events.Get(id)
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "No event %s\n", id)
			continue
		}
		if err := events.Delete(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q [%s]\n", e.Title, e.ID)
	}
	return nil
}
