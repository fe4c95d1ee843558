package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/history"
)

var resetConfirm bool

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "Confirm clearing the allocation history")
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the allocation history and audit chain",
	Long:  "Deletes all persisted records and blocks. The next invocation starts\nfrom an empty table with a fresh genesis link.",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return fmt.Errorf("refusing to clear history without --yes")
	}

	hist, err := history.Open(historyPath)
	if err != nil {
		return err
	}
	defer hist.Close()

	if err := hist.Clear(); err != nil {
		return err
	}
	fmt.Println("history cleared")
	return nil
}
