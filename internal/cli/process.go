package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
)

var processDrought bool

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().BoolVar(&processDrought, "drought", false, "Enable drought mode (halves benchmarks, restricts non-domestic sectors)")
}

var processCmd = &cobra.Command{
	Use:   "process <request text>",
	Short: "Process one allocation request",
	Long: "Parses and decides a request of the form\n" +
		`  "Region: 1, Population: 100, Sector: domestic, Volume: 5000, Cycle: 1"` + "\n" +
		"and appends the decision to the audit chain. Exits 0 on approved or\nreduced, 1 otherwise.",
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	sys, hist, err := loadSystem()
	if err != nil {
		return err
	}
	defer hist.Close()

	msg, status := sys.ProcessRequest(strings.Join(args, " "), processDrought)
	fmt.Printf("%s\t%s\n", status, msg)

	if status != model.StatusApproved && status != model.StatusReduced {
		os.Exit(1)
	}
	return nil
}
