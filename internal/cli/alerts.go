package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/alerts"
)

var alertsDispatch bool

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.Flags().BoolVar(&alertsDispatch, "dispatch", false, "Also send matching alerts to configured webhooks")
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate reservoir alert rules",
	Long:  "Checks every configured region against the drought and safe-level\nthresholds and recent allocations for large reductions.",
	Args:  cobra.NoArgs,
	RunE:  runAlerts,
}

func runAlerts(cmd *cobra.Command, args []string) error {
	sys, hist, err := loadSystem()
	if err != nil {
		return err
	}
	defer hist.Close()

	cfg := sys.Config()
	regions := make([]alerts.RegionState, 0, len(cfg.Regions))
	for id, r := range cfg.Regions {
		regions = append(regions, alerts.RegionState{ID: id, Level: r.ReservoirLevel})
	}

	active := alerts.Evaluate(regions, cfg.ReservoirSafeLevel, cfg.DroughtThreshold, sys.Store().Records())
	if len(active) == 0 {
		fmt.Println("no active alerts")
		return nil
	}

	dispatcher := alerts.NewDispatcher(cfg.Webhooks)
	for _, a := range active {
		fmt.Printf("%-8s %s (%s)\n", a.Severity, a.Message, a.Action)
		if alertsDispatch && dispatcher != nil {
			dispatcher.Dispatch(a)
		}
	}
	if alertsDispatch && dispatcher != nil {
		dispatcher.Wait()
	}
	return nil
}
