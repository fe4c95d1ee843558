package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/config"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/server"
)

var serveDrought bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDrought, "drought", false, "Enable drought mode for all requests")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Process request lines from stdin",
	Long: "Reads one allocation request per line from stdin and writes\n" +
		"\"status<TAB>message\" per decision to stdout. The config file is\nwatched and hot-reloaded on administrative edits. Stops on EOF or SIGINT.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	sys, hist, err := loadSystem()
	if err != nil {
		return err
	}
	defer hist.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	srv := server.New(sys, path, serveDrought, os.Stdin, os.Stdout)

	reloader, err := server.NewReloader(srv, []string{path})
	if err != nil {
		fmt.Fprintf(os.Stderr, "config watch disabled: %v\n", err)
	} else {
		go reloader.Run(ctx)
	}

	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
