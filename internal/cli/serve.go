package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/helios/internal/config"
	"github.com/rcliao/helios/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Run:   runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (default: $HELIOS_HTTP_PORT or 8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	port, _ := cmd.Flags().GetString("port")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		exitErr("configure", err)
	}
	httpCfg := a.cfg.HTTP
	if port != "" {
		httpCfg = config.HTTPConfig{Port: port}
	}

	reg := server.NewRegistry(server.SQLiteLogs(a.cfg.HistoryLimit))
	srv := server.New(a.engine, reg, a.log.With("component", "http"))
	if err := srv.ListenAndServe(ctx, httpCfg.Addr()); err != nil {
		exitErr("serve", err)
	}
}
