package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/hitrelay/packages/execlog"
	"github.com/abdul-hamid-achik/hitrelay/packages/executor"
	hitlog "github.com/abdul-hamid-achik/hitrelay/packages/log"
	"github.com/abdul-hamid-achik/hitrelay/packages/server"
	"github.com/abdul-hamid-achik/hitrelay/packages/stats"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var servePortFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the execution API",
	Long: `Start the HTTP API that executes request descriptions posted to /execute.

Examples:
  hitrelay serve
  hitrelay serve --port 8080
  HITRELAY_DATABASE=sqlite:///var/lib/hitrelay.db hitrelay serve`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", getEnvInt("HITRELAY_PORT", 0), "Port to listen on (env: HITRELAY_PORT)")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	if servePortFlag > 0 {
		cfg.Port = servePortFlag
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	logger := hitlog.GetLogger()
	collector := stats.NewCollector()
	recorder := execlog.NewRecorder(b.store)
	exec := executor.New(newClient(cfg), recorder, executor.WithObserver(collector))

	srv := server.New(exec,
		server.WithAddr(cfg.Addr()),
		server.WithStore(b.store),
		server.WithReader(b.reader),
		server.WithStats(collector),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		server.WithCORSOrigins(cfg.CORSOrigins),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down server...")
		cancel()
	}()

	return srv.StartWithContext(ctx)
}
