package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/leafscan/leafscan/internal/api"
	"github.com/leafscan/leafscan/internal/classifier"
	"github.com/leafscan/leafscan/internal/config"
	"github.com/leafscan/leafscan/internal/database"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LeafScan server",
	Long:  `Start the LeafScan web server. The classifier model is loaded once at startup; the process refuses to serve if the model artifact or the database is unavailable.`,
	Example: `leafscan serve --config config.yml
leafscan serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	svc, err := classifier.New(cfg.ModelPath)
	if err != nil {
		log.Fatalf("failed to load classifier model: %v", err)
	}
	log.Info("model loaded", "path", cfg.ModelPath, "id", svc.ModelID())

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("failed to create upload directory: %v", err)
	}

	server, err := api.New(cfg, db, svc, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "listen", cfg.Listen)
		return server.Run(ctx)
	})
	g.Go(func() error {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case <-c:
			log.Info("shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	log.Info("leafscan started successfully")
	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}
}
