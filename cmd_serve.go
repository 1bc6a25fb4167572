package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"classmap-server-go/db"
	"classmap-server-go/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the map page and its API",
	Long: `Loads the roster once and serves the page at / with the JSON API under /api.
Each visitor's menu and camera state is kept in a session cookie.

With --watch the data directory is watched and the roster reloaded when either file changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().Bool("watch", false, "Reload the data files when they change")
	serveCmd.Flags().String("source", "", "Data source: file or redis (overrides data.source)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		cfg.Data.Watch = true
	}
	if source, _ := cmd.Flags().GetString("source"); source != "" {
		cfg.Data.Source = source
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := loadDataset(ctx, cmd)
	if err != nil {
		return err
	}
	snapshot := db.NewSnapshot(ds)

	if cfg.Data.Watch {
		watcher, err := db.NewDatasetWatcher(dataDir(cmd), snapshot, 0, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	apiHandler := handlers.NewAPIHandler(snapshot, cfg.PageOptions(), pageMeta(), newBuildID(), logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.NewRouter(apiHandler, cfg.Server.SessionSecret, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Starting server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
