package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/shenikar/fire_calls_analysis/internal/handler/http/v1"
	"github.com/shenikar/fire_calls_analysis/internal/metrics"
	"github.com/shenikar/fire_calls_analysis/internal/service"
	"github.com/shenikar/fire_calls_analysis/internal/session"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/shenikar/fire_calls_analysis/docs"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the table once and serve queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("port", "", "HTTP port (HTTP_PORT)")
	return cmd
}

// newRouter собирает gin-роутер API
func newRouter(a *app, svc service.AnalysisService) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api/v1")
	v1.NewHandler(svc, a.log, a.cfg).RegisterRoutes(api)

	router.GET("/metrics", metrics.MetricsHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

func (a *app) serve(ctx context.Context) error {
	metrics.Init()

	sess, err := session.Open(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer sess.Close()

	// Таблица загружается один раз, дальше запросы только читают ее
	if err := sess.Service().Prepare(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.HTTPPort),
		Handler:           newRouter(a, sess.Service()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	a.log.Infof("HTTP server started on port %s", a.cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("error starting HTTP server: %w", err)
		}
		return nil
	case <-quit:
		a.log.Info("Received shutdown signal, shutting down server...")
	case <-ctx.Done():
		a.log.Info("Context cancelled, shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info("Server gracefully stopped")
	return nil
}
