package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/fundtrail/internal/interfaces/http/middleware"
	"github.com/orris-inc/fundtrail/internal/interfaces/http/routes"
	"github.com/orris-inc/fundtrail/internal/shared/utils"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestLogger(c.log.Named("http")))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.Metrics(c.metrics))

	c.engine.GET("/health", c.health)
	c.engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))

	var writeLimit gin.HandlerFunc
	if c.rateLimiter != nil {
		writeLimit = c.rateLimiter.Limit()
	}

	routes.SetupFundingRoutes(c.engine, &routes.FundingRouteConfig{
		DonationHandler:   c.hdlrs.donation,
		AllocationHandler: c.hdlrs.allocation,
		ProjectHandler:    c.hdlrs.project,
		SummaryHandler:    c.hdlrs.summary,
		WriteLimit:        writeLimit,
	})
}

// health reports the database and Redis; the ledger network is not probed.
func (c *Container) health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	healthy := true

	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(reqCtx) != nil {
		checks["database"] = "unavailable"
		healthy = false
	}
	if err := c.redis.Ping(reqCtx).Err(); err != nil {
		checks["redis"] = "unavailable"
		healthy = false
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, utils.APIResponse{Success: false, Data: checks, Message: "degraded"})
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "healthy", checks)
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (c *Container) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.log.Infow("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// in-flight settlements get the full grace period
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
