package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/fundtrail/internal/infrastructure/blockchain"
	"github.com/orris-inc/fundtrail/internal/infrastructure/config"
	"github.com/orris-inc/fundtrail/internal/infrastructure/metrics"
	"github.com/orris-inc/fundtrail/internal/interfaces/http/middleware"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases and handlers,
// and wires them together.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	redis   *redis.Client
	cfg     *config.Config
	log     logger.Interface
	metrics *metrics.Registry

	// Ledger network access shared by settlement, verification and reconciliation
	ledgerClient *blockchain.LedgerClient

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	rateLimiter *middleware.RateLimiter
}

// NewContainer wires the application on top of an open database and Redis client.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		redis:   redisClient,
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewRegistry(),
	}

	algod := blockchain.NewAlgodClient(&cfg.Ledger, log.Named("algod"))
	signer := blockchain.NewRemoteSigner(&cfg.Ledger, log.Named("signer"))
	c.ledgerClient = blockchain.NewLedgerClient(algod, signer, log.Named("ledger"))

	c.repos = newRepositories(db, log)
	c.ucs = c.newUseCases()
	c.hdlrs = c.newHandlers()

	if cfg.Server.RateLimitPerMinute > 0 {
		c.rateLimiter = middleware.NewRateLimiter(redisClient, cfg.Server.RateLimitPerMinute, time.Minute, log)
	}

	return c
}

