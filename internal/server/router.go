package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DaniellaNwagu/credit-risk/internal/config"
	"github.com/DaniellaNwagu/credit-risk/internal/http/handlers"
	"github.com/DaniellaNwagu/credit-risk/internal/http/middleware"
	"github.com/DaniellaNwagu/credit-risk/internal/observability"
	"github.com/DaniellaNwagu/credit-risk/internal/version"
	"github.com/DaniellaNwagu/credit-risk/internal/ws"
)

// Dependencies are all optional; routes whose handler is nil are not mounted.
type Dependencies struct {
	Pinger          handlers.Pinger
	Metrics         *observability.Metrics
	BorrowerHandler *handlers.BorrowerHandler
	LoanHandler     *handlers.LoanHandler
	WSHandler       *ws.Handler
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Observe(logger, deps.Metrics))

	health := handlers.NewHealthHandler(deps.Pinger)
	meta := handlers.NewMetaHandler(cfg.Env, version.Version, cfg.StoreDriver)

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/v1/meta", meta.GetMeta)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(middleware.RequestBodyLimit(cfg.RequestBodyLimitBytes))

	if deps.BorrowerHandler != nil {
		api.POST("/borrowers", deps.BorrowerHandler.CreateBorrower)
		api.GET("/borrowers", deps.BorrowerHandler.ListBorrowers)
		api.GET("/borrowers/:id", deps.BorrowerHandler.GetBorrower)
		api.PUT("/borrowers/:id", deps.BorrowerHandler.UpdateBorrower)
		api.DELETE("/borrowers/:id", deps.BorrowerHandler.DeleteBorrower)
	}
	if deps.LoanHandler != nil {
		api.POST("/loans", deps.LoanHandler.CreateLoan)
		api.GET("/loans", deps.LoanHandler.ListLoans)
		api.GET("/loans/:id", deps.LoanHandler.GetLoan)
		api.PUT("/loans/:id", deps.LoanHandler.UpdateLoan)
		api.DELETE("/loans/:id", deps.LoanHandler.DeleteLoan)
	}
	if deps.WSHandler != nil {
		r.GET("/ws", deps.WSHandler.HandleWebSocket)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "route not found"})
	})

	return r
}
