package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "invoice_management/docs"
	"invoice_management/internal/adapter/http/middleware"
	"invoice_management/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the API engine. /v1/ping and /swagger are public; every billing route
// requires a bearer token.
func NewRouter(h Handlers, verifier *middleware.TokenVerifier) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)

	private := v1.Group("")
	private.Use(middleware.Auth(verifier))
	addBillingRoutes(private, h)

	return router
}

// Run serves router on port until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, router *gin.Engine, port int) error {
	log := logger.WithComponent("http")
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", port).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setMiddlewares(router *gin.Engine) {
	log := logger.WithComponent("http")
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
