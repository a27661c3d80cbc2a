package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"placements-hub/config"
	"placements-hub/internal/adapter/handler"
	"placements-hub/internal/infrastructure/sessionlog"
	"placements-hub/internal/infrastructure/token"
	appmw "placements-hub/middleware"
	"placements-hub/utils/logger"
	"placements-hub/utils/otel"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"
)

func main() {
	// Docker healthcheck subcommand for distroless images.
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
		}
	}()

	log := logger.Init(otelCfg.Enabled)

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"port", cfg.Port,
		"profile_shape", cfg.ProfileShape,
		"access_ttl", cfg.AccessTokenTTL,
		"refresh_ttl", cfg.RefreshTokenTTL)

	issuer := token.NewIssuer(token.Config{
		Secret:     cfg.TokenSecret,
		Issuer:     cfg.TokenIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	sessions := sessionlog.NewStore(cfg.SessionRetention)
	defer sessions.Stop()
	slog.InfoContext(ctx, "session audit store initialized", "retention", cfg.SessionRetention)

	authHandler := handler.NewAuthHandler(issuer, sessions, cfg.ProfileShape, log)
	catalogHandler := handler.NewCatalogHandler()
	healthHandler := handler.NewHealthHandler()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(appmw.SecurityHeaders())

	loginLimiter := appmw.NewLoginRateLimiter(rate.Limit(cfg.LoginRatePerSec), cfg.LoginRateBurst)

	e.GET("/api/health", healthHandler.Handle)

	auth := e.Group("/api/auth")
	auth.POST("/token/", authHandler.Token, loginLimiter.Middleware())
	auth.POST("/token/refresh/", authHandler.Refresh, loginLimiter.Middleware())

	bearer := appmw.BearerAuth(issuer)
	auth.GET("/user/", authHandler.User, bearer)
	auth.POST("/session/", authHandler.CreateSession, bearer)
	auth.GET("/session/", authHandler.ListSessions, bearer,
		appmw.RequireGroup("placement"))

	catalogHandler.Mount(e, bearer, appmw.RequireGroup("placement"))

	address := fmt.Sprintf(":%s", cfg.Port)
	go func() {
		slog.InfoContext(ctx, "starting placements backend", "address", address)
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.InfoContext(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "server exited properly")
}

// runHealthcheck probes the local health endpoint.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/api/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
