// @title VIT Travel Buddy API
// @version 1.0
// @description Ride sharing companion matching and travel group management for VIT students

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/pflag"

	_ "github.com/supriya-vit2006/vit-travel-buddy-s/docs" // This is required for swagger
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/handlers"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/routes"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/scheduler"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store/memstore"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store/mongostore"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store/pgstore"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store/sqlitestore"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

func main() {
	flagSet := pflag.NewFlagSet("vit-travel-buddy", pflag.ContinueOnError)
	envFile := flagSet.String("env-file", "", "read configuration from this file instead of .env")
	sweepOnly := flagSet.Bool("sweep-only", false, "run the expiry and old group sweeps once and exit")
	port := flagSet.StringP("port", "p", "", "listen port, overrides SERVER_PORT")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	if *port != "" {
		cfg.Server.Port = *port
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Log.Fatalf("timezone: %v", err)
	}

	// ping the store at boot
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 20*time.Second)
	st, err := openStore(openCtx, cfg)
	cancelOpen()
	if err != nil {
		logger.Log.Fatalf("store: %v", err)
	}
	defer st.Close()
	logger.Log.WithField("driver", cfg.Store.Driver).Info("Record store ready")

	svc := services.New(services.Options{
		Store:           st,
		Notifier:        buildNotifier(cfg, st),
		Location:        loc,
		ExpiryGrace:     cfg.Matching.ExpiryGrace,
		GroupRetention:  cfg.Matching.GroupRetention,
		StationLeadTime: cfg.Matching.StationLeadTime,
		AirportLeadTime: cfg.Matching.AirportLeadTime,
	})

	// start-up sweep
	sweepCtx, cancelSweep := context.WithTimeout(context.Background(), time.Minute)
	sweepErr := scheduler.RunSweeps(sweepCtx, svc.Requests, svc.Groups)
	cancelSweep()
	if *sweepOnly {
		if sweepErr != nil {
			logger.Log.WithError(sweepErr).Fatal("sweep failed")
		}
		return
	}

	sweeps, err := scheduler.StartSweepCron(cfg.Matching.SweepSchedule, loc, svc.Requests, svc.Groups)
	if err != nil {
		logger.Log.Fatalf("sweep schedule %q: %v", cfg.Matching.SweepSchedule, err)
	}
	defer sweeps.Stop()

	// --- HTTP Handlers ---
	router := routes.SetupRoutes(routes.Handlers{
		Auth:           handlers.NewAuthHandler(svc.Users, &cfg.JWT),
		Health:         handlers.NewHealthHandler(st),
		TravelRequests: handlers.NewTravelRequestHandler(svc, cfg.Matching.DefaultTopN),
		Groups:         handlers.NewGroupHandler(svc),
		GroupRequests:  handlers.NewGroupRequestHandler(svc),
	}, &cfg.JWT)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Log.Infof("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for SIGINT/SIGTERM and shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("Server shutdown error: %v", err)
	}
	logger.Log.Info("Server stopped.")
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return pgstore.Open(ctx, cfg.GetDSN(), pgstore.Options{
			MaxConns:        cfg.Store.MaxConns,
			MinConns:        cfg.Store.MinConns,
			MaxConnLifetime: cfg.Store.MaxLifetime,
			SimpleProtocol:  cfg.Store.SimpleProtocol,
		})
	case config.DriverSQLite:
		return sqlitestore.Open(cfg.Store.SQLitePath)
	case config.DriverMongo:
		return mongostore.Open(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	default:
		return memstore.New(), nil
	}
}

// buildNotifier always logs and also mails when SMTP is configured
func buildNotifier(cfg *config.Config, st *store.Store) services.Notifier {
	if !cfg.IsEmailConfigured() {
		return services.LogNotifier{}
	}
	return services.MultiNotifier{
		services.LogNotifier{},
		services.EmailNotifier{Mail: utils.NewEmailService(&cfg.Email), Users: st.Users},
	}
}
