package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	adapthttp "jobboard/internal/adapter/http"
	"jobboard/internal/adapter/postgres"
	"jobboard/internal/app"
	"jobboard/internal/config"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	identityRepo := postgres.NewIdentityRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	companyRepo := postgres.NewCompanyRepo(db)
	jobRepo := postgres.NewJobRepo(db)
	savedRepo := postgres.NewSavedJobRepo(db)
	applicationRepo := postgres.NewApplicationRepo(db)

	guard := app.NewGuard(jobRepo, companyRepo, applicationRepo, log)
	authSvc := app.NewAuthService(identityRepo, sessionRepo, cfg.SessionTTL, cfg.BcryptCost, log)
	jobSvc := app.NewJobService(jobRepo, companyRepo, savedRepo, guard)
	searchSvc := app.NewSearchService(jobRepo, savedRepo)
	applicationSvc := app.NewApplicationService(applicationRepo, jobRepo, guard, log)
	companySvc := app.NewCompanyService(companyRepo, log)
	statsSvc := app.NewStatsService(jobRepo, applicationRepo)

	oidcConfig := adapthttp.OIDCConfig{}
	if cfg.SSOEnabled() {
		provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuer)
		if err != nil {
			log.Fatalf("oidc provider: %v", err)
		}
		oidcConfig = adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: &oauth2.Config{
				ClientID:     cfg.OIDCClientID,
				ClientSecret: cfg.OIDCClientSecret,
				RedirectURL:  cfg.OIDCRedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "email"},
			},
		}
	}

	server := adapthttp.New(authSvc, jobSvc, searchSvc, applicationSvc, companySvc, statsSvc, guard, cfg.SessionTTL, cfg.Production, oidcConfig, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
