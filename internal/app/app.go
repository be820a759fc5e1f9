// Package app wires configuration into stores, services and handlers for
// both binaries.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sizing-eval/internal/core/auth"
	"sizing-eval/internal/core/cache"
	"sizing-eval/internal/core/config"
	"sizing-eval/internal/core/database"
	"sizing-eval/internal/feature/evaluation"
	"sizing-eval/internal/feature/feedback"
	"sizing-eval/internal/feature/site"
	"sizing-eval/internal/feature/user"
	"sizing-eval/internal/repo"
	"sizing-eval/internal/scoring"
	"sizing-eval/internal/transport/http/handler"
	"sizing-eval/internal/transport/http/router"
	"sizing-eval/pkg/utils"
)

type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	// Cache is nil when redis is not configured or not reachable.
	Cache *cache.Cache
	Gate  *auth.Gate

	Users       *user.Service
	Evaluations *evaluation.Service
	Feedback    *feedback.Service
	Site        *site.Service
}

// Open connects the database (migrating when configured) and redis, then
// wires everything.
func Open(cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		l.Info("automigrate done")
	}
	return Wire(cfg, l, db, openCache(cfg.Redis, l))
}

func openCache(rc config.Redis, l *zap.Logger) *cache.Cache {
	if rc.Addr == "" {
		return nil
	}
	c := cache.New(rc.Addr, rc.Password, rc.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unreachable, status cache disabled", zap.String("addr", rc.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	l.Info("redis connected", zap.String("addr", rc.Addr))
	return c
}

// Wire builds services over an open database. c may be nil.
func Wire(cfg *config.Config, l *zap.Logger, db *gorm.DB, c *cache.Cache) (*App, error) {
	tokens := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if tokens.UsingDevSecret() {
		l.Warn("jwt.secret not set, signing tokens with the development secret")
	}

	scorer, err := scoring.New(cfg.Scoring.Provider, scoring.GeminiOpts{
		APIKey:   cfg.Scoring.APIKey,
		Endpoint: cfg.Scoring.Endpoint,
		Models:   cfg.Scoring.Models,
		Timeout:  time.Duration(cfg.Scoring.TimeoutSec) * time.Second,
		Logger:   l.Named("scoring"),
	})
	if err != nil {
		return nil, err
	}

	users := repo.NewUserRepo(db)
	evaluations := repo.NewEvaluationRepo(db)

	a := &App{
		Config: cfg,
		Log:    l,
		DB:     db,
		Cache:  c,
		Gate:   auth.NewGate(tokens, users),
		Users: user.NewService(users, utils.NewPasswordHasher(cfg.Auth.BcryptCost), tokens,
			cfg.Auth.EscalationSecret),
		Evaluations: evaluation.NewService(evaluations, users, scorer, l.Named("evaluation")),
		Feedback:    feedback.NewService(repo.NewFeedbackRepo(db), evaluations),
	}
	ttl := time.Duration(cfg.Redis.StatusTTLSec) * time.Second
	siteRepo, announcements := repo.NewSiteConfigRepo(db), repo.NewAnnouncementRepo(db)
	// keep a nil *cache.Cache out of the interface
	if c != nil {
		a.Site = site.NewService(siteRepo, announcements, c, ttl, l.Named("site"))
	} else {
		a.Site = site.NewService(siteRepo, announcements, nil, ttl, l.Named("site"))
	}
	return a, nil
}

func (a *App) RouterOptions() router.Options {
	return router.Options{
		Logger:      a.Log,
		Gate:        a.Gate,
		Limits:      a.Config.Limits,
		CORSOrigins: a.Config.App.CORSOrigins,
		Modules: router.NewRegistry(
			handler.NewUserHandler(a.Users, a.Gate),
			handler.NewEvaluationHandler(a.Evaluations, a.Gate),
			handler.NewFeedbackHandler(a.Feedback, a.Gate),
			handler.NewSiteHandler(a.Site),
		),
	}
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
