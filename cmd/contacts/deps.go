package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-contacts-auth/activitymap"
	"github.com/goliatone/go-contacts-auth/avatars"
	"github.com/goliatone/go-contacts-auth/config"
	"github.com/goliatone/go-contacts-auth/contacts"
	"github.com/goliatone/go-contacts-auth/logging"
	"github.com/goliatone/go-contacts-auth/mailer"
	"github.com/goliatone/go-contacts-auth/metrics"
)

type deps struct {
	cfg       *config.Config
	db        *bun.DB
	logger    *logging.Logrus
	sessions  *auth.SessionManager
	contacts  *contacts.Service
	avatars   *avatars.Service
	metrics   *metrics.Metrics
	avatarDir string
}

func (d *deps) Close() {
	if d.db != nil {
		_ = d.db.Close()
	}
}

// build wires every collaborator from the environment configuration
func build(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger := logging.New(level, nil)

	dbOpts := []auth.DBOption{}
	if cfg.Debug {
		dbOpts = append(dbOpts, auth.WithQueryDebug(true))
	}

	db, err := auth.OpenDB(cfg.DatabaseDSN, dbOpts...)
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, db: db, logger: logger}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.metrics = metrics.NewMetrics(registry)

	var dispatcher auth.EmailDispatcher = mailer.NewLogDispatcher(logger.WithField("component", "mailer"))
	if cfg.UseSendGrid() {
		dispatcher = mailer.NewSendGridDispatcher(cfg.SendGridAPIKey, cfg.MailFrom).
			WithLogger(logger.WithField("component", "mailer"))
	}

	renderer, err := mailer.NewTemplateRenderer()
	if err != nil {
		d.Close()
		return nil, err
	}

	store, avatarDir, err := avatarStore(ctx, cfg)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.avatarDir = avatarDir
	d.avatars = avatars.NewService(store, nil)

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret),
		auth.WithTokenTTL(cfg.TokenTTL),
		auth.WithTokenLogger(logger.WithField("component", "tokens")),
	)

	repos := auth.NewRepositoryManager(db)
	if err := repos.Validate(); err != nil {
		d.Close()
		return nil, err
	}

	d.sessions = auth.NewSessionManager(
		repos.Users(),
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		cfg.BaseURL,
	).
		WithLogger(logger.WithField("component", "auth")).
		WithRepositoryManager(repos).
		WithTokenTTL(cfg.TokenTTL).
		WithEmailDispatcher(dispatcher).
		WithVerificationRenderer(renderer).
		WithActivitySink(auth.MultiActivitySink{
			d.metrics,
			activitymap.NewLogSink(logger.WithField("component", "activity"), activitymap.WithEmailRedaction()),
		})

	d.contacts = contacts.NewService(contacts.NewStore(db)).
		WithLogger(logger.WithField("component", "contacts"))

	return d, nil
}

func avatarStore(ctx context.Context, cfg *config.Config) (avatars.Store, string, error) {
	if cfg.UseS3() {
		store, err := avatars.NewS3Store(ctx, avatars.S3Config{
			Bucket:    cfg.AvatarBucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		return store, "", err
	}

	store, err := avatars.NewLocalStore(cfg.AvatarDir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
