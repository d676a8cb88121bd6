package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-contacts-auth/contacts"
	"github.com/goliatone/go-contacts-auth/httpapi"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Create missing tables before serving",
				Value: true,
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, err := build(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			if c.Bool("migrate") {
				if err := migrate(ctx, deps); err != nil {
					return err
				}
			}

			app := httpapi.New(httpapi.Config{
				Sessions:  deps.sessions,
				Contacts:  deps.contacts,
				Avatars:   deps.avatars,
				Metrics:   deps.metrics,
				Logger:    deps.logger,
				AvatarDir: deps.avatarDir,
			})

			errc := make(chan error, 1)
			go func() {
				deps.logger.Info("server listening", "addr", deps.cfg.Addr)
				errc <- app.Listen(deps.cfg.Addr)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			deps.logger.Info("server shutting down")
			return app.ShutdownWithTimeout(shutdownTimeout)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the users and contacts tables",
		Action: func(c *cli.Context) error {
			deps, err := build(c.Context)
			if err != nil {
				return err
			}
			defer deps.Close()

			return migrate(c.Context, deps)
		},
	}
}

func migrate(ctx context.Context, deps *deps) error {
	models := append(auth.Models(), contacts.Models()...)
	if err := auth.Migrate(ctx, deps.db, models...); err != nil {
		return err
	}
	deps.logger.Info("migrations applied", "tables", len(models))
	return nil
}
