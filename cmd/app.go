// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"moviecat/cli/internal/auth"
	"moviecat/cli/internal/backend"
	"moviecat/cli/internal/catalog"
	"moviecat/cli/internal/config"
	"moviecat/cli/internal/credstore"
	"moviecat/cli/internal/dsn"
	"moviecat/cli/internal/httperrors"
	"moviecat/cli/internal/logging"
)

// app is the dependency graph of one CLI run.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   dsn.Location
	jar     *credstore.Jar
	pipe    *backend.Pipeline
	api     *backend.HTTP
	auth    *auth.Service
	catalog *catalog.Client

	// outcome of the startup reconcile
	outcome    auth.Outcome
	reconciled bool
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

// loadConfig reads the config file and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	if flags.store != "" {
		cfg.Store = flags.store
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if flags.logJSON {
		cfg.Log.JSON = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, _ []string) error {
	if hasAnnotation(cmd, annOffline) {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	running = a
	cmd.SetContext(context.WithValue(ctx, appKey{}, a))

	if !hasAnnotation(cmd, annNoReconcile) {
		a.reconcile(ctx)
	}
	return nil
}

// running is the app built by setup, closed by Execute once the command
// returns whether it failed or not.
var running *app

func teardown() {
	if running != nil {
		running.close()
		running = nil
	}
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	parsed, err := dsn.Parse(cfg.Store)
	if err != nil {
		return nil, err
	}
	loc := *parsed
	jar, err := credstore.Open(ctx, loc, credstore.OpenOptions{KeyringPassword: cfg.KeyringPassword, Logger: log})
	if err != nil {
		storeHint(loc)
		return nil, err
	}

	pipe, err := backend.NewPipeline(backend.PipelineOptions{
		Timeout:   cfg.API.Timeout,
		Logger:    log.Named("http"),
		UserAgent: "moviecat/" + Version,
	})
	if err != nil {
		_ = jar.Close()
		return nil, err
	}
	api := backend.New(cfg.API, pipe, log.Named("api"))
	svc := auth.NewService(auth.Options{
		API:      api,
		Store:    jar,
		Pipeline: pipe,
		Logger:   log.Named("auth"),
		Timeout:  cfg.API.Timeout,
	})
	pipe.SetSource(svc)
	svc.Session().Subscribe(func(st auth.State) {
		log.Debug("session changed", zap.String("phase", st.Phase.String()), zap.String("user_id", st.UserID))
	})

	return &app{
		cfg:     cfg,
		log:     log,
		store:   loc,
		jar:     jar,
		pipe:    pipe,
		api:     api,
		auth:    svc,
		catalog: catalog.New(api),
	}, nil
}

// reconcile restores the session. It never fails the command.
func (a *app) reconcile(ctx context.Context) {
	stop := func() {}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		stop = startSpinner("Restoring session")
	}
	st, out := a.auth.Reconcile(ctx)
	stop()

	a.outcome, a.reconciled = out, true
	a.log.Debug("session reconciled",
		zap.String("outcome", out.String()),
		zap.String("phase", st.Phase.String()),
		zap.String("user_id", st.UserID),
	)
	if out == auth.Rejected {
		warnf("Your saved session is no longer valid and was removed. Run: moviecat login")
	}
}

func (a *app) host() string { return httperrors.ExtractHostFromURL(a.cfg.API.BaseURL) }

func (a *app) close() {
	if err := a.jar.Close(); err != nil {
		a.log.Warn("closing credential store", zap.Error(err))
	}
	_ = a.log.Sync()
}
