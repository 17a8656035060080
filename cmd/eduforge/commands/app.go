// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/auth"
	"github.com/xayahn/eduforge/lib/classroom"
	"github.com/xayahn/eduforge/lib/config"
	"github.com/xayahn/eduforge/lib/contentsync"
	"github.com/xayahn/eduforge/lib/push"
	"github.com/xayahn/eduforge/lib/sealed"
	"github.com/xayahn/eduforge/lib/session"
	"github.com/xayahn/eduforge/lib/submission"
	"github.com/xayahn/eduforge/lib/tui"
	"github.com/xayahn/eduforge/lib/version"
	"github.com/xayahn/eduforge/lms"
)

// pushWait bounds how long a command waits for background push
// registration before exiting.
const pushWait = 15 * time.Second

// globalOptions are accepted by every command that talks to the service.
type globalOptions struct {
	ConfigPath string
	JSON       bool
}

func (o *globalOptions) bind(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.ConfigPath, "config", "", "configuration file (default $EDUFORGE_CONFIG)")
	flagSet.BoolVar(&o.JSON, "json", false, "write JSON instead of text")
}

// app holds the components one command invocation uses.
type app struct {
	config    *config.Config
	logger    *slog.Logger
	client    *lms.Client
	store     *session.Store
	registrar *push.Registrar
	gateway   *auth.Gateway
	syncer    *contentsync.Syncer
	cache     *contentsync.Cache
	classroom *classroom.Classroom

	theme  tui.Theme
	stdout io.Writer
	json   bool
}

// openOptions selects optional wiring.
type openOptions struct {
	// push starts device registration after sign-in or restore.
	push bool
}

func openApp(stdout io.Writer, global globalOptions, options openOptions) (*app, error) {
	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	logger, err := cli.NewCommandLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	timeout, err := cfg.APITimeout()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	var identity *sealed.Keypair
	if cfg.Session.IdentityFile != "" {
		identity, err = sealed.ReadIdentityFile(cfg.Session.IdentityFile)
		if err != nil {
			return nil, cli.Internal("loading session identity: %w", err)
		}
	}
	store := session.NewStore(session.StoreConfig{
		Backend: session.NewFileBackend(cfg.Session.File, identity),
		Logger:  logger,
	})

	client, err := lms.NewClient(lms.ClientConfig{
		APIRoot:    cfg.API.Root,
		HTTPClient: &http.Client{Timeout: timeout},
		Authorizer: store,
		UserAgent:  version.UserAgent(),
		Logger:     logger,
	})
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	a := &app{
		config: cfg,
		logger: logger,
		client: client,
		store:  store,
		theme:  tui.PlainTheme,
		stdout: stdout,
		json:   global.JSON,
	}
	if cli.IsTerminal() {
		a.theme = tui.DefaultTheme
	}

	gatewayConfig := auth.GatewayConfig{Client: client, Store: store, Logger: logger}
	if options.push && cfg.Push.Enabled {
		a.registrar, err = newRegistrar(cfg, client, logger)
		if err != nil {
			return nil, err
		}
		gatewayConfig.Push = a.registrar
	}
	if a.gateway, err = auth.NewGateway(gatewayConfig); err != nil {
		return nil, cli.Internal("%w", err)
	}

	if a.syncer, err = contentsync.NewSyncer(contentsync.SyncerConfig{Source: client, Logger: logger}); err != nil {
		return nil, cli.Internal("%w", err)
	}
	a.cache = contentsync.NewCache(cfg.Cache.Dir)

	submissions, err := submission.NewPipeline(submission.Config{Uploader: client, Logger: logger})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	attachments, err := submission.NewAttachmentPipeline(submission.Config{Uploader: client, Logger: logger})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	a.classroom, err = classroom.New(classroom.Config{
		Service:     client,
		Store:       store,
		Submissions: submissions,
		Attachments: attachments,
		Logger:      logger,
	})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return a, nil
}

func newRegistrar(cfg *config.Config, devices push.Devices, logger *slog.Logger) (*push.Registrar, error) {
	permission, err := push.ParsePermission(cfg.Push.Permission)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	stepTimeout, err := cfg.PushStepTimeout()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	token := cfg.Push.DeviceToken
	platform := &push.StaticPlatform{
		Physical:   cfg.Push.PhysicalDevice,
		Permission: permission,
		Token:      token,
		Prompt: func(ctx context.Context) (push.Permission, error) {
			if token == "" {
				return push.PermissionDenied, nil
			}
			return push.PermissionGranted, nil
		},
	}
	registrar, err := push.NewRegistrar(push.RegistrarConfig{
		Platform:    platform,
		Devices:     devices,
		StepTimeout: stepTimeout,
		OnTransition: func(state push.State) {
			logger.Debug("push registration", "state", state.String())
		},
		Logger: logger,
	})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return registrar, nil
}

// restore loads the saved session. Commands that need a user call it
// before acting; an absent session surfaces from the classroom as
// classroom.ErrNotSignedIn.
func (a *app) restore(ctx context.Context) (session.Session, bool) {
	return a.gateway.Restore(ctx)
}

// close waits briefly for push registration and releases connections.
func (a *app) close() {
	select {
	case <-a.gateway.PushDone():
	case <-time.After(pushWait):
		a.logger.Warn("push registration still running at exit")
	}
	a.client.CloseIdleConnections()
}

// emit writes value as JSON when --json is set and returns true.
func (a *app) emit(value any) (bool, error) {
	if !a.json {
		return false, nil
	}
	return true, cli.WriteJSON(a.stdout, value)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

// run opens the app, calls action, and categorizes its error.
func run(stdout io.Writer, global globalOptions, options openOptions, action func(ctx context.Context, a *app) error) error {
	a, err := openApp(stdout, global, options)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()
	return cli.Categorize(action(ctx, a))
}

func parseID(value, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("%s must be a positive integer, got %q", name, value)
	}
	return id, nil
}

func requireArgs(args []string, names ...string) error {
	if len(args) != len(names) {
		if len(names) == 0 {
			return cli.Validation("unexpected argument: %s", args[0])
		}
		return cli.Validation("expected %d argument(s): %v, got %d", len(names), names, len(args))
	}
	return nil
}
