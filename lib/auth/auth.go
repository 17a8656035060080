// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth performs the login and registration exchanges and
// installs the resulting session.
//
// On success the session is persisted and the credential header is live
// before the call returns. Push registration starts afterwards in the
// background; its outcome never reaches the caller.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/xayahn/eduforge/lib/session"
	"github.com/xayahn/eduforge/lms"
)

var (
	// ErrInvalidCredentials is returned when the server refuses the
	// username and password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUsernameTaken is returned when registration names an existing
	// account.
	ErrUsernameTaken = errors.New("auth: username already taken")
)

// Client is the subset of *lms.Client the gateway uses.
type Client interface {
	Login(ctx context.Context, request lms.LoginRequest) (*lms.AuthResponse, error)
	Register(ctx context.Context, request lms.RegisterRequest) (*lms.AuthResponse, error)
}

// PushStarter starts background push registration. *push.Registrar
// implements it.
type PushStarter interface {
	Start(ctx context.Context) <-chan struct{}
}

// GatewayConfig holds configuration for creating a Gateway.
type GatewayConfig struct {
	Client Client
	Store  *session.Store

	// Push is started after every successful sign-in. Optional.
	Push PushStarter

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Profile is the registration form.
type Profile struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	TeacherCode string
}

// Gateway signs users in and out.
type Gateway struct {
	client Client
	store  *session.Store
	push   PushStarter
	logger *slog.Logger

	// installMu serializes exchange-and-install sequences so that
	// overlapping sign-ins are applied in call order.
	installMu sync.Mutex

	pushMu   sync.Mutex
	pushDone <-chan struct{}
}

// NewGateway creates a Gateway.
func NewGateway(config GatewayConfig) (*Gateway, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("auth: Client is required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("auth: Store is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client: config.Client,
		store:  config.Store,
		push:   config.Push,
		logger: logger,
	}, nil
}

// Authenticate exchanges username and password for a session.
func (g *Gateway) Authenticate(ctx context.Context, username, password string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return session.Session{}, lms.Invalid("username", "required")
	}
	if password == "" {
		return session.Session{}, lms.Invalid("password", "required")
	}

	g.installMu.Lock()
	defer g.installMu.Unlock()

	response, err := g.client.Login(ctx, lms.LoginRequest{Username: username, Password: password})
	if err != nil {
		if isCredentialRejection(err) {
			return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return session.Session{}, fmt.Errorf("signing in as %s: %w", username, err)
	}
	return g.install(ctx, response, "signed in")
}

// Register creates an account and signs in as it.
func (g *Gateway) Register(ctx context.Context, profile Profile) (session.Session, error) {
	request := lms.RegisterRequest{
		Username:    strings.TrimSpace(profile.Username),
		Password:    profile.Password,
		Email:       strings.TrimSpace(profile.Email),
		FirstName:   strings.TrimSpace(profile.FirstName),
		LastName:    strings.TrimSpace(profile.LastName),
		TeacherCode: strings.TrimSpace(profile.TeacherCode),
	}
	switch {
	case request.Username == "":
		return session.Session{}, lms.Invalid("username", "required")
	case request.Password == "":
		return session.Session{}, lms.Invalid("password", "required")
	case request.Email == "":
		return session.Session{}, lms.Invalid("email", "required")
	}

	g.installMu.Lock()
	defer g.installMu.Unlock()

	response, err := g.client.Register(ctx, request)
	if err != nil {
		var apiErr *lms.APIError
		if errors.As(err, &apiErr) && usernameTaken(apiErr) {
			return session.Session{}, fmt.Errorf("%w: %w", ErrUsernameTaken, err)
		}
		return session.Session{}, fmt.Errorf("registering %s: %w", request.Username, err)
	}
	return g.install(ctx, response, "registered account")
}

// usernameTaken reports whether a registration rejection is the
// server's uniqueness complaint about the username. Other username
// errors (format, length) stay plain validation errors.
func usernameTaken(apiErr *lms.APIError) bool {
	if apiErr.StatusCode != http.StatusBadRequest {
		return false
	}
	messages, _ := apiErr.FieldError("username")
	for _, message := range messages {
		if strings.Contains(strings.ToLower(message), "already exists") {
			return true
		}
	}
	return false
}

// Logout clears the session locally and on disk.
func (g *Gateway) Logout(ctx context.Context) {
	g.installMu.Lock()
	defer g.installMu.Unlock()

	if current, ok := g.store.Current(); ok {
		g.logger.Info("signing out", "user_id", current.User.ID)
	}
	g.store.Clear(ctx)
}

// Restore loads the persisted session at process start and, when one is
// found, starts push registration.
func (g *Gateway) Restore(ctx context.Context) (session.Session, bool) {
	g.installMu.Lock()
	defer g.installMu.Unlock()

	restored, ok := g.store.Load(ctx)
	if ok {
		g.startPush(ctx)
	}
	return restored, ok
}

// PushDone returns a channel closed when the most recently started push
// registration finishes. It is closed immediately when none was started.
func (g *Gateway) PushDone() <-chan struct{} {
	g.pushMu.Lock()
	defer g.pushMu.Unlock()
	if g.pushDone == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return g.pushDone
}

func (g *Gateway) install(ctx context.Context, response *lms.AuthResponse, action string) (session.Session, error) {
	installed := session.FromAuth(response)
	if !installed.Complete() {
		return session.Session{}, fmt.Errorf("%w: auth response lacks token or user", lms.ErrMalformedResponse)
	}
	if err := g.store.Save(ctx, installed); err != nil {
		return session.Session{}, err
	}

	g.logger.Info(action,
		"user_id", installed.User.ID,
		"username", installed.User.Username,
		"instructor", installed.User.IsInstructor,
	)
	g.startPush(ctx)
	return installed, nil
}

func (g *Gateway) startPush(ctx context.Context) {
	if g.push == nil {
		return
	}
	done := g.push.Start(context.WithoutCancel(ctx))
	g.pushMu.Lock()
	g.pushDone = done
	g.pushMu.Unlock()
}

// isCredentialRejection reports whether a login failure means the
// credentials were wrong rather than the server being unreachable.
func isCredentialRejection(err error) bool {
	var apiErr *lms.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized
}
