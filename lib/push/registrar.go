// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xayahn/eduforge/lib/clock"
	"github.com/xayahn/eduforge/lms"
)

// ErrPermissionDenied is logged when the user declines notifications.
var ErrPermissionDenied = lms.ErrPermissionDenied

// ErrStepTimeout is logged when a platform or backend step exceeds the
// configured step timeout.
var ErrStepTimeout = errors.New("push: step timed out")

// ErrStepPanicked is logged when a platform or backend call panics.
var ErrStepPanicked = errors.New("push: step panicked")

// DefaultStepTimeout bounds each platform and backend call.
const DefaultStepTimeout = 10 * time.Second

// State is a registration state.
type State int

const (
	Unchecked State = iota
	PermissionRequested
	Granted
	Denied
	TokenObtained
	Registered
	Skipped
	Failed
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case PermissionRequested:
		return "permission_requested"
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case TokenObtained:
		return "token_obtained"
	case Registered:
		return "registered"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DeviceRegistration is the outcome of a successful negotiation.
type DeviceRegistration struct {
	PlatformToken string
	Registered    bool
	DeviceID      int64
}

// Devices registers push tokens with the backend. *lms.Client
// implements it.
type Devices interface {
	RegisterDevice(ctx context.Context, request lms.DeviceRequest) (*lms.Device, error)
}

// RegistrarConfig holds configuration for creating a Registrar.
type RegistrarConfig struct {
	Platform Platform
	Devices  Devices

	// Clock measures step timeouts. If nil, the real clock is used.
	Clock clock.Clock

	// StepTimeout bounds each step. Zero means DefaultStepTimeout.
	StepTimeout time.Duration

	// OnTransition, if set, is called with every state entered.
	OnTransition func(State)

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Registrar runs the push negotiation. Runs are serialized; each run
// starts again from Unchecked.
type Registrar struct {
	platform     Platform
	devices      Devices
	clock        clock.Clock
	stepTimeout  time.Duration
	onTransition func(State)
	logger       *slog.Logger

	runMu sync.Mutex

	mu           sync.Mutex
	state        State
	registration DeviceRegistration
}

// NewRegistrar creates a Registrar.
func NewRegistrar(config RegistrarConfig) (*Registrar, error) {
	if config.Platform == nil {
		return nil, fmt.Errorf("push: Platform is required")
	}
	if config.Devices == nil {
		return nil, fmt.Errorf("push: Devices is required")
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	stepTimeout := config.StepTimeout
	if stepTimeout <= 0 {
		stepTimeout = DefaultStepTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{
		platform:     config.Platform,
		devices:      config.Devices,
		clock:        clk,
		stepTimeout:  stepTimeout,
		onTransition: config.OnTransition,
		logger:       logger,
	}, nil
}

// State returns the current state.
func (r *Registrar) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Registration returns the last registration outcome and whether the
// token reached the backend.
func (r *Registrar) Registration() (DeviceRegistration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registration, r.registration.Registered
}

// Start runs the negotiation on its own goroutine. The returned channel
// is closed when the run finishes.
func (r *Registrar) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	return done
}

// Run performs the negotiation and reports the registration when the
// token reached the backend. Failures are logged, never returned.
func (r *Registrar) Run(ctx context.Context) (DeviceRegistration, bool) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	r.reset()

	physical, err := r.physicalDevice()
	if err != nil {
		return r.fail("checking device", err)
	}
	if !physical {
		r.logger.Info("push notifications need a physical device, skipping")
		r.enter(Skipped)
		return DeviceRegistration{}, false
	}

	permission, err := runStep(ctx, r, "checking permission", r.platform.PermissionStatus)
	if err != nil {
		return r.fail("checking notification permission", err)
	}

	r.enter(PermissionRequested)
	if permission != PermissionGranted {
		permission, err = runStep(ctx, r, "requesting permission", r.platform.RequestPermission)
		if err != nil {
			return r.fail("requesting notification permission", err)
		}
	}
	if permission != PermissionGranted {
		r.logger.Info("push registration stopped", "error", ErrPermissionDenied, "permission", permission.String())
		r.enter(Denied)
		return DeviceRegistration{}, false
	}
	r.enter(Granted)

	token, err := runStep(ctx, r, "obtaining push token", r.platform.PushToken)
	if err != nil {
		return r.fail("obtaining push token", err)
	}
	r.mu.Lock()
	r.registration.PlatformToken = token
	r.mu.Unlock()
	r.enter(TokenObtained)

	device, err := runStep(ctx, r, "registering device", func(ctx context.Context) (*lms.Device, error) {
		return r.devices.RegisterDevice(ctx, lms.DeviceRequest{DeviceType: lms.DeviceTypeExpo, Token: token})
	})
	if err != nil {
		return r.fail("registering device with backend", err)
	}

	r.mu.Lock()
	r.registration.Registered = true
	if device != nil {
		r.registration.DeviceID = device.ID
	}
	registration := r.registration
	r.mu.Unlock()
	r.enter(Registered)

	r.logger.Info("push token registered", "device_id", registration.DeviceID)
	return registration, true
}

func (r *Registrar) reset() {
	r.mu.Lock()
	r.registration = DeviceRegistration{}
	r.mu.Unlock()
	r.enter(Unchecked)
}

func (r *Registrar) enter(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
	if r.onTransition != nil {
		r.onTransition(state)
	}
}

func (r *Registrar) fail(step string, err error) (DeviceRegistration, bool) {
	r.logger.Warn("push registration failed", "step", step, "error", err)
	r.enter(Failed)
	return DeviceRegistration{}, false
}

func (r *Registrar) physicalDevice() (physical bool, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("checking device: %w: %v", ErrStepPanicked, recovered)
		}
	}()
	return r.platform.IsPhysicalDevice(), nil
}

// runStep runs fn under the step timeout. A panic in fn becomes the
// step's error. A step that outlives its
// timeout keeps running in the background with a cancelled context and
// its result is discarded.
func runStep[T any](ctx context.Context, r *Registrar, name string, fn func(context.Context) (T, error)) (T, error) {
	stepCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				done <- result{err: fmt.Errorf("%s: %w: %v", name, ErrStepPanicked, recovered)}
			}
		}()
		value, err := fn(stepCtx)
		done <- result{value, err}
	}()

	var zero T
	select {
	case outcome := <-done:
		return outcome.value, outcome.err
	case <-r.clock.After(r.stepTimeout):
		return zero, fmt.Errorf("%s after %v: %w", name, r.stepTimeout, ErrStepTimeout)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
