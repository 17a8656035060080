// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xayahn/eduforge/lib/clock"
	"github.com/xayahn/eduforge/lib/testutil"
	"github.com/xayahn/eduforge/lms"
)

type recordingDevices struct {
	mu       sync.Mutex
	requests []lms.DeviceRequest
	err      error
}

func (d *recordingDevices) RegisterDevice(ctx context.Context, request lms.DeviceRequest) (*lms.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, request)
	if d.err != nil {
		return nil, d.err
	}
	return &lms.Device{ID: 41, DeviceType: request.DeviceType, Token: request.Token}, nil
}

func (d *recordingDevices) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

type transitions struct {
	mu     sync.Mutex
	states []State
}

func (tr *transitions) record(state State) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.states = append(tr.states, state)
}

func (tr *transitions) list() []State {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]State(nil), tr.states...)
}

func newRegistrar(t *testing.T, platform Platform, devices Devices, seen *transitions, clk clock.Clock) *Registrar {
	t.Helper()
	config := RegistrarConfig{
		Platform: platform,
		Devices:  devices,
		Clock:    clk,
		Logger:   testutil.DiscardLogger(),
	}
	if seen != nil {
		config.OnTransition = seen.record
	}
	registrar, err := NewRegistrar(config)
	if err != nil {
		t.Fatalf("NewRegistrar: %v", err)
	}
	return registrar
}

func equalStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAlreadyGrantedRegisters(t *testing.T) {
	t.Parallel()

	prompted := false
	platform := &StaticPlatform{
		Physical:   true,
		Permission: PermissionGranted,
		Token:      "ExponentPushToken[abc]",
		Prompt: func(context.Context) (Permission, error) {
			prompted = true
			return PermissionGranted, nil
		},
	}
	devices := &recordingDevices{}
	seen := &transitions{}
	registrar := newRegistrar(t, platform, devices, seen, nil)

	registration, ok := registrar.Run(context.Background())
	if !ok {
		t.Fatalf("Run reported no registration; state %v", registrar.State())
	}
	if prompted {
		t.Error("user was prompted although permission was already granted")
	}
	want := DeviceRegistration{PlatformToken: "ExponentPushToken[abc]", Registered: true, DeviceID: 41}
	if registration != want {
		t.Errorf("registration = %+v, want %+v", registration, want)
	}
	if len(devices.requests) != 1 || devices.requests[0] != (lms.DeviceRequest{DeviceType: "expo", Token: "ExponentPushToken[abc]"}) {
		t.Errorf("device requests = %+v", devices.requests)
	}

	wantStates := []State{Unchecked, PermissionRequested, Granted, TokenObtained, Registered}
	if got := seen.list(); !equalStates(got, wantStates) {
		t.Errorf("transitions = %v, want %v", got, wantStates)
	}
	if stored, ok := registrar.Registration(); !ok || stored != want {
		t.Errorf("Registration() = %+v, %v", stored, ok)
	}
}

func TestPromptGrantsPermission(t *testing.T) {
	t.Parallel()

	prompts := 0
	platform := &StaticPlatform{
		Physical: true,
		Token:    "tok",
		Prompt: func(context.Context) (Permission, error) {
			prompts++
			return PermissionGranted, nil
		},
	}
	registrar := newRegistrar(t, platform, &recordingDevices{}, nil, nil)

	if _, ok := registrar.Run(context.Background()); !ok {
		t.Fatalf("Run failed in state %v", registrar.State())
	}
	if prompts != 1 {
		t.Errorf("prompted %d times, want 1", prompts)
	}
}

func TestDeniedPermissionStopsQuietly(t *testing.T) {
	t.Parallel()

	platform := &StaticPlatform{Physical: true, Token: "tok"}
	devices := &recordingDevices{}
	seen := &transitions{}
	registrar := newRegistrar(t, platform, devices, seen, nil)

	registration, ok := registrar.Run(context.Background())
	if ok || registration != (DeviceRegistration{}) {
		t.Errorf("Run = %+v, %v; want no registration", registration, ok)
	}
	if registrar.State() != Denied {
		t.Errorf("state = %v, want denied", registrar.State())
	}
	if devices.count() != 0 {
		t.Errorf("made %d device requests after denial", devices.count())
	}
	wantStates := []State{Unchecked, PermissionRequested, Denied}
	if got := seen.list(); !equalStates(got, wantStates) {
		t.Errorf("transitions = %v, want %v", got, wantStates)
	}
}

func TestSimulatorIsSkipped(t *testing.T) {
	t.Parallel()

	devices := &recordingDevices{}
	registrar := newRegistrar(t, &StaticPlatform{Permission: PermissionGranted, Token: "tok"}, devices, nil, nil)

	if _, ok := registrar.Run(context.Background()); ok {
		t.Error("Run registered on a non-physical device")
	}
	if registrar.State() != Skipped {
		t.Errorf("state = %v, want skipped", registrar.State())
	}
	if devices.count() != 0 {
		t.Error("device request made on a non-physical device")
	}
}

func TestFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		platform *StaticPlatform
		devices  *recordingDevices
	}{
		{
			name:     "no token",
			platform: &StaticPlatform{Physical: true, Permission: PermissionGranted},
			devices:  &recordingDevices{},
		},
		{
			name:     "prompt error",
			platform: &StaticPlatform{Physical: true, Prompt: func(context.Context) (Permission, error) { return 0, errors.New("dialog crashed") }},
			devices:  &recordingDevices{},
		},
		{
			name:     "backend rejects",
			platform: &StaticPlatform{Physical: true, Permission: PermissionGranted, Token: "tok"},
			devices:  &recordingDevices{err: &lms.APIError{StatusCode: 500}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			registrar := newRegistrar(t, test.platform, test.devices, nil, nil)
			if _, ok := registrar.Run(context.Background()); ok {
				t.Error("Run reported success")
			}
			if registrar.State() != Failed {
				t.Errorf("state = %v, want failed", registrar.State())
			}
			if _, ok := registrar.Registration(); ok {
				t.Error("Registration() reports registered after failure")
			}
		})
	}
}

type panickingPlatform struct {
	StaticPlatform
	panicOnDevice bool
}

func (p *panickingPlatform) IsPhysicalDevice() bool {
	if p.panicOnDevice {
		panic("device probe crashed")
	}
	return true
}

func (p *panickingPlatform) PushToken(context.Context) (string, error) {
	panic("token service crashed")
}

func TestPlatformPanicIsContained(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		panicOnDevice bool
	}{
		{"device probe", true},
		{"token request", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			platform := &panickingPlatform{
				StaticPlatform: StaticPlatform{Physical: true, Permission: PermissionGranted},
				panicOnDevice:  test.panicOnDevice,
			}
			devices := &recordingDevices{}
			registrar := newRegistrar(t, platform, devices, nil, nil)

			done := registrar.Start(context.Background())
			testutil.RequireClosed(t, done, 5*time.Second, "run did not finish after a platform panic")
			if registrar.State() != Failed {
				t.Errorf("state = %v, want failed", registrar.State())
			}
			if _, ok := registrar.Registration(); ok {
				t.Error("Registration() reports registered after a panic")
			}
			if devices.count() != 0 {
				t.Error("device registered after a panic")
			}
		})
	}
}

type blockingPlatform struct {
	StaticPlatform
	release chan struct{}
}

func (p *blockingPlatform) PushToken(ctx context.Context) (string, error) {
	select {
	case <-p.release:
		return "late", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestStepTimeout(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(time.Unix(1_700_000_000, 0))
	platform := &blockingPlatform{
		StaticPlatform: StaticPlatform{Physical: true, Permission: PermissionGranted},
		release:        make(chan struct{}),
	}
	devices := &recordingDevices{}
	registrar := newRegistrar(t, platform, devices, nil, fake)

	done := registrar.Start(context.Background())

	// One timer for the permission check, one for the token request.
	fake.WaitForTimers(2)
	testutil.RequireNotClosed(t, done, 10*time.Millisecond, "run finished before the timeout")
	fake.Advance(DefaultStepTimeout)

	testutil.RequireClosed(t, done, 5*time.Second, "run did not finish after the step timeout")
	if registrar.State() != Failed {
		t.Errorf("state = %v, want failed", registrar.State())
	}
	if devices.count() != 0 {
		t.Error("device registered after token timeout")
	}
}

func TestStartDoesNotBlock(t *testing.T) {
	t.Parallel()

	platform := &blockingPlatform{
		StaticPlatform: StaticPlatform{Physical: true, Permission: PermissionGranted},
		release:        make(chan struct{}),
	}
	registrar := newRegistrar(t, platform, &recordingDevices{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := registrar.Start(ctx)
	testutil.RequireNotClosed(t, done, 20*time.Millisecond, "run finished while the platform was blocked")

	close(platform.release)
	testutil.RequireClosed(t, done, 5*time.Second, "run finished after release")
	cancel()

	if registrar.State() != Registered {
		t.Errorf("state = %v, want registered", registrar.State())
	}
}

func TestParsePermission(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Permission{
		"granted": PermissionGranted,
		"denied":  PermissionDenied,
		"prompt":  PermissionUndetermined,
		"":        PermissionUndetermined,
	} {
		got, err := ParsePermission(input)
		if err != nil || got != want {
			t.Errorf("ParsePermission(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParsePermission("maybe"); err == nil {
		t.Error("ParsePermission accepted an unknown value")
	}
}
