// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"context"
	"errors"
	"fmt"
)

// Permission is the platform's notification permission.
type Permission int

const (
	PermissionUndetermined Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "undetermined"
	}
}

// ParsePermission accepts "granted", "denied", and "prompt" (or "").
func ParsePermission(value string) (Permission, error) {
	switch value {
	case "granted":
		return PermissionGranted, nil
	case "denied":
		return PermissionDenied, nil
	case "prompt", "":
		return PermissionUndetermined, nil
	}
	return PermissionUndetermined, fmt.Errorf("unknown notification permission %q (want granted, denied, or prompt)", value)
}

// Platform is the device's notification service.
type Platform interface {
	// IsPhysicalDevice reports whether push tokens can be issued here.
	// Simulators and emulators return false.
	IsPhysicalDevice() bool

	// PermissionStatus returns the current permission without prompting.
	PermissionStatus(ctx context.Context) (Permission, error)

	// RequestPermission prompts the user and returns their answer.
	RequestPermission(ctx context.Context) (Permission, error)

	// PushToken returns the platform push token for this device.
	PushToken(ctx context.Context) (string, error)
}

// ErrNoPushToken is returned by StaticPlatform when no token is set.
var ErrNoPushToken = errors.New("push: no push token available")

// StaticPlatform is a Platform driven by configuration.
type StaticPlatform struct {
	Physical   bool
	Permission Permission
	Token      string

	// Prompt answers RequestPermission. If nil, a request is denied.
	Prompt func(ctx context.Context) (Permission, error)
}

func (p *StaticPlatform) IsPhysicalDevice() bool {
	return p.Physical
}

func (p *StaticPlatform) PermissionStatus(ctx context.Context) (Permission, error) {
	return p.Permission, nil
}

func (p *StaticPlatform) RequestPermission(ctx context.Context) (Permission, error) {
	if p.Prompt == nil {
		return PermissionDenied, nil
	}
	answer, err := p.Prompt(ctx)
	if err != nil {
		return PermissionUndetermined, err
	}
	p.Permission = answer
	return answer, nil
}

func (p *StaticPlatform) PushToken(ctx context.Context) (string, error) {
	if p.Token == "" {
		return "", ErrNoPushToken
	}
	return p.Token, nil
}
