// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a token. Login never attaches an
// existing credential.
func (c *Client) Login(ctx context.Context, request LoginRequest) (*AuthResponse, error) {
	var response AuthResponse
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      "auth/login/",
		body:      request,
		anonymous: true,
	}, &response)
	if err != nil {
		return nil, err
	}
	if err := response.validate(); err != nil {
		return nil, fmt.Errorf("%w: auth/login/: %v", ErrMalformedResponse, err)
	}
	return &response, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*AuthResponse, error) {
	var response AuthResponse
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      "auth/register/",
		body:      request,
		anonymous: true,
	}, &response)
	if err != nil {
		return nil, err
	}
	if err := response.validate(); err != nil {
		return nil, fmt.Errorf("%w: auth/register/: %v", ErrMalformedResponse, err)
	}
	return &response, nil
}

func (r *AuthResponse) validate() error {
	switch {
	case r.Token == "":
		return fmt.Errorf("response has no token")
	case r.User == nil:
		return fmt.Errorf("response has no user")
	case r.User.ID == 0:
		return fmt.Errorf("user has no id")
	case r.User.Username == "":
		return fmt.Errorf("user has no username")
	}
	return nil
}
