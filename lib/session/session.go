// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"

	"github.com/xayahn/eduforge/lms"
)

// ErrIncompleteSession is returned by Save for a session missing its
// token, user id, or username.
var ErrIncompleteSession = errors.New("session: incomplete session")

var _ lms.Authorizer = (*Store)(nil)

// User is the signed-in identity.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name,omitempty"`
	Email        string `json:"email,omitempty"`
	IsInstructor bool   `json:"is_staff"`
}

// Session is an authenticated token paired with its user.
type Session struct {
	Token string
	User  User
}

// Complete reports whether the session can authorize requests.
func (s Session) Complete() bool {
	return s.Token != "" && s.User.ID != 0 && s.User.Username != ""
}

// FromAuth builds a Session from a login or registration response.
func FromAuth(response *lms.AuthResponse) Session {
	var session Session
	if response == nil {
		return session
	}
	session.Token = response.Token
	if user := response.User; user != nil {
		session.User = User{
			ID:           user.ID,
			Username:     user.Username,
			DisplayName:  user.DisplayName(),
			Email:        user.Email,
			IsInstructor: user.IsStaff,
		}
	}
	return session
}
