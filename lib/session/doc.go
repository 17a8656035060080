// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the signed-in user's token and identity,
// persists them across process restarts, and stamps the credential
// header on outgoing requests.
//
// The token and the user are always set or cleared together. A [Store]
// keeps the current [Session] in memory and mirrors it to a [Backend]
// under two keys, "token" and "user". Persistence failures never fail
// the caller: a session whose save could not be written stays valid for
// the life of the process, and a damaged record on disk loads as "no
// session".
//
// The store implements [lms.Authorizer], so a client built with the
// store attaches "Authorization: Token <value>" whenever a session is
// installed and clears the session when the server rejects the token.
package session
