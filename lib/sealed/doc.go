// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts small local records (the persisted session) at
// rest with filippo.io/age x25519 keys.
//
// Identities live in age-keygen compatible files: comment lines starting
// with "#" followed by one AGE-SECRET-KEY-1... line. [Seal] encrypts to
// one or more recipient public keys and returns base64 text suitable for
// a JSON or plain-text file; [Open] reverses it with the identity.
package sealed
