// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package push negotiates a push-notification token with the device
// platform and registers it with the backend.
//
// Registration is best effort. A [Registrar] walks
//
//	Unchecked → PermissionRequested → Granted → TokenObtained → Registered
//
// with side exits to Denied (the user declined), Skipped (not a physical
// device), and Failed (any step error or timeout). Every failure is
// logged and discarded: [Registrar.Run] never returns an error and
// [Registrar.Start] never blocks its caller, so signing in is never
// delayed or failed by notification setup.
package push
