// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package lms is a typed client for the course-management service's
// JSON-over-HTTP API.
//
// A [Client] is constructed once per process from a [ClientConfig] and
// shared by every component. Requests are authorized by an [Authorizer]
// (the session store), which stamps the "Authorization: Token <value>"
// header and is told to drop its credentials when the server answers
// 401 to an authorized request.
//
// Every failure is classified by [KindOf] into the error taxonomy used
// across the module:
//
//   - [KindValidation]: *[ValidationError] raised before any request, or a
//     400 response carrying field errors.
//   - [KindNetworkUnavailable]: *[NetworkError], matching
//     [ErrNetworkUnavailable] under errors.Is.
//   - [KindMalformedResponse]: a 2xx body that does not decode, matching
//     [ErrMalformedResponse].
//   - [KindServerRejected]: *[APIError] with a 4xx status.
//   - [KindServerFault]: *[APIError] with a 5xx status.
//   - [KindPermissionDenied]: [ErrPermissionDenied], raised only by the
//     push-notification flow and never returned to callers.
package lms
