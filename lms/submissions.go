// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import (
	"context"
	"net/http"
)

// ListSubmissions returns every submission. The server does not filter;
// callers select by project.
func (c *Client) ListSubmissions(ctx context.Context) ([]Submission, error) {
	var submissions []Submission
	if err := c.doJSON(ctx, http.MethodGet, "submissions/", nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// UploadSubmission posts a pre-encoded multipart body to submissions/.
func (c *Client) UploadSubmission(ctx context.Context, contentType string, body []byte) (*Submission, error) {
	var submission Submission
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "submissions/",
		body:        body,
		contentType: contentType,
	}, &submission)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GradeSubmission sets a submission's grade.
func (c *Client) GradeSubmission(ctx context.Context, submissionID int64, request GradeRequest) (*Submission, error) {
	var submission Submission
	if err := c.doJSON(ctx, http.MethodPatch, idPath("submissions", submissionID), request, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}
