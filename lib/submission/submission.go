// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package submission

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/xayahn/eduforge/lib/upload"
	"github.com/xayahn/eduforge/lms"
)

var githubLinkPattern = regexp.MustCompile(`^(http|https)://\S+$`)

// Status is the lifecycle of one upload attempt.
type Status int

const (
	Draft Status = iota
	Validating
	Uploading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Draft:
		return "draft"
	case Validating:
		return "validating"
	case Uploading:
		return "uploading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Fields is the submission form.
type Fields struct {
	ProjectID   int64
	StudentName string
	GithubLink  string
	Comments    string
}

// PendingUpload tracks one submit attempt.
type PendingUpload struct {
	ID         uuid.UUID
	Fields     Fields
	Attachment *upload.Descriptor
	Digest     upload.Digest
	Status     Status
}

// Result is the outcome of Submit. Upload is populated even when Submit
// fails after validation.
type Result struct {
	Upload       PendingUpload
	SubmissionID int64
	Submission   *lms.Submission
}

// UploadError is a failure after validation: encoding the form or the
// request itself.
type UploadError struct {
	UploadID uuid.UUID
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("submission: upload %s failed: %v", e.UploadID, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Uploader posts encoded multipart bodies. *lms.Client implements it.
type Uploader interface {
	UploadSubmission(ctx context.Context, contentType string, body []byte) (*lms.Submission, error)
	UploadLessonAttachment(ctx context.Context, contentType string, body []byte) (*lms.LessonAttachment, error)
}

// Config holds configuration for creating a Pipeline or an
// AttachmentPipeline.
type Config struct {
	Uploader Uploader

	// OnStatus, if set, is called on every status change.
	OnStatus func(PendingUpload)

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

func (c Config) validate(component string) (*slog.Logger, error) {
	if c.Uploader == nil {
		return nil, fmt.Errorf("submission: %s needs an Uploader", component)
	}
	if c.Logger == nil {
		return slog.Default(), nil
	}
	return c.Logger, nil
}

// Pipeline submits project work.
type Pipeline struct {
	uploader Uploader
	onStatus func(PendingUpload)
	logger   *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(config Config) (*Pipeline, error) {
	logger, err := config.validate("Pipeline")
	if err != nil {
		return nil, err
	}
	return &Pipeline{uploader: config.Uploader, onStatus: config.OnStatus, logger: logger}, nil
}

// Validate checks fields and attachment without any I/O.
func Validate(fields Fields, attachment *upload.Descriptor) error {
	if fields.ProjectID == 0 {
		return lms.Invalid("project", "required")
	}
	if strings.TrimSpace(fields.StudentName) == "" {
		return lms.Invalid("student_name", "required")
	}
	link := strings.TrimSpace(fields.GithubLink)
	if link == "" && attachment == nil {
		return lms.Invalid("github_link", "a link or a file is required")
	}
	if link != "" && !githubLinkPattern.MatchString(link) {
		return lms.Invalid("github_link", "must be an http or https URL")
	}
	return nil
}

// Submit validates, encodes, and uploads one submission.
func (p *Pipeline) Submit(ctx context.Context, fields Fields, attachment *upload.Descriptor) (Result, error) {
	pending := PendingUpload{
		ID:         uuid.New(),
		Fields:     fields,
		Attachment: attachment,
		Status:     Draft,
	}
	p.transition(&pending, Validating)

	if err := Validate(fields, attachment); err != nil {
		p.transition(&pending, Failed)
		return Result{Upload: pending}, err
	}

	var form upload.Form
	form.AddField("project", strconv.FormatInt(fields.ProjectID, 10))
	form.AddField("student_name", strings.TrimSpace(fields.StudentName))
	if comments := strings.TrimSpace(fields.Comments); comments != "" {
		form.AddField("comments", comments)
	}
	if link := strings.TrimSpace(fields.GithubLink); link != "" {
		form.AddField("github_link", link)
	}
	if attachment != nil {
		form.SetFile("submitted_file", attachment)
	}

	body, err := form.Encode(ctx)
	if err != nil {
		p.transition(&pending, Failed)
		return Result{Upload: pending}, &UploadError{UploadID: pending.ID, Err: err}
	}
	pending.Digest = body.Digest
	p.transition(&pending, Uploading)

	submission, err := p.uploader.UploadSubmission(ctx, body.ContentType, body.Bytes)
	if err == nil && (submission == nil || submission.ID == 0) {
		err = fmt.Errorf("%w: submission response has no id", lms.ErrMalformedResponse)
	}
	if err != nil {
		p.transition(&pending, Failed)
		p.logger.Warn("submission upload failed",
			"upload_id", pending.ID,
			"project_id", fields.ProjectID,
			"error", err,
		)
		return Result{Upload: pending}, &UploadError{UploadID: pending.ID, Err: err}
	}

	p.transition(&pending, Succeeded)
	p.logger.Info("submission uploaded",
		"upload_id", pending.ID,
		"submission_id", submission.ID,
		"project_id", fields.ProjectID,
		"file_bytes", body.FileSize,
	)
	return Result{Upload: pending, SubmissionID: submission.ID, Submission: submission}, nil
}

func (p *Pipeline) transition(pending *PendingUpload, status Status) {
	pending.Status = status
	if p.onStatus != nil {
		p.onStatus(*pending)
	}
}
