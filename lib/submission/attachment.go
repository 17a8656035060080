// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package submission

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/xayahn/eduforge/lib/upload"
	"github.com/xayahn/eduforge/lms"
)

// AttachmentPipeline uploads files attached to lessons.
type AttachmentPipeline struct {
	uploader Uploader
	logger   *slog.Logger
}

// NewAttachmentPipeline creates an AttachmentPipeline.
func NewAttachmentPipeline(config Config) (*AttachmentPipeline, error) {
	logger, err := config.validate("AttachmentPipeline")
	if err != nil {
		return nil, err
	}
	return &AttachmentPipeline{uploader: config.Uploader, logger: logger}, nil
}

// Attach uploads descriptor as an attachment of lessonID. The
// descriptor's name becomes the attachment's display name.
func (p *AttachmentPipeline) Attach(ctx context.Context, lessonID int64, descriptor *upload.Descriptor) (*lms.LessonAttachment, error) {
	if lessonID == 0 {
		return nil, lms.Invalid("lesson", "required")
	}
	if descriptor == nil {
		return nil, lms.Invalid("file", "required")
	}

	uploadID := uuid.New()
	var form upload.Form
	form.AddField("lesson", strconv.FormatInt(lessonID, 10))
	form.AddField("display_name", descriptor.Name())
	form.SetFile("file", descriptor)

	body, err := form.Encode(ctx)
	if err != nil {
		return nil, &UploadError{UploadID: uploadID, Err: err}
	}

	attachment, err := p.uploader.UploadLessonAttachment(ctx, body.ContentType, body.Bytes)
	if err == nil && (attachment == nil || attachment.ID == 0) {
		err = fmt.Errorf("%w: attachment response has no id", lms.ErrMalformedResponse)
	}
	if err != nil {
		p.logger.Warn("lesson attachment upload failed",
			"upload_id", uploadID,
			"lesson_id", lessonID,
			"error", err,
		)
		return nil, &UploadError{UploadID: uploadID, Err: err}
	}

	p.logger.Info("lesson attachment uploaded",
		"upload_id", uploadID,
		"lesson_id", lessonID,
		"attachment_id", attachment.ID,
		"digest", body.Digest.String(),
	)
	return attachment, nil
}
