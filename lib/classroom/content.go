// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package classroom

import (
	"context"
	"fmt"
	"strings"

	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lib/upload"
	"github.com/xayahn/eduforge/lms"
)

// LessonDraft is a new lesson with an optional attachment.
type LessonDraft struct {
	CourseID    int64
	Title       string
	ContentText string
	VideoURL    string
	Order       int
	Attachment  *upload.Descriptor
}

// CreateLesson creates a lesson and uploads its attachment. When the
// lesson is created but the attachment fails, the lesson is returned
// together with the *submission.UploadError.
func (c *Classroom) CreateLesson(ctx context.Context, draft LessonDraft) (*lms.Lesson, error) {
	if _, err := c.require(capability.EditContent); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, lms.Invalid("title", "required")
	}
	if draft.CourseID == 0 {
		return nil, lms.Invalid("course", "required")
	}
	order := draft.Order
	if order <= 0 {
		order = 1
	}

	lesson, err := c.service.CreateLesson(ctx, lms.LessonRequest{
		Course:      draft.CourseID,
		Title:       title,
		ContentText: strings.TrimSpace(draft.ContentText),
		VideoURL:    strings.TrimSpace(draft.VideoURL),
		Order:       order,
	})
	if err != nil {
		return nil, fmt.Errorf("creating lesson %q: %w", title, err)
	}

	if draft.Attachment == nil {
		return lesson, nil
	}
	attachment, err := c.attachments.Attach(ctx, lesson.ID, draft.Attachment)
	if err != nil {
		c.logger.Warn("lesson created but attachment failed",
			"lesson_id", lesson.ID,
			"file", draft.Attachment.Name(),
			"error", err,
		)
		return lesson, err
	}
	lesson.Attachments = append(lesson.Attachments, *attachment)
	return lesson, nil
}

// AttachToLesson uploads a file to an existing lesson.
func (c *Classroom) AttachToLesson(ctx context.Context, lessonID int64, attachment *upload.Descriptor) (*lms.LessonAttachment, error) {
	if _, err := c.require(capability.EditContent); err != nil {
		return nil, err
	}
	return c.attachments.Attach(ctx, lessonID, attachment)
}

// ProjectDraft is a new assignment. Zero Points and an empty Deadline
// take DefaultProjectPoints and DefaultProjectDeadline.
type ProjectDraft struct {
	CourseID     int64
	Title        string
	Instructions string
	Deadline     string
	Points       int
}

// CreateProject adds an assignment.
func (c *Classroom) CreateProject(ctx context.Context, draft ProjectDraft) (*lms.Project, error) {
	if _, err := c.require(capability.EditContent); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, lms.Invalid("title", "required")
	}
	if draft.CourseID == 0 {
		return nil, lms.Invalid("course", "required")
	}
	points := draft.Points
	if points == 0 {
		points = DefaultProjectPoints
	}
	if points < 0 {
		return nil, lms.Invalid("points", "must not be negative")
	}
	deadline := strings.TrimSpace(draft.Deadline)
	if deadline == "" {
		deadline = DefaultProjectDeadline
	}
	if err := validateDate("deadline", deadline); err != nil {
		return nil, err
	}

	project, err := c.service.CreateProject(ctx, lms.ProjectRequest{
		Course:       draft.CourseID,
		Title:        title,
		Instructions: strings.TrimSpace(draft.Instructions),
		Deadline:     deadline,
		Points:       points,
	})
	if err != nil {
		return nil, fmt.Errorf("creating project %q: %w", title, err)
	}
	return project, nil
}

// UpdateProjectDeadline moves an assignment's deadline.
func (c *Classroom) UpdateProjectDeadline(ctx context.Context, projectID int64, deadline string) (*lms.Project, error) {
	if _, err := c.require(capability.EditContent); err != nil {
		return nil, err
	}
	deadline = strings.TrimSpace(deadline)
	if err := validateDate("deadline", deadline); err != nil {
		return nil, err
	}
	project, err := c.service.UpdateProjectDeadline(ctx, projectID, deadline)
	if err != nil {
		return nil, fmt.Errorf("updating deadline of project %d: %w", projectID, err)
	}
	return project, nil
}

// CreateAnnouncement posts to a course.
func (c *Classroom) CreateAnnouncement(ctx context.Context, courseID int64, title, content string) (*lms.Announcement, error) {
	if _, err := c.require(capability.EditContent); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	switch {
	case title == "":
		return nil, lms.Invalid("title", "required")
	case content == "":
		return nil, lms.Invalid("content", "required")
	}
	announcement, err := c.service.CreateAnnouncement(ctx, lms.AnnouncementRequest{Course: courseID, Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("posting announcement to course %d: %w", courseID, err)
	}
	return announcement, nil
}

// ContentKind names a deletable resource.
type ContentKind string

const (
	KindCourse       ContentKind = "course"
	KindLesson       ContentKind = "lesson"
	KindProject      ContentKind = "project"
	KindAnnouncement ContentKind = "announcement"
)

// DeleteContent removes a course, lesson, project, or announcement.
func (c *Classroom) DeleteContent(ctx context.Context, kind ContentKind, id int64) error {
	if _, err := c.require(capability.DeleteContent); err != nil {
		return err
	}

	var err error
	switch kind {
	case KindCourse:
		err = c.service.DeleteCourse(ctx, id)
	case KindLesson:
		err = c.service.DeleteLesson(ctx, id)
	case KindProject:
		err = c.service.DeleteProject(ctx, id)
	case KindAnnouncement:
		err = c.service.DeleteAnnouncement(ctx, id)
	default:
		return lms.Invalid("kind", fmt.Sprintf("unknown content kind %q", kind))
	}
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	c.logger.Info("deleted content", "kind", string(kind), "id", id)
	return nil
}
