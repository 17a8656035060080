// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package classroom exposes the primary user actions, each gated by the
// signed-in user's capabilities. Every method checks the capability
// before any request and returns every failure to the caller.
package classroom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lib/session"
	"github.com/xayahn/eduforge/lib/submission"
	"github.com/xayahn/eduforge/lib/upload"
	"github.com/xayahn/eduforge/lms"
)

// ErrNotSignedIn is returned when no session is installed.
var ErrNotSignedIn = errors.New("classroom: not signed in")

const (
	// DefaultProjectPoints is used when a project is created without points.
	DefaultProjectPoints = 100

	// DefaultProjectDeadline is used when a project is created without a
	// deadline.
	DefaultProjectDeadline = "2025-12-31"

	dateLayout = "2006-01-02"
)

// Service is the subset of *lms.Client the facade calls.
type Service interface {
	GetCourse(ctx context.Context, courseID int64) (*lms.Course, error)
	CreateCourse(ctx context.Context, request lms.CourseRequest) (*lms.Course, error)
	DeleteCourse(ctx context.Context, courseID int64) error
	Enroll(ctx context.Context, request lms.EnrollmentRequest) (*lms.Enrollment, error)
	MarkLessonComplete(ctx context.Context, request lms.CompletionRequest) (*lms.CompletionResponse, error)
	CreateLesson(ctx context.Context, request lms.LessonRequest) (*lms.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID int64) error
	AddComment(ctx context.Context, request lms.CommentRequest) (*lms.Comment, error)
	CreateProject(ctx context.Context, request lms.ProjectRequest) (*lms.Project, error)
	UpdateProjectDeadline(ctx context.Context, projectID int64, deadline string) (*lms.Project, error)
	DeleteProject(ctx context.Context, projectID int64) error
	CreateAnnouncement(ctx context.Context, request lms.AnnouncementRequest) (*lms.Announcement, error)
	DeleteAnnouncement(ctx context.Context, announcementID int64) error
	ListSubmissions(ctx context.Context) ([]lms.Submission, error)
	GradeSubmission(ctx context.Context, submissionID int64, request lms.GradeRequest) (*lms.Submission, error)
	ListNotifications(ctx context.Context) ([]lms.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID int64) error
}

// Config holds configuration for creating a Classroom.
type Config struct {
	Service     Service
	Store       *session.Store
	Submissions *submission.Pipeline
	Attachments *submission.AttachmentPipeline

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Classroom is the capability-gated action surface.
type Classroom struct {
	service     Service
	store       *session.Store
	submissions *submission.Pipeline
	attachments *submission.AttachmentPipeline
	logger      *slog.Logger
}

// New creates a Classroom.
func New(config Config) (*Classroom, error) {
	switch {
	case config.Service == nil:
		return nil, fmt.Errorf("classroom: Service is required")
	case config.Store == nil:
		return nil, fmt.Errorf("classroom: Store is required")
	case config.Submissions == nil:
		return nil, fmt.Errorf("classroom: Submissions is required")
	case config.Attachments == nil:
		return nil, fmt.Errorf("classroom: Attachments is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Classroom{
		service:     config.Service,
		store:       config.Store,
		submissions: config.Submissions,
		attachments: config.Attachments,
		logger:      logger,
	}, nil
}

// Capabilities returns the current user's capability set.
func (c *Classroom) Capabilities() capability.Set {
	current, ok := c.store.Current()
	if !ok {
		return 0
	}
	return capability.For(&current)
}

// require returns the current session when it holds want.
func (c *Classroom) require(want capability.Capability) (session.Session, error) {
	current, ok := c.store.Current()
	if !ok {
		return session.Session{}, ErrNotSignedIn
	}
	if err := capability.Require(capability.For(&current), want); err != nil {
		return session.Session{}, err
	}
	return current, nil
}

// signedIn returns the current session.
func (c *Classroom) signedIn() (session.Session, error) {
	current, ok := c.store.Current()
	if !ok {
		return session.Session{}, ErrNotSignedIn
	}
	return current, nil
}

// JoinCourse enrolls the current learner in courseID.
func (c *Classroom) JoinCourse(ctx context.Context, courseID int64) (*lms.Enrollment, error) {
	current, err := c.require(capability.JoinCourse)
	if err != nil {
		return nil, err
	}
	enrollment, err := c.service.Enroll(ctx, lms.EnrollmentRequest{Student: current.User.ID, Course: courseID})
	if err != nil {
		return nil, fmt.Errorf("joining course %d: %w", courseID, err)
	}
	c.logger.Info("joined course", "user_id", current.User.ID, "course_id", courseID)
	return enrollment, nil
}

// CreateCourse adds a course taught by the current instructor.
func (c *Classroom) CreateCourse(ctx context.Context, title, description string) (*lms.Course, error) {
	current, err := c.require(capability.CreateCourse)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, lms.Invalid("title", "required")
	}
	course, err := c.service.CreateCourse(ctx, lms.CourseRequest{
		Title:          title,
		Description:    strings.TrimSpace(description),
		InstructorName: current.User.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("creating course %q: %w", title, err)
	}
	return course, nil
}

// CourseDetail returns a course with its content.
func (c *Classroom) CourseDetail(ctx context.Context, courseID int64) (*lms.Course, error) {
	if _, err := c.signedIn(); err != nil {
		return nil, err
	}
	course, err := c.service.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("fetching course %d: %w", courseID, err)
	}
	return course, nil
}

// MarkLessonComplete records a completed lesson for the current learner
// and returns the new progress percentage.
func (c *Classroom) MarkLessonComplete(ctx context.Context, courseID, lessonID int64) (int, error) {
	current, err := c.require(capability.JoinCourse)
	if err != nil {
		return 0, err
	}
	response, err := c.service.MarkLessonComplete(ctx, lms.CompletionRequest{
		Student: current.User.ID,
		Course:  courseID,
		Lesson:  lessonID,
	})
	if err != nil {
		return 0, fmt.Errorf("marking lesson %d complete: %w", lessonID, err)
	}
	return response.Progress, nil
}

// SubmitWork uploads the current learner's work for a project.
func (c *Classroom) SubmitWork(ctx context.Context, fields submission.Fields, attachment *upload.Descriptor) (submission.Result, error) {
	if _, err := c.require(capability.SubmitWork); err != nil {
		return submission.Result{}, err
	}
	return c.submissions.Submit(ctx, fields, attachment)
}

// Notifications returns the user's notifications.
func (c *Classroom) Notifications(ctx context.Context) ([]lms.Notification, error) {
	if _, err := c.signedIn(); err != nil {
		return nil, err
	}
	notifications, err := c.service.ListNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read.
func (c *Classroom) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	if _, err := c.signedIn(); err != nil {
		return err
	}
	if err := c.service.MarkNotificationRead(ctx, notificationID); err != nil {
		return fmt.Errorf("marking notification %d read: %w", notificationID, err)
	}
	return nil
}

// AddComment posts a comment on a lesson as the current user.
func (c *Classroom) AddComment(ctx context.Context, lessonID int64, text string) (*lms.Comment, error) {
	current, err := c.signedIn()
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, lms.Invalid("text", "required")
	}
	comment, err := c.service.AddComment(ctx, lms.CommentRequest{User: current.User.ID, Lesson: lessonID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("commenting on lesson %d: %w", lessonID, err)
	}
	return comment, nil
}

func validateDate(field, value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return lms.Invalid(field, "must be a YYYY-MM-DD date")
	}
	return nil
}
