// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import (
	"context"
	"net/http"
)

// CreateLesson adds a lesson to a course.
func (c *Client) CreateLesson(ctx context.Context, request LessonRequest) (*Lesson, error) {
	var lesson Lesson
	if err := c.doJSON(ctx, http.MethodPost, "lessons/", request, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetLesson returns a lesson with its comments and attachments.
func (c *Client) GetLesson(ctx context.Context, lessonID int64) (*Lesson, error) {
	var lesson Lesson
	if err := c.doJSON(ctx, http.MethodGet, idPath("lessons", lessonID), nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// DeleteLesson removes a lesson.
func (c *Client) DeleteLesson(ctx context.Context, lessonID int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("lessons", lessonID), nil, nil)
}

// UploadLessonAttachment posts a pre-encoded multipart body to
// lesson-attachments/.
func (c *Client) UploadLessonAttachment(ctx context.Context, contentType string, body []byte) (*LessonAttachment, error) {
	var attachment LessonAttachment
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "lesson-attachments/",
		body:        body,
		contentType: contentType,
	}, &attachment)
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// AddComment posts a comment on a lesson.
func (c *Client) AddComment(ctx context.Context, request CommentRequest) (*Comment, error) {
	var comment Comment
	if err := c.doJSON(ctx, http.MethodPost, "comments/", request, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// CreateProject adds an assignment to a course.
func (c *Client) CreateProject(ctx context.Context, request ProjectRequest) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, http.MethodPost, "projects/", request, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProjectDeadline changes an assignment's deadline (YYYY-MM-DD).
func (c *Client) UpdateProjectDeadline(ctx context.Context, projectID int64, deadline string) (*Project, error) {
	var project Project
	body := map[string]string{"deadline": deadline}
	if err := c.doJSON(ctx, http.MethodPatch, idPath("projects", projectID), body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes an assignment.
func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("projects", projectID), nil, nil)
}

// CreateAnnouncement posts an announcement to a course.
func (c *Client) CreateAnnouncement(ctx context.Context, request AnnouncementRequest) (*Announcement, error) {
	var announcement Announcement
	if err := c.doJSON(ctx, http.MethodPost, "announcements/", request, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// DeleteAnnouncement removes an announcement.
func (c *Client) DeleteAnnouncement(ctx context.Context, announcementID int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("announcements", announcementID), nil, nil)
}
