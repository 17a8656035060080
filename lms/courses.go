// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import (
	"context"
	"net/http"
)

// ListCourses returns the whole catalog.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.doJSON(ctx, http.MethodGet, "courses/", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse returns one course with its lessons, projects, quizzes, and
// announcements.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (*Course, error) {
	var course Course
	if err := c.doJSON(ctx, http.MethodGet, idPath("courses", courseID), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse adds a course to the catalog.
func (c *Client) CreateCourse(ctx context.Context, request CourseRequest) (*Course, error) {
	var course Course
	if err := c.doJSON(ctx, http.MethodPost, "courses/", request, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, courseID int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("courses", courseID), nil, nil)
}

// ListEnrollments returns every enrollment the server exposes. The
// server does not filter by user; callers filter by student id.
func (c *Client) ListEnrollments(ctx context.Context) ([]Enrollment, error) {
	var enrollments []Enrollment
	if err := c.doJSON(ctx, http.MethodGet, "enrollments/", nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Enroll joins a student to a course.
func (c *Client) Enroll(ctx context.Context, request EnrollmentRequest) (*Enrollment, error) {
	var enrollment Enrollment
	if err := c.doJSON(ctx, http.MethodPost, "enrollments/", request, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// MarkLessonComplete records a completed lesson and returns the new
// progress percentage.
func (c *Client) MarkLessonComplete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error) {
	var response CompletionResponse
	if err := c.doJSON(ctx, http.MethodPost, "enrollments/mark_complete/", request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
