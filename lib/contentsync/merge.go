// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package contentsync

import "github.com/xayahn/eduforge/lms"

// EnrollmentView is one catalog course as seen by one user.
type EnrollmentView struct {
	CourseID        int64  `json:"course_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	InstructorName  string `json:"instructor_name,omitempty"`
	IsEnrolled      bool   `json:"is_enrolled"`
	ProgressPercent int    `json:"progress_percent"`
}

// Merge joins the catalog with userID's enrollments. Views follow
// catalog order. Enrollments of other students are ignored, a course
// with no matching enrollment is unenrolled with zero progress, and
// progress is clamped to [0, 100].
func Merge(courses []lms.Course, enrollments []lms.Enrollment, userID int64) []EnrollmentView {
	progress := make(map[int64]int, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.Student != userID {
			continue
		}
		progress[enrollment.Course] = enrollment.Progress
	}

	views := make([]EnrollmentView, 0, len(courses))
	for _, course := range courses {
		view := EnrollmentView{
			CourseID:       course.ID,
			Title:          course.Title,
			Description:    course.Description,
			InstructorName: course.InstructorName,
		}
		if percent, enrolled := progress[course.ID]; enrolled {
			view.IsEnrolled = true
			view.ProgressPercent = clampPercent(percent)
		}
		views = append(views, view)
	}
	return views
}

func clampPercent(percent int) int {
	return min(max(percent, 0), 100)
}

// CountUnread returns the number of unread notifications.
func CountUnread(notifications []lms.Notification) int {
	unread := 0
	for _, notification := range notifications {
		if !notification.IsRead {
			unread++
		}
	}
	return unread
}
