// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/xayahn/eduforge/lib/contentsync"
	"github.com/xayahn/eduforge/lms"
)

// RenderProgressBar draws a width-cell bar for percent, clamped to
// [0, 100], followed by the percentage.
func RenderProgressBar(theme Theme, width, percent int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))

	filled := width * percent / 100
	if percent > 0 && filled == 0 {
		filled = 1
	}
	bar := style(theme.ProgressFill).Render(strings.Repeat("█", filled)) +
		style(theme.ProgressTrack).Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, percent)
}

// DescriptionWidth is the cell width course descriptions are cut to.
const DescriptionWidth = 48

// RenderDashboard lists courses with enrollment state and progress.
// stale, when non-empty, is shown as a header note for cached views.
func RenderDashboard(theme Theme, views []contentsync.EnrollmentView, unread int, stale string) string {
	var builder strings.Builder

	header := style(theme.HeaderForeground).Bold(true).Render("Courses")
	if unread > 0 {
		header += "  " + style(theme.Unread).Render(fmt.Sprintf("%d unread", unread))
	}
	builder.WriteString(header + "\n")
	if stale != "" {
		builder.WriteString(style(theme.FaintText).Render(stale) + "\n")
	}
	if len(views) == 0 {
		builder.WriteString(style(theme.FaintText).Render("  no courses") + "\n")
		return builder.String()
	}

	titleWidth := 0
	for _, view := range views {
		titleWidth = max(titleWidth, lipgloss.Width(view.Title))
	}
	titleStyle := style(theme.NormalText).Width(titleWidth)
	idStyle := style(theme.FaintText).Width(6)

	for _, view := range views {
		row := idStyle.Render(fmt.Sprintf("#%d", view.CourseID)) + titleStyle.Render(view.Title) + "  "
		if view.IsEnrolled {
			row += RenderProgressBar(theme, 20, view.ProgressPercent)
		} else {
			row += style(theme.Unenrolled).Render("not enrolled")
		}
		if view.InstructorName != "" {
			row += "  " + style(theme.FaintText).Render(view.InstructorName)
		}
		builder.WriteString("  " + row + "\n")
		if view.Description != "" {
			description := ansi.Truncate(strings.Join(strings.Fields(view.Description), " "), DescriptionWidth, "…")
			builder.WriteString("        " + style(theme.FaintText).Render(description) + "\n")
		}
	}
	return builder.String()
}

// RenderGrades lists submissions with their grade or an ungraded marker.
func RenderGrades(theme Theme, submissions []lms.Submission) string {
	if len(submissions) == 0 {
		return style(theme.FaintText).Render("no submissions") + "\n"
	}
	var builder strings.Builder
	idStyle := style(theme.FaintText).Width(6)
	for _, entry := range submissions {
		grade := style(theme.Ungraded).Render("pending")
		if entry.Grade != nil {
			grade = style(theme.GradeColor(*entry.Grade)).Render(fmt.Sprintf("%d/100", *entry.Grade))
		}
		fmt.Fprintf(&builder, "%s project %-4d %-20s %s", idStyle.Render(fmt.Sprintf("#%d", entry.ID)),
			entry.Project, entry.StudentName, grade)
		if entry.Feedback != "" {
			builder.WriteString("  " + style(theme.FaintText).Render(entry.Feedback))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// RenderNotifications lists notifications, unread ones highlighted.
func RenderNotifications(theme Theme, notifications []lms.Notification) string {
	if len(notifications) == 0 {
		return style(theme.FaintText).Render("no notifications") + "\n"
	}
	var builder strings.Builder
	for _, notification := range notifications {
		marker := "  "
		titleStyle := style(theme.FaintText)
		if !notification.IsRead {
			marker = style(theme.Unread).Render("● ")
			titleStyle = style(theme.NormalText).Bold(true)
		}
		fmt.Fprintf(&builder, "%s#%d %s\n", marker, notification.ID, titleStyle.Render(notification.Title))
		if notification.Message != "" {
			builder.WriteString("     " + style(theme.FaintText).Render(notification.Message) + "\n")
		}
	}
	return builder.String()
}

// RenderCourse shows a course with its lessons, projects, and
// announcements.
func RenderCourse(theme Theme, course *lms.Course) string {
	var builder strings.Builder
	header := style(theme.HeaderForeground).Bold(true)
	faint := style(theme.FaintText)

	builder.WriteString(header.Render(fmt.Sprintf("#%d %s", course.ID, course.Title)) + "\n")
	if course.InstructorName != "" {
		builder.WriteString(faint.Render("taught by "+course.InstructorName) + "\n")
	}
	if course.Description != "" {
		builder.WriteString(course.Description + "\n")
	}

	section := func(title string, count int) {
		builder.WriteString("\n" + header.Render(fmt.Sprintf("%s (%d)", title, count)) + "\n")
	}

	section("Lessons", len(course.Lessons))
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&builder, "  %d. %s %s\n", lesson.Order, lesson.Title, faint.Render(fmt.Sprintf("#%d", lesson.ID)))
		for _, attachment := range lesson.Attachments {
			builder.WriteString("     " + faint.Render("📎 "+attachment.DisplayName) + "\n")
		}
	}

	section("Projects", len(course.Projects))
	for _, project := range course.Projects {
		fmt.Fprintf(&builder, "  %s %s  due %s  %d pts\n", project.Title,
			faint.Render(fmt.Sprintf("#%d", project.ID)), project.Deadline, project.Points)
	}

	section("Announcements", len(course.Announcements))
	for _, announcement := range course.Announcements {
		fmt.Fprintf(&builder, "  %s %s\n", style(theme.Unread).Render(announcement.Title), faint.Render(announcement.PostedAt))
		if announcement.Content != "" {
			builder.WriteString("     " + announcement.Content + "\n")
		}
	}
	return builder.String()
}
