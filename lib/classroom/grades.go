// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package classroom

import (
	"context"
	"fmt"
	"strings"

	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lms"
)

// MaxGrade is the highest grade accepted.
const MaxGrade = 100

// ProjectSubmissions returns the submissions for one project.
func (c *Classroom) ProjectSubmissions(ctx context.Context, projectID int64) ([]lms.Submission, error) {
	if _, err := c.require(capability.GradeSubmission); err != nil {
		return nil, err
	}
	all, err := c.service.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching submissions: %w", err)
	}
	var matched []lms.Submission
	for _, candidate := range all {
		if candidate.Project == projectID {
			matched = append(matched, candidate)
		}
	}
	return matched, nil
}

// GradeSubmission sets a grade between 0 and MaxGrade.
func (c *Classroom) GradeSubmission(ctx context.Context, submissionID int64, grade int, feedback string) (*lms.Submission, error) {
	current, err := c.require(capability.GradeSubmission)
	if err != nil {
		return nil, err
	}
	if grade < 0 || grade > MaxGrade {
		return nil, lms.Invalid("grade", fmt.Sprintf("must be between 0 and %d", MaxGrade))
	}
	graded, err := c.service.GradeSubmission(ctx, submissionID, lms.GradeRequest{
		Grade:    grade,
		Feedback: strings.TrimSpace(feedback),
	})
	if err != nil {
		return nil, fmt.Errorf("grading submission %d: %w", submissionID, err)
	}
	c.logger.Info("graded submission",
		"submission_id", submissionID,
		"grade", grade,
		"grader_id", current.User.ID,
	)
	return graded, nil
}

// MyGrades returns the current learner's submissions. Submissions carry
// only a free-text student name, so they are matched against the user's
// display name and username, ignoring case.
func (c *Classroom) MyGrades(ctx context.Context) ([]lms.Submission, error) {
	current, err := c.require(capability.ViewOwnGrades)
	if err != nil {
		return nil, err
	}
	all, err := c.service.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching submissions: %w", err)
	}
	var mine []lms.Submission
	for _, candidate := range all {
		name := strings.TrimSpace(candidate.StudentName)
		if strings.EqualFold(name, current.User.DisplayName) || strings.EqualFold(name, current.User.Username) {
			mine = append(mine, candidate)
		}
	}
	return mine, nil
}

// AllGrades returns every submission.
func (c *Classroom) AllGrades(ctx context.Context) ([]lms.Submission, error) {
	if _, err := c.require(capability.ViewAllGrades); err != nil {
		return nil, err
	}
	all, err := c.service.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching submissions: %w", err)
	}
	return all, nil
}
