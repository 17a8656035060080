// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package contentsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lms"
)

// Source fetches the collections being reconciled. *lms.Client
// implements it.
type Source interface {
	ListCourses(ctx context.Context) ([]lms.Course, error)
	ListEnrollments(ctx context.Context) ([]lms.Enrollment, error)
	ListNotifications(ctx context.Context) ([]lms.Notification, error)
}

// SyncerConfig holds configuration for creating a Syncer.
type SyncerConfig struct {
	Source Source

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Syncer performs one-shot reconciliations.
type Syncer struct {
	source Source
	logger *slog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(config SyncerConfig) (*Syncer, error) {
	if config.Source == nil {
		return nil, fmt.Errorf("contentsync: Source is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{source: config.Source, logger: logger}, nil
}

// Refresh returns the catalog as seen by userID. Enrollments are only
// fetched for students. Only a catalog failure is returned.
func (s *Syncer) Refresh(ctx context.Context, role capability.Role, userID int64) ([]EnrollmentView, error) {
	var (
		wg            sync.WaitGroup
		courses       []lms.Course
		coursesErr    error
		enrollments   []lms.Enrollment
		enrollmentErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		courses, coursesErr = s.source.ListCourses(ctx)
	}()
	if role == capability.Student {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enrollments, enrollmentErr = s.source.ListEnrollments(ctx)
		}()
	}
	wg.Wait()

	if coursesErr != nil {
		return nil, fmt.Errorf("fetching course catalog: %w", coursesErr)
	}
	if enrollmentErr != nil {
		s.logger.Warn("enrollment fetch failed, showing every course as not enrolled",
			"user_id", userID,
			"error", enrollmentErr,
		)
		enrollments = nil
	}
	return Merge(courses, enrollments, userID), nil
}

// UnreadCount returns the number of unread notifications, or 0 when
// they cannot be fetched.
func (s *Syncer) UnreadCount(ctx context.Context) int {
	notifications, err := s.source.ListNotifications(ctx)
	if err != nil {
		s.logger.Warn("notification fetch failed, reporting no unread", "error", err)
		return 0
	}
	return CountUnread(notifications)
}
