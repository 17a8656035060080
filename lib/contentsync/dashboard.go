// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package contentsync

import (
	"context"
	"sync"

	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lms"
)

// Dashboard is the live per-user view. Each collection is a separate
// slice updated as its fetch completes; there is no join barrier.
// After Close, completed fetches are discarded.
type Dashboard struct {
	syncer *Syncer
	role   capability.Role
	userID int64

	inflight sync.WaitGroup

	mu            sync.Mutex
	closed        bool
	courses       []lms.Course
	coursesLoaded bool
	enrollments   []lms.Enrollment
	unread        int
	seed          []EnrollmentView
}

// NewDashboard creates an empty Dashboard for userID.
func NewDashboard(syncer *Syncer, role capability.Role, userID int64) *Dashboard {
	return &Dashboard{syncer: syncer, role: role, userID: userID}
}

// Seed shows views (typically from the Cache) until the first catalog
// fetch lands.
func (d *Dashboard) Seed(views []EnrollmentView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seed = append([]EnrollmentView(nil), views...)
}

// Refresh starts the catalog, enrollment (students only), and
// notification fetches. It returns immediately; use Wait to block until
// they land.
func (d *Dashboard) Refresh(ctx context.Context) {
	source := d.syncer.source
	logger := d.syncer.logger.With("user_id", d.userID)

	d.spawn(func() {
		courses, err := source.ListCourses(ctx)
		if err != nil {
			logger.Warn("course catalog refresh failed, keeping previous catalog", "error", err)
			return
		}
		d.apply(func() {
			d.courses = courses
			d.coursesLoaded = true
		})
	})

	if d.role == capability.Student {
		d.spawn(func() {
			enrollments, err := source.ListEnrollments(ctx)
			if err != nil {
				logger.Warn("enrollment refresh failed, keeping previous enrollments", "error", err)
				return
			}
			d.apply(func() { d.enrollments = enrollments })
		})
	}

	d.spawn(func() {
		notifications, err := source.ListNotifications(ctx)
		if err != nil {
			logger.Warn("notification refresh failed, keeping previous unread count", "error", err)
			return
		}
		unread := CountUnread(notifications)
		d.apply(func() { d.unread = unread })
	})
}

// Views returns the current merged views.
func (d *Dashboard) Views() []EnrollmentView {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coursesLoaded {
		return append([]EnrollmentView(nil), d.seed...)
	}
	return Merge(d.courses, d.enrollments, d.userID)
}

// Loaded reports whether a catalog fetch has landed.
func (d *Dashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.coursesLoaded
}

// Unread returns the current unread-notification count.
func (d *Dashboard) Unread() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unread
}

// Wait blocks until every fetch started so far has landed or failed.
func (d *Dashboard) Wait() {
	d.inflight.Wait()
}

// Close discards the dashboard. In-flight fetches run to completion but
// no longer change any slice.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

func (d *Dashboard) spawn(fetch func()) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		fetch()
	}()
}

func (d *Dashboard) apply(update func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	update()
}
