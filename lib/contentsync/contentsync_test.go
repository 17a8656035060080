// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package contentsync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lib/testutil"
	"github.com/xayahn/eduforge/lms"
)

type fakeSource struct {
	courses       func(ctx context.Context) ([]lms.Course, error)
	enrollments   func(ctx context.Context) ([]lms.Enrollment, error)
	notifications func(ctx context.Context) ([]lms.Notification, error)

	enrollmentCalls atomic.Int32
}

func (f *fakeSource) ListCourses(ctx context.Context) ([]lms.Course, error) {
	return f.courses(ctx)
}

func (f *fakeSource) ListEnrollments(ctx context.Context) ([]lms.Enrollment, error) {
	f.enrollmentCalls.Add(1)
	return f.enrollments(ctx)
}

func (f *fakeSource) ListNotifications(ctx context.Context) ([]lms.Notification, error) {
	return f.notifications(ctx)
}

var catalog = []lms.Course{
	{ID: 1, Title: "Algebra", InstructorName: "Ada"},
	{ID: 2, Title: "Biology", InstructorName: "Barbara"},
	{ID: 3, Title: "Chemistry", InstructorName: "Marie"},
}

func staticSource() *fakeSource {
	return &fakeSource{
		courses: func(context.Context) ([]lms.Course, error) { return catalog, nil },
		enrollments: func(context.Context) ([]lms.Enrollment, error) {
			return []lms.Enrollment{
				{ID: 10, Student: 7, Course: 1, Progress: 40},
				{ID: 11, Student: 8, Course: 2, Progress: 90},
				{ID: 12, Student: 7, Course: 3, Progress: 150},
			}, nil
		},
		notifications: func(context.Context) ([]lms.Notification, error) {
			return []lms.Notification{{ID: 1, IsRead: false}, {ID: 2, IsRead: true}, {ID: 3}}, nil
		},
	}
}

func newSyncer(t *testing.T, source Source) *Syncer {
	t.Helper()
	syncer, err := NewSyncer(SyncerConfig{Source: source, Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatal(err)
	}
	return syncer
}

func TestMerge(t *testing.T) {
	t.Parallel()

	views := Merge(catalog, []lms.Enrollment{
		{Student: 7, Course: 1, Progress: 40},
		{Student: 8, Course: 2, Progress: 90},
		{Student: 7, Course: 3, Progress: -5},
	}, 7)

	want := []EnrollmentView{
		{CourseID: 1, Title: "Algebra", InstructorName: "Ada", IsEnrolled: true, ProgressPercent: 40},
		{CourseID: 2, Title: "Biology", InstructorName: "Barbara"},
		{CourseID: 3, Title: "Chemistry", InstructorName: "Marie", IsEnrolled: true, ProgressPercent: 0},
	}
	if len(views) != len(want) {
		t.Fatalf("got %d views, want %d", len(views), len(want))
	}
	for i := range want {
		if views[i] != want[i] {
			t.Errorf("view %d = %+v, want %+v", i, views[i], want[i])
		}
	}
}

func TestMergeUnenrolledCourseHasZeroProgress(t *testing.T) {
	t.Parallel()

	views := Merge([]lms.Course{{ID: 9, Title: "Art"}}, nil, 1)
	if len(views) != 1 || views[0].IsEnrolled || views[0].ProgressPercent != 0 {
		t.Errorf("views = %+v", views)
	}
}

func TestRefreshStudent(t *testing.T) {
	t.Parallel()

	views, err := newSyncer(t, staticSource()).Refresh(context.Background(), capability.Student, 7)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("got %d views", len(views))
	}
	if !views[0].IsEnrolled || views[0].ProgressPercent != 40 {
		t.Errorf("Algebra view = %+v", views[0])
	}
	if views[1].IsEnrolled {
		t.Error("Biology enrollment of another student leaked in")
	}
	if views[2].ProgressPercent != 100 {
		t.Errorf("Chemistry progress = %d, want clamped 100", views[2].ProgressPercent)
	}
}

func TestRefreshTeacherSkipsEnrollments(t *testing.T) {
	t.Parallel()

	source := staticSource()
	views, err := newSyncer(t, source).Refresh(context.Background(), capability.Teacher, 7)
	if err != nil {
		t.Fatal(err)
	}
	if source.enrollmentCalls.Load() != 0 {
		t.Error("teacher refresh fetched enrollments")
	}
	for _, view := range views {
		if view.IsEnrolled {
			t.Errorf("teacher view %+v is enrolled", view)
		}
	}
}

func TestRefreshDegradesWhenEnrollmentsFail(t *testing.T) {
	t.Parallel()

	source := staticSource()
	source.enrollments = func(context.Context) ([]lms.Enrollment, error) {
		return nil, &lms.APIError{StatusCode: 500}
	}

	views, err := newSyncer(t, source).Refresh(context.Background(), capability.Student, 7)
	if err != nil {
		t.Fatalf("Refresh returned %v, want degraded success", err)
	}
	if len(views) != len(catalog) {
		t.Fatalf("got %d views, want %d", len(views), len(catalog))
	}
	for _, view := range views {
		if view.IsEnrolled || view.ProgressPercent != 0 {
			t.Errorf("view %+v should be unenrolled", view)
		}
	}
}

func TestRefreshReturnsCatalogFailure(t *testing.T) {
	t.Parallel()

	source := staticSource()
	source.courses = func(context.Context) ([]lms.Course, error) {
		return nil, &lms.NetworkError{Method: "GET", Path: "courses/", Err: errors.New("offline")}
	}

	_, err := newSyncer(t, source).Refresh(context.Background(), capability.Student, 7)
	if !errors.Is(err, lms.ErrNetworkUnavailable) {
		t.Errorf("Refresh error = %v, want network unavailable", err)
	}
}

func TestUnreadCount(t *testing.T) {
	t.Parallel()

	source := staticSource()
	syncer := newSyncer(t, source)
	if got := syncer.UnreadCount(context.Background()); got != 2 {
		t.Errorf("UnreadCount = %d, want 2", got)
	}

	source.notifications = func(context.Context) ([]lms.Notification, error) {
		return nil, errors.New("boom")
	}
	if got := syncer.UnreadCount(context.Background()); got != 0 {
		t.Errorf("UnreadCount on failure = %d, want 0", got)
	}
}

func TestDashboardSlicesUpdateIndependently(t *testing.T) {
	t.Parallel()

	releaseEnrollments := make(chan struct{})
	source := staticSource()
	baseEnrollments := source.enrollments
	source.enrollments = func(ctx context.Context) ([]lms.Enrollment, error) {
		<-releaseEnrollments
		return baseEnrollments(ctx)
	}

	dashboard := NewDashboard(newSyncer(t, source), capability.Student, 7)
	dashboard.Refresh(context.Background())

	// The catalog lands while enrollments are still in flight.
	deadline := time.Now().Add(5 * time.Second)
	for !dashboard.Loaded() {
		if time.Now().After(deadline) {
			t.Fatal("catalog never landed")
		}
		time.Sleep(time.Millisecond)
	}
	for _, view := range dashboard.Views() {
		if view.IsEnrolled {
			t.Errorf("view %+v enrolled before enrollments landed", view)
		}
	}

	close(releaseEnrollments)
	dashboard.Wait()

	views := dashboard.Views()
	if !views[0].IsEnrolled || views[0].ProgressPercent != 40 {
		t.Errorf("Algebra after enrollments = %+v", views[0])
	}
	if dashboard.Unread() != 2 {
		t.Errorf("Unread = %d, want 2", dashboard.Unread())
	}
}

func TestDashboardKeepsLastGoodSlice(t *testing.T) {
	t.Parallel()

	source := staticSource()
	dashboard := NewDashboard(newSyncer(t, source), capability.Student, 7)
	dashboard.Refresh(context.Background())
	dashboard.Wait()

	source.courses = func(context.Context) ([]lms.Course, error) { return nil, errors.New("offline") }
	source.enrollments = func(context.Context) ([]lms.Enrollment, error) { return nil, errors.New("offline") }
	source.notifications = func(context.Context) ([]lms.Notification, error) { return nil, errors.New("offline") }
	dashboard.Refresh(context.Background())
	dashboard.Wait()

	views := dashboard.Views()
	if len(views) != 3 || !views[0].IsEnrolled {
		t.Errorf("views after failed refresh = %+v, want previous values", views)
	}
	if dashboard.Unread() != 2 {
		t.Errorf("Unread after failed refresh = %d, want 2", dashboard.Unread())
	}
}

func TestDashboardCloseDiscardsLateArrivals(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	source := staticSource()
	source.courses = func(context.Context) ([]lms.Course, error) {
		<-release
		return catalog, nil
	}
	source.notifications = func(context.Context) ([]lms.Notification, error) {
		<-release
		return []lms.Notification{{ID: 1}}, nil
	}

	dashboard := NewDashboard(newSyncer(t, source), capability.Teacher, 7)
	dashboard.Seed([]EnrollmentView{{CourseID: 99, Title: "Cached"}})
	dashboard.Refresh(context.Background())
	dashboard.Close()
	close(release)
	dashboard.Wait()

	views := dashboard.Views()
	if len(views) != 1 || views[0].CourseID != 99 {
		t.Errorf("views after Close = %+v, want the seeded snapshot", views)
	}
	if dashboard.Unread() != 0 {
		t.Errorf("Unread after Close = %d, want 0", dashboard.Unread())
	}
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache := NewCache(t.TempDir())
	saved := time.Unix(1_760_000_000, 0)
	cache.now = func() time.Time { return saved }

	if _, _, err := cache.Load(7); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Load before Save = %v, want ErrNoSnapshot", err)
	}

	views := Merge(catalog, []lms.Enrollment{{Student: 7, Course: 2, Progress: 55}}, 7)
	if err := cache.Save(7, views); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, savedAt, err := cache.Load(7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !savedAt.Equal(saved) {
		t.Errorf("savedAt = %v, want %v", savedAt, saved)
	}
	if len(loaded) != len(views) {
		t.Fatalf("loaded %d views, want %d", len(loaded), len(views))
	}
	for i := range views {
		if loaded[i] != views[i] {
			t.Errorf("view %d = %+v, want %+v", i, loaded[i], views[i])
		}
	}

	if _, _, err := cache.Load(8); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load for another user = %v, want ErrNoSnapshot", err)
	}
	if err := cache.Remove(7); err != nil {
		t.Fatal(err)
	}
	if _, _, err := cache.Load(7); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load after Remove = %v", err)
	}
}
