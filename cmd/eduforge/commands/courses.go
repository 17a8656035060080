// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lib/classroom"
	"github.com/xayahn/eduforge/lib/contentsync"
	"github.com/xayahn/eduforge/lib/tui"
)

func errNotSignedIn() error {
	return fmt.Errorf("%w: run \"eduforge login\" first", classroom.ErrNotSignedIn)
}

type dashboardOutput struct {
	Courses  []contentsync.EnrollmentView `json:"courses"`
	Unread   int                          `json:"unread"`
	Cached   bool                         `json:"cached"`
	CachedAt *time.Time                   `json:"cached_at,omitempty"`
}

func coursesCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var cachedOnly bool

	return &cli.Command{
		Name:    "courses",
		Summary: "Show the course dashboard",
		Description: `List the catalog with enrollment state and progress. Learners see
their progress per course; instructors see the catalog.

The dashboard is cached after every successful fetch. When the service
cannot be reached the cached copy is shown and marked as such.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("courses", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.BoolVar(&cachedOnly, "cached", false, "show the cached dashboard without contacting the service")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				current, ok := a.restore(ctx)
				if !ok {
					return errNotSignedIn()
				}
				userID := current.User.ID

				cached, savedAt, cacheErr := a.cache.Load(userID)
				if cacheErr != nil && !errors.Is(cacheErr, contentsync.ErrNoSnapshot) {
					a.logger.Warn("reading cached dashboard", "error", cacheErr)
				}
				if cachedOnly {
					if cacheErr != nil {
						return cli.NotFound("no cached dashboard; run \"eduforge courses\" while online")
					}
					return showDashboard(a, cached, 0, &savedAt)
				}

				dashboard := contentsync.NewDashboard(a.syncer, capability.RoleOf(current), userID)
				dashboard.Seed(cached)
				dashboard.Refresh(ctx)
				dashboard.Wait()
				dashboard.Close()

				views := dashboard.Views()
				if !dashboard.Loaded() {
					if cacheErr != nil {
						return cli.Transient("could not load the course catalog and no cached copy exists")
					}
					return showDashboard(a, views, dashboard.Unread(), &savedAt)
				}
				if err := a.cache.Save(userID, views); err != nil {
					a.logger.Warn("caching dashboard", "error", err)
				}
				return showDashboard(a, views, dashboard.Unread(), nil)
			})
		},
	}
}

func showDashboard(a *app, views []contentsync.EnrollmentView, unread int, cachedAt *time.Time) error {
	output := dashboardOutput{Courses: views, Unread: unread, Cached: cachedAt != nil, CachedAt: cachedAt}
	if output.Courses == nil {
		output.Courses = []contentsync.EnrollmentView{}
	}
	if done, err := a.emit(output); done {
		return err
	}
	stale := ""
	if cachedAt != nil {
		stale = "offline, showing copy from " + time.Since(*cachedAt).Round(time.Second).String() + " ago"
	}
	a.printf("%s", tui.RenderDashboard(a.theme, views, unread, stale))
	return nil
}

func courseCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var title, description string

	create := &cli.Command{
		Name:    "create",
		Summary: "Create a course (instructors)",
		Usage:   "eduforge course create --title <title> [--description <text>]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("course create", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.StringVar(&title, "title", "", "course title (required)")
			flagSet.StringVar(&description, "description", "", "course description")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				course, err := a.classroom.CreateCourse(ctx, title, description)
				if err != nil {
					return err
				}
				if done, err := a.emit(course); done {
					return err
				}
				a.printf("Created course #%d %s\n", course.ID, course.Title)
				return nil
			})
		},
	}

	return &cli.Command{
		Name:        "course",
		Summary:     "Show or create a course",
		Usage:       "eduforge course <id> | eduforge course create [flags]",
		Subcommands: []*cli.Command{create},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("course", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "course-id"); err != nil {
				return err
			}
			courseID, err := parseID(args[0], "course-id")
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				course, err := a.classroom.CourseDetail(ctx, courseID)
				if err != nil {
					return err
				}
				if done, err := a.emit(course); done {
					return err
				}
				a.printf("%s", tui.RenderCourse(a.theme, course))
				return nil
			})
		},
	}
}

func joinCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	return &cli.Command{
		Name:    "join",
		Summary: "Enroll in a course (learners)",
		Usage:   "eduforge join <course-id>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("join", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "course-id"); err != nil {
				return err
			}
			courseID, err := parseID(args[0], "course-id")
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				enrollment, err := a.classroom.JoinCourse(ctx, courseID)
				if err != nil {
					return err
				}
				if done, err := a.emit(enrollment); done {
					return err
				}
				a.printf("Joined course #%d\n", enrollment.Course)
				return nil
			})
		},
	}
}

func completeCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	return &cli.Command{
		Name:    "complete",
		Summary: "Mark a lesson complete (learners)",
		Usage:   "eduforge complete <course-id> <lesson-id>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("complete", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "course-id", "lesson-id"); err != nil {
				return err
			}
			courseID, err := parseID(args[0], "course-id")
			if err != nil {
				return err
			}
			lessonID, err := parseID(args[1], "lesson-id")
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				progress, err := a.classroom.MarkLessonComplete(ctx, courseID, lessonID)
				if err != nil {
					return err
				}
				if done, err := a.emit(map[string]int{"progress": progress}); done {
					return err
				}
				a.printf("Lesson #%d complete. Course progress: %s\n", lessonID,
					tui.RenderProgressBar(a.theme, 20, progress))
				return nil
			})
		},
	}
}

func commentCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	return &cli.Command{
		Name:    "comment",
		Summary: "Comment on a lesson",
		Usage:   "eduforge comment <lesson-id> <text...>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("comment", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 2 {
				return cli.Validation("expected a lesson id and comment text")
			}
			lessonID, err := parseID(args[0], "lesson-id")
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				comment, err := a.classroom.AddComment(ctx, lessonID, text)
				if err != nil {
					return err
				}
				if done, err := a.emit(comment); done {
					return err
				}
				a.printf("Commented on lesson #%d\n", lessonID)
				return nil
			})
		},
	}
}
