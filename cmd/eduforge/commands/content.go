// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/classroom"
	"github.com/xayahn/eduforge/lib/submission"
	"github.com/xayahn/eduforge/lib/upload"
)

func parseGrade(value string) (int, error) {
	grade, err := strconv.Atoi(value)
	if err != nil {
		return 0, cli.Validation("grade must be an integer, got %q", value)
	}
	return grade, nil
}

func lessonCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var draft classroom.LessonDraft
	var courseID int64
	var filePath, fileName, fileType string

	create := &cli.Command{
		Name:    "create",
		Summary: "Add a lesson to a course (instructors)",
		Usage:   "eduforge lesson create --course <id> --title <title> [flags]",
		Examples: []cli.Example{
			{Description: "Add a lesson with slides", Command: "eduforge lesson create --course 1 --title Pointers --file slides.pdf"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("lesson create", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.Int64Var(&courseID, "course", 0, "course id (required)")
			flagSet.StringVar(&draft.Title, "title", "", "lesson title (required)")
			flagSet.StringVar(&draft.ContentText, "content", "", "lesson text")
			flagSet.StringVar(&draft.VideoURL, "video", "", "video URL")
			flagSet.IntVar(&draft.Order, "order", 1, "position within the course")
			flagSet.StringVar(&filePath, "file", "", "attachment: path, file:// URI, or http(s) URL")
			flagSet.StringVar(&fileName, "file-name", "", "attachment display name")
			flagSet.StringVar(&fileType, "file-type", "", "attachment MIME type")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				request := draft
				request.CourseID = courseID
				if filePath != "" {
					var err error
					if request.Attachment, err = openAttachment(ctx, filePath, fileName, fileType); err != nil {
						return err
					}
				}

				lesson, err := a.classroom.CreateLesson(ctx, request)
				var uploadErr *submission.UploadError
				if lesson != nil && errors.As(err, &uploadErr) {
					a.printf("Created lesson #%d %s, but the attachment failed: %v\n", lesson.ID, lesson.Title, uploadErr.Err)
					return err
				}
				if err != nil {
					return err
				}
				if done, err := a.emit(lesson); done {
					return err
				}
				a.printf("Created lesson #%d %s\n", lesson.ID, lesson.Title)
				return nil
			})
		},
	}

	return &cli.Command{
		Name:        "lesson",
		Summary:     "Manage lessons",
		Subcommands: []*cli.Command{create, attachCommand(stdout)},
	}
}

func attachCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var fileName, fileType string

	return &cli.Command{
		Name:    "attach",
		Summary: "Attach a file to an existing lesson (instructors)",
		Usage:   "eduforge lesson attach <lesson-id> <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("lesson attach", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.StringVar(&fileName, "file-name", "", "attachment display name")
			flagSet.StringVar(&fileType, "file-type", "", "attachment MIME type")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "lesson-id", "file"); err != nil {
				return err
			}
			lessonID, err := parseID(args[0], "lesson-id")
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				var attachment *upload.Descriptor
				if attachment, err = openAttachment(ctx, args[1], fileName, fileType); err != nil {
					return err
				}
				attached, err := a.classroom.AttachToLesson(ctx, lessonID, attachment)
				if err != nil {
					return err
				}
				if done, err := a.emit(attached); done {
					return err
				}
				a.printf("Attached %s to lesson #%d\n", attached.DisplayName, lessonID)
				return nil
			})
		},
	}
}

func projectCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var draft classroom.ProjectDraft

	create := &cli.Command{
		Name:    "create",
		Summary: "Add a project to a course (instructors)",
		Usage:   "eduforge project create --course <id> --title <title> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("project create", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.Int64Var(&draft.CourseID, "course", 0, "course id (required)")
			flagSet.StringVar(&draft.Title, "title", "", "project title (required)")
			flagSet.StringVar(&draft.Instructions, "instructions", "", "instructions for learners")
			flagSet.StringVar(&draft.Deadline, "deadline", "", "deadline as YYYY-MM-DD (default "+classroom.DefaultProjectDeadline+")")
			flagSet.IntVar(&draft.Points, "points", classroom.DefaultProjectPoints, "points available")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				project, err := a.classroom.CreateProject(ctx, draft)
				if err != nil {
					return err
				}
				if done, err := a.emit(project); done {
					return err
				}
				a.printf("Created project #%d %s, due %s\n", project.ID, project.Title, project.Deadline)
				return nil
			})
		},
	}

	deadline := &cli.Command{
		Name:    "deadline",
		Summary: "Move a project's deadline (instructors)",
		Usage:   "eduforge project deadline <project-id> <YYYY-MM-DD>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("project deadline", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "project-id", "deadline"); err != nil {
				return err
			}
			projectID, err := parseID(args[0], "project-id")
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				project, err := a.classroom.UpdateProjectDeadline(ctx, projectID, args[1])
				if err != nil {
					return err
				}
				if done, err := a.emit(project); done {
					return err
				}
				a.printf("Project #%d is now due %s\n", project.ID, project.Deadline)
				return nil
			})
		},
	}

	return &cli.Command{
		Name:        "project",
		Summary:     "Manage projects",
		Subcommands: []*cli.Command{create, deadline},
	}
}

func announceCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var courseID int64
	var title, content string

	return &cli.Command{
		Name:    "announce",
		Summary: "Post an announcement to a course (instructors)",
		Usage:   "eduforge announce --course <id> --title <title> --content <text>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("announce", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.Int64Var(&courseID, "course", 0, "course id (required)")
			flagSet.StringVar(&title, "title", "", "announcement title (required)")
			flagSet.StringVar(&content, "content", "", "announcement text (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			if courseID <= 0 {
				return cli.Validation("--course is required")
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				announcement, err := a.classroom.CreateAnnouncement(ctx, courseID, title, content)
				if err != nil {
					return err
				}
				if done, err := a.emit(announcement); done {
					return err
				}
				a.printf("Posted announcement #%d to course #%d\n", announcement.ID, courseID)
				return nil
			})
		},
	}
}

func deleteCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a course, lesson, project, or announcement (instructors)",
		Usage:   "eduforge delete <course|lesson|project|announcement> <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("delete", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "kind", "id"); err != nil {
				return err
			}
			id, err := parseID(args[1], "id")
			if err != nil {
				return err
			}
			kind := classroom.ContentKind(args[0])
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				if err := a.classroom.DeleteContent(ctx, kind, id); err != nil {
					return err
				}
				a.printf("Deleted %s #%d\n", kind, id)
				return nil
			})
		},
	}
}
