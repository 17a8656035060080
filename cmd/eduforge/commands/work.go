// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lib/submission"
	"github.com/xayahn/eduforge/lib/tui"
	"github.com/xayahn/eduforge/lib/upload"
	"github.com/xayahn/eduforge/lms"
)

// openAttachment builds a descriptor for a local path, file:// URI, or
// http(s) URL. Remote references are fetched into memory.
func openAttachment(ctx context.Context, reference, name, mimeType string) (*upload.Descriptor, error) {
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(reference))
	}
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return upload.FromBuffer(ctx, upload.DefaultFetcher(), reference, name, mimeType)
	}
	descriptor, err := upload.FromURI(reference, name, mimeType)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return descriptor, nil
}

func submitCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var fields submission.Fields
	var filePath, fileName, fileType string

	return &cli.Command{
		Name:    "submit",
		Summary: "Submit work for a project (learners)",
		Description: `Submit a repository link, a file, or both for a project. The student
name defaults to the signed-in user's display name.`,
		Usage: "eduforge submit <project-id> [--link <url>] [--file <path>] [flags]",
		Examples: []cli.Example{
			{Description: "Submit a repository", Command: "eduforge submit 3 --link https://github.com/sam/lab1"},
			{Description: "Submit a report", Command: "eduforge submit 3 --file report.pdf --comments 'late by a day'"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("submit", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.StringVar(&fields.GithubLink, "link", "", "http(s) link to the work")
			flagSet.StringVar(&fields.StudentName, "name", "", "student name (default: your display name)")
			flagSet.StringVar(&fields.Comments, "comments", "", "comments for the instructor")
			flagSet.StringVar(&filePath, "file", "", "file to upload: path, file:// URI, or http(s) URL")
			flagSet.StringVar(&fileName, "file-name", "", "file name shown to the instructor")
			flagSet.StringVar(&fileType, "file-type", "", "MIME type of the file")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "project-id"); err != nil {
				return err
			}
			projectID, err := parseID(args[0], "project-id")
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				current, ok := a.restore(ctx)
				if !ok {
					return errNotSignedIn()
				}
				request := fields
				request.ProjectID = projectID
				if request.StudentName == "" {
					request.StudentName = current.User.DisplayName
				}

				var attachment *upload.Descriptor
				if filePath != "" {
					if attachment, err = openAttachment(ctx, filePath, fileName, fileType); err != nil {
						return err
					}
				}

				result, err := a.classroom.SubmitWork(ctx, request, attachment)
				if err != nil {
					var uploadErr *submission.UploadError
					if errors.As(err, &uploadErr) {
						a.logger.Error("submission failed", "upload_id", uploadErr.UploadID, "error", uploadErr.Err)
					}
					return err
				}
				if done, err := a.emit(result.Submission); done {
					return err
				}
				a.printf("Submitted #%d for project #%d\n", result.SubmissionID, projectID)
				return nil
			})
		},
	}
}

func gradesCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var projectID int64

	return &cli.Command{
		Name:    "grades",
		Summary: "List grades",
		Description: `Learners see their own submissions. Instructors see every submission,
or one project's with --project.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("grades", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.Int64Var(&projectID, "project", 0, "only this project's submissions (instructors)")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)

				var submissions []lms.Submission
				var err error
				switch capabilities := a.classroom.Capabilities(); {
				case projectID != 0:
					submissions, err = a.classroom.ProjectSubmissions(ctx, projectID)
				case capabilities.Has(capability.ViewAllGrades):
					submissions, err = a.classroom.AllGrades(ctx)
				default:
					submissions, err = a.classroom.MyGrades(ctx)
				}
				if err != nil {
					return err
				}
				if done, err := a.emit(submissions); done {
					return err
				}
				a.printf("%s", tui.RenderGrades(a.theme, submissions))
				return nil
			})
		},
	}
}

func gradeCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var feedback string

	return &cli.Command{
		Name:    "grade",
		Summary: "Grade a submission (instructors)",
		Usage:   "eduforge grade <submission-id> <0-100> [--feedback <text>]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("grade", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.StringVar(&feedback, "feedback", "", "feedback for the learner")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "submission-id", "grade"); err != nil {
				return err
			}
			submissionID, err := parseID(args[0], "submission-id")
			if err != nil {
				return err
			}
			grade, err := parseGrade(args[1])
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				graded, err := a.classroom.GradeSubmission(ctx, submissionID, grade, feedback)
				if err != nil {
					return err
				}
				if done, err := a.emit(graded); done {
					return err
				}
				a.printf("Graded submission #%d: %d/100\n", submissionID, grade)
				return nil
			})
		},
	}
}
