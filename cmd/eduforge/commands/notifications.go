// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/tui"
)

func notificationsCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	read := &cli.Command{
		Name:    "read",
		Summary: "Mark a notification as read",
		Usage:   "eduforge notifications read <id>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("notifications read", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "id"); err != nil {
				return err
			}
			notificationID, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				if err := a.classroom.MarkNotificationRead(ctx, notificationID); err != nil {
					return err
				}
				a.printf("Marked notification #%d read\n", notificationID)
				return nil
			})
		},
	}

	return &cli.Command{
		Name:        "notifications",
		Summary:     "List notifications",
		Subcommands: []*cli.Command{read},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("notifications", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				notifications, err := a.classroom.Notifications(ctx)
				if err != nil {
					return err
				}
				if done, err := a.emit(notifications); done {
					return err
				}
				a.printf("%s", tui.RenderNotifications(a.theme, notifications))
				return nil
			})
		},
	}
}
