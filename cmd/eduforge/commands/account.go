// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/auth"
	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lib/config"
	"github.com/xayahn/eduforge/lib/sealed"
	"github.com/xayahn/eduforge/lib/secret"
	"github.com/xayahn/eduforge/lib/session"
)

// readPassword reads from path when set, else prompts on the terminal.
func readPassword(path string) (*secret.Buffer, error) {
	if path != "" {
		buffer, err := secret.ReadFile(path)
		if err != nil {
			return nil, cli.Validation("reading password file: %w", err)
		}
		return buffer, nil
	}
	buffer, err := secret.ReadTerminal(int(os.Stdin.Fd()), "Password: ", os.Stderr)
	if errors.Is(err, secret.ErrNoTerminal) {
		return nil, cli.Validation("no terminal for the password prompt; pass --password-file")
	}
	return buffer, err
}

type whoamiOutput struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	DisplayName  string   `json:"display_name"`
	Email        string   `json:"email,omitempty"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
	SessionFile  string   `json:"session_file"`
}

func describe(a *app, current session.Session) whoamiOutput {
	set := capability.For(&current)
	names := make([]string, 0, set.Len())
	for _, entry := range set.List() {
		names = append(names, entry.String())
	}
	return whoamiOutput{
		ID:           current.User.ID,
		Username:     current.User.Username,
		DisplayName:  current.User.DisplayName,
		Email:        current.User.Email,
		Role:         capability.RoleOf(current).String(),
		Capabilities: names,
		SessionFile:  a.config.Session.File,
	}
}

func printIdentity(a *app, verb string, current session.Session) error {
	output := describe(a, current)
	if done, err := a.emit(output); done {
		return err
	}
	a.printf("%s %s (%s, %s)\n", verb, output.DisplayName, output.Username, output.Role)
	return nil
}

func loginCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and save the session",
		Description: `Sign in with a username and password. The session is saved to the
session file and reused by later commands until "eduforge logout".`,
		Usage: "eduforge login <username> [flags]",
		Examples: []cli.Example{
			{Description: "Sign in interactively", Command: "eduforge login sam"},
			{Description: "Sign in from a script", Command: "eduforge login sam --password-file ~/.eduforge-password"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "username"); err != nil {
				return err
			}
			password, err := readPassword(passwordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			return run(stdout, global, openOptions{push: true}, func(ctx context.Context, a *app) error {
				signedIn, err := a.gateway.Authenticate(ctx, args[0], password.String())
				if err != nil {
					return err
				}
				return printIdentity(a, "Signed in as", signedIn)
			})
		},
	}
}

func registerCommand(stdout io.Writer) *cli.Command {
	var global globalOptions
	var passwordFile string
	var profile auth.Profile

	return &cli.Command{
		Name:    "register",
		Summary: "Create an account and sign in",
		Description: `Create an account. Instructors pass the code their institution issued
with --teacher-code; everyone else registers as a learner.`,
		Usage: "eduforge register <username> --email <address> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("register", pflag.ContinueOnError)
			global.bind(flagSet)
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file")
			flagSet.StringVar(&profile.Email, "email", "", "email address (required)")
			flagSet.StringVar(&profile.FirstName, "first-name", "", "first name")
			flagSet.StringVar(&profile.LastName, "last-name", "", "last name")
			flagSet.StringVar(&profile.TeacherCode, "teacher-code", "", "instructor registration code")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, "username"); err != nil {
				return err
			}
			password, err := readPassword(passwordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			return run(stdout, global, openOptions{push: true}, func(ctx context.Context, a *app) error {
				request := profile
				request.Username = args[0]
				request.Password = password.String()
				registered, err := a.gateway.Register(ctx, request)
				if err != nil {
					return err
				}
				return printIdentity(a, "Registered", registered)
			})
		},
	}
}

func logoutCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	return &cli.Command{
		Name:    "logout",
		Summary: "Forget the saved session",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{}, func(ctx context.Context, a *app) error {
				current, ok := a.restore(ctx)
				a.gateway.Logout(ctx)
				if ok {
					if err := a.cache.Remove(current.User.ID); err != nil {
						a.logger.Warn("removing cached dashboard", "error", err)
					}
				}
				a.printf("Signed out\n")
				return nil
			})
		},
	}
}

func whoamiCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the signed-in user and their capabilities",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			global.bind(flagSet)
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
				output := describe(a, current)
				if done, err := a.emit(output); done {
					return err
				}
				a.printf("%s (%s)\nrole:         %s\ncapabilities: %s\nsession:      %s\n",
					output.DisplayName, output.Username, output.Role,
					capability.For(&current), output.SessionFile)
				return nil
			})
		},
	}
}

func pushCommand(stdout io.Writer) *cli.Command {
	var global globalOptions

	return &cli.Command{
		Name:    "push",
		Summary: "Register this device for push notifications",
		Description: `Run push registration for the saved session and report the outcome.
The device, permission, and token come from the push section of the
configuration file.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("push", pflag.ContinueOnError)
			global.bind(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			return run(stdout, global, openOptions{push: true}, func(ctx context.Context, a *app) error {
				if a.registrar == nil {
					return cli.Validation("push notifications are disabled in the configuration")
				}
				if _, ok := a.restore(ctx); !ok {
					return errNotSignedIn()
				}
				select {
				case <-a.gateway.PushDone():
				case <-ctx.Done():
					return ctx.Err()
				}

				registration, registered := a.registrar.Registration()
				output := map[string]any{
					"state":      a.registrar.State().String(),
					"registered": registered,
					"device_id":  registration.DeviceID,
				}
				if done, err := a.emit(output); done {
					return err
				}
				if registered {
					a.printf("Registered device %d\n", registration.DeviceID)
				} else {
					a.printf("Not registered (%s)\n", a.registrar.State())
				}
				return nil
			})
		},
	}
}

func keygenCommand(stdout io.Writer) *cli.Command {
	var path string

	return &cli.Command{
		Name:    "keygen",
		Summary: "Create an identity for encrypting the session file",
		Description: `Generate an age identity and write it to --output. Point
session.identity_file at it to keep the saved session encrypted.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.StringVarP(&path, "output", "o", "", "identity file to create (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			if path == "" {
				return cli.Validation("--output is required")
			}
			if _, err := os.Stat(path); err == nil {
				return cli.Validation("%s already exists", path)
			}
			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return cli.Internal("generating identity: %w", err)
			}
			if err := sealed.WriteIdentityFile(path, keypair); err != nil {
				return cli.Internal("writing identity: %w", err)
			}
			_, err = io.WriteString(stdout, "Public key: "+keypair.PublicKey+"\n"+
				"Set session.identity_file: "+path+" in "+configHint()+"\n")
			return err
		},
	}
}

func configHint() string {
	if path := os.Getenv("EDUFORGE_CONFIG"); path != "" {
		return path
	}
	return "your configuration file (session: " + config.DefaultSessionFile() + ")"
}
