package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *App) readCredentials(confirm bool) (string, string, error) {
	email, err := GetSimpleText(a.in, "Email", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := GetPassword("Password", a.out)
	if err != nil {
		return "", "", err
	}
	if confirm {
		again, err := GetPassword("Repeat password", a.out)
		if err != nil {
			return "", "", err
		}
		if again != password {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}
	return email, password, nil
}

func newRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			email, password, err := a.readCredentials(true)
			if err != nil {
				return err
			}

			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			if err := a.svc.Register(ctx, email, password); err != nil {
				return err
			}
			if err := a.svc.Login(ctx, email, password); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "Welcome, %s!\n", email)
			return nil
		},
	}
}

func newLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			email, password, err := a.readCredentials(false)
			if err != nil {
				return err
			}

			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			if err := a.svc.Login(ctx, email, password); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "Signed in as %s\n", email)
			return nil
		},
	}
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			if err := a.svc.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the server and the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			online := color.GreenString("online")
			if err := a.svc.Ping(ctx); err != nil {
				online = color.RedString("offline")
			}

			user := a.svc.Email()
			if user == "" {
				user = "not signed in"
			}

			tbl := newTable("SERVER", "STATE", "USER")
			tbl.AddRow(a.config.ServerAddr, online, user)
			printTable(a.out, tbl)
			return nil
		},
	}
}
