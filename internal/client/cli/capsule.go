package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/timex"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// resolveOpenDate turns an --open/--capsule value into an absolute date in
// the local time zone, so "2027-01-01" means local midnight.
func resolveOpenDate(option string) (time.Time, error) {
	return timex.ResolveOpenDate(option, time.Now())
}

// sealCapsule makes diaryID a time capsule. With notifications turned off in
// settings the server's reminder is cancelled right away; the capsule stays
// sealed either way.
func (a *App) sealCapsule(ctx context.Context, diaryID string, openDate time.Time, title string) (*rpc.TimeCapsule, error) {
	tc, err := a.svc.CreateTimeCapsule(ctx, &rpc.CreateTimeCapsuleRequest{
		DiaryID:  diaryID,
		OpenDate: openDate,
		Title:    title,
	})
	if err != nil {
		return nil, err
	}

	if tc.NotificationScheduled && !a.settings.Load(ctx).EnableNotifications {
		if err := a.svc.CancelTimeCapsuleNotification(ctx, tc.ID); err != nil {
			return tc, fmt.Errorf("capsule %s is sealed but its reminder could not be turned off: %w", tc.ID, err)
		}
		tc.NotificationScheduled = false
		tc.State = "pending"
	}
	return tc, nil
}

func (a *App) printSealed(ctx context.Context, tc *rpc.TimeCapsule) {
	fmt.Fprintf(a.out, "Sealed as time capsule %s until %s\n", tc.ID, formatTime(tc.OpenDate))
	if tc.NotificationScheduled {
		return
	}
	warn := color.New(color.FgYellow)
	if !a.settings.Load(ctx).EnableNotifications {
		warn.Fprintln(a.out, "Notifications are turned off in settings, so no reminder will be sent.")
		return
	}
	warn.Fprintln(a.out, "No reminder is scheduled for this capsule yet.")
}

func newCapsuleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "capsule",
		Aliases: []string{"c"},
		Short:   "Seal entries and open time capsules",
	}
	cmd.AddCommand(
		newCapsuleCreateCommand(),
		newCapsuleListCommand(),
		newCapsuleOpenableCommand(),
		newCapsuleOpenCommand(),
		newCapsuleCancelCommand(),
	)
	return cmd
}

func newCapsuleCreateCommand() *cobra.Command {
	var open, title string

	cmd := &cobra.Command{
		Use:   "create <diary-id>",
		Short: "Seal an existing entry until a date",
		Example: `  journey capsule create 3f1c… --open 6m
  journey capsule create 3f1c… --open 2027-01-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			openDate, err := resolveOpenDate(open)
			if err != nil {
				return err
			}

			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			tc, err := a.sealCapsule(ctx, args[0], openDate, title)
			if err != nil {
				return err
			}
			a.printSealed(ctx, tc)
			return nil
		},
	}
	cmd.Flags().StringVar(&open, "open", "1m", "when to open: 1m, 3m, 6m, 1y or YYYY-MM-DD")
	cmd.Flags().StringVar(&title, "title", "", "title for the reminder (defaults to the entry title)")
	return cmd
}

func newCapsuleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all time capsules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			list, err := a.svc.ListTimeCapsules(ctx)
			if err != nil {
				return err
			}
			printCapsules(a.out, list)
			return nil
		},
	}
}

func newCapsuleOpenableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "openable",
		Short: "List capsules whose open date has come",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			list, err := a.svc.ListOpenableTimeCapsules(ctx)
			if err != nil {
				return err
			}
			printCapsules(a.out, list)
			return nil
		},
	}
}

func newCapsuleOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <capsule-id>",
		Short: "Open a capsule and read its entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			return a.openCapsule(ctx, args[0])
		},
	}
}

func newCapsuleCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <capsule-id>",
		Short: "Cancel a capsule's reminder; the capsule stays sealed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			if err := a.svc.CancelTimeCapsuleNotification(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Reminder for capsule %s cancelled\n", args[0])
			return nil
		},
	}
}
