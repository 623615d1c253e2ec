package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newNotificationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"n"},
		Short:   "See and tap time capsule notifications",
	}
	cmd.AddCommand(newNotificationsListCommand(), newNotificationsTapCommand())
	return cmd
}

func newNotificationsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List delivered and upcoming notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			if !a.settings.Load(ctx).EnableNotifications {
				color.New(color.FgYellow).Fprintln(a.out, "Notifications are turned off in settings.")
				return nil
			}

			presented, err := a.svc.ListPresentedNotifications(ctx)
			if err != nil {
				return err
			}
			scheduled, err := a.svc.ListScheduledNotifications(ctx)
			if err != nil {
				return err
			}

			printNotifications(a.out, "Delivered", presented)
			fmt.Fprintln(a.out)
			printNotifications(a.out, "Upcoming", scheduled)
			return nil
		},
	}
}

func newNotificationsTapCommand() *cobra.Command {
	var action string
	var open bool

	cmd := &cobra.Command{
		Use:   "tap <notification-id>",
		Short: "Act on a delivered notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			capsuleID, err := a.svc.RespondToNotification(ctx, args[0], action)
			if err != nil {
				return err
			}
			if capsuleID == "" {
				fmt.Fprintln(a.out, "Done")
				return nil
			}
			if !open {
				fmt.Fprintf(a.out, "Time capsule %s is ready: journey capsule open %s\n", capsuleID, capsuleID)
				return nil
			}
			return a.openCapsule(ctx, capsuleID)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "action identifier (default tap)")
	cmd.Flags().BoolVar(&open, "open", true, "open the time capsule the notification is about")
	return cmd
}
