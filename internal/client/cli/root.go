package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ardenspace/space3-your-journey/internal/buildinfo"
	"github.com/ardenspace/space3-your-journey/internal/client/client"
	"github.com/ardenspace/space3-your-journey/internal/client/config"
	"github.com/spf13/cobra"
)

type appKey struct{}

// appFrom returns the App built by the root command's pre-run hook.
func appFrom(cmd *cobra.Command) *App {
	app, _ := cmd.Context().Value(appKey{}).(*App)
	return app
}

// NewRootCommand returns the journey command tree. build creates the App
// once flags are parsed; nil means NewApp.
func NewRootCommand(build Builder) *cobra.Command {
	if build == nil {
		build = NewApp
	}

	var configFile string

	root := &cobra.Command{
		Use:           "journey",
		Short:         "Keep a diary and seal entries as time capsules.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if err := config.BindFlags(v, cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}

			app, err := build(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app := appFrom(cmd); app != nil {
				return app.Close()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ~/.journey.yaml)")
	pf.String("server", "", "address of the journey server")
	pf.String("data-dir", "", "directory for the session and settings")
	pf.String("lang", "", "preferred language of server messages (en, ko)")
	pf.Duration("timeout", 0, "deadline for each command")

	root.AddCommand(
		newRegisterCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newStatusCommand(),
		newDiaryCommand(),
		newCapsuleCommand(),
		newNotificationsCommand(),
		newDesignsCommand(),
		newSettingsCommand(),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// needs no server connection
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

// Execute runs the command line and prints a failure to errOut.
func Execute(ctx context.Context, root *cobra.Command, errOut io.Writer) int {
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, describeError(err))
		return 1
	}
	return 0
}

func describeError(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "Not signed in. Run `journey login` first."
	case errors.Is(err, client.ErrUnavailable):
		return "The journey server cannot be reached: " + err.Error()
	}
	return "Error: " + err.Error()
}
