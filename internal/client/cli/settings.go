package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ardenspace/space3-your-journey/internal/settings"
	"github.com/spf13/cobra"
)

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change local preferences",
	}
	cmd.AddCommand(newSettingsShowCommand(), newSettingsSetCommand(), newSettingsResetCommand())
	return cmd
}

func printSettings(w io.Writer, s settings.Settings) {
	tbl := newTable("KEY", "VALUE")
	tbl.AddRow("theme", s.Theme)
	tbl.AddRow("notifications", s.EnableNotifications)
	tbl.AddRow("color", s.LastBackgroundColor)
	tbl.AddRow("design", s.LastNotebookDesign)
	tbl.AddRow("font", s.LastFontFamily)
	tbl.AddRow("size", s.LastFontSize)
	tbl.AddRow("font-color", s.LastFontColor)
	printTable(w, tbl)
}

// parsePatch reads key=value pairs into a settings patch.
func parsePatch(args []string) (settings.Patch, error) {
	var p settings.Patch
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return p, fmt.Errorf("%q: want key=value", arg)
		}

		switch key {
		case "theme":
			theme := settings.Theme(value)
			p.Theme = &theme
		case "notifications":
			on, err := strconv.ParseBool(value)
			if err != nil {
				return p, fmt.Errorf("notifications: %w", err)
			}
			p.EnableNotifications = &on
		case "color":
			p.LastBackgroundColor = &value
		case "design":
			p.LastNotebookDesign = &value
		case "font":
			p.LastFontFamily = &value
		case "size":
			size, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return p, fmt.Errorf("size: %w", err)
			}
			p.LastFontSize = &size
		case "font-color":
			p.LastFontColor = &value
		default:
			return p, fmt.Errorf("unknown setting %q", key)
		}
	}
	return p, nil
}

func newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			printSettings(a.out, a.settings.Load(cmd.Context()))
			return nil
		},
	}
}

func newSettingsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key=value>...",
		Short:   "Change settings",
		Example: "  journey settings set theme=dark notifications=false size=18",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			p, err := parsePatch(args)
			if err != nil {
				return err
			}
			s, err := a.settings.Update(cmd.Context(), p)
			if err != nil {
				return err
			}
			printSettings(a.out, s)
			return nil
		},
	}
}

func newSettingsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.settings.Reset(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(a.out, s)
			return nil
		},
	}
}
