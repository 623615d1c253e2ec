package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/client/editor"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/settings"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
)

const placeholder = "What happened today?"

// styleOptions are the diary styling flags.
type styleOptions struct {
	Title           string
	BackgroundColor string
	NotebookDesign  string
	FontFamily      string
	FontSize        float64
	FontColor       string
}

func addStyleFlags(cmd *cobra.Command, o *styleOptions) {
	f := cmd.Flags()
	f.StringVar(&o.Title, "title", "", "entry title")
	f.StringVar(&o.BackgroundColor, "color", "", "background colour, e.g. #FFF8E7")
	f.StringVar(&o.NotebookDesign, "design", "", "notebook design")
	f.StringVar(&o.FontFamily, "font", "", "font family")
	f.Float64Var(&o.FontSize, "size", 0, "font size")
	f.StringVar(&o.FontColor, "font-color", "", "font colour, e.g. #333333")
}

// changed returns a pointer to v when the flag was given.
func changed[T any](cmd *cobra.Command, name string, v T) *T {
	if cmd.Flags().Changed(name) {
		return &v
	}
	return nil
}

func newDiaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diary",
		Aliases: []string{"d"},
		Short:   "Write and read diary entries",
	}
	cmd.AddCommand(
		newDiaryNewCommand(),
		newDiaryListCommand(),
		newDiaryShowCommand(),
		newDiaryEditCommand(),
		newDiaryDeleteCommand(),
	)
	return cmd
}

func newDiaryNewCommand() *cobra.Command {
	o := &styleOptions{}
	var capsule string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write a new entry, styled like the last one",
		Example: `  journey diary new --title "Summer trip"
  journey diary new --capsule 1y`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var openDate time.Time
			if capsule != "" {
				var err error
				if openDate, err = resolveOpenDate(capsule); err != nil {
					return err
				}
			}

			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			last := a.settings.Load(ctx)
			d := rpc.Diary{
				Title:           o.Title,
				BackgroundColor: pick(cmd, "color", o.BackgroundColor, last.LastBackgroundColor),
				NotebookDesign:  pick(cmd, "design", o.NotebookDesign, last.LastNotebookDesign),
				FontFamily:      pick(cmd, "font", o.FontFamily, last.LastFontFamily),
				FontSize:        pick(cmd, "size", o.FontSize, last.LastFontSize),
				FontColor:       pick(cmd, "font-color", o.FontColor, last.LastFontColor),
			}

			a.editor.ApplyConfig(editorConfig(d))
			a.editor.Clear()
			content, err := a.editor.Edit("Write your entry", false)
			if err != nil {
				return err
			}
			if content == "" {
				return errors.New("the entry is empty, nothing was saved")
			}
			d.Content = content

			created, err := a.svc.CreateDiary(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved entry %s\n", created.ID)

			if capsule != "" {
				tc, err := a.sealCapsule(ctx, created.ID, openDate, "")
				if err != nil {
					return err
				}
				a.printSealed(ctx, tc)
			}

			// a failed style write leaves the saved entry alone
			if _, err := a.settings.Update(ctx, settings.Patch{
				LastBackgroundColor: &d.BackgroundColor,
				LastNotebookDesign:  &d.NotebookDesign,
				LastFontFamily:      &d.FontFamily,
				LastFontSize:        &d.FontSize,
				LastFontColor:       &d.FontColor,
			}); err != nil {
				color.New(color.FgYellow).Fprintf(a.out, "Could not remember this style: %v\n", err)
			}
			return nil
		},
	}
	addStyleFlags(cmd, o)
	cmd.Flags().StringVar(&capsule, "capsule", "", "seal the entry as a time capsule: 1m, 3m, 6m, 1y or YYYY-MM-DD")
	return cmd
}

func pick[T any](cmd *cobra.Command, flag string, given, fallback T) T {
	if cmd.Flags().Changed(flag) {
		return given
	}
	return fallback
}

func editorConfig(d rpc.Diary) editor.Config {
	return editor.Config{
		FontFamily:      d.FontFamily,
		FontSize:        d.FontSize,
		FontColor:       d.FontColor,
		BackgroundColor: d.BackgroundColor,
		Placeholder:     placeholder,
		AutoFocus:       true,
	}
}

func newDiaryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries; sealed time capsules are left out",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			list, err := a.svc.ListDiaries(ctx)
			if err != nil {
				return err
			}
			printDiaries(a.out, list)
			return nil
		},
	}
}

func (a *App) showDiary(d *rpc.Diary) {
	printDiary(a.out, d)
	a.editor.ApplyConfig(editorConfig(*d))
	a.editor.SetText(d.Content)
	a.editor.Preview()
}

func newDiaryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Read an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			d, err := a.svc.GetDiary(ctx, args[0])
			if rpc.IsCode(err, codes.FailedPrecondition) {
				color.New(color.FgYellow).Fprintln(a.out, "This entry is a sealed time capsule. It can be read once it opens.")
				return nil
			}
			if err != nil {
				return err
			}
			a.showDiary(d)
			return nil
		},
	}
}

func newDiaryEditCommand() *cobra.Command {
	o := &styleOptions{}
	var keepText bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an entry's text or style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			d, err := a.svc.GetDiary(ctx, args[0])
			if err != nil {
				return err
			}

			req := &rpc.UpdateDiaryRequest{
				ID:              d.ID,
				Title:           changed(cmd, "title", o.Title),
				BackgroundColor: changed(cmd, "color", o.BackgroundColor),
				NotebookDesign:  changed(cmd, "design", o.NotebookDesign),
				FontFamily:      changed(cmd, "font", o.FontFamily),
				FontSize:        changed(cmd, "size", o.FontSize),
				FontColor:       changed(cmd, "font-color", o.FontColor),
			}

			if !keepText {
				a.editor.ApplyConfig(editorConfig(*d))
				a.editor.SetText(d.Content)
				a.editor.Preview()
				content, err := a.editor.Edit("Rewrite the entry (an empty line keeps it)", true)
				if err != nil {
					return err
				}
				if content != d.Content {
					req.Content = &content
				}
			}

			updated, err := a.svc.UpdateDiary(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated entry %s\n", updated.ID)
			return nil
		},
	}
	addStyleFlags(cmd, o)
	cmd.Flags().BoolVar(&keepText, "keep-text", false, "only change the style")
	return cmd
}

func newDiaryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry together with its time capsule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			if err := a.svc.DeleteDiary(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted entry %s\n", args[0])
			return nil
		},
	}
}
