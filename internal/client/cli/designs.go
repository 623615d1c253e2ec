package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDesignsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "designs",
		Short: "Browse and add notebook designs",
	}
	cmd.AddCommand(newDesignsListCommand(), newDesignsUploadCommand())
	return cmd
}

func newDesignsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notebook designs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			list, err := a.svc.ListDesigns(ctx)
			if err != nil {
				return err
			}
			printDesigns(a.out, list)
			return nil
		},
	}
}

func newDesignsUploadCommand() *cobra.Command {
	var category, thumbnail string

	cmd := &cobra.Command{
		Use:   "upload <name> <image.png>",
		Short: "Add a notebook design from a PNG image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			image, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var thumb []byte
			if thumbnail != "" {
				if thumb, err = os.ReadFile(thumbnail); err != nil {
					return err
				}
			}

			ctx, cancel := a.callContext(cmd.Context())
			defer cancel()

			d, err := a.svc.UploadDesign(ctx, args[0], category, image, thumb)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added design %s (%s)\n", d.Name, d.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "design category")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "thumbnail image (defaults to the image)")
	return cmd
}
