package cli

import (
	"context"

	"github.com/fatih/color"
)

// openCapsule opens a capsule and shows the entry inside it.
func (a *App) openCapsule(ctx context.Context, id string) error {
	tc, err := a.svc.OpenTimeCapsule(ctx, id)
	if err != nil {
		return err
	}

	d, err := a.svc.GetDiary(ctx, tc.DiaryID)
	if err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintf(a.out, "Opened time capsule sealed on %s\n\n", formatTime(tc.CreatedAt))
	a.showDiary(d)
	return nil
}
