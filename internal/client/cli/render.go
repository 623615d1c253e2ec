package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const timeLayout = "2006-01-02 15:04"

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint, color.Italic)
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func newTable(header ...interface{}) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = bold.Sprint(h)
	}
	tbl.AddRow(cells...)
	return tbl
}

func printTable(w io.Writer, tbl *uitable.Table) {
	fmt.Fprintln(w, tbl.String())
}

func printNone(w io.Writer, what string) {
	faint.Fprintf(w, "no %s\n", what)
}

// firstLine is a one-line preview of a diary body.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func capsuleState(tc *rpc.TimeCapsule) string {
	switch tc.State {
	case "opened":
		return color.GreenString("opened")
	case "scheduled":
		return color.CyanString("scheduled")
	default:
		return color.YellowString(tc.State)
	}
}

func printDiaries(w io.Writer, list []*rpc.Diary) {
	if len(list) == 0 {
		printNone(w, "diary entries")
		return
	}
	tbl := newTable("ID", "CREATED", "TITLE", "TEXT")
	for _, d := range list {
		tbl.AddRow(d.ID, formatTime(d.CreatedAt), d.Title, firstLine(d.Content))
	}
	printTable(w, tbl)
}

func printDiary(w io.Writer, d *rpc.Diary) {
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	color.New(color.Bold, color.Underline).Fprintln(w, title)
	faint.Fprintf(w, "%s · %s %.0fpt · %s\n", formatTime(d.CreatedAt), d.FontFamily, d.FontSize, d.NotebookDesign)
	fmt.Fprintln(w)
}

func printCapsules(w io.Writer, list []*rpc.TimeCapsule) {
	if len(list) == 0 {
		printNone(w, "time capsules")
		return
	}
	tbl := newTable("ID", "DIARY", "OPENS", "STATE")
	for _, tc := range list {
		tbl.AddRow(tc.ID, tc.DiaryID, formatTime(tc.OpenDate), capsuleState(tc))
	}
	printTable(w, tbl)
}

func printNotifications(w io.Writer, title string, list []*rpc.Notification) {
	bold.Fprintln(w, title)
	if len(list) == 0 {
		printNone(w, "notifications")
		return
	}
	tbl := newTable("ID", "WHEN", "CAPSULE", "MESSAGE")
	for _, n := range list {
		when := formatTime(n.Date)
		if n.DeliveredAt != nil {
			when = formatTime(*n.DeliveredAt)
		}
		tbl.AddRow(n.ID, when, n.CapsuleID, n.Title+" "+n.Body)
	}
	printTable(w, tbl)
}

func printDesigns(w io.Writer, list []*rpc.Design) {
	if len(list) == 0 {
		printNone(w, "notebook designs")
		return
	}
	tbl := newTable("ID", "NAME", "CATEGORY", "IMAGE")
	for _, d := range list {
		image := d.ImageURL
		if image == "" {
			image = "-"
		}
		tbl.AddRow(d.ID, d.Name, d.Category, image)
	}
	printTable(w, tbl)
}
