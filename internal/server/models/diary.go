// Package models defines server-side data models persisted in the database.
package models

import "time"

// Diary is a single journal entry owned by a user.
type Diary struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Title   string `json:"title,omitempty"`
	Content string `json:"content"`

	// Styling the entry was written with.
	BackgroundColor string  `json:"backgroundColor"`
	NotebookDesign  string  `json:"notebookDesign"`
	FontFamily      string  `json:"fontFamily"`
	FontSize        float64 `json:"fontSize"`
	FontColor       string  `json:"fontColor"`

	// Server-assigned; UpdatedAt never precedes CreatedAt.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// IsTimeCapsule is set exactly when TimeCapsuleID references a capsule
	// bound to this entry.
	IsTimeCapsule bool   `json:"isTimeCapsule"`
	TimeCapsuleID string `json:"timeCapsuleId,omitempty"`
}

// DiaryPatch carries a partial diary update; nil fields are left untouched.
type DiaryPatch struct {
	Title           *string  `json:"title,omitempty"`
	Content         *string  `json:"content,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	NotebookDesign  *string  `json:"notebookDesign,omitempty"`
	FontFamily      *string  `json:"fontFamily,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontColor       *string  `json:"fontColor,omitempty"`
	IsTimeCapsule   *bool    `json:"isTimeCapsule,omitempty"`
	TimeCapsuleID   *string  `json:"timeCapsuleId,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p DiaryPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.BackgroundColor == nil &&
		p.NotebookDesign == nil && p.FontFamily == nil && p.FontSize == nil &&
		p.FontColor == nil && p.IsTimeCapsule == nil && p.TimeCapsuleID == nil
}
