package models

import "time"

// NotebookDesign is a page background users can write on. Image and
// thumbnail live in object storage under the given keys; the URL fields are
// filled with presigned links when the design is served.
type NotebookDesign struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	ImageKey     string    `json:"-"`
	ThumbnailKey string    `json:"-"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
