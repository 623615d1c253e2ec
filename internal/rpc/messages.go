package rpc

import "time"

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// Credentials is the request of Register and Login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Diary is a diary entry on the wire.
type Diary struct {
	ID              string    `json:"id,omitempty"`
	Title           string    `json:"title,omitempty"`
	Content         string    `json:"content"`
	BackgroundColor string    `json:"backgroundColor"`
	NotebookDesign  string    `json:"notebookDesign"`
	FontFamily      string    `json:"fontFamily"`
	FontSize        float64   `json:"fontSize"`
	FontColor       string    `json:"fontColor"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	IsTimeCapsule   bool      `json:"isTimeCapsule"`
	TimeCapsuleID   string    `json:"timeCapsuleId,omitempty"`
}

type CreateDiaryRequest struct {
	Diary Diary `json:"diary"`
}

// UpdateDiaryRequest changes the fields that are set.
type UpdateDiaryRequest struct {
	ID              string   `json:"id"`
	Title           *string  `json:"title,omitempty"`
	Content         *string  `json:"content,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	NotebookDesign  *string  `json:"notebookDesign,omitempty"`
	FontFamily      *string  `json:"fontFamily,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontColor       *string  `json:"fontColor,omitempty"`
}

// IDRequest addresses a single resource.
type IDRequest struct {
	ID string `json:"id"`
}

type DiaryResponse struct {
	Diary *Diary `json:"diary"`
}

type ListDiariesResponse struct {
	Diaries []*Diary `json:"diaries"`
}

// CreateTimeCapsuleRequest seals a diary until OpenDate. When OpenDate is
// zero, Option ("1m", "3m", "6m", "1y" or a date) is resolved by the
// server.
type CreateTimeCapsuleRequest struct {
	DiaryID  string    `json:"diaryId"`
	OpenDate time.Time `json:"openDate,omitempty"`
	Option   string    `json:"option,omitempty"`
	Title    string    `json:"title,omitempty"`
}

type TimeCapsule struct {
	ID                    string    `json:"id"`
	DiaryID               string    `json:"diaryId"`
	OpenDate              time.Time `json:"openDate"`
	IsOpened              bool      `json:"isOpened"`
	NotificationScheduled bool      `json:"notificationScheduled"`
	State                 string    `json:"state"`
	CreatedAt             time.Time `json:"createdAt"`
}

type TimeCapsuleResponse struct {
	TimeCapsule *TimeCapsule `json:"timeCapsule"`
}

type ListTimeCapsulesResponse struct {
	TimeCapsules []*TimeCapsule `json:"timeCapsules"`
}

// Notification is a scheduled or presented device notification.
type Notification struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Type        string     `json:"type,omitempty"`
	CapsuleID   string     `json:"capsuleId,omitempty"`
	Date        time.Time  `json:"date"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

type ListNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
}

// RespondRequest is a user action on a presented notification. An empty
// ActionID is a plain tap.
type RespondRequest struct {
	ID       string `json:"id"`
	ActionID string `json:"actionId,omitempty"`
}

// RespondResponse names the capsule a tap navigates to, if any.
type RespondResponse struct {
	CapsuleID string `json:"capsuleId,omitempty"`
}

type Design struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ListDesignsResponse struct {
	Designs []*Design `json:"designs"`
}

type DesignResponse struct {
	Design *Design `json:"design"`
}

type CreateDesignRequest struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type CreateDesignResponse struct {
	Design             *Design `json:"design"`
	ImageUploadURL     string  `json:"imageUploadUrl"`
	ThumbnailUploadURL string  `json:"thumbnailUploadUrl"`
}
