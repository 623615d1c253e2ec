// Package settings persists the per-installation user preferences: the
// styling last used for a diary entry and a few app switches.
package settings

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/peterbourgon/diskv/v3"
)

// Key is the single record the settings live under.
const Key = "@yourjourney:settings"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeAuto
}

type Settings struct {
	LastBackgroundColor string  `json:"lastBackgroundColor"`
	LastNotebookDesign  string  `json:"lastNotebookDesign"`
	LastFontFamily      string  `json:"lastFontFamily"`
	LastFontSize        float64 `json:"lastFontSize"`
	LastFontColor       string  `json:"lastFontColor"`

	EnableNotifications bool  `json:"enableNotifications"`
	Theme               Theme `json:"theme"`
}

// Defaults returns the settings of a fresh installation.
func Defaults() Settings {
	return Settings{
		LastBackgroundColor: "#FFFFFF",
		LastNotebookDesign:  "lined",
		LastFontFamily:      "System",
		LastFontSize:        16,
		LastFontColor:       "#000000",
		EnableNotifications: true,
		Theme:               ThemeAuto,
	}
}

// Patch is a partial update; nil fields are kept.
type Patch struct {
	LastBackgroundColor *string  `json:"lastBackgroundColor,omitempty"`
	LastNotebookDesign  *string  `json:"lastNotebookDesign,omitempty"`
	LastFontFamily      *string  `json:"lastFontFamily,omitempty"`
	LastFontSize        *float64 `json:"lastFontSize,omitempty"`
	LastFontColor       *string  `json:"lastFontColor,omitempty"`
	EnableNotifications *bool    `json:"enableNotifications,omitempty"`
	Theme               *Theme   `json:"theme,omitempty"`
}

func (p Patch) apply(s Settings) Settings {
	if p.LastBackgroundColor != nil {
		s.LastBackgroundColor = *p.LastBackgroundColor
	}
	if p.LastNotebookDesign != nil {
		s.LastNotebookDesign = *p.LastNotebookDesign
	}
	if p.LastFontFamily != nil {
		s.LastFontFamily = *p.LastFontFamily
	}
	if p.LastFontSize != nil {
		s.LastFontSize = *p.LastFontSize
	}
	if p.LastFontColor != nil {
		s.LastFontColor = *p.LastFontColor
	}
	if p.EnableNotifications != nil {
		s.EnableNotifications = *p.EnableNotifications
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}

// KV is the key-value persistence behind a Store; *diskv.Diskv satisfies it.
type KV interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
}

// Store reads and writes the settings record.
type Store struct {
	mu  sync.Mutex
	kv  KV
	log logging.Logger
}

// New returns a Store over kv.
func New(kv KV, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{kv: kv, log: log.With("module", "settings")}
}

// Open returns a Store persisted under dir.
func Open(dir string, log logging.Logger) *Store {
	return New(diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      64 * 1024,
		PathPerm:          0o700,
		FilePerm:          0o600,
	}), log)
}

// keys such as "@yourjourney:settings" are not portable file names
func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: base64.RawURLEncoding.EncodeToString([]byte(key))}
}

func pathToKey(pk *diskv.PathKey) string {
	b, err := base64.RawURLEncoding.DecodeString(pk.FileName)
	if err != nil {
		return pk.FileName
	}
	return string(b)
}

// Load returns the stored settings merged onto the defaults. A missing or
// unreadable record yields the defaults.
func (s *Store) Load(ctx context.Context) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) Settings {
	raw, err := s.kv.Read(Key)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error(ctx, "read settings", "error", err)
		}
		return Defaults()
	}

	merged := Defaults()
	if err := json.Unmarshal(raw, &merged); err != nil {
		s.log.Error(ctx, "decode settings", "error", err)
		return Defaults()
	}
	if !merged.Theme.Valid() {
		s.log.Warn(ctx, "unknown theme in settings", "theme", merged.Theme)
		merged.Theme = ThemeAuto
	}
	return merged
}

// Update merges p onto the current settings and persists the result.
func (s *Store) Update(ctx context.Context, p Patch) (Settings, error) {
	if p.Theme != nil && !p.Theme.Valid() {
		return Settings{}, fmt.Errorf("theme %q: %w", *p.Theme, common.ErrValidation)
	}
	if p.LastFontSize != nil && *p.LastFontSize <= 0 {
		return Settings{}, fmt.Errorf("font size %v: %w", *p.LastFontSize, common.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := p.apply(s.load(ctx))
	if err := s.save(ctx, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

// Reset overwrites the stored settings with the defaults.
func (s *Store) Reset(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Defaults()
	if err := s.save(ctx, d); err != nil {
		return Settings{}, err
	}
	return d, nil
}

func (s *Store) save(ctx context.Context, v Settings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.kv.Write(Key, raw); err != nil {
		s.log.Error(ctx, "write settings", "error", err)
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
