package client

import (
	"encoding/json"
	"errors"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

const sessionKey = "session"

// Session is what a sign-in leaves behind.
type Session struct {
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionStore persists one Session.
type SessionStore struct {
	kv *diskv.Diskv
}

func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{kv: diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 4 * 1024,
		PathPerm:     0o700,
		FilePerm:     0o600,
	})}
}

// Load returns the stored session, or a zero Session when there is none.
func (s *SessionStore) Load() (Session, error) {
	raw, err := s.kv.Read(sessionKey)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SessionStore) Save(sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.kv.Write(sessionKey, raw)
}

// Clear forgets the session. Clearing an empty store is not an error.
func (s *SessionStore) Clear() error {
	if err := s.kv.Erase(sessionKey); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
