package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
)

// DiaryService writes and reads diary entries. Linking an entry to a time
// capsule and deleting entries belong to TimeCapsuleService.
type DiaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager) *DiaryService {
	return &DiaryService{db: db, repomanager: m}
}

// Create stores d for userID and returns it as stored.
func (s *DiaryService) Create(ctx context.Context, userID string, d *models.Diary) (*models.Diary, error) {
	if err := validateDiary(d.Content, d.FontSize); err != nil {
		return nil, err
	}

	entry := *d
	entry.ID = ""
	entry.IsTimeCapsule = false
	entry.TimeCapsuleID = ""

	repo := s.repomanager.Diaries(s.db)
	id, err := repo.Create(ctx, userID, &entry)
	if err != nil {
		return nil, fmt.Errorf("error creating diary: %w", err)
	}
	return s.get(ctx, userID, id)
}

// Update applies patch and returns the updated entry. The capsule link
// cannot be changed through a patch.
func (s *DiaryService) Update(ctx context.Context, userID, id string, patch models.DiaryPatch) (*models.Diary, error) {
	if patch.IsTimeCapsule != nil || patch.TimeCapsuleID != nil {
		return nil, fmt.Errorf("%w: time capsule link is read-only", common.ErrValidation)
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, fmt.Errorf("%w: content is empty", common.ErrValidation)
	}
	if patch.FontSize != nil && *patch.FontSize <= 0 {
		return nil, fmt.Errorf("%w: font size must be positive", common.ErrValidation)
	}

	if err := s.repomanager.Diaries(s.db).Update(ctx, userID, id, patch); err != nil {
		return nil, fmt.Errorf("error updating diary: %w", err)
	}
	return s.get(ctx, userID, id)
}

// Get returns an entry. Entries of time capsules that are not opened yet
// yield common.ErrCapsuleLocked.
func (s *DiaryService) Get(ctx context.Context, userID, id string) (*models.Diary, error) {
	d, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !d.IsTimeCapsule {
		return d, nil
	}

	tc, err := s.repomanager.TimeCapsules(s.db).GetByID(ctx, userID, d.TimeCapsuleID)
	if err != nil {
		return nil, fmt.Errorf("error getting time capsule: %w", err)
	}
	if tc != nil && !tc.IsOpened {
		return nil, common.ErrCapsuleLocked
	}
	return d, nil
}

// List returns the feed: entries that are not time capsules, newest first.
func (s *DiaryService) List(ctx context.Context, userID string) ([]*models.Diary, error) {
	list, err := s.repomanager.Diaries(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing diaries: %w", err)
	}
	return list, nil
}

func (s *DiaryService) get(ctx context.Context, userID, id string) (*models.Diary, error) {
	d, err := s.repomanager.Diaries(s.db).GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error getting diary: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("diary %s: %w", id, common.ErrorNotFound)
	}
	return d, nil
}

func validateDiary(content string, fontSize float64) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is empty", common.ErrValidation)
	}
	if fontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive", common.ErrValidation)
	}
	return nil
}
