package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/logging"
	sc "github.com/ardenspace/space3-your-journey/internal/server/config"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrStorageUnavailable is returned by operations that need object storage
// when its credentials are not configured.
var ErrStorageUnavailable = errors.New("object storage is not configured")

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// DesignService serves the notebook design catalog. Image keys are
// resolved to presigned links; without storage credentials designs are
// served without links.
type DesignService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
	log         logging.Logger
}

func NewDesignService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, log logging.Logger) *DesignService {
	if log == nil {
		log = logging.Nop()
	}
	return &DesignService{
		db:          db,
		repomanager: m,
		config:      cfg,
		now:         time.Now,
		log:         log.With("module", "designs"),
	}
}

// StorageKey returns a fresh object key for a design image.
func (s *DesignService) StorageKey(suffix string) string {
	d := s.now().UTC()
	return fmt.Sprintf("designs/%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), suffix)
}

func (s *DesignService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// List returns the catalog with presigned image and thumbnail links.
func (s *DesignService) List(ctx context.Context) ([]*models.NotebookDesign, error) {
	list, err := s.repomanager.Designs(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing designs: %w", err)
	}

	if err := s.resolveURLs(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns one design with its links, or common.ErrorNotFound.
func (s *DesignService) Get(ctx context.Context, id string) (*models.NotebookDesign, error) {
	d, err := s.repomanager.Designs(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting design: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("design %s: %w", id, common.ErrorNotFound)
	}
	if err := s.resolveURLs(ctx, []*models.NotebookDesign{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// resolveURLs fills the presigned links of designs. It is a no-op without
// storage.
func (s *DesignService) resolveURLs(ctx context.Context, designs []*models.NotebookDesign) error {
	if !s.config.StorageEnabled() || len(designs) == 0 {
		return nil
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	for _, d := range designs {
		if d.ImageURL, err = s.presignGet(ctx, pc, bucket, d.ImageKey); err != nil {
			return err
		}
		if d.ThumbnailURL, err = s.presignGet(ctx, pc, bucket, d.ThumbnailKey); err != nil {
			return err
		}
	}
	return nil
}

func (s *DesignService) presignGet(ctx context.Context, pc *s3.PresignClient, bucket, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("error presigning %s: %w", key, err)
	}
	return req.URL, nil
}

// DesignUpload is a new catalog entry and the links its images are
// uploaded to.
type DesignUpload struct {
	Design             *models.NotebookDesign
	ImageUploadURL     string
	ThumbnailUploadURL string
}

// PresignUpload adds a design to the catalog and returns presigned PUT
// links for its image and thumbnail.
func (s *DesignService) PresignUpload(ctx context.Context, name, category string) (*DesignUpload, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: design name is empty", common.ErrValidation)
	}
	if !s.config.StorageEnabled() {
		return nil, ErrStorageUnavailable
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	d := &models.NotebookDesign{
		Name:         name,
		Category:     strings.TrimSpace(category),
		ImageKey:     s.StorageKey(".png"),
		ThumbnailKey: s.StorageKey("-thumb.png"),
	}

	bucket := s.config.S3Bucket
	upload := &DesignUpload{Design: d}
	for _, p := range []struct {
		key string
		url *string
	}{
		{d.ImageKey, &upload.ImageUploadURL},
		{d.ThumbnailKey, &upload.ThumbnailUploadURL},
	} {
		key := p.key
		req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
			Bucket: &bucket,
			Key:    &key,
		}, s3.WithPresignExpires(presignExpiry))
		if err != nil {
			return nil, fmt.Errorf("error presigning %s: %w", key, err)
		}
		*p.url = req.URL
	}

	id, err := s.repomanager.Designs(s.db).Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("error creating design: %w", err)
	}
	d.ID = id

	s.log.Info(ctx, "design upload presigned", "design_id", id, "name", name)
	return upload, nil
}
