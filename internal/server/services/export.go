package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	sc "github.com/dmitrijs2005/rateday/internal/server/config"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rateday/internal/timex"
	"github.com/google/uuid"
)

// ExportURLValidity is how long a presigned export link works.
const ExportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Export describes an uploaded month export.
type Export struct {
	Key   string
	URL   string
	Count int
}

type exportRating struct {
	Date      string    `json:"date"`
	Rating    int       `json:"rating"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type exportDocument struct {
	Month      string         `json:"month"`
	ExportedAt time.Time      `json:"exportedAt"`
	Ratings    []exportRating `json:"ratings"`
}

// ExportService writes a month of ratings to object storage and hands out
// a short-lived download link.
type ExportService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
	logger      logging.Logger
}

func NewExportService(m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		repomanager: m,
		config:      cfg,
		now:         time.Now,
		logger:      logger.With("module", "export"),
	}
}

// StorageKey is exports/<principal-hash>/<month>/<uuid>.json. The principal
// is hashed so identifiers such as e-mail addresses stay out of object keys.
func StorageKey(principalID, month string) string {
	sum := sha256.Sum256([]byte(principalID))
	return fmt.Sprintf("exports/%s/%s/%s.json", hex.EncodeToString(sum[:8]), month, uuid.New())
}

func (s *ExportService) getS3Client(ctx context.Context) (*s3.Client, error) {
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

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *ExportService) ExportMonth(ctx context.Context, principalID, month string) (*Export, error) {
	if _, err := common.ParseMonth(month); err != nil {
		return nil, err
	}
	from, to, err := timex.MonthBounds(month)
	if err != nil {
		return nil, common.ErrInvalidMonth
	}

	ratings, err := s.repomanager.Ratings().ListRange(ctx, principalID, from, to)
	if err != nil {
		return nil, err
	}

	doc := exportDocument{Month: month, ExportedAt: s.now().UTC(), Ratings: make([]exportRating, 0, len(ratings))}
	for _, r := range ratings {
		doc.Ratings = append(doc.Ratings, exportRating{
			Date: r.Date, Rating: r.Mood, Notes: r.Notes, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
		})
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := StorageKey(principalID, month)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportURLValidity))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.logger.Info(ctx, "month exported", "principal", principalID, "month", month, "count", len(doc.Ratings))
	return &Export{Key: key, URL: req.URL, Count: len(doc.Ratings)}, nil
}
