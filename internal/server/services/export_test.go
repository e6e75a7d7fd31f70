package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/logging"
	sc "github.com/dmitrijs2005/rateday/internal/server/config"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3Capture struct {
	region       string
	baseEndpoint string
	pathStyle    bool
	putKey       string
	putBody      []byte
	presignKey   string
	expires      time.Duration
}

func stubS3(t *testing.T, putErr error) *s3Capture {
	t.Helper()
	c := &s3Capture{}

	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origPresign := putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNewS3, origNewPre
		putObject, presignGetObject = origPut, origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		c.region = lo.Region
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		c.baseEndpoint = aws.ToString(opts.BaseEndpoint)
		c.pathStyle = opts.UsePathStyle
		return &s3.Client{}
	}
	newS3PresignClient = func(*s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if putErr != nil {
			return nil, putErr
		}
		c.putKey = aws.ToString(in.Key)
		body, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		c.putBody = body
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(_ *s3.PresignClient, _ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		c.presignKey = aws.ToString(in.Key)
		c.expires = po.Expires
		return &v4.PresignedHTTPRequest{URL: "https://s3.example/" + c.presignKey + "?sig=1"}, nil
	}
	return c
}

func newExportService() (*ExportService, *fakeManager) {
	m := newFakeManager()
	cfg := &sc.Config{
		S3Region:       "eu-north-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "rateday",
	}
	s := NewExportService(m, cfg, logging.Nop{})
	s.now = func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) }
	return s, m
}

func TestExportMonth(t *testing.T) {
	capture := stubS3(t, nil)
	s, m := newExportService()
	m.ratings.rows[ratingKey("alice", "2025-03-02")] = models.Rating{PrincipalID: "alice", Date: "2025-03-02", Mood: 1, Notes: "rain"}
	m.ratings.rows[ratingKey("alice", "2025-03-01")] = models.Rating{PrincipalID: "alice", Date: "2025-03-01", Mood: 4}
	m.ratings.rows[ratingKey("alice", "2025-04-01")] = models.Rating{PrincipalID: "alice", Date: "2025-04-01", Mood: 3}

	exp, err := s.ExportMonth(context.Background(), "alice", "2025-03")
	require.NoError(t, err)

	assert.Equal(t, 2, exp.Count)
	assert.Regexp(t, regexp.MustCompile(`^exports/[0-9a-f]{16}/2025-03/[0-9a-f-]{36}\.json$`), exp.Key)
	assert.Equal(t, exp.Key, capture.putKey)
	assert.Equal(t, exp.Key, capture.presignKey)
	assert.Equal(t, ExportURLValidity, capture.expires)
	assert.Contains(t, exp.URL, exp.Key)
	assert.Equal(t, "eu-north-1", capture.region)
	assert.Equal(t, "http://127.0.0.1:9000", capture.baseEndpoint)
	assert.True(t, capture.pathStyle)

	var doc exportDocument
	require.NoError(t, json.Unmarshal(capture.putBody, &doc))
	assert.Equal(t, "2025-03", doc.Month)
	require.Len(t, doc.Ratings, 2)
	assert.Equal(t, "2025-03-01", doc.Ratings[0].Date)
	assert.Equal(t, "rain", doc.Ratings[1].Notes)
}

func TestExportMonth_Errors(t *testing.T) {
	t.Run("invalid month", func(t *testing.T) {
		stubS3(t, nil)
		s, _ := newExportService()
		_, err := s.ExportMonth(context.Background(), "alice", "2025-3")
		assert.ErrorIs(t, err, common.ErrInvalidMonth)
	})

	t.Run("upload failure", func(t *testing.T) {
		stubS3(t, errors.New("bucket missing"))
		s, _ := newExportService()
		_, err := s.ExportMonth(context.Background(), "alice", "2025-03")
		assert.ErrorContains(t, err, "upload export")
	})

	t.Run("aws config failure", func(t *testing.T) {
		stubS3(t, nil)
		loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("load-fail")
		}
		s, _ := newExportService()
		_, err := s.ExportMonth(context.Background(), "alice", "2025-03")
		assert.EqualError(t, err, "load-fail")
	})
}

func TestStorageKey_HashesPrincipal(t *testing.T) {
	a := StorageKey("alice@example.com", "2025-03")
	b := StorageKey("alice@example.com", "2025-03")

	assert.NotContains(t, a, "alice")
	assert.Equal(t, a[:len("exports/")+16], b[:len("exports/")+16])
	assert.NotEqual(t, a, b)
}
