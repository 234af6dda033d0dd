package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	"github.com/sirupsen/logrus"
)

const defaultExtension = ".webm"

var ErrBucketNotConfigured = errors.New("audio bucket is not configured")

// Object is a stored audio file.
type Object struct {
	Key string
	URL string
}

//go:generate mockery --name=AudioStore --dir=. --output=./mocks --filename=audio_store_mock.go --case=underscore --with-expecter
type AudioStore interface {
	PutAudio(ctx context.Context, userID int64, filename, contentType string, data []byte) (*Object, error)
	// DeleteAudio removes the object behind a URL returned by PutAudio. URLs
	// pointing elsewhere are left alone.
	DeleteAudio(ctx context.Context, url string) error
}

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	RoleARN   string
	Prefix    string
}

type s3Store struct {
	api    objectAPI
	cfg    Config
	logger *logrus.Logger
	newID  func() uuid.UUID
}

func NewS3AudioStore(ctx context.Context, logger *logrus.Logger, cfg Config) (AudioStore, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketNotConfigured
	}
	awsCfg, err := awsauth.LoadConfig(ctx, awsauth.Credentials{
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		RoleARN:   cfg.RoleARN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = awsCfg.Region
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, logger, cfg), nil
}

func newS3Store(api objectAPI, logger *logrus.Logger, cfg Config) *s3Store {
	return &s3Store{
		api:    api,
		cfg:    cfg,
		logger: logger,
		newID:  uuid.New,
	}
}

// PutAudio stores data under <prefix>/<userID>/<uuid><ext> and returns its
// public URL.
func (s *s3Store) PutAudio(ctx context.Context, userID int64, filename, contentType string, data []byte) (*Object, error) {
	key := s.objectKey(userID, filename)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.api.PutObject(ctx, input); err != nil {
		s.logger.WithFields(logrus.Fields{
			"bucket": s.cfg.Bucket,
			"key":    key,
		}).WithError(err).Error("failed to upload audio")
		return nil, fmt.Errorf("failed to upload audio: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"bucket": s.cfg.Bucket,
		"key":    key,
		"bytes":  len(data),
	}).Info("audio uploaded")
	return &Object{Key: key, URL: s.publicURL(key)}, nil
}

func (s *s3Store) DeleteAudio(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		s.logger.WithField("url", url).Debug("audio url is not in the bucket, skipping delete")
		return nil
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete audio %s: %w", key, err)
	}
	return nil
}

func (s *s3Store) objectKey(userID int64, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = defaultExtension
	}
	return path.Join(s.cfg.Prefix, fmt.Sprintf("%d", userID), s.newID().String()+ext)
}

func (s *s3Store) publicURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func (s *s3Store) keyFromURL(url string) (string, bool) {
	prefix := s.publicURL("")
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
