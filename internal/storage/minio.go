package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// UploadMetrics records upload latency and failures per media kind.
type UploadMetrics interface {
	RecordMediaUpload(kind string, duration time.Duration)
	RecordMediaUploadFailure(kind string)
}

// MediaStorage uploads media files to MinIO and returns publicly reachable
// URLs. Every upload goes through a circuit breaker so a media host outage
// fails fast instead of holding request goroutines for the full timeout.
type MediaStorage struct {
	client       *minio.Client
	bucket       string
	publicURL    string
	videoTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker
	metrics      UploadMetrics
	logger       *logrus.Logger
}

type Options struct {
	Endpoint           string
	PublicURL          string
	AccessKey          string
	SecretKey          string
	Bucket             string
	UseSSL             bool
	VideoUploadTimeout time.Duration
	BreakerMaxRequests uint32
	BreakerTimeout     time.Duration
}

func NewMediaStorage(opts Options, metrics UploadMetrics, logger *logrus.Logger) (*MediaStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: "us-east-1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}

		policy := fmt.Sprintf(`{
			"Version": "2012-10-17",
			"Statement": [
				{
					"Effect": "Allow",
					"Principal": {"AWS": ["*"]},
					"Action": ["s3:GetObject"],
					"Resource": ["arn:aws:s3:::%s/*"]
				}
			]
		}`, opts.Bucket)
		if err := client.SetBucketPolicy(ctx, opts.Bucket, policy); err != nil {
			logger.WithError(err).Warn("failed to set bucket read policy")
		}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "media-host",
		MaxRequests: opts.BreakerMaxRequests,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("media host breaker state change")
		},
	})

	return &MediaStorage{
		client:       client,
		bucket:       opts.Bucket,
		publicURL:    strings.TrimRight(opts.PublicURL, "/"),
		videoTimeout: opts.VideoUploadTimeout,
		breaker:      breaker,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

// UploadImage pushes a local image file to the media host and returns its
// public URL. The temp file is removed whether or not the upload succeeds.
func (s *MediaStorage) UploadImage(ctx context.Context, localPath string) (string, error) {
	defer s.removeTemp(localPath)

	objectName := objectNameFor("images", localPath)
	if err := s.put(ctx, "image", objectName, localPath); err != nil {
		return "", err
	}
	return s.objectURL(objectName), nil
}

// UploadVideo pushes a local video file to the media host and returns its
// public URL plus the probed duration in seconds. The temp file is removed
// whether or not the upload succeeds.
func (s *MediaStorage) UploadVideo(ctx context.Context, localPath string) (string, float64, error) {
	defer s.removeTemp(localPath)

	duration, err := probeDuration(localPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to probe video duration: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.videoTimeout)
	defer cancel()

	objectName := objectNameFor("videos", localPath)
	if err := s.put(ctx, "video", objectName, localPath); err != nil {
		return "", 0, err
	}
	return s.objectURL(objectName), duration, nil
}

func (s *MediaStorage) put(ctx context.Context, kind, objectName, localPath string) error {
	start := time.Now()
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
			ContentType: contentTypeFor(localPath),
		})
	})
	s.observeUpload(kind, start, err)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}

// observeUpload records one upload outcome against the start time.
func (s *MediaStorage) observeUpload(kind string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.RecordMediaUploadFailure(kind)
		return
	}
	s.metrics.RecordMediaUpload(kind, time.Since(start))
}

func (s *MediaStorage) objectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName)
}

func (s *MediaStorage) removeTemp(localPath string) {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("path", localPath).Warn("temp file cleanup failed")
	}
}

// objectNameFor builds a collision-free object key, keeping the original
// extension so content type survives.
func objectNameFor(prefix, localPath string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), filepath.Ext(localPath))
}

func contentTypeFor(localPath string) string {
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// probeDuration reads the container duration via ffprobe.
func probeDuration(localPath string) (float64, error) {
	out, err := ffmpeg.Probe(localPath)
	if err != nil {
		return 0, err
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(out string) (float64, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, err
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("no duration in probe output")
	}
	return strconv.ParseFloat(probe.Format.Duration, 64)
}
