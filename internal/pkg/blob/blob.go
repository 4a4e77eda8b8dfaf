// Package blob is the content-addressed media store backed by S3-compatible
// object storage. Uploads above the part threshold go through the multipart
// API so large videos survive flaky links and report progress along the way.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	appcfg "github.com/scrapbook-space/core/internal/config"
)

// partSize is the multipart chunk size; uploads at or below it use a single
// PutObject call.
const partSize = 8 << 20

// TransferError wraps a failed blob transfer so callers can surface it
// instead of swallowing it into a log line.
type TransferError struct {
	Key string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("blob transfer failed for %q: %v", e.Key, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// ProgressFunc receives transferred/total byte counts during an upload.
// total is -1 when the size is unknown.
type ProgressFunc func(transferred, total int64)

// Store is the S3-backed blob store.
type Store struct {
	client *s3.Client
	cfg    appcfg.S3RuntimeConfig
}

// New builds a Store from runtime config. Static credentials only; the
// scrapbook never runs inside an instance role.
func New(cfg appcfg.S3RuntimeConfig) *Store {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}
	return &Store{client: s3.New(opts), cfg: cfg}
}

// Enabled reports whether the store is configured.
func (s *Store) Enabled() bool {
	return strings.TrimSpace(s.cfg.Bucket) != ""
}

// Upload streams the reader to the object key and returns the public
// download URL. Failures come back as *TransferError.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error) {
	var err error
	if size >= 0 && size <= partSize {
		err = s.putObject(ctx, key, r, size, contentType, progress)
	} else {
		err = s.multipartUpload(ctx, key, r, size, contentType, progress)
	}
	if err != nil {
		return "", &TransferError{Key: key, Err: err}
	}
	return s.DownloadURL(key), nil
}

func (s *Store) putObject(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: optionalString(contentType),
	})
	if err != nil {
		return err
	}
	if progress != nil {
		progress(int64(len(payload)), size)
	}
	return nil
}

func (s *Store) multipartUpload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) error {
	created, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: optionalString(contentType),
	})
	if err != nil {
		return err
	}
	uploadID := created.UploadId

	abort := func() {
		_, _ = s.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(s.cfg.Bucket),
			Key:      aws.String(key),
			UploadId: uploadID,
		})
	}

	var (
		parts       []s3types.CompletedPart
		partNumber  int32
		transferred int64
		buf         = make([]byte, partSize)
	)
	for {
		n, readErr := io.ReadFull(r, buf)
		if readErr == io.EOF {
			break
		}
		if readErr != nil && readErr != io.ErrUnexpectedEOF {
			abort()
			return readErr
		}

		partNumber++
		part, err := s.client.UploadPart(ctx, &s3.UploadPartInput{
			Bucket:     aws.String(s.cfg.Bucket),
			Key:        aws.String(key),
			UploadId:   uploadID,
			PartNumber: aws.Int32(partNumber),
			Body:       bytes.NewReader(buf[:n]),
		})
		if err != nil {
			abort()
			return err
		}
		parts = append(parts, s3types.CompletedPart{
			ETag:       part.ETag,
			PartNumber: aws.Int32(partNumber),
		})

		transferred += int64(n)
		if progress != nil {
			progress(transferred, size)
		}
		if readErr == io.ErrUnexpectedEOF {
			break
		}
	}

	if len(parts) == 0 {
		abort()
		return fmt.Errorf("empty upload body")
	}

	_, err = s.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(s.cfg.Bucket),
		Key:             aws.String(key),
		UploadId:        uploadID,
		MultipartUpload: &s3types.CompletedMultipartUpload{Parts: parts},
	})
	if err != nil {
		abort()
		return err
	}
	return nil
}

// Delete removes an object; missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &TransferError{Key: key, Err: err}
	}
	return nil
}

// DownloadURL resolves the public URL for an object key.
func (s *Store) DownloadURL(key string) string {
	if base := strings.TrimSpace(s.cfg.PublicBaseURL); base != "" {
		return strings.TrimSuffix(base, "/") + "/" + key
	}
	if endpoint := strings.TrimSpace(s.cfg.Endpoint); endpoint != "" {
		return strings.TrimSuffix(endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// ObjectKey builds the historical "videos/page{N}_{filename}" key. The
// videos/ prefix predates image support and is kept for compatibility with
// already stored media.
func ObjectKey(pageNumber int, filename string) string {
	return fmt.Sprintf("videos/page%d_%s", pageNumber, SanitizeFilename(filename))
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename strips directory components and characters that are not
// safe inside an object key.
func SanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = unsafeKeyChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "upload"
	}
	return base
}

func optionalString(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return aws.String(v)
}
