package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"transfit-backend/internal/shared/storage/object"
	"transfit-backend/internal/shared/telemetry"
	"transfit-backend/internal/shared/util"
)

// digestMetaKey is the user metadata key carrying the document digest, so a
// published revision can be matched to the digest logged at load time.
const digestMetaKey = "transfit-digest"

const defaultContentType = "application/octet-stream"

// Store keeps rule documents in an S3 bucket under an optional prefix.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
	sse    encryption
}

type encryption struct {
	mode  s3types.ServerSideEncryption
	kmsID string
}

// New loads the default AWS credential chain and returns a bucket-backed store.
func New(ctx context.Context, region, bucket, prefix, kmsKeyID string) (object.ObjectStore, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region = strings.TrimSpace(region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	return &Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		sse:    encryptionFor(kmsKeyID),
	}, nil
}

func encryptionFor(kmsKeyID string) encryption {
	if id := strings.TrimSpace(kmsKeyID); id != "" {
		return encryption{mode: s3types.ServerSideEncryptionAwsKms, kmsID: id}
	}
	return encryption{mode: s3types.ServerSideEncryptionAes256}
}

// Open streams the document at key. A missing key maps to object.ErrNotFound.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullKey := s.objectKey(key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		var missing *s3types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: s3://%s/%s", object.ErrNotFound, s.bucket, fullKey)
		}
		return nil, fmt.Errorf("s3: get s3://%s/%s: %w", s.bucket, fullKey, err)
	}
	return out.Body, nil
}

// SaveWithKey uploads the document, tagging it with its digest. The body is
// buffered so the upload carries an exact content length.
func (s *Store) SaveWithKey(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := object.ReadDocument(r)
	if err != nil {
		return 0, err
	}

	fullKey := s.objectKey(key)
	digest := util.Digest(data)
	input := s.putInput(fullKey, contentType, digest, data)
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return 0, fmt.Errorf("s3: put s3://%s/%s: %w", s.bucket, fullKey, err)
	}

	telemetry.Info("object.saved", map[string]any{
		"bucket": s.bucket,
		"key":    fullKey,
		"bytes":  len(data),
		"digest": digest,
	})
	return int64(len(data)), nil
}

func (s *Store) putInput(fullKey, contentType, digest string, data []byte) *s3.PutObjectInput {
	if strings.TrimSpace(contentType) == "" {
		contentType = defaultContentType
	}
	in := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(fullKey),
		Body:                 bytes.NewReader(data),
		ContentLength:        aws.Int64(int64(len(data))),
		ContentType:          aws.String(contentType),
		CacheControl:         aws.String("no-cache"),
		Metadata:             map[string]string{digestMetaKey: digest},
		ServerSideEncryption: s.sse.mode,
	}
	if s.sse.kmsID != "" {
		in.SSEKMSKeyId = aws.String(s.sse.kmsID)
	}
	return in
}

func (s *Store) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	switch {
	case s.prefix == "":
		return key
	case key == "":
		return s.prefix
	default:
		return s.prefix + "/" + key
	}
}

var _ object.ObjectStore = (*Store)(nil)
