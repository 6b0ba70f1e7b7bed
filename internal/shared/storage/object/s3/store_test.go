package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"transfit-backend/internal/shared/storage/object"
	"transfit-backend/internal/shared/util"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "safety/rules.json", want: "safety/rules.json"},
		{name: "simple prefix", prefix: "transfit", key: "safety/rules.json", want: "transfit/safety/rules.json"},
		{name: "leading slash on key", prefix: "transfit", key: "/safety/rules.json", want: "transfit/safety/rules.json"},
		{name: "nested prefix", prefix: "transfit/prod", key: "safety/rules.yaml", want: "transfit/prod/safety/rules.yaml"},
		{name: "empty key", prefix: "transfit", key: "", want: "transfit"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &Store{prefix: tt.prefix}
			if got := s.objectKey(tt.key); got != tt.want {
				t.Fatalf("objectKey(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestEncryptionFor(t *testing.T) {
	if got := encryptionFor(""); got.mode != s3types.ServerSideEncryptionAes256 || got.kmsID != "" {
		t.Fatalf("default encryption = %+v", got)
	}
	got := encryptionFor("  alias/rules ")
	if got.mode != s3types.ServerSideEncryptionAwsKms || got.kmsID != "alias/rules" {
		t.Fatalf("kms encryption = %+v", got)
	}
}

func TestPutInputCarriesDigestAndLength(t *testing.T) {
	s := &Store{bucket: "rules", sse: encryptionFor("key-1")}
	data := []byte(`{"version":"v1"}`)
	in := s.putInput("safety/rules.json", "", util.Digest(data), data)

	if aws.ToString(in.ContentType) != defaultContentType {
		t.Fatalf("content type = %q", aws.ToString(in.ContentType))
	}
	if aws.ToInt64(in.ContentLength) != int64(len(data)) {
		t.Fatalf("content length = %d", aws.ToInt64(in.ContentLength))
	}
	if in.Metadata[digestMetaKey] != util.Digest(data) {
		t.Fatalf("digest metadata = %q", in.Metadata[digestMetaKey])
	}
	if aws.ToString(in.SSEKMSKeyId) != "key-1" {
		t.Fatalf("kms key = %q", aws.ToString(in.SSEKMSKeyId))
	}
	body, _ := io.ReadAll(in.Body)
	if !bytes.Equal(body, data) {
		t.Fatalf("body = %q", body)
	}
}

func TestSaveRejectsOversizedDocument(t *testing.T) {
	s := &Store{bucket: "rules"}
	big := bytes.NewReader(make([]byte, object.MaxDocumentBytes+1))
	if _, err := s.SaveWithKey(context.Background(), "safety/rules.json", "application/json", big); !errors.Is(err, object.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "us-east-1", "  ", "", ""); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
}
