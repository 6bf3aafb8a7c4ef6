package s3

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "pdf/u/app/v1.pdf", want: "pdf/u/app/v1.pdf"},
		{name: "simple prefix", prefix: "root", key: "pdf/u/app/v1.pdf", want: "root/pdf/u/app/v1.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/pdf/u/app/v1.pdf", want: "root/pdf/u/app/v1.pdf"},
		{name: "empty key", prefix: "root", key: "", want: "root"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(normalizePrefix(tt.prefix), tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestApplyEncryption(t *testing.T) {
	in := &s3.PutObjectInput{}
	applyEncryption(in, "")
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256, got %q", in.ServerSideEncryption)
	}

	in = &s3.PutObjectInput{}
	applyEncryption(in, "key-1")
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || in.SSEKMSKeyId == nil || *in.SSEKMSKeyId != "key-1" {
		t.Fatalf("expected KMS encryption with key-1, got %+v", in)
	}
}

func TestCacheControlFor(t *testing.T) {
	if got := cacheControlFor("pdf/abc/job-1/v2.pdf"); got != "private, max-age=31536000, immutable" {
		t.Fatalf("unexpected cache control for pdf: %q", got)
	}
	if got := cacheControlFor("uploads/raw.bin"); got != "" {
		t.Fatalf("expected no cache control, got %q", got)
	}
}
