package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/obsforge-io/obsforge/log"
)

type recordedPut struct {
	Bucket string
	Key    string
	Body   string
}

type recordingClient struct {
	puts []recordedPut
}

func (c *recordingClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	c.puts = append(c.puts, recordedPut{
		Bucket: *params.Bucket,
		Key:    *params.Key,
		Body:   string(body),
	})
	return &s3.PutObjectOutput{}, nil
}

func TestS3Config_Validate(t *testing.T) {
	cfg := S3Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing bucket")
	}
	cfg.Bucket = "reports"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseS3Path(t *testing.T) {
	tests := []struct {
		in             string
		bucket, prefix string
	}{
		{"reports", "reports", ""},
		{"reports/obsforge", "reports", "obsforge"},
		{"reports/obsforge/prod", "reports", "obsforge/prod"},
	}
	for _, tt := range tests {
		bucket, prefix := ParseS3Path(tt.in)
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("ParseS3Path(%q) = (%q, %q), want (%q, %q)", tt.in, bucket, prefix, tt.bucket, tt.prefix)
		}
	}
}

func TestPublishFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status_report.txt")
	if err := os.WriteFile(path, []byte("report body"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	client := &recordingClient{}
	p := newWithClient(client, S3Config{Bucket: "reports", Prefix: "obsforge/"}, log.NewNopLogger())

	if err := p.PublishFile(context.Background(), path); err != nil {
		t.Fatalf("PublishFile: %v", err)
	}
	if len(client.puts) != 1 {
		t.Fatalf("puts = %d, want 1", len(client.puts))
	}
	put := client.puts[0]
	if put.Bucket != "reports" || put.Key != "obsforge/status_report.txt" {
		t.Errorf("put = %+v", put)
	}
	if put.Body != "report body" {
		t.Errorf("body = %q", put.Body)
	}
}

func TestPublishDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"status_report.txt", "gdas_status_report.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	// Subdirectories are not published.
	if err := os.Mkdir(filepath.Join(dir, "gdas.20210831"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	client := &recordingClient{}
	p := newWithClient(client, S3Config{Bucket: "reports"}, log.NewNopLogger())

	if err := p.PublishDir(context.Background(), dir); err != nil {
		t.Fatalf("PublishDir: %v", err)
	}

	var keys []string
	for _, put := range client.puts {
		keys = append(keys, put.Key)
	}
	sort.Strings(keys)
	want := []string{"gdas_status_report.md", "status_report.txt"}
	if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}
