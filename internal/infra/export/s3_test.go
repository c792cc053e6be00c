package export

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/tour-booking/internal/config"
)

func TestNewS3ExporterDisabledWithoutBucket(t *testing.T) {
	if e := NewS3Exporter(&config.Config{}); e != nil {
		t.Fatal("expected nil exporter without a bucket")
	}
}

func TestNewS3ExporterConfigured(t *testing.T) {
	e := NewS3Exporter(&config.Config{
		S3Bucket:          "exports",
		S3Region:          "eu-west-3",
		S3Endpoint:        "http://localhost:9000",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
		ExportURLTTL:      10 * time.Minute,
	})
	if e == nil {
		t.Fatal("expected exporter")
	}
	if e.bucket != "exports" || e.ttl != 10*time.Minute {
		t.Fatalf("exporter = %+v", e)
	}
}
