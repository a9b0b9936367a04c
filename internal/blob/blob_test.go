package blob

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	fsStore, err := Open(ctx, Options{FSRoot: filepath.Join(t.TempDir(), "archive")})
	if err != nil || fsStore.Driver() != DriverFilesystem {
		t.Fatalf("default driver: %v %v", fsStore, err)
	}

	mem, err := Open(ctx, Options{Driver: DriverMemory})
	if err != nil || mem.Driver() != DriverMemory {
		t.Fatalf("memory driver: %v %v", mem, err)
	}
	if _, err := mem.Put(ctx, "k", bytes.NewBufferString("v"), PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := mem.Head(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s3Store, err := Open(ctx, Options{Driver: DriverS3, S3: S3Config{Bucket: "b", AccessKeyID: "AKIA", SecretAccessKey: "SECRET"}})
	if err != nil || s3Store.Driver() != DriverS3 {
		t.Fatalf("s3 driver: %v %v", s3Store, err)
	}

	if _, err := Open(ctx, Options{Driver: DriverS3}); err == nil {
		t.Fatalf("expected bucket error")
	}
	if _, err := Open(ctx, Options{Driver: "tape"}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvDriver, "S3")
	t.Setenv(EnvS3Bucket, "env-bucket")
	t.Setenv(EnvS3Region, "eu-west-1")
	t.Setenv(EnvS3Endpoint, "http://minio:9000")
	t.Setenv(EnvS3PathStyle, "TRUE")
	t.Setenv(EnvFSRoot, "")

	opts := OptionsFromEnv(Options{FSRoot: "/keep"})
	if opts.Driver != DriverS3 || opts.FSRoot != "/keep" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.S3.Bucket != "env-bucket" || opts.S3.Region != "eu-west-1" || opts.S3.Endpoint != "http://minio:9000" || !opts.S3.PathStyle {
		t.Fatalf("unexpected s3 options %+v", opts.S3)
	}
}
