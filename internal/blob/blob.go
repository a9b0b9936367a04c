// Package blob is the entry point to the archive blob stores. Callers depend on
// blob.Store; only this package imports the infra backends.
package blob

import (
	"context"
	"fmt"
	"os"
	"strings"

	"sakanacore/internal/blob/core"
	"sakanacore/internal/infra/blob/fs"
	memorystore "sakanacore/internal/infra/blob/memory"
	infraS3 "sakanacore/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is implemented by every backend.
	Store = core.Store
	// S3Config configures the S3 backend.
	S3Config = infraS3.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrUnsupported = core.ErrUnsupported
	ErrNotFound    = core.ErrNotFound
	ErrExists      = core.ErrExists
)

// Environment variables read by OptionsFromEnv.
const (
	EnvDriver      = "SAKANA_ARCHIVE_DRIVER"
	EnvFSRoot      = "SAKANA_ARCHIVE_FS_ROOT"
	EnvS3Bucket    = "SAKANA_ARCHIVE_S3_BUCKET"
	EnvS3Region    = "SAKANA_ARCHIVE_S3_REGION"
	EnvS3Endpoint  = "SAKANA_ARCHIVE_S3_ENDPOINT"
	EnvS3PathStyle = "SAKANA_ARCHIVE_S3_PATH_STYLE"
)

// Options selects and configures a backend.
type Options struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// OptionsFromEnv reads SAKANA_ARCHIVE_* variables on top of base. Unset
// variables leave base untouched. AWS credentials come from the default chain.
func OptionsFromEnv(base Options) Options {
	if v := os.Getenv(EnvDriver); v != "" {
		base.Driver = Driver(strings.ToLower(v))
	}
	if v := os.Getenv(EnvFSRoot); v != "" {
		base.FSRoot = v
	}
	if v := os.Getenv(EnvS3Bucket); v != "" {
		base.S3.Bucket = v
	}
	if v := os.Getenv(EnvS3Region); v != "" {
		base.S3.Region = v
	}
	if v := os.Getenv(EnvS3Endpoint); v != "" {
		base.S3.Endpoint = v
	}
	if v := os.Getenv(EnvS3PathStyle); v != "" {
		base.S3.PathStyle = strings.EqualFold(v, "true")
	}
	return base
}

// Open builds the configured store. An empty driver selects the filesystem.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverFilesystem:
		return NewFilesystem(opts.FSRoot)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("%w: blob driver %q", ErrUnsupported, opts.Driver)
	}
}

// NewFilesystem returns a store rooted at root.
func NewFilesystem(root string) (Store, error) {
	s, err := fs.New(root)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns an in-process store.
func NewMemory() Store { return memorystore.New() }

// NewS3 returns an S3-backed store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	s, err := infraS3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
