// Package archive exports validation history to a blob store as NDJSON and
// reads it back.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sakanacore/internal/blob"
	"sakanacore/internal/core"
	"sakanacore/pkg/domain"
)

// ContentType is stored with every export.
const ContentType = "application/x-ndjson"

const (
	metaRecords   = "records"
	metaCompliant = "compliant"
)

// Artifact describes a stored export.
type Artifact struct {
	Key       string    `json:"key"`
	Records   int       `json:"records"`
	Compliant int       `json:"compliant"`
	SizeBytes int64     `json:"size_bytes"`
	ETag      string    `json:"etag,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Archiver) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock overrides the time source used for export keys.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		if now != nil {
			a.now = now
		}
	}
}

// Archiver writes and reads history exports.
type Archiver struct {
	store  blob.Store
	logger *zap.Logger
	now    func() time.Time
}

// New wraps store.
func New(store blob.Store, opts ...Option) *Archiver {
	a := &Archiver{store: store, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key builds "<prefix>/<UTC timestamp>-<uuid>.ndjson".
func Key(prefix string, at time.Time) string {
	name := fmt.Sprintf("%s-%s.ndjson", at.UTC().Format("20060102T150405Z"), uuid.NewString())
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Export stores results under a fresh key. The URL is left empty when the
// backend cannot presign.
func (a *Archiver) Export(ctx context.Context, prefix string, results []domain.ValidationResult) (Artifact, error) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, results); err != nil {
		return Artifact{}, err
	}
	compliant := 0
	for _, r := range results {
		if r.Compliant {
			compliant++
		}
	}
	key := Key(prefix, a.now())
	info, err := a.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), blob.PutOptions{
		ContentType: ContentType,
		Metadata: map[string]string{
			metaRecords:   strconv.Itoa(len(results)),
			metaCompliant: strconv.Itoa(compliant),
		},
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("store export %s: %w", key, err)
	}

	art := Artifact{
		Key:       info.Key,
		Records:   len(results),
		Compliant: compliant,
		SizeBytes: info.Size,
		ETag:      info.ETag,
		CreatedAt: info.LastModified,
	}
	url, err := a.store.PresignURL(ctx, key, blob.SignedURLOptions{})
	switch {
	case err == nil:
		art.URL = url
	case !errors.Is(err, blob.ErrUnsupported):
		a.logger.Warn("presign export failed", zap.String("key", key), zap.Error(err))
	}
	a.logger.Info("history exported",
		zap.String("key", art.Key),
		zap.String("driver", string(a.store.Driver())),
		zap.Int("records", art.Records),
	)
	return art, nil
}

// ExportHistory exports every entry of h.
func (a *Archiver) ExportHistory(ctx context.Context, prefix string, h *core.History) (Artifact, error) {
	return a.Export(ctx, prefix, h.Entries())
}

// Import reads the export stored at key.
func (a *Archiver) Import(ctx context.Context, key string) ([]domain.ValidationResult, error) {
	_, rc, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	results, err := ReadNDJSON(rc)
	if err != nil {
		return nil, fmt.Errorf("decode export %s: %w", key, err)
	}
	return results, nil
}

// Restore imports key and appends each result to h, stopping at the first failure.
func (a *Archiver) Restore(ctx context.Context, key string, h *core.History) (int, error) {
	results, err := a.Import(ctx, key)
	if err != nil {
		return 0, err
	}
	for i, res := range results {
		if err := h.Append(ctx, res); err != nil {
			return i, err
		}
	}
	return len(results), nil
}

// List returns the exports under prefix, oldest first.
func (a *Archiver) List(ctx context.Context, prefix string) ([]Artifact, error) {
	infos, err := a.store.List(ctx, strings.Trim(prefix, "/"))
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, 0, len(infos))
	for _, info := range infos {
		if !strings.HasSuffix(info.Key, ".ndjson") {
			continue
		}
		art := Artifact{Key: info.Key, SizeBytes: info.Size, ETag: info.ETag, CreatedAt: info.LastModified}
		if info.Metadata == nil {
			// some backends omit metadata from listings
			if head, err := a.store.Head(ctx, info.Key); err == nil {
				info.Metadata = head.Metadata
			}
		}
		art.Records, _ = strconv.Atoi(info.Metadata[metaRecords])
		art.Compliant, _ = strconv.Atoi(info.Metadata[metaCompliant])
		out = append(out, art)
	}
	return out, nil
}
