package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"sakanacore/internal/blob"
	"sakanacore/internal/core"
	"sakanacore/pkg/domain"
)

func sampleResults() []domain.ValidationResult {
	return []domain.ValidationResult{
		{
			RecordID:        "a",
			DetectedDomain:  domain.DomainClimateResponse,
			Compliant:       true,
			Score:           1,
			Violations:      []domain.Violation{},
			Recommendations: []string{},
		},
		{
			RecordID:       "b",
			DetectedDomain: domain.DomainSignalDetection,
			Score:          0.75,
			Violations: []domain.Violation{{
				Code:     domain.CodeSignalUndetectable,
				Detail:   "snr_db=-20",
				Severity: domain.SeverityBlock,
				Rule:     "snr_threshold",
			}},
			Warnings: []domain.Violation{{
				Code:     domain.CodeParameterNearBoundary,
				Severity: domain.SeverityWarn,
			}},
			Recommendations: []string{"Increase integration time"},
		},
	}
}

var fixedClock = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

func TestNDJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, sampleResults()))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	got, err := ReadNDJSON(strings.NewReader("\n" + buf.String() + "\n\n"))
	require.NoError(t, err)
	if diff := cmp.Diff(sampleResults(), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNDJSONReportsLine(t *testing.T) {
	_, err := ReadNDJSON(strings.NewReader(`{"record_id":"a"}` + "\n{broken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadNDJSONNormalisesViolations(t *testing.T) {
	got, err := ReadNDJSON(strings.NewReader(`{"record_id":"a","compliant":true}`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Violations)
}

func TestKeyFormat(t *testing.T) {
	key := Key("/exports/2026/", fixedClock())
	assert.Regexp(t, regexp.MustCompile(`^exports/2026/20260304T050607Z-[0-9a-f-]{36}\.ndjson$`), key)
	assert.NotEqual(t, key, Key("exports/2026", fixedClock()))
	assert.Regexp(t, `^20260304T050607Z-`, Key("", fixedClock()))
}

func TestExportImportMemory(t *testing.T) {
	ctx := context.Background()
	obs, logs := observer.New(zap.InfoLevel)
	a := New(blob.NewMemory(), WithClock(fixedClock), WithLogger(zap.New(obs)))

	art, err := a.Export(ctx, "history", sampleResults())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(art.Key, "history/20260304T050607Z-"))
	assert.Equal(t, 2, art.Records)
	assert.Equal(t, 1, art.Compliant)
	assert.Positive(t, art.SizeBytes)
	assert.Empty(t, art.URL, "memory store cannot presign")
	assert.Equal(t, 1, logs.FilterMessage("history exported").Len())

	got, err := a.Import(ctx, art.Key)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleResults(), got); diff != "" {
		t.Fatalf("import mismatch (-want +got):\n%s", diff)
	}

	listed, err := a.List(ctx, "history/")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, art.Key, listed[0].Key)
	assert.Equal(t, 2, listed[0].Records)
	assert.Equal(t, 1, listed[0].Compliant)
}

func TestExportFilesystemHasURL(t *testing.T) {
	store, err := blob.NewFilesystem(filepath.Join(t.TempDir(), "archive"))
	require.NoError(t, err)
	art, err := New(store).Export(context.Background(), "x", sampleResults()[:1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(art.URL, "file://"), art.URL)
	assert.Len(t, art.ETag, 64)
}

func TestExportHistoryAndRestore(t *testing.T) {
	ctx := context.Background()
	src := core.NewHistory(nil)
	for _, r := range sampleResults() {
		require.NoError(t, src.Append(ctx, r))
	}
	a := New(blob.NewMemory())
	art, err := a.ExportHistory(ctx, "h", src)
	require.NoError(t, err)

	dst := core.NewHistory(nil)
	n, err := a.Restore(ctx, art.Key, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, src.Stats(), dst.Stats())
}

func TestImportMissing(t *testing.T) {
	_, err := New(blob.NewMemory()).Import(context.Background(), "nope.ndjson")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

type failingStore struct {
	blob.Store
}

func (failingStore) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errors.New("disk full")
}

func TestExportStoreFailure(t *testing.T) {
	_, err := New(failingStore{Store: blob.NewMemory()}).Export(context.Background(), "p", sampleResults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
