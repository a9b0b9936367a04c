package memory

import (
	"context"
	"errors"
	"testing"

	"sakanacore/pkg/domain"
)

func TestStoreAppendListPreservesOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	first := domain.ValidationResult{
		RecordID:        "b",
		DetectedDomain:  domain.DomainSignalDetection,
		Violations:      []domain.Violation{{Code: domain.CodeSignalUndetectable, Severity: domain.SeverityBlock}},
		Recommendations: []string{"raise snr"},
	}
	second := domain.ValidationResult{RecordID: "a", DetectedDomain: domain.DomainChemicalComposition, Compliant: true}
	if err := store.Append(ctx, first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := store.Append(ctx, second); err != nil {
		t.Fatalf("append second: %v", err)
	}
	first.Violations[0].Code = domain.CodeZeroValue

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].RecordID != "b" || got[1].RecordID != "a" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Violations[0].Code != domain.CodeSignalUndetectable {
		t.Fatalf("store shares slices with caller")
	}
	got[0].Recommendations[0] = "mutated"
	again, _ := store.List(ctx)
	if again[0].Recommendations[0] != "raise snr" {
		t.Fatalf("list returned shared slices")
	}
	if store.Len() != 2 {
		t.Fatalf("expected len 2, got %d", store.Len())
	}
}

func TestStoreClosedAndCancelled(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Append(ctx, domain.ValidationResult{RecordID: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if _, err := store.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error from list, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Append(context.Background(), domain.ValidationResult{RecordID: "x"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
