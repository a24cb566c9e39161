package recording

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"vitalscan/internal/vitals"
)

func openStore(t *testing.T, maxKeep int) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), maxKeep)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func makeTrace(label string, count int) *Trace {
	samples := make([]Sample, 0, count)
	for i := 0; i < count; i++ {
		samples = append(samples, Sample{
			Value:  float64(i) * 0.1,
			Offset: time.Duration(i) * 33 * time.Millisecond,
		})
	}
	return &Trace{
		ID:         uuid.NewString(),
		Label:      label,
		Method:     vitals.MethodCamera,
		SampleRate: 30,
		Target:     10 * time.Second,
		Samples:    samples,
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	store := openStore(t, 10)
	ctx := context.Background()

	trace := makeTrace("resting scan", 5)
	if err := store.Save(ctx, trace); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, trace.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Label != "resting scan" || got.Method != vitals.MethodCamera || got.SampleRate != 30 {
		t.Errorf("Get() = %+v, metadata mismatch", got)
	}
	if got.Target != 10*time.Second {
		t.Errorf("Target = %v, want 10s", got.Target)
	}
	if len(got.Samples) != 5 {
		t.Fatalf("len(Samples) = %d, want 5", len(got.Samples))
	}
	if got.Samples[3].Value != 0.3 || got.Samples[3].Offset != 99*time.Millisecond {
		t.Errorf("Samples[3] = %+v, want value 0.3 at 99ms", got.Samples[3])
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := openStore(t, 10)

	_, err := store.Get(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t, 10)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		trace := makeTrace(fmt.Sprintf("scan %d", i), 2)
		trace.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Save(ctx, trace); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len(summaries) = %d, want 3", len(summaries))
	}
	if summaries[0].Label != "scan 2" || summaries[2].Label != "scan 0" {
		t.Errorf("order = [%s, %s, %s], want newest first",
			summaries[0].Label, summaries[1].Label, summaries[2].Label)
	}
	if summaries[0].SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", summaries[0].SampleCount)
	}
}

func TestSavePrunesOldest(t *testing.T) {
	store := openStore(t, 2)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		trace := makeTrace(fmt.Sprintf("scan %d", i), 2)
		trace.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		ids = append(ids, trace.ID)
		if err := store.Save(ctx, trace); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want retention limit 2", len(summaries))
	}
	if _, err := store.Get(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("oldest trace still present after prune: %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := openStore(t, 10)
	ctx := context.Background()

	trace := makeTrace("doomed", 2)
	if err := store.Save(ctx, trace); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	removed, err := store.Delete(ctx, trace.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !removed {
		t.Error("Delete() = false for existing trace")
	}

	removed, err = store.Delete(ctx, trace.ID)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if removed {
		t.Error("Delete() = true for absent trace")
	}
}

func TestSaveRejectsBadTraces(t *testing.T) {
	store := openStore(t, 10)
	ctx := context.Background()

	if err := store.Save(ctx, nil); err == nil {
		t.Error("Save(nil) error = nil")
	}

	trace := makeTrace("no samples", 0)
	if err := store.Save(ctx, trace); err == nil {
		t.Error("Save(empty trace) error = nil")
	}

	trace = makeTrace("bad method", 2)
	trace.Method = vitals.Method("thermometer")
	if err := store.Save(ctx, trace); err == nil {
		t.Error("Save(unknown method) error = nil")
	}

	// Sub-millisecond steps collapse in the offset_ms column and would come
	// back with duplicate offsets.
	trace = makeTrace("sub-millisecond steps", 3)
	for i := range trace.Samples {
		trace.Samples[i].Offset = time.Duration(i) * 500 * time.Microsecond
	}
	if err := store.Save(ctx, trace); err == nil {
		t.Error("Save(collapsing offsets) error = nil")
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, 10)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	trace := makeTrace("persisted", 3)
	if err := store.Save(ctx, trace); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dir, 10)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, trace.ID)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if len(got.Samples) != 3 {
		t.Errorf("len(Samples) = %d after reopen, want 3", len(got.Samples))
	}
}
