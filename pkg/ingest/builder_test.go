package ingest

import (
	"fmt"
	"math"
	"testing"

	"github.com/patmonardo/graphcore/pkg/schema"
	"github.com/patmonardo/graphcore/pkg/tokens"
)

func collectFlush(flushed *[][]NodeRecord) FlushFunc {
	return func(batch []NodeRecord) error {
		copied := make([]NodeRecord, len(batch))
		copy(copied, batch)
		*flushed = append(*flushed, copied)
		return nil
	}
}

func TestLocalNodesBuilder_BatchesAndFlushes(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(1))
	var flushed [][]NodeRecord
	builder := NewLocalNodesBuilder(master.ThreadLocalContext(), 2, collectFlush(&flushed))

	for id := int64(0); id < 5; id++ {
		builder.StartNode(id)
		builder.SetLabels(tokens.TokenFromStrings([]string{"Item"}))
		if err := builder.EndNode(); err != nil {
			t.Fatalf("EndNode(%d) failed: %v", id, err)
		}
	}

	// batch size 2: two full batches flushed, one record pending
	if len(flushed) != 2 {
		t.Fatalf("flushed %d batches, want 2", len(flushed))
	}
	if builder.Len() != 1 {
		t.Errorf("pending records = %d, want 1", builder.Len())
	}

	if err := builder.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(flushed) != 3 {
		t.Errorf("flushed %d batches after Close, want 3", len(flushed))
	}

	var total int
	for _, batch := range flushed {
		total += len(batch)
	}
	if total != 5 {
		t.Errorf("flushed %d records, want 5", total)
	}
}

func TestLocalNodesBuilder_PropertiesLandInSharedBuilders(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(1))
	builder := NewLocalNodesBuilder(master.ThreadLocalContext(), 10, nil)

	builder.StartNode(42)
	builder.SetLabels(tokens.TokenFromStrings([]string{"Account"}))
	builder.AddProperty("balance", 12.5)
	if err := builder.EndNode(); err != nil {
		t.Fatalf("EndNode failed: %v", err)
	}

	shared := master.NodePropertyBuilders()
	b, ok := shared["balance"]
	if !ok {
		t.Fatal("no shared builder registered for 'balance'")
	}
	values := b.Build()
	if got := math.Float64frombits(uint64(values[42])); got != 12.5 {
		t.Errorf("stored value = %v, want 12.5", got)
	}
}

func TestLocalNodesBuilder_EndNodeWithoutStart(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(1))
	builder := NewLocalNodesBuilder(master.ThreadLocalContext(), 1, nil)

	if err := builder.EndNode(); err == nil {
		t.Error("expected error for EndNode without StartNode")
	}
}

func TestLocalNodesBuilder_StartNodeDiscardsUnfinished(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(1))
	var flushed [][]NodeRecord
	builder := NewLocalNodesBuilder(master.ThreadLocalContext(), 10, collectFlush(&flushed))

	builder.StartNode(1)
	builder.AddProperty("lost", 1.0)
	builder.StartNode(2)
	builder.SetLabels(tokens.TokenFromStrings([]string{"Kept"}))
	if err := builder.EndNode(); err != nil {
		t.Fatalf("EndNode failed: %v", err)
	}
	if err := builder.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if len(flushed) != 1 || len(flushed[0]) != 1 || flushed[0][0].ID != 2 {
		t.Errorf("flushed = %v, want exactly node 2", flushed)
	}
}

func TestLocalNodesBuilder_ClosedRejectsEndNode(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(1))
	builder := NewLocalNodesBuilder(master.ThreadLocalContext(), 1, nil)
	if err := builder.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	builder.StartNode(1)
	if err := builder.EndNode(); err == nil {
		t.Error("expected error from EndNode after Close")
	}
}

func TestPooledProvider_RecyclesBuilders(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(2))
	var created int
	source := func() *LocalNodesBuilder {
		created++
		return NewLocalNodesBuilder(master.ThreadLocalContext(), 10, nil)
	}
	provider := NewPooledProvider(source, 2, nil)

	first, release := provider.Get(0)
	if err := release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	second, release2 := provider.Get(0)
	if err := release2(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	if first != second {
		t.Error("released builder was not recycled")
	}
	if created != 1 {
		t.Errorf("source called %d times, want 1", created)
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestPooledProvider_ReleaseFlushes(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(1))
	var flushed [][]NodeRecord
	source := func() *LocalNodesBuilder {
		return NewLocalNodesBuilder(master.ThreadLocalContext(), 100, collectFlush(&flushed))
	}
	provider := NewPooledProvider(source, 1, nil)

	builder, release := provider.Get(0)
	builder.StartNode(7)
	builder.SetLabels(tokens.TokenFromStrings([]string{"X"}))
	if err := builder.EndNode(); err != nil {
		t.Fatalf("EndNode failed: %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	if len(flushed) != 1 {
		t.Errorf("release flushed %d batches, want 1", len(flushed))
	}
}

func TestPooledProvider_CapacityOverflowCloses(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(2))
	source := func() *LocalNodesBuilder {
		return NewLocalNodesBuilder(master.ThreadLocalContext(), 10, nil)
	}
	provider := NewPooledProvider(source, 1, nil)

	a, releaseA := provider.Get(0)
	b, releaseB := provider.Get(1)
	if a == b {
		t.Fatal("two concurrent acquisitions shared a builder")
	}
	if err := releaseA(); err != nil {
		t.Fatalf("releaseA failed: %v", err)
	}
	if err := releaseB(); err != nil {
		t.Fatalf("releaseB failed: %v", err)
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestThreadLocalProvider_DedicatesPerWorker(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(2))
	source := func() *LocalNodesBuilder {
		return NewLocalNodesBuilder(master.ThreadLocalContext(), 10, nil)
	}
	provider := NewThreadLocalProvider(source, nil)

	a1, releaseA := provider.Get(0)
	if err := releaseA(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	a2, releaseA2 := provider.Get(0)
	if err := releaseA2(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	b, releaseB := provider.Get(1)
	if err := releaseB(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	if a1 != a2 {
		t.Error("worker 0 got different builders across acquisitions")
	}
	if a1 == b {
		t.Error("workers 0 and 1 shared a builder")
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestThreadLocalProvider_CloseMergesAll(t *testing.T) {
	master := NewLazyContext(schema.MustConcurrency(2))
	source := func() *LocalNodesBuilder {
		return NewLocalNodesBuilder(master.ThreadLocalContext(), 10, nil)
	}
	provider := NewThreadLocalProvider(source, nil)

	for worker := 0; worker < 2; worker++ {
		builder, release := provider.Get(worker)
		builder.StartNode(int64(worker))
		builder.SetLabels(tokens.TokenFromStrings([]string{fmt.Sprintf("Label%d", worker)}))
		if err := builder.EndNode(); err != nil {
			t.Fatalf("worker %d: EndNode failed: %v", worker, err)
		}
		if err := release(); err != nil {
			t.Fatalf("worker %d: release failed: %v", worker, err)
		}
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if got := len(master.NodeLabelTokenToPropertyKeys().NodeLabels()); got != 2 {
		t.Errorf("merged labels = %d, want 2", got)
	}
}
