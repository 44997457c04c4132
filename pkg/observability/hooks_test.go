package observability

import (
	"context"
	"testing"
	"time"
)

type recordingResolverHooks struct {
	scans  int
	shifts int
	runs   int
}

func (r *recordingResolverHooks) OnScan(_ context.Context, _, _, _, _ int)         { r.scans++ }
func (r *recordingResolverHooks) OnShift(_ context.Context, _ string, _ float64, _ string) {
	r.shifts++
}
func (r *recordingResolverHooks) OnRunComplete(_ context.Context, _ string, _ int, _ time.Duration) {
	r.runs++
}

type recordingCacheHooks struct {
	hits, misses, sets int
}

func (r *recordingCacheHooks) OnCacheHit(_ context.Context, _ string)         { r.hits++ }
func (r *recordingCacheHooks) OnCacheMiss(_ context.Context, _ string)        { r.misses++ }
func (r *recordingCacheHooks) OnCacheSet(_ context.Context, _ string, _ int)  { r.sets++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Should not panic
	Resolver().OnScan(ctx, 1, 0, 0, 0)
	Resolver().OnShift(ctx, "g", 1.0, "text_overlap")
	Resolver().OnRunComplete(ctx, "converged", 1, time.Second)
	Cache().OnCacheHit(ctx, "resolve")
	Cache().OnCacheMiss(ctx, "resolve")
	Cache().OnCacheSet(ctx, "resolve", 100)
}

func TestSetResolverHooks(t *testing.T) {
	defer Reset()
	rec := &recordingResolverHooks{}
	SetResolverHooks(rec)

	ctx := context.Background()
	Resolver().OnScan(ctx, 1, 1, 0, 0)
	Resolver().OnShift(ctx, "g", 1.5, "arrow_crossing")
	Resolver().OnRunComplete(ctx, "converged", 2, time.Millisecond)

	if rec.scans != 1 || rec.shifts != 1 || rec.runs != 1 {
		t.Errorf("hooks not invoked: %+v", rec)
	}
}

func TestSetCacheHooks(t *testing.T) {
	defer Reset()
	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	ctx := context.Background()
	Cache().OnCacheHit(ctx, "resolve")
	Cache().OnCacheMiss(ctx, "resolve")
	Cache().OnCacheSet(ctx, "resolve", 42)

	if rec.hits != 1 || rec.misses != 1 || rec.sets != 1 {
		t.Errorf("hooks not invoked: %+v", rec)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()
	SetResolverHooks(nil)
	SetCacheHooks(nil)

	if Resolver() == nil || Cache() == nil {
		t.Error("nil hooks should be ignored")
	}
}

func TestReset(t *testing.T) {
	SetResolverHooks(&recordingResolverHooks{})
	SetCacheHooks(&recordingCacheHooks{})
	Reset()

	if _, ok := Resolver().(NoopResolverHooks); !ok {
		t.Error("Reset should restore noop resolver hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore noop cache hooks")
	}
}
