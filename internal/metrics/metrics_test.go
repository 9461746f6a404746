package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCacheLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(CacheHits.WithLabelValues("genres"))
	missesBefore := testutil.ToFloat64(CacheMisses.WithLabelValues("genres"))

	RecordCacheLookup("genres", true)
	RecordCacheLookup("genres", false)
	RecordCacheLookup("genres", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("genres")) - hitsBefore; got != 1 {
		t.Fatalf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("genres")) - missesBefore; got != 2 {
		t.Fatalf("misses delta = %v, want 2", got)
	}
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("popular", "200"))
	RecordUpstream("popular", "200", 15*time.Millisecond)
	if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues("popular", "200")) - before; got != 1 {
		t.Fatalf("upstream delta = %v, want 1", got)
	}
}
