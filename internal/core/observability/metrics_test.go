package observability

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

func TestOutcome_Labels(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("x: %w", griderr.ErrLength), "length_error"},
		{fmt.Errorf("x: %w", griderr.ErrRange), "range_error"},
		{fmt.Errorf("x: %w", griderr.ErrFormat), "format_error"},
		{fmt.Errorf("x: %w", griderr.ErrOutOfWindow), "out_of_window"},
		{fmt.Errorf("x: %w", griderr.ErrUnrepresentable), "unrepresentable"},
		{errors.New("boom"), "error"},
	}
	for _, tc := range cases {
		if got := Outcome(tc.err); got != tc.want {
			t.Fatalf("Outcome(%v)=%s want %s", tc.err, got, tc.want)
		}
	}
}

func TestObserveOp_CountsByOutcome(t *testing.T) {
	ok := operationsTotal.WithLabelValues("metrics_test_op", "ok")
	bad := operationsTotal.WithLabelValues("metrics_test_op", "range_error")
	okBefore, badBefore := testutil.ToFloat64(ok), testutil.ToFloat64(bad)

	ObserveOp("metrics_test_op", nil, 0.001)
	ObserveOp("metrics_test_op", nil, 0.002)
	ObserveOp("metrics_test_op", fmt.Errorf("lat: %w", griderr.ErrRange), 0.001)

	if d := testutil.ToFloat64(ok) - okBefore; d != 2 {
		t.Fatalf("ok delta=%v want 2", d)
	}
	if d := testutil.ToFloat64(bad) - badBefore; d != 1 {
		t.Fatalf("range delta=%v want 1", d)
	}
}

func TestCacheResults(t *testing.T) {
	hit := cacheResults.WithLabelValues("metrics_test_cache", "hit")
	miss := cacheResults.WithLabelValues("metrics_test_cache", "miss")
	h0, m0 := testutil.ToFloat64(hit), testutil.ToFloat64(miss)

	IncCacheHit("metrics_test_cache")
	IncCacheMiss("metrics_test_cache")
	IncCacheMiss("metrics_test_cache")

	if testutil.ToFloat64(hit)-h0 != 1 || testutil.ToFloat64(miss)-m0 != 2 {
		t.Fatalf("hit=%v miss=%v", testutil.ToFloat64(hit)-h0, testutil.ToFloat64(miss)-m0)
	}
}

func TestBuildInfoAndCoverHistogram(t *testing.T) {
	ExposeBuildInfo("")
	ObserveCoverCells("bbox", 12)

	const want = `
# HELP gridcode_build_info Build information for the library.
# TYPE gridcode_build_info gauge
gridcode_build_info{version="dev"} 1
`
	if err := testutil.CollectAndCompare(buildInfo, strings.NewReader(want)); err != nil {
		t.Fatalf("build info: %v", err)
	}
	if n := testutil.CollectAndCount(coverCells); n < 1 {
		t.Fatalf("cover histogram series=%d", n)
	}
}
