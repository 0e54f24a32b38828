package parasect

import (
	"fmt"
	"math/big"
	gosync "sync"
)

// PointResult pairs a probed point with the oracle's result for it, the
// element type of a result map (spec component C9's "result map" resource:
// "mapping from probed integer to oracle result ... used for post-run
// reconstruction of the transition point and for diagnostics").
type PointResult struct {
	Point  *big.Int
	Result Result
}

// resultMap is the controller's live point -> oracle result record. It is
// populated with exactly one entry per completed probe and supports
// concurrent inserts with unique keys (keyed by the point's decimal string,
// since *big.Int is not a valid Go map key by value). Grounded on the
// original implementation's DashMap<IBig, ParasectResult> result map.
type resultMap struct {
	mu   gosync.Mutex
	vals map[string]PointResult
}

func newResultMap() *resultMap {
	return &resultMap{vals: make(map[string]PointResult)}
}

func (m *resultMap) insert(point *big.Int, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[point.String()] = PointResult{Point: point, Result: result}
}

// snapshot returns every entry recorded so far. Safe to call concurrently
// with insert; the returned slice is the caller's own copy.
func (m *resultMap) snapshot() []PointResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PointResult, 0, len(m.vals))
	for _, pr := range m.vals {
		out = append(out, pr)
	}
	return out
}

// ProcessResultMap reconstructs the transition point from a completed
// result map, independent of any live run. It is exposed standalone so the
// partitioning logic can be tested in isolation, mirroring the original
// implementation's process_result_map function and its dedicated test
// cases.
//
// Any Stop result aborts reconstruction immediately, returning a
// PayloadError naming the oracle's reason. Otherwise results is partitioned
// by answer: if every point is Good, or every point is Bad, that is an
// InconsistencyError. Otherwise let g_max be the latest Good point and
// b_min the earliest Bad point; if g_max < b_min, b_min is the transition
// point. Any other arrangement (monotonicity violated) is an
// InconsistencyError naming the offending pair.
func ProcessResultMap(results []PointResult) (*big.Int, error) {
	var good, bad *big.Int

	for _, pr := range results {
		switch r := pr.Result.(type) {
		case StopResult:
			return nil, &PayloadError{Reason: r.Reason}
		case ContinueResult:
			switch r.Answer {
			case Good:
				if good == nil || pr.Point.Cmp(good) > 0 {
					good = pr.Point
				}
			case Bad:
				if bad == nil || pr.Point.Cmp(bad) < 0 {
					bad = pr.Point
				}
			}
		}
	}

	switch {
	case bad == nil:
		return nil, &InconsistencyError{Reason: "All points were good."}
	case good == nil:
		return nil, &InconsistencyError{Reason: "All points were bad."}
	case good.Cmp(bad) < 0:
		return new(big.Int).Set(bad), nil
	default:
		return nil, &InconsistencyError{Reason: fmt.Sprintf(
			"observed a good result at %s which is not less than the observed bad result at %s",
			good.String(), bad.String(),
		)}
	}
}
