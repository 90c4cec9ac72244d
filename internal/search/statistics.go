package search

import "time"

// Statistics accumulates the counters every event handler maintains:
// totals per event category, cumulative snapshots per finished f-layer,
// and wall time.
type Statistics struct {
	Expanded  uint64
	Generated uint64

	GroundActionCacheHits   uint64
	GroundActionCacheMisses uint64
	GroundAxiomCacheHits    uint64
	GroundAxiomCacheMisses  uint64

	InapplicableActions uint64
	InapplicableAxioms  uint64

	// ExpandedPerLayer and GeneratedPerLayer hold the cumulative totals
	// at the end of each finished f-layer.
	ExpandedPerLayer  []uint64
	GeneratedPerLayer []uint64

	searchStart time.Time
	SearchTime  time.Duration
}

func (s *Statistics) startSearch() { s.searchStart = time.Now() }

func (s *Statistics) endSearch() {
	if !s.searchStart.IsZero() {
		s.SearchTime = time.Since(s.searchStart)
	}
}

func (s *Statistics) finishLayer() {
	s.ExpandedPerLayer = append(s.ExpandedPerLayer, s.Expanded)
	s.GeneratedPerLayer = append(s.GeneratedPerLayer, s.Generated)
}
