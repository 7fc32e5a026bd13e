package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCoverageReached BookmarkType = "coverage_reached"
	BookmarkMassCrash       BookmarkType = "mass_crash"
	BookmarkTakeover        BookmarkType = "takeover"
	BookmarkSteadyState     BookmarkType = "steady_state"
)

// Bookmark marks a notable moment of a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Iteration   int          `csv:"iteration"`
	Population  string       `csv:"population"`
	Description string       `csv:"description"`
}

// Log writes the bookmark to logger at info level.
func (b Bookmark) Log(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"iteration", b.Iteration,
		"population", b.Population,
		"description", b.Description,
	)
}

// BookmarkDetector watches successive windows for notable moments.
type BookmarkDetector struct {
	coverageTarget float64

	// Rolling total mass (circular buffer)
	history     []float64
	historySize int
	historyIdx  int
	historyFull bool

	peakMass     []float64
	covered      []bool
	tookOver     []bool
	stableCount  int
	steadyLogged bool
}

// NewBookmarkDetector creates a detector that remembers historySize windows
// and reports populations whose coverage reaches coverageTarget.
func NewBookmarkDetector(populations, historySize int, coverageTarget float64) *BookmarkDetector {
	if historySize < 4 {
		historySize = 4 // minimum for steady state detection
	}
	return &BookmarkDetector{
		coverageTarget: coverageTarget,
		history:        make([]float64, historySize),
		historySize:    historySize,
		peakMass:       make([]float64, populations),
		covered:        make([]bool, populations),
		tookOver:       make([]bool, populations),
	}
}

// Check analyzes one window, given as one row per population, and returns
// any triggered bookmarks.
func (bd *BookmarkDetector) Check(window []WindowStats) []Bookmark {
	var bookmarks []Bookmark
	var total float64
	for _, s := range window {
		total += s.Mass
	}

	for i, s := range window {
		if i >= len(bd.peakMass) {
			break
		}
		if b := bd.checkCoverage(i, s); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkCrash(i, s); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if len(window) > 1 {
			if b := bd.checkTakeover(i, s, total); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(total)
	if len(window) > 0 {
		if b := bd.checkSteadyState(window[0].WindowEnd, total); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(total float64) {
	bd.history[bd.historyIdx] = total
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n most recent totals, oldest first.
func (bd *BookmarkDetector) recent(n int) []float64 {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	n = min(n, count)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		idx := (bd.historyIdx - n + k + bd.historySize) % bd.historySize
		out[k] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkCoverage(i int, s WindowStats) *Bookmark {
	if bd.covered[i] || bd.coverageTarget <= 0 || s.Coverage < bd.coverageTarget {
		return nil
	}
	bd.covered[i] = true
	return &Bookmark{
		Type:        BookmarkCoverageReached,
		Iteration:   s.WindowEnd,
		Population:  s.Population,
		Description: fmt.Sprintf("Coverage %.1f%% reached target %.1f%%", s.Coverage*100, bd.coverageTarget*100),
	}
}

func (bd *BookmarkDetector) checkCrash(i int, s WindowStats) *Bookmark {
	peak := bd.peakMass[i]
	if s.Mass > peak {
		bd.peakMass[i] = s.Mass
		return nil
	}
	if peak == 0 {
		return nil
	}

	drop := 1 - s.Mass/peak
	if drop > 0.30 {
		// Reset peak after crash
		bd.peakMass[i] = s.Mass
		return &Bookmark{
			Type:        BookmarkMassCrash,
			Iteration:   s.WindowEnd,
			Population:  s.Population,
			Description: fmt.Sprintf("Trail mass fell %.0f%% from peak %.1f to %.1f", drop*100, peak, s.Mass),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkTakeover(i int, s WindowStats, total float64) *Bookmark {
	if bd.tookOver[i] || total <= 0 {
		return nil
	}
	share := s.Mass / total
	if share < 0.9 {
		return nil
	}
	bd.tookOver[i] = true
	return &Bookmark{
		Type:        BookmarkTakeover,
		Iteration:   s.WindowEnd,
		Population:  s.Population,
		Description: fmt.Sprintf("Population holds %.0f%% of all trail mass", share*100),
	}
}

func (bd *BookmarkDetector) checkSteadyState(iteration int, total float64) *Bookmark {
	if bd.steadyLogged || total <= 0 {
		return nil
	}
	window := bd.recent(4)
	if len(window) < 4 {
		return nil
	}

	var sum float64
	for _, m := range window {
		sum += m
	}
	mean := sum / 4
	var variance float64
	for _, m := range window {
		d := m - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.0004 means CV < 2%
	if mean > 0 && variance/(mean*mean) < 0.0004 {
		bd.stableCount++
	} else {
		bd.stableCount = 0
	}

	if bd.stableCount == 3 {
		bd.steadyLogged = true
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Iteration:   iteration,
			Description: fmt.Sprintf("Total trail mass steady near %.1f", mean),
		}
	}
	return nil
}
