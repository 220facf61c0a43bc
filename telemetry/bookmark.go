package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFoodReached   BookmarkType = "food_reached"
	BookmarkNetworkPruned BookmarkType = "network_pruned"
	BookmarkConverged     BookmarkType = "converged"
	BookmarkStableNetwork BookmarkType = "stable_network"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in network growth.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	maxFoodReached     int // most food sources reached so far
	recentOccupiedPeak int // peak occupied cells since the last prune
	converged          bool
	stableWindowsCount int // consecutive windows with steady vein count
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable network detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history, for use after the plate is cleared.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize)
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Food reached: a new food source gained a trail at its centre
	if b := bd.checkFoodReached(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Converged: the convergence ramp hit 1
	if b := bd.checkConverged(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Network pruned: occupied area dropped >30% from peak while veins remain
		if b := bd.checkNetworkPruned(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable network: vein count steady over 5+ windows
		if b := bd.checkStableNetwork(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Update history
	bd.addToHistory(stats)

	if stats.OccupiedCells > bd.recentOccupiedPeak {
		bd.recentOccupiedPeak = stats.OccupiedCells
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the most recent history entries, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	var count int
	if bd.historyFull {
		count = bd.historySize
	} else {
		count = bd.historyIdx
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkFoodReached(stats WindowStats) *Bookmark {
	if stats.FoodReached <= bd.maxFoodReached {
		return nil
	}
	prev := bd.maxFoodReached
	bd.maxFoodReached = stats.FoodReached
	return &Bookmark{
		Type:        BookmarkFoodReached,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Trail reached %d of %d food sources (was %d)", stats.FoodReached, stats.FoodSources, prev),
	}
}

func (bd *BookmarkDetector) checkConverged(stats WindowStats) *Bookmark {
	if bd.converged || stats.Convergence < 1 {
		return nil
	}
	bd.converged = true
	return &Bookmark{
		Type:        BookmarkConverged,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Convergence complete with %d vein cells", stats.VeinCells),
	}
}

func (bd *BookmarkDetector) checkNetworkPruned(stats WindowStats) *Bookmark {
	if bd.recentOccupiedPeak == 0 || stats.VeinCells == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.OccupiedCells)/float64(bd.recentOccupiedPeak)
	if dropPercent > 0.30 && stats.OccupiedCells < bd.recentOccupiedPeak-100 {
		// Reset peak after pruning
		oldPeak := bd.recentOccupiedPeak
		bd.recentOccupiedPeak = stats.OccupiedCells

		return &Bookmark{
			Type:        BookmarkNetworkPruned,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Occupied area pruned %.0f%% from %d to %d cells", dropPercent*100, oldPeak, stats.OccupiedCells),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableNetwork(stats WindowStats) *Bookmark {
	if stats.VeinCells < 10 {
		bd.stableWindowsCount = 0
		return nil
	}

	window := append(bd.recent(3), stats)
	if len(window) < 4 {
		return nil
	}

	var sum float64
	for _, h := range window {
		sum += float64(h.VeinCells)
	}
	mean := sum / float64(len(window))

	var variance float64
	for _, h := range window {
		d := float64(h.VeinCells) - mean
		variance += d * d
	}
	variance /= float64(len(window))

	// CV^2 < 0.01 means CV < 0.1
	if mean > 0 && variance/(mean*mean) < 0.01 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableNetwork,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Vein network steady at ~%.0f cells over 5+ windows", mean),
		}
	}

	return nil
}
