package telemetry

import (
	"testing"

	"github.com/pthm-cable/slime/config"
)

func init() {
	config.MustInit("")
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FoodReached(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{WindowEndTick: 100, FoodSources: 3}); hasBookmark(got, BookmarkFoodReached) {
		t.Error("unexpected food_reached with no food reached")
	}

	got := bd.Check(WindowStats{WindowEndTick: 200, FoodSources: 3, FoodReached: 1})
	if !hasBookmark(got, BookmarkFoodReached) {
		t.Error("expected food_reached bookmark")
	}

	// Same count again does not retrigger
	got = bd.Check(WindowStats{WindowEndTick: 300, FoodSources: 3, FoodReached: 1})
	if hasBookmark(got, BookmarkFoodReached) {
		t.Error("food_reached retriggered without progress")
	}

	got = bd.Check(WindowStats{WindowEndTick: 400, FoodSources: 3, FoodReached: 2})
	if !hasBookmark(got, BookmarkFoodReached) {
		t.Error("expected food_reached bookmark for second source")
	}
}

func TestBookmarkDetector_Converged(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var fired int
	for i, c := range []float64{0.2, 0.6, 1, 1, 1} {
		got := bd.Check(WindowStats{WindowEndTick: int32(i * 100), Convergence: c})
		if hasBookmark(got, BookmarkConverged) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("converged fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_NetworkPruned(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Wide exploration phase
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 100),
			OccupiedCells: 5000,
			VeinCells:     200,
		})
	}

	// Trail contracts onto the veins
	got := bd.Check(WindowStats{
		WindowEndTick: 500,
		OccupiedCells: 2000,
		VeinCells:     180,
	})
	if !hasBookmark(got, BookmarkNetworkPruned) {
		t.Error("expected network_pruned bookmark")
	}
}

func TestBookmarkDetector_NoPruneWithoutVeins(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{OccupiedCells: 5000})
	got := bd.Check(WindowStats{WindowEndTick: 100, OccupiedCells: 100})
	if hasBookmark(got, BookmarkNetworkPruned) {
		t.Error("network_pruned fired with no veins")
	}
}

func TestBookmarkDetector_StableNetwork(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var fired int
	for i := 0; i < 12; i++ {
		got := bd.Check(WindowStats{
			WindowEndTick: int32(i * 100),
			VeinCells:     300 + i%2,
			OccupiedCells: 1000,
		})
		if hasBookmark(got, BookmarkStableNetwork) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("stable_network fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{FoodReached: 2})
	bd.Reset()

	got := bd.Check(WindowStats{FoodReached: 1})
	if !hasBookmark(got, BookmarkFoodReached) {
		t.Error("expected food_reached after reset")
	}
}
