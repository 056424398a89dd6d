package rules

import "testing"

// mapGraph is a minimal Graph for movement tests.
type mapGraph map[int][]int

func (g mapGraph) Successors(index int) []int {
	return g[index]
}

// ring builds a simple n-tile ring graph.
func ring(n int) mapGraph {
	g := make(mapGraph, n)
	for i := 0; i < n; i++ {
		g[i] = []int{(i + 1) % n}
	}
	return g
}

func TestBuildPathRingDeterminism(t *testing.T) {
	g := ring(8)
	res := BuildPath(g, PathRequest{Start: 3, Steps: 5, Previous: 2, ForcedNext: -1, AllowChoice: true})
	if res.Pending != nil {
		t.Fatalf("ring board must never suspend, got %+v", res.Pending)
	}
	want := []int{4, 5, 6, 7, 0}
	if len(res.Path) != len(want) {
		t.Fatalf("expected path %v, got %v", want, res.Path)
	}
	for i, tile := range want {
		if res.Path[i] != tile {
			t.Fatalf("expected path %v, got %v", want, res.Path)
		}
	}
	if !res.PassedStart {
		t.Fatal("path enters tile 0, expected passedStart")
	}
}

func TestBuildPathPassedStartNotSetWhenNotCrossing(t *testing.T) {
	g := ring(8)
	res := BuildPath(g, PathRequest{Start: 1, Steps: 3, Previous: 0, ForcedNext: -1})
	if res.PassedStart {
		t.Fatal("did not cross start, passedStart must be false")
	}
}

func TestBuildPathBranchSuspension(t *testing.T) {
	// 0 -> 1 -> 2, with 2 branching to 3 and 5; both rejoin at 4 -> 0.
	g := mapGraph{
		0: {1},
		1: {2},
		2: {3, 5},
		3: {4},
		5: {4},
		4: {0},
	}
	res := BuildPath(g, PathRequest{Start: 0, Steps: 4, Previous: -1, ForcedNext: -1, AllowChoice: true})
	if res.Pending == nil {
		t.Fatal("expected a pending move at the branch tile")
	}
	if len(res.Path) >= 4 {
		t.Fatalf("path must stop short of requested steps, got %v", res.Path)
	}
	pm := res.Pending
	if pm.Current != 2 || pm.StepsLeft != 2 {
		t.Fatalf("unexpected pending move: %+v", pm)
	}
	if len(pm.Options) != 2 {
		t.Fatalf("expected both successors as options, got %v", pm.Options)
	}
}

func TestBuildPathBranchExcludesReverseTile(t *testing.T) {
	// Mover arrives at branch tile 2 from tile 3; 3 must not be offered.
	g := mapGraph{
		2: {3, 5},
		5: {4},
		4: {0},
		0: {1},
	}
	res := BuildPath(g, PathRequest{Start: 2, Steps: 2, Previous: 3, ForcedNext: -1, AllowChoice: true})
	if res.Pending != nil {
		t.Fatalf("single remaining option must not suspend: %+v", res.Pending)
	}
	if len(res.Path) == 0 || res.Path[0] != 5 {
		t.Fatalf("expected first step to 5, got %v", res.Path)
	}
}

func TestBuildPathReversalAllowedWhenOnlyOption(t *testing.T) {
	// Tile 2's only successor is the tile the mover came from.
	g := mapGraph{2: {3}, 3: {2}}
	res := BuildPath(g, PathRequest{Start: 2, Steps: 1, Previous: 3, ForcedNext: -1})
	if len(res.Path) != 1 || res.Path[0] != 3 {
		t.Fatalf("expected reversal into 3, got %v", res.Path)
	}
}

func TestBuildPathForcedChoiceConsumedOnce(t *testing.T) {
	// Two consecutive branches; the forced hint applies only to the first.
	g := mapGraph{
		0: {1, 2},
		1: {3, 4},
		2: {3},
		3: {0},
		4: {0},
	}
	res := BuildPath(g, PathRequest{Start: 0, Steps: 2, Previous: -1, ForcedNext: 1, AllowChoice: true})
	if len(res.Path) != 1 || res.Path[0] != 1 {
		t.Fatalf("expected forced step to 1, got %v", res.Path)
	}
	if res.Pending == nil {
		t.Fatal("second branch must suspend after the hint is consumed")
	}
}

func TestBuildPathDeadEndTruncates(t *testing.T) {
	g := mapGraph{0: {1}, 1: {2}, 2: {}}
	res := BuildPath(g, PathRequest{Start: 0, Steps: 10, Previous: -1, ForcedNext: -1})
	if len(res.Path) != 2 {
		t.Fatalf("expected truncation at dead end, got %v", res.Path)
	}
	if res.Pending != nil {
		t.Fatal("truncation is not a suspension")
	}
}

func TestBuildPathZeroSuccessorStart(t *testing.T) {
	g := mapGraph{0: {}}
	res := BuildPath(g, PathRequest{Start: 0, Steps: 3, Previous: -1, ForcedNext: -1})
	if len(res.Path) != 0 || res.Pending != nil {
		t.Fatalf("expected empty path, got %v / %+v", res.Path, res.Pending)
	}
}

func TestBuildPathBackwardBiasesTowardPrevious(t *testing.T) {
	// At tile 2 the mover came from 5; backward movement retraces into 5.
	g := mapGraph{
		2: {3, 5},
		5: {4},
		4: {2},
		3: {4},
	}
	res := BuildPath(g, PathRequest{Start: 2, Steps: -1, Previous: 5, ForcedNext: -1, AllowChoice: true})
	if res.Pending != nil {
		t.Fatalf("backward movement must not suspend here: %+v", res.Pending)
	}
	if len(res.Path) != 1 || res.Path[0] != 5 {
		t.Fatalf("expected backward step into 5, got %v", res.Path)
	}
}

func TestBuildPathResumeAfterChoice(t *testing.T) {
	g := mapGraph{
		0: {1},
		1: {2, 5},
		2: {3},
		5: {3},
		3: {0},
	}
	first := BuildPath(g, PathRequest{Start: 0, Steps: 3, Previous: -1, ForcedNext: -1, AllowChoice: true})
	if first.Pending == nil {
		t.Fatal("expected suspension at tile 1")
	}
	pm := first.Pending
	second := BuildPath(g, PathRequest{
		Start:          pm.Current,
		Steps:          pm.StepsLeft,
		Previous:       pm.Previous,
		ForcedNext:     5,
		AllowChoice:    true,
		HasPassedStart: pm.PassedStart,
	})
	if second.Pending != nil {
		t.Fatalf("resume must complete: %+v", second.Pending)
	}
	full := append(append([]int(nil), first.Path...), second.Path...)
	want := []int{1, 5, 3}
	for i, tile := range want {
		if full[i] != tile {
			t.Fatalf("expected combined path %v, got %v", want, full)
		}
	}
}
