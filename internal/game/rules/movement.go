package rules

// Graph is the movement view of the board: per-tile successor lookup.
type Graph interface {
	Successors(index int) []int
}

// PendingMove describes a path resolution that stalled at a branch tile.
// It exists only between "branch encountered" and "choice received".
type PendingMove struct {
	Current     int
	Previous    int
	StepsLeft   int
	Options     []int
	PassedStart bool
}

// PathRequest parameterizes one call to BuildPath.
type PathRequest struct {
	Start    int
	Steps    int
	Previous int // tile the mover came from, -1 when unknown
	// ForcedNext is consumed at most once at the first branch encountered.
	// -1 means no hint.
	ForcedNext int
	// AllowChoice makes BuildPath stop at an ambiguous branch and report a
	// PendingMove instead of picking an edge itself.
	AllowChoice bool
	// HasPassedStart carries the pass-start flag across a resumed resolution.
	HasPassedStart bool
}

// PathResult is the outcome of a path resolution. When Pending is non-nil the
// path covers only the steps walked before the branch; the caller must obtain
// a choice and resume with a new request.
type PathResult struct {
	Path        []int
	PassedStart bool
	Pending     *PendingMove
}

// BuildPath walks the graph one step at a time for the requested number of
// steps. It never fails: a dead end truncates the path, a zero-successor
// start yields an empty path, and an ambiguous branch suspends into a
// PendingMove when choices are allowed.
//
// Negative step counts mean "move backward": the walk is biased toward the
// tile the mover last visited, then toward the lowest successor, which on a
// ring with a return edge retraces the mover's path.
func BuildPath(g Graph, req PathRequest) PathResult {
	steps := req.Steps
	backward := false
	if steps < 0 {
		steps = -steps
		backward = true
	}

	current := req.Start
	previous := req.Previous
	forced := req.ForcedNext
	passedStart := req.HasPassedStart
	path := make([]int, 0, steps)

	for walked := 0; walked < steps; walked++ {
		successors := g.Successors(current)
		if len(successors) == 0 {
			break
		}

		candidates := successors
		if len(successors) > 1 && !backward {
			// Avoid trivially reversing into the tile we came from, unless
			// that is the only option left.
			filtered := make([]int, 0, len(successors))
			for _, next := range successors {
				if next != previous {
					filtered = append(filtered, next)
				}
			}
			if len(filtered) > 0 {
				candidates = filtered
			}
		}

		var next int
		switch {
		case len(candidates) == 1:
			next = candidates[0]
			if forced == next {
				forced = -1
			}
		case forced >= 0 && contains(candidates, forced):
			next = forced
			forced = -1
		case backward && contains(successors, previous):
			next = previous
		case req.AllowChoice:
			return PathResult{
				Path:        path,
				PassedStart: passedStart,
				Pending: &PendingMove{
					Current:     current,
					Previous:    previous,
					StepsLeft:   steps - walked,
					Options:     append([]int(nil), candidates...),
					PassedStart: passedStart,
				},
			}
		default:
			next = candidates[0]
		}

		previous = current
		current = next
		if current == 0 {
			passedStart = true
		}
		path = append(path, current)
	}

	return PathResult{Path: path, PassedStart: passedStart}
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
