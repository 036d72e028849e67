// Package graph provides the iterative traversal primitive shared by the
// hierarchy code: cycle detection, descendant scans and cascade collection
// are all walks over an id->edges relation.
package graph

// EdgeFunc returns the ids adjacent to id in the chosen direction.
type EdgeFunc func(id string) ([]string, error)

// VisitFunc observes one id. Returning stop=true ends the walk early.
type VisitFunc func(id string) (stop bool, err error)

// Walk runs an iterative breadth-first traversal from the start ids.
// Every reachable id, including the start ids, is visited exactly once;
// already-seen ids are skipped so the walk terminates on any finite
// relation, even one with corrupted back-edges.
func Walk(start []string, edges EdgeFunc, visit VisitFunc) error {
	queue := append([]string(nil), start...)
	seen := make(map[string]struct{}, len(start))
	for _, id := range start {
		seen[id] = struct{}{}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		stop, err := visit(id)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}

		next, err := edges(id)
		if err != nil {
			return err
		}
		for _, n := range next {
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			queue = append(queue, n)
		}
	}

	return nil
}

// ParentFunc returns the single parent of id, or "" at a root.
type ParentFunc func(id string) (string, error)

// WalkUp climbs single-parent links from start until a root is reached,
// visit stops the climb, or a previously seen id comes around again
// (which signals corrupted data and simply terminates the walk).
func WalkUp(start string, parent ParentFunc, visit VisitFunc) error {
	seen := make(map[string]struct{})
	current := start
	for current != "" {
		if _, ok := seen[current]; ok {
			return nil
		}
		seen[current] = struct{}{}

		stop, err := visit(current)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}

		next, err := parent(current)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}
