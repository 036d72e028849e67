package task

import (
	"context"
	"fmt"

	"trackplane/pkg/errutil"
	"trackplane/pkg/graph"

	"go.uber.org/zap"
)

// maxTreeDepth bounds ancestor recomputation; real trees are shallow
// and anything deeper indicates corrupted parent links.
const maxTreeDepth = 512

// recomputeUpward replays derivation up the ancestor chain starting at
// startParentID: each ancestor's percentage becomes the rounded mean of
// its direct children, ticket status and bucket are re-derived, and a
// Completed bucket is downgraded to In Progress while any descendant
// sits below 100. Derivation changes are recorded in the audit log.
func recomputeUpward(ctx context.Context, repo Repository, startParentID string) error {
	if startParentID == "" {
		return nil
	}

	depth := 0
	loaded := map[string]*Task{}
	load := func(id string) (*Task, error) {
		if t, ok := loaded[id]; ok {
			return t, nil
		}
		t, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		loaded[id] = t
		return t, nil
	}

	parent := func(id string) (string, error) {
		t, err := load(id)
		if err != nil || t == nil {
			return "", err
		}
		return t.parentID(), nil
	}

	visit := func(id string) (bool, error) {
		depth++
		if depth > maxTreeDepth {
			return false, errutil.Internal(fmt.Sprintf("ancestor chain exceeds %d levels", maxTreeDepth))
		}
		node, err := load(id)
		if err != nil {
			return false, err
		}
		if node == nil {
			return true, nil
		}

		prevPercentage := node.Percentage
		prevBucket := node.StatusBucket

		pct, err := derivedPercentage(ctx, repo, node)
		if err != nil {
			return false, err
		}
		node.Percentage = pct
		node.syncTicketStatus()

		bucket := BucketForPercentage(pct)
		if bucket == BucketCompleted {
			incomplete, err := hasIncompleteDescendant(ctx, repo, node.ID)
			if err != nil {
				return false, err
			}
			if incomplete {
				bucket = BucketInProgress
			}
		}
		node.StatusBucket = bucket

		if prevPercentage != pct {
			node.appendLog(fmt.Sprintf("Derived completion changed %d%% -> %d%%", prevPercentage, pct))
		}
		if prevBucket != bucket {
			node.appendLog(fmt.Sprintf("Status bucket moved %s -> %s", prevBucket, bucket))
		}
		if err := repo.Save(ctx, node); err != nil {
			return false, err
		}
		return false, nil
	}

	err := graph.WalkUp(startParentID, parent, visit)
	if err != nil {
		zap.L().Error("ancestor recomputation failed",
			zap.String("start_parent_id", startParentID), zap.Error(err))
	}
	return err
}

// derivedPercentage is the rounded mean of the direct children's
// current percentages. A node with no resolvable children keeps its own
// percentage.
func derivedPercentage(ctx context.Context, repo Repository, node *Task) (int, error) {
	if node.IsLeaf() {
		return node.Percentage, nil
	}
	sum := 0
	count := 0
	for _, childID := range node.ChildrenIDs {
		child, err := repo.Get(ctx, childID)
		if err != nil {
			return 0, err
		}
		if child == nil {
			continue
		}
		sum += child.Percentage
		count++
	}
	if count == 0 {
		return node.Percentage, nil
	}
	avg := float64(sum) / float64(count)
	pct, _ := ClampPercentage(avg)
	return pct, nil
}

// hasIncompleteDescendant reports whether any strict descendant of
// rootID has percentage below 100.
func hasIncompleteDescendant(ctx context.Context, repo Repository, rootID string) (bool, error) {
	loaded := map[string]*Task{}
	load := func(id string) (*Task, error) {
		if t, ok := loaded[id]; ok {
			return t, nil
		}
		t, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		loaded[id] = t
		return t, nil
	}

	incomplete := false
	edges := func(id string) ([]string, error) {
		t, err := load(id)
		if err != nil || t == nil {
			return nil, err
		}
		return t.ChildrenIDs, nil
	}
	visit := func(id string) (bool, error) {
		if id == rootID {
			return false, nil
		}
		t, err := load(id)
		if err != nil {
			return false, err
		}
		if t == nil {
			return false, nil
		}
		if t.Percentage != 100 {
			incomplete = true
			return true, nil
		}
		return false, nil
	}
	if err := graph.Walk([]string{rootID}, edges, visit); err != nil {
		return false, err
	}
	return incomplete, nil
}

// collectSubtree returns rootID plus every reachable descendant id.
func collectSubtree(ctx context.Context, repo Repository, rootID string) ([]string, error) {
	var ids []string
	edges := func(id string) ([]string, error) {
		t, err := repo.Get(ctx, id)
		if err != nil || t == nil {
			return nil, err
		}
		return t.ChildrenIDs, nil
	}
	visit := func(id string) (bool, error) {
		ids = append(ids, id)
		return false, nil
	}
	if err := graph.Walk([]string{rootID}, edges, visit); err != nil {
		return nil, err
	}
	return ids, nil
}

// assertNoCycle rejects a reparent that would make taskID its own
// ancestor. The check runs before any link is rewritten.
func assertNoCycle(ctx context.Context, repo Repository, taskID, newParentID string) error {
	if newParentID == "" {
		return nil
	}
	if taskID == newParentID {
		return errutil.Conflict("task cannot be parented to itself",
			errutil.WithReason(ReasonCycleDetected))
	}

	parent := func(id string) (string, error) {
		t, err := repo.Get(ctx, id)
		if err != nil || t == nil {
			return "", err
		}
		return t.parentID(), nil
	}
	visit := func(id string) (bool, error) {
		if id == taskID {
			return false, errutil.Conflict("move would create a cycle",
				errutil.WithReason(ReasonCycleDetected))
		}
		return false, nil
	}
	return graph.WalkUp(newParentID, parent, visit)
}

// uniqStrings keeps first occurrence order and drops blanks.
func uniqStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
