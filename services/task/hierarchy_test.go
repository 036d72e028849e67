package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trackplane/pkg/errutil"
	"trackplane/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	db := testutil.NewTestDB(t, &Task{})
	return NewRepository(db)
}

func mustCreate(t *testing.T, repo Repository, task *Task) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), task))
}

func strptr(s string) *string { return &s }

func TestRecomputeUpwardPropagatesToRoot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &Task{ID: "root", ChildrenIDs: []string{"mid"}, StatusBucket: BucketNotStarted, TicketStatus: TicketOpen})
	mustCreate(t, repo, &Task{ID: "mid", ParentID: strptr("root"), ChildrenIDs: []string{"leaf"}, StatusBucket: BucketNotStarted, TicketStatus: TicketOpen})
	mustCreate(t, repo, &Task{ID: "leaf", ParentID: strptr("mid"), Percentage: 50, StatusBucket: BucketOnHold, TicketStatus: TicketOpen})

	require.NoError(t, recomputeUpward(ctx, repo, "mid"))

	mid, err := repo.Get(ctx, "mid")
	require.NoError(t, err)
	require.Equal(t, 50, mid.Percentage)
	require.Equal(t, BucketOnHold, mid.StatusBucket)
	require.Equal(t, TicketOpen, mid.TicketStatus)
	require.Len(t, mid.Comments, 2) // percentage change + bucket change

	root, err := repo.Get(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, 50, root.Percentage)
	require.Equal(t, BucketOnHold, root.StatusBucket)
}

func TestRecomputeUpwardRoundsMean(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &Task{ID: "p", ChildrenIDs: []string{"a", "b", "c"}, StatusBucket: BucketNotStarted, TicketStatus: TicketOpen})
	mustCreate(t, repo, &Task{ID: "a", ParentID: strptr("p"), Percentage: 10})
	mustCreate(t, repo, &Task{ID: "b", ParentID: strptr("p"), Percentage: 20})
	mustCreate(t, repo, &Task{ID: "c", ParentID: strptr("p"), Percentage: 21})

	require.NoError(t, recomputeUpward(ctx, repo, "p"))

	p, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	require.Equal(t, 17, p.Percentage) // round(51/3)
	require.Equal(t, BucketOnHold, p.StatusBucket)
}

func TestRecomputeUpwardCompletedOverride(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Mean of 100 and 99 rounds to 100, but the 99 descendant blocks
	// the Completed bucket.
	mustCreate(t, repo, &Task{ID: "p", ChildrenIDs: []string{"a", "b"}, StatusBucket: BucketNotStarted, TicketStatus: TicketOpen})
	mustCreate(t, repo, &Task{ID: "a", ParentID: strptr("p"), Percentage: 100})
	mustCreate(t, repo, &Task{ID: "b", ParentID: strptr("p"), Percentage: 99})

	require.NoError(t, recomputeUpward(ctx, repo, "p"))

	p, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	require.Equal(t, 100, p.Percentage)
	require.Equal(t, BucketInProgress, p.StatusBucket)
	require.Equal(t, TicketClosed, p.TicketStatus)
}

func TestRecomputeUpwardAllComplete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &Task{ID: "p", ChildrenIDs: []string{"a", "b"}, StatusBucket: BucketNotStarted, TicketStatus: TicketOpen})
	mustCreate(t, repo, &Task{ID: "a", ParentID: strptr("p"), Percentage: 100})
	mustCreate(t, repo, &Task{ID: "b", ParentID: strptr("p"), Percentage: 100})

	require.NoError(t, recomputeUpward(ctx, repo, "p"))

	p, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	require.Equal(t, 100, p.Percentage)
	require.Equal(t, BucketCompleted, p.StatusBucket)
	require.Equal(t, TicketClosed, p.TicketStatus)
}

func TestRecomputeUpwardNoChangeNoAudit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &Task{ID: "p", ChildrenIDs: []string{"a"}, Percentage: 40, StatusBucket: BucketOnHold, TicketStatus: TicketOpen})
	mustCreate(t, repo, &Task{ID: "a", ParentID: strptr("p"), Percentage: 40})

	require.NoError(t, recomputeUpward(ctx, repo, "p"))

	p, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	require.Equal(t, 40, p.Percentage)
	require.Empty(t, p.Comments)
}

func TestHasIncompleteDescendant(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &Task{ID: "root", ChildrenIDs: []string{"a"}, Percentage: 0})
	mustCreate(t, repo, &Task{ID: "a", ParentID: strptr("root"), ChildrenIDs: []string{"b"}, Percentage: 100})
	mustCreate(t, repo, &Task{ID: "b", ParentID: strptr("a"), Percentage: 50})

	incomplete, err := hasIncompleteDescendant(ctx, repo, "root")
	require.NoError(t, err)
	require.True(t, incomplete)

	b, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	b.Percentage = 100
	require.NoError(t, repo.Save(ctx, b))

	incomplete, err = hasIncompleteDescendant(ctx, repo, "root")
	require.NoError(t, err)
	require.False(t, incomplete)
}

func TestCollectSubtree(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &Task{ID: "a", ChildrenIDs: []string{"b", "c"}})
	mustCreate(t, repo, &Task{ID: "b", ParentID: strptr("a"), ChildrenIDs: []string{"d"}})
	mustCreate(t, repo, &Task{ID: "c", ParentID: strptr("a")})
	mustCreate(t, repo, &Task{ID: "d", ParentID: strptr("b")})

	ids, err := collectSubtree(ctx, repo, "a")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c", "d"}, ids)
}

func TestAssertNoCycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &Task{ID: "a", ChildrenIDs: []string{"b"}})
	mustCreate(t, repo, &Task{ID: "b", ParentID: strptr("a")})

	err := assertNoCycle(ctx, repo, "a", "a")
	require.Equal(t, ReasonCycleDetected, errutil.ReasonOf(err))
	require.Equal(t, errutil.StatusConflict, errutil.CodeOf(err))

	err = assertNoCycle(ctx, repo, "a", "b")
	require.Equal(t, ReasonCycleDetected, errutil.ReasonOf(err))

	require.NoError(t, assertNoCycle(ctx, repo, "b", "a"))
	require.NoError(t, assertNoCycle(ctx, repo, "b", ""))
}

func TestUniqStrings(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, uniqStrings([]string{"a", "b", "a", "", "c", "b"}))
	require.Empty(t, uniqStrings(nil))
}
