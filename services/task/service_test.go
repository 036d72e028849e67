package task

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"trackplane/pkg/errutil"
	"trackplane/services/identity"
	"trackplane/services/testutil"
)

type fakeDispatcher struct {
	recipients []string
	taskIDs    []string
	messages   []string
	err        error
}

func (f *fakeDispatcher) NotifyAssignment(ctx context.Context, recipientIDs []string, taskID, message string) error {
	if f.err != nil {
		return f.err
	}
	f.recipients = append(f.recipients, recipientIDs...)
	f.taskIDs = append(f.taskIDs, taskID)
	f.messages = append(f.messages, message)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeDispatcher, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t, &Task{}, &identity.User{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	dispatcher := &fakeDispatcher{}
	svc := NewService(ServiceParams{DB: db, Node: node, Dispatcher: dispatcher})
	return svc, dispatcher, db
}

func seedUser(t *testing.T, db *gorm.DB, id string, role identity.Role, company, department string) identity.User {
	t.Helper()
	u := identity.User{
		ID:         id,
		Name:       "User " + id,
		Company:    company,
		Department: department,
		UserName:   "user-" + id,
		EmployeeID: "E-" + id,
		Role:       role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func actorFor(u identity.User) *identity.Actor {
	return &identity.Actor{ID: u.ID, Name: u.Name, Role: u.Role, Company: u.Company}
}

func baseCreate(name string) CreateRequest {
	final := 100.0
	return CreateRequest{
		Name:            name,
		Company:         "Acme",
		Department:      "Eng",
		DueDate:         "2026-12-31",
		FinalPercentage: &final,
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateRequest{Name: "x"}, leader)
	require.Equal(t, ReasonMissingDueDate, errutil.ReasonOf(err))

	_, err = svc.CreateTask(ctx, CreateRequest{Name: "x", DueDate: "2026-12-31"}, leader)
	require.Equal(t, ReasonMissingFinalPercentage, errutil.ReasonOf(err))

	bad := 120.0
	_, err = svc.CreateTask(ctx, CreateRequest{Name: "x", DueDate: "2026-12-31", FinalPercentage: &bad}, leader)
	require.Equal(t, ReasonInvalidFinalPercentage, errutil.ReasonOf(err))

	_, err = svc.CreateTask(ctx, CreateRequest{Name: "x", DueDate: "not-a-date", FinalPercentage: new(float64)}, leader)
	require.Equal(t, ReasonInvalidDueDate, errutil.ReasonOf(err))

	req := baseCreate("x")
	req.AssignedTo = []string{"Somebody"}
	_, err = svc.CreateTask(ctx, req, leader)
	require.Equal(t, ReasonAssigneeUserRequired, errutil.ReasonOf(err))

	// Members cannot create at all.
	member := actorFor(seedUser(t, db, "m0", identity.RoleMember, "Acme", "Eng"))
	_, err = svc.CreateTask(ctx, baseCreate("x"), member)
	require.Equal(t, ReasonForbiddenCreate, errutil.ReasonOf(err))
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)
	require.Equal(t, 0, created.Percentage)
	require.Equal(t, BucketNotStarted, created.StatusBucket)
	require.Equal(t, TicketOpen, created.TicketStatus)
	require.Equal(t, 100, created.FinalPercentage)
	require.NotNil(t, created.InitialPercentage)
	require.Equal(t, 0, *created.InitialPercentage)
	require.Equal(t, []string{leader.Name}, []string(created.AssignedBy))
	require.Equal(t, "l1", created.AssignedByUserID)
	require.Equal(t, identity.RoleLeader, created.AssignedByRole)
	require.Nil(t, created.ParentID)
	require.Len(t, created.Comments, 1)
	require.Equal(t, CommentAuto, created.Comments[0].Kind)
	require.Contains(t, created.Comments[0].Message, "root task")
}

func TestCreateChildInheritsAssignmentChain(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	coleader := actorFor(seedUser(t, db, "c1", identity.RoleColeader, "Acme", "Eng"))
	ctx := context.Background()

	root, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)

	childReq := baseCreate("child")
	childReq.ParentID = root.ID
	child, err := svc.CreateTask(ctx, childReq, coleader)
	require.NoError(t, err)

	// The chain anchor comes from the parent, not the creating actor.
	require.Equal(t, "l1", child.AssignedByUserID)
	require.Equal(t, identity.RoleLeader, child.AssignedByRole)
	require.Contains(t, child.Comments[0].Message, "child task")

	parent, err := svc.GetTask(ctx, root.ID)
	require.NoError(t, err)
	require.Equal(t, []string{child.ID}, []string(parent.ChildrenIDs))
}

func TestCreateWithAssigneesNotifies(t *testing.T) {
	svc, dispatcher, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	member := seedUser(t, db, "m1", identity.RoleMember, "Acme", "Eng")
	ctx := context.Background()

	req := baseCreate("assigned")
	req.AssignedTo = []string{"whatever"}
	req.AssignedToUserIDs = []string{member.ID}
	created, err := svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)

	require.Equal(t, []string{member.ID}, []string(created.AssignedToUserIDs))
	require.Equal(t, []string{member.AssignmentLabel()}, []string(created.AssignedTo))
	require.Equal(t, []string{member.ID}, dispatcher.recipients)
	require.Equal(t, []string{created.ID}, dispatcher.taskIDs)
	require.Contains(t, dispatcher.messages[0], `assigned "assigned"`)
	require.Contains(t, dispatcher.messages[0], "Acme / Eng")
}

func TestCreateAssigneeScoping(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	elder := actorFor(seedUser(t, db, "e1", identity.RoleElder, "Acme", "Eng"))
	outsider := seedUser(t, db, "o1", identity.RoleMember, "Globex", "Eng")
	otherDept := seedUser(t, db, "d1", identity.RoleMember, "Acme", "Sales")
	peer := seedUser(t, db, "l2", identity.RoleLeader, "Acme", "Eng")
	ctx := context.Background()

	req := baseCreate("t")
	req.AssignedToUserIDs = []string{"ghost"}
	_, err := svc.CreateTask(ctx, req, leader)
	require.Equal(t, ReasonInvalidAssignee, errutil.ReasonOf(err))
	require.Equal(t, errutil.StatusNotFound, errutil.CodeOf(err))

	req = baseCreate("t")
	req.AssignedToUserIDs = []string{peer.ID}
	_, err = svc.CreateTask(ctx, req, leader)
	require.Equal(t, ReasonForbiddenAssignment, errutil.ReasonOf(err))

	req = baseCreate("t")
	req.AssignedToUserIDs = []string{outsider.ID}
	_, err = svc.CreateTask(ctx, req, leader)
	require.Equal(t, ReasonCrossCompanyAssignment, errutil.ReasonOf(err))

	req = baseCreate("t")
	req.AssignedToUserIDs = []string{otherDept.ID}
	_, err = svc.CreateTask(ctx, req, leader)
	require.Equal(t, ReasonDepartmentMismatch, errutil.ReasonOf(err))

	// Self-assignment bypasses the role descent table.
	req = baseCreate("t")
	req.AssignedToUserIDs = []string{"e1"}
	created, err := svc.CreateTask(ctx, req, elder)
	require.NoError(t, err)
	require.Equal(t, []string{"e1"}, []string(created.AssignedToUserIDs))
}

func TestLeafPercentagePropagation(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	root, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)
	childReq := baseCreate("leaf")
	childReq.ParentID = root.ID
	leaf, err := svc.CreateTask(ctx, childReq, leader)
	require.NoError(t, err)

	pct := 40.0
	updated, err := svc.SetLeafPercentage(ctx, leaf.ID, PercentageRequest{Percentage: &pct}, leader)
	require.NoError(t, err)
	require.Equal(t, 40, updated.Percentage)
	require.Equal(t, BucketOnHold, updated.StatusBucket)

	parent, err := svc.GetTask(ctx, root.ID)
	require.NoError(t, err)
	require.Equal(t, 40, parent.Percentage)
	require.Equal(t, BucketOnHold, parent.StatusBucket)
	require.Equal(t, TicketOpen, parent.TicketStatus)
}

func TestTwoLeavesCompleteParent(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	root, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)
	var leaves []*Task
	for _, name := range []string{"a", "b"} {
		req := baseCreate(name)
		req.ParentID = root.ID
		leaf, err := svc.CreateTask(ctx, req, leader)
		require.NoError(t, err)
		leaves = append(leaves, leaf)
	}

	full := 100.0
	half := 50.0
	_, err = svc.SetLeafPercentage(ctx, leaves[0].ID, PercentageRequest{Percentage: &full}, leader)
	require.NoError(t, err)
	_, err = svc.SetLeafPercentage(ctx, leaves[1].ID, PercentageRequest{Percentage: &half}, leader)
	require.NoError(t, err)

	parent, err := svc.GetTask(ctx, root.ID)
	require.NoError(t, err)
	require.Equal(t, 75, parent.Percentage)
	require.Equal(t, BucketInProgress, parent.StatusBucket)

	_, err = svc.SetLeafPercentage(ctx, leaves[1].ID, PercentageRequest{Percentage: &full}, leader)
	require.NoError(t, err)

	parent, err = svc.GetTask(ctx, root.ID)
	require.NoError(t, err)
	require.Equal(t, 100, parent.Percentage)
	require.Equal(t, BucketCompleted, parent.StatusBucket)
	require.Equal(t, TicketClosed, parent.TicketStatus)
}

func TestSetPercentageOnParentRejected(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	root, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)
	req := baseCreate("leaf")
	req.ParentID = root.ID
	_, err = svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)

	pct := 10.0
	_, err = svc.SetLeafPercentage(ctx, root.ID, PercentageRequest{Percentage: &pct}, leader)
	require.Equal(t, ReasonParentPercentageLocked, errutil.ReasonOf(err))

	_, err = svc.UpdateTask(ctx, root.ID, UpdateRequest{Percentage: &pct}, leader)
	require.Equal(t, ReasonParentPercentageLocked, errutil.ReasonOf(err))
}

func TestSetLeafBucketAppliesDefault(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	leaf, err := svc.CreateTask(ctx, baseCreate("leaf"), leader)
	require.NoError(t, err)

	updated, err := svc.SetLeafBucket(ctx, leaf.ID, BucketRequest{StatusBucket: "In Progress"}, leader)
	require.NoError(t, err)
	require.Equal(t, 51, updated.Percentage)
	require.Equal(t, BucketInProgress, updated.StatusBucket)

	// Unknown buckets fall back to the zero default.
	updated, err = svc.SetLeafBucket(ctx, leaf.ID, BucketRequest{StatusBucket: "Bogus"}, leader)
	require.NoError(t, err)
	require.Equal(t, 0, updated.Percentage)
	require.Equal(t, BucketNotStarted, updated.StatusBucket)
}

func TestAuditAppendOnlyOnChange(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	leaf, err := svc.CreateTask(ctx, baseCreate("leaf"), leader)
	require.NoError(t, err)
	before := len(leaf.Comments)

	pct := 0.0
	updated, err := svc.SetLeafPercentage(ctx, leaf.ID, PercentageRequest{Percentage: &pct}, leader)
	require.NoError(t, err)
	require.Len(t, updated.Comments, before) // no change, no entries

	pct = 40
	updated, err = svc.SetLeafPercentage(ctx, leaf.ID, PercentageRequest{Percentage: &pct}, leader)
	require.NoError(t, err)
	require.Len(t, updated.Comments, before+2) // completion + bucket entries
	require.Contains(t, updated.Comments[before].Message, "0% -> 40%")
	require.Contains(t, updated.Comments[before+1].Message, "Not Started -> On Hold")
}

func TestMemberPatchRules(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	member := seedUser(t, db, "m1", identity.RoleMember, "Acme", "Eng")
	other := seedUser(t, db, "m2", identity.RoleMember, "Acme", "Eng")
	ctx := context.Background()

	req := baseCreate("assigned")
	req.AssignedToUserIDs = []string{member.ID}
	created, err := svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)

	// Member patching an out-of-allowlist field fails regardless of scope.
	company := "Elsewhere"
	_, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{Company: &company}, actorFor(member))
	require.Equal(t, ReasonForbiddenPatchField, errutil.ReasonOf(err))

	// An assigned member may update percentage.
	pct := 30.0
	updated, err := svc.UpdateTask(ctx, created.ID, UpdateRequest{Percentage: &pct}, actorFor(member))
	require.NoError(t, err)
	require.Equal(t, 30, updated.Percentage)

	// An unassigned member is out of scope.
	_, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{Percentage: &pct}, actorFor(other))
	require.Equal(t, ReasonForbiddenScope, errutil.ReasonOf(err))
}

func TestChainSensitivePatchRequiresAuthority(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	god := actorFor(seedUser(t, db, "g1", identity.RoleGod, "Acme", "Eng"))
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, baseCreate("t"), leader)
	require.NoError(t, err)

	// A peer leader may not rename a task assigned by another leader.
	peer := actorFor(seedUser(t, db, "l2", identity.RoleLeader, "Acme", "Eng"))
	name := "renamed"
	_, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{Name: &name}, peer)
	require.Equal(t, ReasonForbiddenChain, errutil.ReasonOf(err))

	// The original assigner and a strictly senior actor both may.
	_, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{Name: &name}, leader)
	require.NoError(t, err)
	name = "renamed again"
	_, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{Name: &name}, god)
	require.NoError(t, err)
}

func TestUpdateAddCommentAndTicketStatusDerivation(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, baseCreate("t"), leader)
	require.NoError(t, err)
	before := len(created.Comments)

	updated, err := svc.UpdateTask(ctx, created.ID, UpdateRequest{
		AddComment: &CommentInput{Kind: "manual", Message: "  looks good  ", Name: "User l1", EmployeeID: "E-l1"},
	}, leader)
	require.NoError(t, err)
	require.Len(t, updated.Comments, before+1)
	last := updated.Comments[len(updated.Comments)-1]
	require.Equal(t, CommentManual, last.Kind)
	require.Equal(t, "looks good", last.Message)

	// Blank comments are dropped.
	updated, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{
		AddComment: &CommentInput{Kind: "manual", Message: "   "},
	}, leader)
	require.NoError(t, err)
	require.Len(t, updated.Comments, before+1)

	// A direct ticketStatus patch is overridden by completion.
	closed := "Closed"
	updated, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{TicketStatus: &closed}, leader)
	require.NoError(t, err)
	require.Equal(t, TicketOpen, updated.TicketStatus)
}

func TestUpdateAssignmentNotifiesOnlyNewRecipients(t *testing.T) {
	svc, dispatcher, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	m1 := seedUser(t, db, "m1", identity.RoleMember, "Acme", "Eng")
	m2 := seedUser(t, db, "m2", identity.RoleMember, "Acme", "Eng")
	ctx := context.Background()

	req := baseCreate("t")
	req.AssignedToUserIDs = []string{m1.ID}
	created, err := svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)
	dispatcher.recipients = nil

	assignedTo := []string{"x"}
	updated, err := svc.UpdateTask(ctx, created.ID, UpdateRequest{
		AssignedTo:        &assignedTo,
		AssignedToUserIDs: []string{m1.ID, m2.ID},
	}, leader)
	require.NoError(t, err)
	require.Equal(t, []string{m1.ID, m2.ID}, []string(updated.AssignedToUserIDs))
	require.Equal(t, []string{m2.ID}, dispatcher.recipients)
	require.Contains(t, dispatcher.messages[len(dispatcher.messages)-1], "added you to")
}

func TestSelfRemovalForbidden(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	elder := seedUser(t, db, "e1", identity.RoleElder, "Acme", "Eng")
	ctx := context.Background()

	req := baseCreate("t")
	req.AssignedToUserIDs = []string{elder.ID}
	created, err := svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)

	empty := []string{}
	_, err = svc.UpdateTask(ctx, created.ID, UpdateRequest{
		AssignedTo:        &empty,
		AssignedToUserIDs: []string{},
	}, actorFor(elder))
	require.Equal(t, ReasonSelfRemovalForbidden, errutil.ReasonOf(err))
}

func TestDeleteCascadesAndReparents(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	root, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)
	midReq := baseCreate("mid")
	midReq.ParentID = root.ID
	mid, err := svc.CreateTask(ctx, midReq, leader)
	require.NoError(t, err)
	leafReq := baseCreate("leaf")
	leafReq.ParentID = mid.ID
	leaf, err := svc.CreateTask(ctx, leafReq, leader)
	require.NoError(t, err)

	keepReq := baseCreate("keep")
	keepReq.ParentID = root.ID
	keep, err := svc.CreateTask(ctx, keepReq, leader)
	require.NoError(t, err)

	full := 100.0
	_, err = svc.SetLeafPercentage(ctx, keep.ID, PercentageRequest{Percentage: &full}, leader)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, mid.ID, leader))

	_, err = svc.GetTask(ctx, mid.ID)
	require.Equal(t, ReasonTaskNotFound, errutil.ReasonOf(err))
	_, err = svc.GetTask(ctx, leaf.ID)
	require.Equal(t, ReasonTaskNotFound, errutil.ReasonOf(err))

	parent, err := svc.GetTask(ctx, root.ID)
	require.NoError(t, err)
	require.Equal(t, []string{keep.ID}, []string(parent.ChildrenIDs))
	require.Equal(t, 100, parent.Percentage)
	require.Equal(t, BucketCompleted, parent.StatusBucket)
}

func TestDeleteRequiresChainAuthority(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	elder := actorFor(seedUser(t, db, "e1", identity.RoleElder, "Acme", "Eng"))
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, baseCreate("t"), leader)
	require.NoError(t, err)

	err = svc.DeleteTask(ctx, created.ID, elder)
	require.Equal(t, ReasonForbiddenChain, errutil.ReasonOf(err))

	// The task survives a rejected delete.
	_, err = svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
}

func TestReorderTask(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	root, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)
	var children []string
	for _, name := range []string{"a", "b", "c"} {
		req := baseCreate(name)
		req.ParentID = root.ID
		child, err := svc.CreateTask(ctx, req, leader)
		require.NoError(t, err)
		children = append(children, child.ID)
	}

	parentID, err := svc.ReorderTask(ctx, children[2], ReorderRequest{ToIndex: 0}, leader)
	require.NoError(t, err)
	require.Equal(t, root.ID, parentID)
	parent, err := svc.GetTask(ctx, root.ID)
	require.NoError(t, err)
	require.Equal(t, []string{children[2], children[0], children[1]}, []string(parent.ChildrenIDs))

	_, err = svc.ReorderTask(ctx, children[0], ReorderRequest{ToIndex: 3}, leader)
	require.Equal(t, ReasonInvalidIndex, errutil.ReasonOf(err))

	_, err = svc.ReorderTask(ctx, root.ID, ReorderRequest{ToIndex: 0}, leader)
	require.Equal(t, ReasonReorderRequiresParent, errutil.ReasonOf(err))
}

func TestReorderParentChildMismatch(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	// The child points at the parent but the parent does not list it.
	require.NoError(t, db.Create(&Task{
		ID: "p", Company: "Acme", ChildrenIDs: []string{"other"},
		AssignedByUserID: "l1", AssignedByRole: identity.RoleLeader,
	}).Error)
	require.NoError(t, db.Create(&Task{
		ID: "c", Company: "Acme", ParentID: strptr("p"),
		AssignedByUserID: "l1", AssignedByRole: identity.RoleLeader,
	}).Error)

	_, err := svc.ReorderTask(ctx, "c", ReorderRequest{ToIndex: 0}, leader)
	require.Equal(t, ReasonParentChildMismatch, errutil.ReasonOf(err))
	require.Equal(t, errutil.StatusConflict, errutil.CodeOf(err))

	// The broken link is reported, never repaired.
	p, err := svc.GetTask(ctx, "p")
	require.NoError(t, err)
	require.Equal(t, []string{"other"}, []string(p.ChildrenIDs))
	require.Empty(t, p.Comments)
}

func TestMoveTask(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	rootA, err := svc.CreateTask(ctx, baseCreate("rootA"), leader)
	require.NoError(t, err)
	rootB, err := svc.CreateTask(ctx, baseCreate("rootB"), leader)
	require.NoError(t, err)
	req := baseCreate("leaf")
	req.ParentID = rootA.ID
	leaf, err := svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)

	full := 100.0
	_, err = svc.SetLeafPercentage(ctx, leaf.ID, PercentageRequest{Percentage: &full}, leader)
	require.NoError(t, err)

	moved, err := svc.MoveTask(ctx, leaf.ID, MoveRequest{NewParentID: rootB.ID}, leader)
	require.NoError(t, err)
	require.Equal(t, rootB.ID, *moved.ParentID)

	oldParent, err := svc.GetTask(ctx, rootA.ID)
	require.NoError(t, err)
	require.Empty(t, oldParent.ChildrenIDs)
	// With no children left the old parent keeps its own percentage.
	require.Equal(t, 100, oldParent.Percentage)

	newParent, err := svc.GetTask(ctx, rootB.ID)
	require.NoError(t, err)
	require.Equal(t, []string{leaf.ID}, []string(newParent.ChildrenIDs))
	require.Equal(t, 100, newParent.Percentage)

	// Moving back to root level clears the parent link.
	moved, err = svc.MoveTask(ctx, leaf.ID, MoveRequest{}, leader)
	require.NoError(t, err)
	require.Nil(t, moved.ParentID)
}

func TestMoveCycleRejectedUnchanged(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	root, err := svc.CreateTask(ctx, baseCreate("root"), leader)
	require.NoError(t, err)
	req := baseCreate("child")
	req.ParentID = root.ID
	child, err := svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)

	_, err = svc.MoveTask(ctx, root.ID, MoveRequest{NewParentID: child.ID}, leader)
	require.Equal(t, ReasonCycleDetected, errutil.ReasonOf(err))
	require.Equal(t, errutil.StatusConflict, errutil.CodeOf(err))

	_, err = svc.MoveTask(ctx, root.ID, MoveRequest{NewParentID: root.ID}, leader)
	require.Equal(t, ReasonCycleDetected, errutil.ReasonOf(err))

	// Links are untouched after the rejected moves.
	reloadedRoot, err := svc.GetTask(ctx, root.ID)
	require.NoError(t, err)
	require.Nil(t, reloadedRoot.ParentID)
	require.Equal(t, []string{child.ID}, []string(reloadedRoot.ChildrenIDs))
	reloadedChild, err := svc.GetTask(ctx, child.ID)
	require.NoError(t, err)
	require.Equal(t, root.ID, *reloadedChild.ParentID)
}

func TestListTasksCacheInvalidation(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)

	_, err = svc.CreateTask(ctx, baseCreate("t"), leader)
	require.NoError(t, err)

	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestInitialPercentageSnapshotImmutable(t *testing.T) {
	svc, _, db := newTestService(t)
	leader := actorFor(seedUser(t, db, "l1", identity.RoleLeader, "Acme", "Eng"))
	ctx := context.Background()

	start := 20.0
	req := baseCreate("t")
	req.Percentage = &start
	created, err := svc.CreateTask(ctx, req, leader)
	require.NoError(t, err)
	require.Equal(t, 20, *created.InitialPercentage)

	pct := 80.0
	updated, err := svc.SetLeafPercentage(ctx, created.ID, PercentageRequest{Percentage: &pct}, leader)
	require.NoError(t, err)
	require.Equal(t, 20, *updated.InitialPercentage)
	require.Equal(t, 80, updated.Percentage)
}
