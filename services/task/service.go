package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trackplane/pkg/errutil"
	"trackplane/services/identity"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher fans out assignment notifications after a mutation
// commits. Delivery is best-effort and never rolls the mutation back.
type Dispatcher interface {
	NotifyAssignment(ctx context.Context, recipientIDs []string, taskID, message string) error
}

const listCacheTTL = 30 * time.Second

type Service struct {
	db         *gorm.DB
	node       *snowflake.Node
	repo       Repository
	cache      *ListCache
	dispatcher Dispatcher
}

type ServiceParams struct {
	fx.In
	DB         *gorm.DB
	Node       *snowflake.Node
	Dispatcher Dispatcher `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:         p.DB,
		node:       p.Node,
		repo:       NewRepository(p.DB),
		cache:      NewListCache(listCacheTTL),
		dispatcher: p.Dispatcher,
	}
}

func opLogger(ctx context.Context, op string) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return zap.L().With(
		zap.String("op", op),
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

func loadTask(ctx context.Context, repo Repository, id string) (*Task, error) {
	t, err := repo.Get(ctx, id)
	if err != nil {
		return nil, errutil.Internal("failed to load task", errutil.WithErr(err))
	}
	if t == nil {
		return nil, errutil.NotFound("task not found", errutil.WithReason(ReasonTaskNotFound))
	}
	return t, nil
}

func actorName(actor *identity.Actor) string {
	if actor != nil {
		if n := strings.TrimSpace(actor.Name); n != "" {
			return n
		}
	}
	return "System"
}

func taskContext(t *Task) string {
	return strings.Join(nonBlank([]string{t.Company, t.Department}), " / ")
}

func joinOrDash(parts []string) string {
	if joined := strings.Join(parts, ", "); joined != "" {
		return joined
	}
	return "-"
}

func floatOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// CreateTask inserts a task, optionally linking it under a parent. A
// child inherits the parent's assignment chain anchor so chain
// authority stays consistent across the subtree.
func (s *Service) CreateTask(ctx context.Context, req CreateRequest, actor *identity.Actor) (*Task, error) {
	log := opLogger(ctx, "task.create")
	if err := assertCanCreate(actor); err != nil {
		return nil, err
	}

	assigneeIDs := uniqStrings(req.AssignedToUserIDs)
	if len(nonBlank(req.AssignedTo)) > 0 && len(assigneeIDs) == 0 {
		return nil, errutil.ValidationFailed("assignedToUserIds is required for assignment",
			errutil.WithReason(ReasonAssigneeUserRequired))
	}
	if strings.TrimSpace(req.DueDate) == "" {
		return nil, errutil.ValidationFailed("final date (dueDate) is required",
			errutil.WithReason(ReasonMissingDueDate))
	}
	dueDate, ok := parseDate(req.DueDate)
	if !ok {
		return nil, errutil.ValidationFailed("final date (dueDate) is invalid",
			errutil.WithReason(ReasonInvalidDueDate))
	}
	target := req.TargetPercentage
	if target == nil {
		target = req.FinalPercentage
	}
	if target == nil {
		return nil, errutil.ValidationFailed("final percentage is required",
			errutil.WithReason(ReasonMissingFinalPercentage))
	}
	finalPct, ok := ClampPercentage(*target)
	if !ok {
		return nil, errutil.ValidationFailed("final percentage must be between 0 and 100",
			errutil.WithReason(ReasonInvalidFinalPercentage))
	}

	company := strings.TrimSpace(req.Company)
	department := strings.TrimSpace(req.Department)

	var created *Task
	var assignees []identity.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		id := s.node.Generate().String()

		var parent *Task
		if req.ParentID != "" {
			var err error
			parent, err = loadTask(ctx, repo, req.ParentID)
			if err != nil {
				return err
			}
			// The guard runs before any link is written, same as on move.
			if err := assertNoCycle(ctx, repo, id, parent.ID); err != nil {
				return err
			}
		}

		var err error
		assignees, err = resolveAssignees(ctx, repo, actor, assigneeIDs, company, department)
		if err != nil {
			return err
		}

		assignerName := actorName(actor)
		assignerID := ""
		var assignerRole identity.Role
		if actor != nil {
			assignerID = actor.ID
			assignerRole = actor.Role.Normalize()
		}
		if parent != nil {
			if len(parent.AssignedBy) > 0 && strings.TrimSpace(parent.AssignedBy[0]) != "" {
				assignerName = strings.TrimSpace(parent.AssignedBy[0])
			}
			if parent.AssignedByUserID != "" {
				assignerID = parent.AssignedByUserID
			}
			if r := parent.AssignedByRole.Normalize(); r != "" {
				assignerRole = r
			}
		}

		pct, ok := ClampPercentage(floatOrDefault(req.Percentage, 0))
		if !ok {
			pct = 0
		}
		initialSrc := req.InitialPercentage
		if initialSrc == nil {
			initialSrc = req.Percentage
		}
		initial, ok := ClampPercentage(floatOrDefault(initialSrc, 0))
		if !ok {
			initial = 0
		}

		var assignedDate *time.Time
		if strings.TrimSpace(req.AssignedDate) != "" {
			if d, ok := parseDate(req.AssignedDate); ok {
				assignedDate = &d
			}
		}

		assignedTo := nonBlank(req.AssignedTo)
		if len(assignees) > 0 {
			assignedTo = assignmentLabels(assignees)
		}

		origin := "root task"
		if parent != nil {
			origin = "child task"
		}

		t := &Task{
			ID:                id,
			Name:              req.Name,
			Company:           company,
			Department:        department,
			AssignedTo:        assignedTo,
			AssignedToUserIDs: userIDs(assignees),
			AssignedBy:        []string{assignerName},
			AssignedByUserID:  assignerID,
			AssignedByRole:    assignerRole,
			AssignedDate:      assignedDate,
			DueDate:           &dueDate,
			InitialPercentage: &initial,
			Percentage:        pct,
			FinalPercentage:   finalPct,
			StatusBucket:      BucketForPercentage(pct),
		}
		if parent != nil {
			pid := parent.ID
			t.ParentID = &pid
		}
		t.syncTicketStatus()
		t.appendComment(CommentAuto,
			fmt.Sprintf("Ticket created by %s (%s)", assignerName, origin),
			assignerName, "AUTO")

		if err := repo.Create(ctx, t); err != nil {
			log.Error("failed to create task", zap.Error(err))
			return errutil.Internal("failed to create task", errutil.WithErr(err))
		}

		if parent != nil {
			parent.ChildrenIDs = uniqStrings(append([]string(parent.ChildrenIDs), t.ID))
			if err := repo.Save(ctx, parent); err != nil {
				log.Error("failed to link child task", zap.Error(err))
				return errutil.Internal("failed to link child task", errutil.WithErr(err))
			}
			if err := recomputeUpward(ctx, repo, parent.ID); err != nil {
				return err
			}
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	if len(assignees) > 0 && actor != nil {
		msg := fmt.Sprintf("%s assigned %q", actorName(actor), created.Name)
		if c := taskContext(created); c != "" {
			msg += " (" + c + ")"
		}
		s.notify(ctx, log, userIDs(assignees), created.ID, msg)
	}
	return created, nil
}

// UpdateTask applies a partial patch under the role allowlist, scope
// and assignment chain rules, then replays derivation up the ancestor
// chain.
func (s *Service) UpdateTask(ctx context.Context, id string, req UpdateRequest, actor *identity.Actor) (*Task, error) {
	log := opLogger(ctx, "task.update")
	fields := req.fields()
	if err := assertAllowedPatchFields(actor, fields); err != nil {
		return nil, err
	}

	var updated *Task
	var notifyIDs []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		t, err := loadTask(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := assertTaskScope(actor, t); err != nil {
			return err
		}
		if requiresAssignerAuthority(fields) {
			if err := assertAssignerAuthority(actor, t); err != nil {
				return err
			}
		}

		changedMeta := false
		if req.Name != nil {
			t.Name = *req.Name
			changedMeta = true
		}
		if req.Company != nil {
			t.Company = *req.Company
			changedMeta = true
		}
		if req.Department != nil {
			t.Department = *req.Department
			changedMeta = true
		}
		if req.TicketStatus != nil {
			t.TicketStatus = TicketStatus(*req.TicketStatus)
			changedMeta = true
		}

		changedAssignment := false
		changedTimeline := false

		if req.AssignedTo != nil {
			nextIDs := uniqStrings(req.AssignedToUserIDs)
			if len(nonBlank(*req.AssignedTo)) > 0 && len(nextIDs) == 0 {
				return errutil.ValidationFailed("assignedToUserIds is required for assignment",
					errutil.WithReason(ReasonAssigneeUserRequired))
			}
			if err := assertNoSelfRemoval(actor, t, nextIDs); err != nil {
				return err
			}
			nextSet := make(map[string]bool, len(nextIDs))
			for _, nid := range nextIDs {
				nextSet[nid] = true
			}
			for _, prev := range t.AssignedToUserIDs {
				if !nextSet[prev] {
					if err := assertAssignerAuthority(actor, t); err != nil {
						return err
					}
					break
				}
			}
			company := strings.TrimSpace(t.Company)
			if req.Company != nil {
				company = strings.TrimSpace(*req.Company)
			}
			department := strings.TrimSpace(t.Department)
			if req.Department != nil {
				department = strings.TrimSpace(*req.Department)
			}
			users, err := resolveAssignees(ctx, repo, actor, nextIDs, company, department)
			if err != nil {
				return err
			}
			prevSet := make(map[string]bool, len(t.AssignedToUserIDs))
			for _, pid := range t.AssignedToUserIDs {
				prevSet[pid] = true
			}
			for _, u := range users {
				if !prevSet[u.ID] {
					notifyIDs = append(notifyIDs, u.ID)
				}
			}
			t.AssignedToUserIDs = userIDs(users)
			if len(users) > 0 {
				t.AssignedTo = assignmentLabels(users)
			} else {
				t.AssignedTo = *req.AssignedTo
			}
			changedAssignment = true
		}

		if req.AssignedDate != nil {
			t.AssignedDate = nil
			if d, ok := parseDate(*req.AssignedDate); ok {
				t.AssignedDate = &d
			}
			changedTimeline = true
		}
		if req.DueDate != nil {
			t.DueDate = nil
			if d, ok := parseDate(*req.DueDate); ok {
				t.DueDate = &d
			}
			changedTimeline = true
		}

		target := req.TargetPercentage
		if target == nil {
			target = req.FinalPercentage
		}
		if target != nil {
			pct, ok := ClampPercentage(*target)
			if !ok {
				return errutil.ValidationFailed("final percentage must be between 0 and 100",
					errutil.WithReason(ReasonInvalidPercentage))
			}
			t.FinalPercentage = pct
		}

		if req.Percentage != nil {
			if !t.IsLeaf() {
				return errutil.BadRequest("parent percentage is derived",
					errutil.WithReason(ReasonParentPercentageLocked))
			}
			if t.InitialPercentage == nil {
				snapshot := t.Percentage
				t.InitialPercentage = &snapshot
			}
			prevPct := t.Percentage
			prevBucket := t.StatusBucket
			pct, ok := ClampPercentage(*req.Percentage)
			if !ok {
				return errutil.ValidationFailed("percentage must be between 0 and 100",
					errutil.WithReason(ReasonInvalidPercentage))
			}
			t.Percentage = pct
			t.StatusBucket = BucketForPercentage(pct)
			t.syncTicketStatus()
			if prevPct != pct {
				t.appendLog(fmt.Sprintf("Completion updated %d%% -> %d%%", prevPct, pct))
			}
			if prevBucket != t.StatusBucket {
				t.appendLog(fmt.Sprintf("Status bucket moved %s -> %s", prevBucket, t.StatusBucket))
			}
		}

		if req.AddComment != nil {
			if msg := strings.TrimSpace(req.AddComment.Message); msg != "" {
				kind := CommentAuto
				if req.AddComment.Kind == string(CommentManual) {
					kind = CommentManual
				}
				t.appendComment(kind, msg, req.AddComment.Name, req.AddComment.EmployeeID)
			}
		}

		if changedAssignment {
			t.appendLog(fmt.Sprintf("Assignment updated (assignee: %s, assigned by: %s)",
				joinOrDash(t.AssignedTo), joinOrDash(t.AssignedBy)))
		}
		if changedTimeline {
			t.appendLog(fmt.Sprintf("Timeline updated (assigned date: %s, final date: %s)",
				formatDate(t.AssignedDate), formatDate(t.DueDate)))
		}
		if changedMeta {
			t.appendLog("Ticket metadata updated (name/department/status)")
		}

		// Ticket status always tracks completion, even after a direct
		// ticketStatus patch.
		t.syncTicketStatus()

		if err := repo.Save(ctx, t); err != nil {
			log.Error("failed to save task", zap.String("task_id", id), zap.Error(err))
			return errutil.Internal("failed to save task", errutil.WithErr(err))
		}
		if pid := t.parentID(); pid != "" {
			if err := recomputeUpward(ctx, repo, pid); err != nil {
				return err
			}
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	if len(notifyIDs) > 0 && actor != nil {
		msg := fmt.Sprintf("%s added you to %q", actorName(actor), updated.Name)
		if c := taskContext(updated); c != "" {
			msg += " (" + c + ")"
		}
		s.notify(ctx, log, notifyIDs, updated.ID, msg)
	}
	return updated, nil
}

// DeleteTask removes a task and its whole subtree, then re-derives the
// surviving ancestors.
func (s *Service) DeleteTask(ctx context.Context, id string, actor *identity.Actor) error {
	log := opLogger(ctx, "task.delete")
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := assertCanMutateStructure(actor); err != nil {
			return err
		}
		t, err := loadTask(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := assertTaskScope(actor, t); err != nil {
			return err
		}
		if err := assertAssignerAuthority(actor, t); err != nil {
			return err
		}

		ids, err := collectSubtree(ctx, repo, t.ID)
		if err != nil {
			return errutil.Internal("failed to collect subtree", errutil.WithErr(err))
		}
		if err := repo.Delete(ctx, ids); err != nil {
			log.Error("failed to delete subtree", zap.String("task_id", id), zap.Error(err))
			return errutil.Internal("failed to delete task", errutil.WithErr(err))
		}

		if pid := t.parentID(); pid != "" {
			parent, err := repo.Get(ctx, pid)
			if err != nil {
				return errutil.Internal("failed to load parent", errutil.WithErr(err))
			}
			if parent != nil {
				parent.ChildrenIDs = removeString(parent.ChildrenIDs, t.ID)
				if err := repo.Save(ctx, parent); err != nil {
					return errutil.Internal("failed to unlink child", errutil.WithErr(err))
				}
				if err := recomputeUpward(ctx, repo, parent.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate()
	log.Info("task deleted", zap.String("task_id", id))
	return nil
}

// ReorderTask moves a task to a new position among its siblings and
// returns the id of the parent whose child order changed.
func (s *Service) ReorderTask(ctx context.Context, id string, req ReorderRequest, actor *identity.Actor) (string, error) {
	var parentID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := assertCanMutateStructure(actor); err != nil {
			return err
		}
		t, err := loadTask(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := assertTaskScope(actor, t); err != nil {
			return err
		}
		if err := assertAssignerAuthority(actor, t); err != nil {
			return err
		}
		pid := t.parentID()
		if pid == "" {
			return errutil.BadRequest("root task reorder requires a parent context",
				errutil.WithReason(ReasonReorderRequiresParent))
		}

		parent, err := loadTask(ctx, repo, pid)
		if err != nil {
			return err
		}
		ids := []string(parent.ChildrenIDs)
		from := -1
		for i, cid := range ids {
			if cid == t.ID {
				from = i
				break
			}
		}
		if from == -1 {
			return errutil.Conflict("parent/child references are inconsistent",
				errutil.WithReason(ReasonParentChildMismatch))
		}
		if req.ToIndex < 0 || req.ToIndex >= len(ids) {
			return errutil.BadRequest("target index is invalid",
				errutil.WithReason(ReasonInvalidIndex))
		}

		ids = append(ids[:from], ids[from+1:]...)
		ids = append(ids[:req.ToIndex], append([]string{t.ID}, ids[req.ToIndex:]...)...)
		parent.ChildrenIDs = ids
		parent.appendLog(fmt.Sprintf("Child priority reordered for task %s", t.ID))
		if err := repo.Save(ctx, parent); err != nil {
			return errutil.Internal("failed to save parent", errutil.WithErr(err))
		}
		parentID = parent.ID
		return recomputeUpward(ctx, repo, parent.ID)
	})
	if err != nil {
		return "", err
	}
	s.cache.Invalidate()
	return parentID, nil
}

// MoveTask reparents a task, rejecting any move that would create a
// cycle before any link is rewritten. Both the old and the new ancestor
// chains are re-derived.
func (s *Service) MoveTask(ctx context.Context, id string, req MoveRequest, actor *identity.Actor) (*Task, error) {
	var moved *Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := assertCanMutateStructure(actor); err != nil {
			return err
		}
		t, err := loadTask(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := assertTaskScope(actor, t); err != nil {
			return err
		}
		if err := assertAssignerAuthority(actor, t); err != nil {
			return err
		}

		oldParentID := t.parentID()
		newParentID := req.NewParentID
		if err := assertNoCycle(ctx, repo, t.ID, newParentID); err != nil {
			return err
		}

		if oldParentID != "" {
			oldParent, err := repo.Get(ctx, oldParentID)
			if err != nil {
				return errutil.Internal("failed to load parent", errutil.WithErr(err))
			}
			if oldParent != nil {
				oldParent.ChildrenIDs = removeString(oldParent.ChildrenIDs, t.ID)
				oldParent.appendLog(fmt.Sprintf("Child task %s moved out", t.ID))
				if err := repo.Save(ctx, oldParent); err != nil {
					return errutil.Internal("failed to unlink child", errutil.WithErr(err))
				}
			}
		}

		if newParentID != "" {
			newParent, err := loadTask(ctx, repo, newParentID)
			if err != nil {
				return err
			}
			if err := assertTaskScope(actor, newParent); err != nil {
				return err
			}
			children := []string(newParent.ChildrenIDs)
			at := len(children)
			if req.InsertAt != nil {
				at = *req.InsertAt
				if at < 0 {
					at = 0
				}
				if at > len(children) {
					at = len(children)
				}
			}
			children = append(children[:at], append([]string{t.ID}, children[at:]...)...)
			newParent.ChildrenIDs = uniqStrings(children)
			newParent.appendLog(fmt.Sprintf("Child task %s moved in", t.ID))
			if err := repo.Save(ctx, newParent); err != nil {
				return errutil.Internal("failed to link child", errutil.WithErr(err))
			}
			t.ParentID = &newParentID
		} else {
			t.ParentID = nil
		}

		fromLabel := oldParentID
		if fromLabel == "" {
			fromLabel = "ROOT"
		}
		toLabel := newParentID
		if toLabel == "" {
			toLabel = "ROOT"
		}
		t.appendLog(fmt.Sprintf("Parent changed from %s to %s", fromLabel, toLabel))

		if err := repo.Save(ctx, t); err != nil {
			return errutil.Internal("failed to save task", errutil.WithErr(err))
		}
		if oldParentID != "" {
			if err := recomputeUpward(ctx, repo, oldParentID); err != nil {
				return err
			}
		}
		if newParentID != "" {
			if err := recomputeUpward(ctx, repo, newParentID); err != nil {
				return err
			}
		}
		moved = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return moved, nil
}

// SetLeafPercentage is the direct completion write on a leaf.
func (s *Service) SetLeafPercentage(ctx context.Context, id string, req PercentageRequest, actor *identity.Actor) (*Task, error) {
	log := opLogger(ctx, "task.set_percentage")
	if err := assertAllowedPatchFields(actor, []string{"percentage"}); err != nil {
		return nil, err
	}

	var updated *Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		t, err := loadTask(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := assertTaskScope(actor, t); err != nil {
			return err
		}
		if !t.IsLeaf() {
			return errutil.BadRequest("parent percentage is derived",
				errutil.WithReason(ReasonParentPercentageLocked))
		}
		if req.Percentage == nil {
			return errutil.ValidationFailed("percentage must be between 0 and 100",
				errutil.WithReason(ReasonInvalidPercentage))
		}
		if t.InitialPercentage == nil {
			snapshot := t.Percentage
			t.InitialPercentage = &snapshot
		}
		prevPct := t.Percentage
		prevBucket := t.StatusBucket
		pct, ok := ClampPercentage(*req.Percentage)
		if !ok {
			return errutil.ValidationFailed("percentage must be between 0 and 100",
				errutil.WithReason(ReasonInvalidPercentage))
		}
		t.Percentage = pct
		t.StatusBucket = BucketForPercentage(pct)
		t.syncTicketStatus()
		if prevPct != pct {
			t.appendLog(fmt.Sprintf("Completion updated %d%% -> %d%%", prevPct, pct))
		}
		if prevBucket != t.StatusBucket {
			t.appendLog(fmt.Sprintf("Status bucket moved %s -> %s", prevBucket, t.StatusBucket))
		}
		if err := repo.Save(ctx, t); err != nil {
			log.Error("failed to save task", zap.String("task_id", id), zap.Error(err))
			return errutil.Internal("failed to save task", errutil.WithErr(err))
		}
		if pid := t.parentID(); pid != "" {
			if err := recomputeUpward(ctx, repo, pid); err != nil {
				return err
			}
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return updated, nil
}

// SetLeafBucket sets a leaf into a bucket by applying that bucket's
// default percentage.
func (s *Service) SetLeafBucket(ctx context.Context, id string, req BucketRequest, actor *identity.Actor) (*Task, error) {
	pct := float64(DefaultPercentageForBucket(StatusBucket(strings.TrimSpace(req.StatusBucket))))
	return s.SetLeafPercentage(ctx, id, PercentageRequest{Percentage: &pct}, actor)
}

func (s *Service) GetTask(ctx context.Context, id string) (*Task, error) {
	return loadTask(ctx, s.repo, id)
}

// ListTasks returns every task ordered by last update, served from the
// list cache between mutations.
func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	return s.cache.Get(ctx, func(ctx context.Context) ([]Task, error) {
		tasks, err := s.repo.List(ctx)
		if err != nil {
			return nil, errutil.Internal("failed to list tasks", errutil.WithErr(err))
		}
		return tasks, nil
	})
}

func (s *Service) notify(ctx context.Context, log *zap.Logger, recipientIDs []string, taskID, message string) {
	if s.dispatcher == nil || len(recipientIDs) == 0 {
		return
	}
	if err := s.dispatcher.NotifyAssignment(ctx, recipientIDs, taskID, message); err != nil {
		log.Warn("assignment notification failed", zap.String("task_id", taskID), zap.Error(err))
	}
}

func removeString(in []string, target string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}
