package task

import (
	"context"

	"trackplane/pkg/errutil"
	"trackplane/services/identity"
)

// resolveAssignees loads and validates the proposed assignee set
// against the actor's assignment authority and the task's company and
// department scoping. Self-assignment bypasses the role and company
// rules. The returned users follow the order of assigneeIDs.
func resolveAssignees(ctx context.Context, repo Repository, actor *identity.Actor, assigneeIDs []string, company, department string) ([]identity.User, error) {
	if len(assigneeIDs) == 0 {
		return nil, nil
	}

	allowed := actorRole(actor).AssignableRoles()
	if len(allowed) == 0 {
		return nil, errutil.Forbidden("you are not allowed to assign tasks",
			errutil.WithReason(ReasonForbiddenAssignment))
	}
	allowedSet := make(map[identity.Role]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	users, err := repo.UsersByIDs(ctx, assigneeIDs)
	if err != nil {
		return nil, errutil.Internal("failed to load assignee users", errutil.WithErr(err))
	}
	if len(users) != len(assigneeIDs) {
		return nil, errutil.NotFound("one or more assignee users were not found",
			errutil.WithReason(ReasonInvalidAssignee))
	}

	byID := make(map[string]identity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, u := range users {
		if actor != nil && u.ID == actor.ID {
			continue
		}
		if !allowedSet[u.Role.Normalize()] {
			return nil, errutil.Forbidden("hierarchy rule prevents this assignment",
				errutil.WithReason(ReasonForbiddenAssignment))
		}
		if actorRole(actor) != identity.RoleGod && actor != nil && u.Company != actor.Company {
			return nil, errutil.Forbidden("assignee must belong to your company",
				errutil.WithReason(ReasonCrossCompanyAssignment))
		}
		if company != "" && u.Company != company {
			return nil, errutil.ValidationFailed("assignee does not belong to selected company",
				errutil.WithReason(ReasonCompanyMismatch))
		}
		if department != "" && u.Department != department {
			return nil, errutil.ValidationFailed("assignee does not belong to selected department",
				errutil.WithReason(ReasonDepartmentMismatch))
		}
	}

	ordered := make([]identity.User, 0, len(assigneeIDs))
	for _, id := range assigneeIDs {
		ordered = append(ordered, byID[id])
	}
	return ordered, nil
}

func assignmentLabels(users []identity.User) []string {
	labels := make([]string, 0, len(users))
	for i := range users {
		labels = append(labels, users[i].AssignmentLabel())
	}
	return labels
}

func userIDs(users []identity.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
