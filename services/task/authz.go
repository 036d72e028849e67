package task

import (
	"fmt"

	"trackplane/pkg/errutil"
	"trackplane/services/identity"
)

// Machine-readable reason subcodes carried on authorization and
// validation failures, stable across the HTTP boundary.
const (
	ReasonTaskNotFound            = "TASK_NOT_FOUND"
	ReasonForbidden               = "FORBIDDEN"
	ReasonForbiddenCreate         = "FORBIDDEN_CREATE_TASK"
	ReasonForbiddenPatchField     = "FORBIDDEN_PATCH_FIELD"
	ReasonForbiddenScope          = "FORBIDDEN_SCOPE"
	ReasonForbiddenChain          = "FORBIDDEN_ASSIGNMENT_CHAIN"
	ReasonForbiddenMutation       = "FORBIDDEN_MUTATION"
	ReasonForbiddenAssignment     = "FORBIDDEN_ASSIGNMENT"
	ReasonSelfRemovalForbidden    = "SELF_REMOVAL_FORBIDDEN"
	ReasonCrossCompanyAssignment  = "CROSS_COMPANY_ASSIGNMENT"
	ReasonInvalidAssignee         = "INVALID_ASSIGNEE"
	ReasonCompanyMismatch         = "COMPANY_MISMATCH"
	ReasonDepartmentMismatch      = "DEPARTMENT_MISMATCH"
	ReasonAssigneeUserRequired    = "ASSIGNEE_USER_REQUIRED"
	ReasonMissingDueDate          = "MISSING_DUE_DATE"
	ReasonMissingFinalPercentage  = "MISSING_FINAL_PERCENTAGE"
	ReasonInvalidDueDate          = "INVALID_DUE_DATE"
	ReasonInvalidFinalPercentage  = "INVALID_FINAL_PERCENTAGE"
	ReasonInvalidPercentage       = "INVALID_PERCENTAGE"
	ReasonParentPercentageLocked  = "PARENT_PERCENTAGE_READ_ONLY"
	ReasonCycleDetected           = "CYCLE_DETECTED"
	ReasonReorderRequiresParent   = "REORDER_REQUIRES_PARENT"
	ReasonParentChildMismatch     = "PARENT_CHILD_MISMATCH"
	ReasonInvalidIndex            = "INVALID_INDEX"
)

// structuralRoles may create tasks and mutate the tree shape.
var structuralRoles = map[identity.Role]bool{
	identity.RoleGod:      true,
	identity.RoleLeader:   true,
	identity.RoleColeader: true,
	identity.RoleElder:    true,
}

// Patch field allowlists, keyed by the wire names of UpdateRequest
// fields. God and leader bypass the check entirely.
var (
	patchFieldsColeaderElder = map[string]bool{
		"percentage":        true,
		"addComment":        true,
		"assignedTo":        true,
		"assignedToUserIds": true,
	}
	patchFieldsMember = map[string]bool{
		"percentage": true,
		"addComment": true,
	}
)

// chainSensitiveFields are patch fields whose presence requires
// assignment chain authority regardless of role rank.
var chainSensitiveFields = map[string]bool{
	"name":             true,
	"company":          true,
	"department":       true,
	"ticketStatus":     true,
	"assignedBy":       true,
	"assignedDate":     true,
	"dueDate":          true,
	"targetPercentage": true,
	"finalPercentage":  true,
}

func assertCanCreate(actor *identity.Actor) error {
	if actor != nil && structuralRoles[actor.Role.Normalize()] {
		return nil
	}
	return errutil.Forbidden("you are not allowed to create tasks",
		errutil.WithReason(ReasonForbiddenCreate))
}

func assertCanMutateStructure(actor *identity.Actor) error {
	if actor != nil && structuralRoles[actor.Role.Normalize()] {
		return nil
	}
	return errutil.Forbidden("you are not allowed to mutate the task hierarchy",
		errutil.WithReason(ReasonForbiddenMutation))
}

// assertAllowedPatchFields rejects the whole patch if any present field
// falls outside the actor's allowlist.
func assertAllowedPatchFields(actor *identity.Actor, fields []string) error {
	role := actorRole(actor)
	if role == identity.RoleGod || role == identity.RoleLeader {
		return nil
	}
	allowed := patchFieldsColeaderElder
	if role == identity.RoleMember {
		allowed = patchFieldsMember
	}
	for _, field := range fields {
		if !allowed[field] {
			return errutil.Forbidden(fmt.Sprintf("you are not allowed to update '%s'", field),
				errutil.WithReason(ReasonForbiddenPatchField))
		}
	}
	return nil
}

// assertTaskScope confines non-god actors to their own company and
// members to tasks they are assigned to.
func assertTaskScope(actor *identity.Actor, t *Task) error {
	role := actorRole(actor)
	if role == identity.RoleGod {
		return nil
	}
	if role.Rank() == 0 {
		return errutil.Forbidden("missing actor role",
			errutil.WithReason(ReasonForbidden))
	}
	if actor.Company != "" && t.Company != "" && actor.Company != t.Company {
		return errutil.Forbidden("task is outside your company scope",
			errutil.WithReason(ReasonForbiddenScope))
	}
	if role == identity.RoleMember {
		if actor.ID == "" || !t.HasAssignee(actor.ID) {
			return errutil.Forbidden("members can only mutate assigned tasks",
				errutil.WithReason(ReasonForbiddenScope))
		}
	}
	return nil
}

// assertAssignerAuthority passes only when the actor is the original
// assigner or strictly outranks the assigner's recorded role. Missing
// identity or rank on either side fails closed.
func assertAssignerAuthority(actor *identity.Actor, t *Task) error {
	actorID := ""
	actorRank := 0
	if actor != nil {
		actorID = actor.ID
		actorRank = actor.Role.Rank()
	}
	assignerRank := t.AssignedByRole.Rank()
	if actorID == "" || t.AssignedByUserID == "" || actorRank == 0 || assignerRank == 0 {
		return errutil.Forbidden("task assignment chain is invalid",
			errutil.WithReason(ReasonForbiddenChain))
	}
	if actorID == t.AssignedByUserID || actorRank > assignerRank {
		return nil
	}
	return errutil.Forbidden("you cannot modify tasks assigned by a senior",
		errutil.WithReason(ReasonForbiddenChain))
}

// assertNoSelfRemoval blocks actors already on the assignee list from
// patching themselves off it.
func assertNoSelfRemoval(actor *identity.Actor, t *Task, nextAssigneeIDs []string) error {
	if actor == nil || actor.ID == "" {
		return nil
	}
	if !t.HasAssignee(actor.ID) {
		return nil
	}
	for _, id := range nextAssigneeIDs {
		if id == actor.ID {
			return nil
		}
	}
	return errutil.Forbidden("you cannot remove yourself from assignees",
		errutil.WithReason(ReasonSelfRemovalForbidden))
}

func requiresAssignerAuthority(fields []string) bool {
	for _, field := range fields {
		if chainSensitiveFields[field] {
			return true
		}
	}
	return false
}

func actorRole(actor *identity.Actor) identity.Role {
	if actor == nil {
		return ""
	}
	return actor.Role.Normalize()
}
