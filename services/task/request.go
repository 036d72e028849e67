package task

import (
	"strings"
	"time"
)

// CommentInput is a caller-supplied audit entry. Anything other than an
// explicit manual type is stored as auto.
type CommentInput struct {
	Kind       string `json:"type"`
	Message    string `json:"message"`
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
}

type CreateRequest struct {
	Name              string   `json:"name"`
	Company           string   `json:"company"`
	Department        string   `json:"department"`
	AssignedTo        []string `json:"assignedTo"`
	AssignedToUserIDs []string `json:"assignedToUserIds"`
	AssignedDate      string   `json:"assignedDate"`
	DueDate           string   `json:"dueDate"`
	Percentage        *float64 `json:"percentage"`
	InitialPercentage *float64 `json:"initialPercentage"`
	TargetPercentage  *float64 `json:"targetPercentage"`
	FinalPercentage   *float64 `json:"finalPercentage"`
	ParentID          string   `json:"parentId"`
}

// UpdateRequest is a partial patch. Pointer fields distinguish absent
// from explicitly supplied; date strings clear their column when empty.
type UpdateRequest struct {
	Name              *string       `json:"name"`
	Company           *string       `json:"company"`
	Department        *string       `json:"department"`
	TicketStatus      *string       `json:"ticketStatus"`
	AssignedTo        *[]string     `json:"assignedTo"`
	AssignedToUserIDs []string      `json:"assignedToUserIds"`
	AssignedBy        *[]string     `json:"assignedBy"`
	AssignedDate      *string       `json:"assignedDate"`
	DueDate           *string       `json:"dueDate"`
	TargetPercentage  *float64      `json:"targetPercentage"`
	FinalPercentage   *float64      `json:"finalPercentage"`
	Percentage        *float64      `json:"percentage"`
	AddComment        *CommentInput `json:"addComment"`
}

// fields lists the wire names of every present patch field, feeding the
// role allowlist and the chain sensitivity check.
func (r *UpdateRequest) fields() []string {
	var out []string
	add := func(present bool, name string) {
		if present {
			out = append(out, name)
		}
	}
	add(r.Name != nil, "name")
	add(r.Company != nil, "company")
	add(r.Department != nil, "department")
	add(r.TicketStatus != nil, "ticketStatus")
	add(r.AssignedTo != nil, "assignedTo")
	add(r.AssignedToUserIDs != nil, "assignedToUserIds")
	add(r.AssignedBy != nil, "assignedBy")
	add(r.AssignedDate != nil, "assignedDate")
	add(r.DueDate != nil, "dueDate")
	add(r.TargetPercentage != nil, "targetPercentage")
	add(r.FinalPercentage != nil, "finalPercentage")
	add(r.Percentage != nil, "percentage")
	add(r.AddComment != nil, "addComment")
	return out
}

type MoveRequest struct {
	NewParentID string `json:"newParentId"`
	InsertAt    *int   `json:"insertAt"`
}

type ReorderRequest struct {
	ToIndex int `json:"toIndex"`
}

type PercentageRequest struct {
	Percentage *float64 `json:"percentage"`
}

type BucketRequest struct {
	StatusBucket string `json:"statusBucket"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts RFC3339 timestamps or plain calendar dates.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
