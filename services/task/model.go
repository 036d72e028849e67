package task

import (
	"time"

	"trackplane/services/identity"

	"gorm.io/datatypes"
)

// StatusBucket is the coarse progress state derived from a task's
// percentage, with a descendant-completeness override on Completed.
type StatusBucket string

const (
	BucketNotStarted StatusBucket = "Not Started"
	BucketOnHold     StatusBucket = "On Hold"
	BucketInProgress StatusBucket = "In Progress"
	BucketCompleted  StatusBucket = "Completed"
)

type TicketStatus string

const (
	TicketOpen   TicketStatus = "Open"
	TicketClosed TicketStatus = "Closed"
)

type CommentKind string

const (
	CommentAuto   CommentKind = "auto"
	CommentManual CommentKind = "manual"
)

// Comment is one entry of the append-only audit log embedded in a task.
// Entries are never edited or removed except via whole-task deletion.
type Comment struct {
	Kind       CommentKind `json:"kind"`
	Message    string      `json:"message"`
	Name       string      `json:"name"`
	EmployeeID string      `json:"employeeId"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type Task struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Name       string `gorm:"column:name" json:"name"`
	Company    string `gorm:"column:company" json:"company"`
	Department string `gorm:"column:department" json:"department"`

	// Assignment chain: who the task is assigned to, and the anchor
	// (assigner id + role at assignment time) gating later mutations.
	AssignedTo        datatypes.JSONSlice[string] `gorm:"column:assigned_to" json:"assignedTo"`
	AssignedToUserIDs datatypes.JSONSlice[string] `gorm:"column:assigned_to_user_ids" json:"assignedToUserIds"`
	AssignedBy        datatypes.JSONSlice[string] `gorm:"column:assigned_by" json:"assignedBy"`
	AssignedByUserID  string                      `gorm:"column:assigned_by_user_id;index" json:"assignedByUserId"`
	AssignedByRole    identity.Role               `gorm:"column:assigned_by_role" json:"assignedByRole"`

	AssignedDate *time.Time `gorm:"column:assigned_date" json:"assignedDate"`
	DueDate      *time.Time `gorm:"column:due_date" json:"dueDate"`

	// Percentage is authoritative input on a leaf and derived on a
	// parent. InitialPercentage is the immutable snapshot captured at
	// the first percentage assignment; FinalPercentage is the
	// informational target.
	InitialPercentage *int `gorm:"column:initial_percentage" json:"initialPercentage"`
	Percentage        int  `gorm:"column:percentage" json:"percentage"`
	FinalPercentage   int  `gorm:"column:final_percentage" json:"finalPercentage"`

	TicketStatus TicketStatus `gorm:"column:ticket_status" json:"ticketStatus"`
	StatusBucket StatusBucket `gorm:"column:status_bucket;index" json:"statusBucket"`

	ParentID    *string                     `gorm:"column:parent_id;index" json:"parentId"`
	ChildrenIDs datatypes.JSONSlice[string] `gorm:"column:children_ids" json:"childrenIds"`

	Comments datatypes.JSONSlice[Comment] `gorm:"column:comments" json:"comments"`
}

func (t *Task) IsLeaf() bool {
	return len(t.ChildrenIDs) == 0
}

func (t *Task) HasAssignee(userID string) bool {
	for _, id := range t.AssignedToUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (t *Task) parentID() string {
	if t.ParentID == nil {
		return ""
	}
	return *t.ParentID
}

// appendLog appends a system-authored audit entry.
func (t *Task) appendLog(message string) {
	t.appendComment(CommentAuto, message, "System", "AUTO")
}

func (t *Task) appendComment(kind CommentKind, message, name, employeeID string) {
	t.Comments = append(t.Comments, Comment{
		Kind:       kind,
		Message:    message,
		Name:       name,
		EmployeeID: employeeID,
		CreatedAt:  time.Now().UTC(),
	})
}

// syncTicketStatus keeps ticket status a pure function of completion.
func (t *Task) syncTicketStatus() {
	t.TicketStatus = ticketStatusFor(t.Percentage)
}
