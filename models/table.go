package models

import "time"

// TableAssignment - категория, под которую отдан стол. Помимо категорий матчей
// допускает "Both" и "Available".
type TableAssignment string

const (
	TableAssignmentBoth      TableAssignment = "Both"
	TableAssignmentAvailable TableAssignment = "Available"
	TableAssignmentNone      TableAssignment = "None"
)

// Accepts сообщает, можно ли поставить на стол матч указанной категории.
func (a TableAssignment) Accepts(category Category) bool {
	switch a {
	case TableAssignmentBoth, TableAssignmentAvailable:
		return true
	default:
		return string(a) == string(category)
	}
}

type PlayTable struct {
	ID                 int             `json:"id" db:"id"`
	Name               string          `json:"name" db:"name"`
	AssignedCategory   TableAssignment `json:"assigned_category" db:"assigned_category"`
	CurrentAssignment  TableAssignment `json:"current_assignment" db:"current_assignment"`
	PriorityAssignment TableAssignment `json:"priority_assignment" db:"priority_assignment"`
	Notes              *string         `json:"notes,omitempty" db:"notes"`
	SortOrder          int             `json:"sort_order" db:"sort_order"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// EffectiveAssignment - текущее назначение стола, а если оно не задано, то исходное.
func (t *PlayTable) EffectiveAssignment() TableAssignment {
	if t.CurrentAssignment != "" {
		return t.CurrentAssignment
	}
	if t.AssignedCategory != "" {
		return t.AssignedCategory
	}
	return TableAssignmentBoth
}
