package model

import (
	"time"

	"gorm.io/datatypes"
)

type PlanStatus string

const (
	PlanNotStarted PlanStatus = "not_started"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
)

type PlanPriority string

const (
	PriorityCritical PlanPriority = "critical"
	PriorityHigh     PlanPriority = "high"
	PriorityMedium   PlanPriority = "medium"
)

// PriorityFromSeverity derives a plan's priority from the originating gap's
// severity at creation time. It is not kept in sync afterwards.
func PriorityFromSeverity(s GapSeverity) PlanPriority {
	switch s {
	case SeverityCritical:
		return PriorityCritical
	case SeverityModerate:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

type TaskType string

const (
	TaskDaily  TaskType = "daily"
	TaskWeekly TaskType = "weekly"
)

// TaskResource is a study resource attached to a task. Type-specific fields
// are optional and zero when not applicable.
type TaskResource struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Duration int    `json:"duration,omitempty"` // video minutes
	ReadTime int    `json:"readTime,omitempty"` // article minutes
	Problems int    `json:"problems,omitempty"` // practice set size
}

// swagger:model ActionPlan
type ActionPlan struct {
	UUIDBase
	UserID         uint         `gorm:"index" json:"userId"`
	Title          string       `gorm:"size:255;not null" json:"title"`
	CourseCode     string       `gorm:"size:20" json:"courseCode"`
	CourseName     string       `gorm:"size:100;index" json:"courseName"`
	SkillName      string       `gorm:"size:100;index" json:"skillName"`
	Priority       PlanPriority `gorm:"size:20" json:"priority"`
	DueDate        time.Time    `json:"dueDate"`
	EstimatedHours float64      `gorm:"default:0" json:"estimatedHours"`
	CompletedHours float64      `gorm:"default:0" json:"completedHours"`
	WeeklyHours    float64      `gorm:"default:0" json:"weeklyHours"`
	Status         PlanStatus   `gorm:"size:20;default:'not_started'" json:"status"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
	Tasks          []PlanTask   `gorm:"foreignKey:PlanID" json:"tasks,omitempty"`
}

func (ActionPlan) TableName() string {
	return "action_plans"
}

// GapKey returns the key of the skill gap this plan was created for.
func (p *ActionPlan) GapKey() GapKey {
	return GapKey{CourseName: p.CourseName, SkillName: p.SkillName}
}

// PlanTask is one task inside an action plan.
type PlanTask struct {
	UUIDBase
	PlanID        string                            `gorm:"index;type:varchar(36)" json:"planId"`
	Title         string                            `gorm:"size:255;not null" json:"title"`
	Description   string                            `gorm:"type:text" json:"description"`
	Type          TaskType                          `gorm:"size:10;default:'daily'" json:"type"`
	EstimatedTime int                               `gorm:"default:0" json:"estimatedTime"` // minutes
	Completed     bool                              `gorm:"default:false" json:"completed"`
	CompletedDate *time.Time                        `json:"completedDate,omitempty"`
	DueDate       *time.Time                        `json:"dueDate,omitempty"`
	Resources     datatypes.JSONSlice[TaskResource] `json:"resources"`
}

func (PlanTask) TableName() string {
	return "plan_tasks"
}
