package model

import (
	"time"
)

type GapSeverity string

const (
	SeverityCritical   GapSeverity = "critical"
	SeverityModerate   GapSeverity = "moderate"
	SeverityManageable GapSeverity = "manageable"
)

type GapUrgency string

const (
	UrgencyImmediate GapUrgency = "immediate"
	UrgencyHigh      GapUrgency = "high"
	UrgencyMedium    GapUrgency = "medium"
	UrgencyLow       GapUrgency = "low"
)

// GapKey identifies one skill gap by its owning course and skill. It is
// carried as a pair everywhere; the concatenated form is display-only and is
// never split back.
type GapKey struct {
	CourseName string `json:"courseName"`
	SkillName  string `json:"skillName"`
}

func (k GapKey) String() string {
	return k.CourseName + "-" + k.SkillName
}

// SeverityRank orders severities for sorting, most severe first.
func SeverityRank(s GapSeverity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityModerate:
		return 1
	default:
		return 2
	}
}

// UrgencyRank orders urgencies for sorting, most urgent first.
func UrgencyRank(u GapUrgency) int {
	switch u {
	case UrgencyImmediate:
		return 0
	case UrgencyHigh:
		return 1
	case UrgencyMedium:
		return 2
	default:
		return 3
	}
}

// SkillGapStatus is the persisted fixed flag for one gap. One row per
// user/course/skill keeps mark-fixed writes row-scoped instead of racing on a
// shared document.
type SkillGapStatus struct {
	BaseModel
	UserID     uint       `gorm:"index;uniqueIndex:idx_user_gap" json:"userId"`
	CourseName string     `gorm:"size:100;uniqueIndex:idx_user_gap" json:"courseName"`
	SkillName  string     `gorm:"size:100;uniqueIndex:idx_user_gap" json:"skillName"`
	IsFixed    bool       `gorm:"default:false" json:"isFixed"`
	FixedAt    *time.Time `json:"fixedAt,omitempty"`
}

func (SkillGapStatus) TableName() string {
	return "skill_gap_statuses"
}

// SkillGap is the aggregated view of one gap: assessment result joined with
// static metadata, fixed status and any linked action plan. Derived, never
// persisted.
// swagger:model SkillGap
type SkillGap struct {
	Key           GapKey      `json:"key"`
	SkillName     string      `json:"skillName"`
	CourseCode    string      `json:"courseCode"`
	CourseName    string      `json:"courseName"`
	Severity      GapSeverity `json:"severity"`
	Urgency       GapUrgency  `json:"urgency"`
	DaysToAddress int         `json:"daysToAddress"`
	Blocks        []string    `json:"blocks"`
	Reason        string      `json:"reason"`
	Impact        string      `json:"impact"`
	Performance   TopicScore  `json:"performance"`
	PlanID        string      `json:"planId,omitempty"`
	Progress      float64     `json:"progress"`
	IsFixed       bool        `json:"isFixed"`
	MetaKnown     bool        `json:"metaKnown"`
	CreatedAt     time.Time   `json:"createdAt"`
	FixedAt       *time.Time  `json:"fixedAt,omitempty"`
}
