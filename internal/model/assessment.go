package model

import (
	"time"

	"gorm.io/datatypes"
)

type AssessmentStatus string

const (
	AssessmentPending   AssessmentStatus = "pending"
	AssessmentCompleted AssessmentStatus = "completed"
)

// TopicScore holds per-topic answer counts from a quiz.
type TopicScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Assessment is the current quiz result for one user/course pair. A
// reassessment overwrites the row rather than appending history.
// swagger:model Assessment
type Assessment struct {
	BaseModel
	UserID           uint                                      `gorm:"index" json:"userId"`
	CourseID         uint                                      `gorm:"uniqueIndex" json:"courseId"`
	CourseName       string                                    `gorm:"size:100" json:"courseName"`
	Status           AssessmentStatus                          `gorm:"size:20;default:'pending'" json:"status"`
	Score            float64                                   `gorm:"default:0" json:"score"`
	CompletedAt      *time.Time                                `json:"completedAt,omitempty"`
	SkillGaps        datatypes.JSONSlice[string]               `json:"skillGaps"`
	TopicPerformance datatypes.JSONType[map[string]TopicScore] `json:"topicPerformance"`
	TotalQuestions   int                                       `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers   int                                       `gorm:"default:0" json:"correctAnswers"`
	SkillGapProgress float64                                   `gorm:"default:0" json:"skillGapProgress"`
	CanReassess      bool                                      `gorm:"default:false" json:"canReassess"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// QuizQuestion is one generated question, either from the text-generation
// endpoint or the static fallback set.
// swagger:model QuizQuestion
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
	Topic    string   `json:"topic"`
}
