package model

// swagger:model Course
type Course struct {
	BaseModel
	UserID uint   `gorm:"index;uniqueIndex:idx_user_course" json:"userId"`
	Code   string `gorm:"size:20" json:"code"`
	Name   string `gorm:"size:100;not null;uniqueIndex:idx_user_course" json:"name"`
}

func (Course) TableName() string {
	return "courses"
}
