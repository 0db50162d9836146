package model

// Course 课程 — 对应 courses
type Course struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	IsPublished bool   `gorm:"not null;default:false"     json:"is_published"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Lesson 课时 — 对应 lessons，随课程级联删除
type Lesson struct {
	BaseModel
	CourseID    uint   `gorm:"not null;index"                json:"course_id"`
	Title       string `gorm:"type:varchar(255);not null"    json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	HighestMark int    `gorm:"not null"                      json:"highest_mark"`

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// TableName 指定表名
func (Lesson) TableName() string { return "lessons" }
