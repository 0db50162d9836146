package model

// InstructorCourse 讲师-课程关联，(course_id, instructor_id) 唯一
type InstructorCourse struct {
	BaseModel
	CourseID     uint `gorm:"not null;uniqueIndex:uq_instructor_course" json:"course_id"`
	InstructorID uint `gorm:"not null;uniqueIndex:uq_instructor_course" json:"instructor_id"`

	// 关联
	Course     *Course     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"     json:"course,omitempty"`
	Instructor *Instructor `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"instructor,omitempty"`
}

// TableName 指定表名
func (InstructorCourse) TableName() string { return "instructor_courses" }

// StudentCourse 学生-课程关联，(course_id, student_id) 唯一
// FinalMark / IsCoursePass 暂无计算逻辑，保持为空
type StudentCourse struct {
	BaseModel
	CourseID     uint  `gorm:"not null;uniqueIndex:uq_student_course" json:"course_id"`
	StudentID    uint  `gorm:"not null;uniqueIndex:uq_student_course;index" json:"student_id"`
	FinalMark    *int  `json:"final_mark"`
	IsCoursePass *bool `json:"is_course_pass"`

	// 关联
	Course  *Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"  json:"course,omitempty"`
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

// TableName 指定表名
func (StudentCourse) TableName() string { return "student_courses" }

// CourseFeedback 讲师对学生的课程评语，每个 (course, instructor, student) 仅一条
type CourseFeedback struct {
	BaseModel
	CourseID     uint   `gorm:"not null;uniqueIndex:uq_course_feedback" json:"course_id"`
	InstructorID uint   `gorm:"not null;uniqueIndex:uq_course_feedback" json:"instructor_id"`
	StudentID    uint   `gorm:"not null;uniqueIndex:uq_course_feedback" json:"student_id"`
	Text         string `gorm:"type:text;not null"                      json:"text"`

	// 关联
	Course     *Course     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"     json:"course,omitempty"`
	Instructor *Instructor `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"instructor,omitempty"`
	Student    *Student    `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"    json:"student,omitempty"`
}

// TableName 指定表名
func (CourseFeedback) TableName() string { return "course_feedbacks" }

// StudentMark 课时成绩，每个 (student, lesson) 仅一条
type StudentMark struct {
	BaseModel
	StudentID uint `gorm:"not null;uniqueIndex:uq_student_mark" json:"student_id"`
	LessonID  uint `gorm:"not null;uniqueIndex:uq_student_mark" json:"lesson_id"`
	Mark      int  `gorm:"not null"                            json:"mark"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Lesson  *Lesson  `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"  json:"lesson,omitempty"`
}

// TableName 指定表名
func (StudentMark) TableName() string { return "student_marks" }
