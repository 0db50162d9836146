package model

import "gorm.io/datatypes"

// HomeworkMeta 上传文件的元信息
type HomeworkMeta struct {
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// Homework 作业文件 — 对应 homeworks，每个 (student, lesson) 仅一份
type Homework struct {
	BaseModel
	StudentID uint                             `gorm:"not null;uniqueIndex:uq_homework" json:"student_id"`
	LessonID  uint                             `gorm:"not null;uniqueIndex:uq_homework" json:"lesson_id"`
	FilePath  string                           `gorm:"type:varchar(1024);not null"      json:"-"`
	Meta      datatypes.JSONType[HomeworkMeta] `gorm:"not null"                         json:"meta"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Lesson  *Lesson  `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"  json:"lesson,omitempty"`
}

// TableName 指定表名
func (Homework) TableName() string { return "homeworks" }
