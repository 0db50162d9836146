package model

import "time"

// 角色
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// BaseModel 主键与审计时间（所有业务模型嵌入）
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"                          json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// All 返回全部模型，顺序即建表顺序（父表在前）
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&Instructor{},
		&Student{},
		&Course{},
		&Lesson{},
		&InstructorCourse{},
		&StudentCourse{},
		&CourseFeedback{},
		&StudentMark{},
		&Homework{},
	}
}
