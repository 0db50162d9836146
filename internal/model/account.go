package model

import "gorm.io/datatypes"

// Account 三类账户的公共字段
type Account struct {
	FirstName    string `gorm:"type:varchar(100);not null"            json:"first_name"`
	LastName     string `gorm:"type:varchar(100);not null"            json:"last_name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	HashPassword string `gorm:"type:varchar(255);not null"            json:"-"`
	IsActive     bool   `gorm:"not null;default:false"                json:"is_active"`
	Role         string `gorm:"type:varchar(20);not null"             json:"role"`
}

// Principal 任一账户类型
type Principal interface {
	PrincipalID() uint
	AccountInfo() *Account
}

// Admin 管理员 — 对应 admins
type Admin struct {
	BaseModel
	Account
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }

func (a *Admin) PrincipalID() uint { return a.ID }
func (a *Admin) AccountInfo() *Account { return &a.Account }

// Instructor 讲师 — 对应 instructors
type Instructor struct {
	BaseModel
	Account
	Position string `gorm:"type:varchar(100);not null;default:''" json:"position"`
}

// TableName 指定表名
func (Instructor) TableName() string { return "instructors" }

func (i *Instructor) PrincipalID() uint { return i.ID }
func (i *Instructor) AccountInfo() *Account { return &i.Account }

// Student 学生 — 对应 students
type Student struct {
	BaseModel
	Account
	BirthDate *datatypes.Date `gorm:"type:date" json:"birth_date,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

func (s *Student) PrincipalID() uint { return s.ID }
func (s *Student) AccountInfo() *Account { return &s.Account }
