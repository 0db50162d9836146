// Package testutil 测试共用的数据库与数据构造工具
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/database"
)

// NewDB 创建独立的内存 sqlite 数据库（开启外键），测试结束自动关闭
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), gormlogger.Silent)
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	return db
}

// ── 数据构造 ──

func account(role, email string, active bool) model.Account {
	return model.Account{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		HashPassword: "$2a$10$placeholder",
		IsActive:     active,
		Role:         role,
	}
}

// CreateAdmin 创建管理员
func CreateAdmin(t *testing.T, db *gorm.DB, email string) *model.Admin {
	t.Helper()
	a := &model.Admin{Account: account(model.RoleAdmin, email, true)}
	mustCreate(t, db, a)
	return a
}

// CreateInstructor 创建已激活讲师
func CreateInstructor(t *testing.T, db *gorm.DB, email string) *model.Instructor {
	t.Helper()
	i := &model.Instructor{Account: account(model.RoleInstructor, email, true), Position: "lecturer"}
	mustCreate(t, db, i)
	return i
}

// CreateStudent 创建已激活学生
func CreateStudent(t *testing.T, db *gorm.DB, email string) *model.Student {
	t.Helper()
	s := &model.Student{Account: account(model.RoleStudent, email, true)}
	mustCreate(t, db, s)
	return s
}

// CreateCourse 创建课程并附带 lessons 个课时
func CreateCourse(t *testing.T, db *gorm.DB, title string, lessons int) *model.Course {
	t.Helper()
	c := &model.Course{Title: title}
	mustCreate(t, db, c)
	for i := 0; i < lessons; i++ {
		CreateLesson(t, db, c.ID, 10)
	}
	return c
}

// CreateLesson 创建课时
func CreateLesson(t *testing.T, db *gorm.DB, courseID uint, highestMark int) *model.Lesson {
	t.Helper()
	l := &model.Lesson{CourseID: courseID, Title: "lesson", HighestMark: highestMark}
	mustCreate(t, db, l)
	return l
}

// Assign 指派讲师
func Assign(t *testing.T, db *gorm.DB, courseID, instructorID uint) {
	t.Helper()
	mustCreate(t, db, &model.InstructorCourse{CourseID: courseID, InstructorID: instructorID})
}

// Enroll 学生选课
func Enroll(t *testing.T, db *gorm.DB, courseID, studentID uint) {
	t.Helper()
	mustCreate(t, db, &model.StudentCourse{CourseID: courseID, StudentID: studentID})
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.WithContext(context.Background()).Create(v).Error; err != nil {
		t.Fatalf("创建测试数据 %T 失败: %v", v, err)
	}
}
