package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/testutil"
)

func TestGradebook_CourseNotFound(t *testing.T) {
	env := newTestEnv(t)
	if _, _, err := env.svc.Export.Gradebook(context.Background(), 999); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestGradebook_Content(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course := testutil.CreateCourse(t, env.db, "Go", 0)
	l1 := testutil.CreateLesson(t, env.db, course.ID, 10)
	testutil.CreateLesson(t, env.db, course.ID, 20)
	inst := testutil.CreateInstructor(t, env.db, "inst@email.com")
	stu := testutil.CreateStudent(t, env.db, "stu@email.com")
	testutil.Assign(t, env.db, course.ID, inst.ID)
	testutil.Enroll(t, env.db, course.ID, stu.ID)

	if _, err := env.svc.Grading.PutMark(ctx, inst.ID, stu.ID, l1.ID, course.ID, 9); err != nil {
		t.Fatalf("PutMark 失败: %v", err)
	}

	buf, filename, err := env.svc.Export.Gradebook(ctx, course.ID)
	if err != nil {
		t.Fatalf("Gradebook 失败: %v", err)
	}
	if filename == "" {
		t.Error("文件名不应为空")
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法解析生成的 Excel: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "Go",
		"A2": "ID",
		"D2": "lesson (/10)",
		"E2": "lesson (/20)",
		"F2": "Final mark",
		"G2": "Passed",
		"C3": "stu@email.com",
		"D3": "9",
		"E3": "",
	}
	for axis, want := range checks {
		got, err := f.GetCellValue("Gradebook", axis)
		if err != nil {
			t.Fatalf("读取 %s 失败: %v", axis, err)
		}
		if got != want {
			t.Errorf("%s 期望=%q，实际=%q", axis, want, got)
		}
	}
}
