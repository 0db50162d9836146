package service

import (
	"context"
	"errors"
	"testing"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/testutil"
)

// gradingFixture 讲师任教、学生已选的课程及其一个课时（满分 10）
type gradingFixture struct {
	env    *testEnv
	inst   *model.Instructor
	stu    *model.Student
	course *model.Course
	lesson *model.Lesson
}

func newGradingFixture(t *testing.T) *gradingFixture {
	t.Helper()
	env := newTestEnv(t)
	inst := testutil.CreateInstructor(t, env.db, "inst@email.com")
	stu := testutil.CreateStudent(t, env.db, "stu@email.com")
	course := testutil.CreateCourse(t, env.db, "Go", 0)
	lesson := testutil.CreateLesson(t, env.db, course.ID, 10)
	testutil.Assign(t, env.db, course.ID, inst.ID)
	testutil.Enroll(t, env.db, course.ID, stu.ID)
	return &gradingFixture{env: env, inst: inst, stu: stu, course: course, lesson: lesson}
}

func TestPutMark_Success(t *testing.T) {
	f := newGradingFixture(t)
	ctx := context.Background()

	sm, err := f.env.svc.Grading.PutMark(ctx, f.inst.ID, f.stu.ID, f.lesson.ID, f.course.ID, 10)
	if err != nil {
		t.Fatalf("PutMark 失败: %v", err)
	}
	if sm.Mark != 10 {
		t.Errorf("期望 mark=10，实际=%d", sm.Mark)
	}

	marks, err := f.env.svc.Enrollment.ListMarks(ctx, f.stu.ID, f.course.ID)
	if err != nil {
		t.Fatalf("ListMarks 失败: %v", err)
	}
	if len(marks) != 1 || marks[0].Lesson == nil || marks[0].Lesson.ID != f.lesson.ID {
		t.Errorf("学生成绩列表不匹配: %+v", marks)
	}
}

func TestPutMark_ScopeNotFound(t *testing.T) {
	f := newGradingFixture(t)
	ctx := context.Background()

	otherCourse := testutil.CreateCourse(t, f.env.db, "Other", 0)
	otherInst := testutil.CreateInstructor(t, f.env.db, "other-inst@email.com")
	otherStu := testutil.CreateStudent(t, f.env.db, "other-stu@email.com")

	cases := []struct {
		name                         string
		instID, stuID, lessonID, cID uint
	}{
		{"课时不属于该课程", f.inst.ID, f.stu.ID, f.lesson.ID, otherCourse.ID},
		{"讲师未任教", otherInst.ID, f.stu.ID, f.lesson.ID, f.course.ID},
		{"学生未选课", f.inst.ID, otherStu.ID, f.lesson.ID, f.course.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.env.svc.Grading.PutMark(ctx, tc.instID, tc.stuID, tc.lessonID, tc.cID, 5)
			if !errors.Is(err, ErrLessonScopeNotFound) {
				t.Errorf("期望 ErrLessonScopeNotFound，实际: %v", err)
			}
		})
	}
}

func TestPutMark_TooHighAndDuplicate(t *testing.T) {
	f := newGradingFixture(t)
	ctx := context.Background()

	if _, err := f.env.svc.Grading.PutMark(ctx, f.inst.ID, f.stu.ID, f.lesson.ID, f.course.ID, 11); !errors.Is(err, ErrMarkTooHigh) {
		t.Errorf("期望 ErrMarkTooHigh，实际: %v", err)
	}
	if _, err := f.env.svc.Grading.PutMark(ctx, f.inst.ID, f.stu.ID, f.lesson.ID, f.course.ID, 7); err != nil {
		t.Fatalf("PutMark 失败: %v", err)
	}
	if _, err := f.env.svc.Grading.PutMark(ctx, f.inst.ID, f.stu.ID, f.lesson.ID, f.course.ID, 8); !errors.Is(err, ErrAlreadyMarked) {
		t.Errorf("期望 ErrAlreadyMarked，实际: %v", err)
	}
}

func TestCreateFeedback(t *testing.T) {
	f := newGradingFixture(t)
	ctx := context.Background()

	otherInst := testutil.CreateInstructor(t, f.env.db, "other-inst@email.com")
	if _, err := f.env.svc.Grading.CreateFeedback(ctx, otherInst.ID, f.course.ID, f.stu.ID, "good"); !errors.Is(err, ErrNotAssigned) {
		t.Errorf("期望 ErrNotAssigned，实际: %v", err)
	}

	otherStu := testutil.CreateStudent(t, f.env.db, "other-stu@email.com")
	if _, err := f.env.svc.Grading.CreateFeedback(ctx, f.inst.ID, f.course.ID, otherStu.ID, "good"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}

	if _, err := f.env.svc.Grading.CreateFeedback(ctx, f.inst.ID, f.course.ID, f.stu.ID, "good"); err != nil {
		t.Fatalf("CreateFeedback 失败: %v", err)
	}
	if _, err := f.env.svc.Grading.CreateFeedback(ctx, f.inst.ID, f.course.ID, f.stu.ID, "again"); !errors.Is(err, ErrFeedbackExists) {
		t.Errorf("期望 ErrFeedbackExists，实际: %v", err)
	}

	rows, err := f.env.svc.Enrollment.ListFeedback(ctx, f.stu.ID, f.course.ID)
	if err != nil {
		t.Fatalf("ListFeedback 失败: %v", err)
	}
	if len(rows) != 1 || rows[0].Text != "good" {
		t.Errorf("评语列表不匹配: %+v", rows)
	}
}

func TestInstructorCoursesAndStudents(t *testing.T) {
	f := newGradingFixture(t)
	ctx := context.Background()

	courses, err := f.env.svc.Grading.ListCourses(ctx, f.inst.ID)
	if err != nil {
		t.Fatalf("ListCourses 失败: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != f.course.ID {
		t.Errorf("讲师课程不匹配: %+v", courses)
	}

	students, err := f.env.svc.Grading.ListStudents(ctx, f.inst.ID, f.course.ID)
	if err != nil {
		t.Fatalf("ListStudents 失败: %v", err)
	}
	if len(students) != 1 || students[0].Email != f.stu.Email {
		t.Errorf("选课学生不匹配: %+v", students)
	}

	if _, err := f.env.svc.Grading.ListStudents(ctx, f.inst.ID, 999); !errors.Is(err, ErrNotAssigned) {
		t.Errorf("期望 ErrNotAssigned，实际: %v", err)
	}
}
