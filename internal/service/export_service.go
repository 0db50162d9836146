package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = apperrors.New(apperrors.KindInternal, "failed to generate gradebook")

// ExportService 导出业务接口
//
// 设计说明：
//   - 成绩册导出为 Excel (.xlsx)，以 bytes.Buffer 返回，由 Handler 层设置响应头
//   - 每名选课学生一行，每个课时一列；未打分的单元格留空
//   - final_mark / is_course_pass 未计算时留空
type ExportService interface {
	// Gradebook 导出课程成绩册
	Gradebook(ctx context.Context, courseID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Gradebook 导出课程成绩册
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：课程名称
//   - 表头：ID | Student | Email | <课时 1..n> | Final mark | Passed
//   - 单元格：课时成绩
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) Gradebook(ctx context.Context, courseID uint) (*bytes.Buffer, string, error) {
	// 1. 查询课程
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 课时、选课记录、成绩
	lessons, err := s.repo.Lesson.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课时失败", zap.Error(err))
		return nil, "", err
	}
	enrollments, err := s.repo.StudentCourse.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询选课记录失败", zap.Error(err))
		return nil, "", err
	}
	marks, err := s.repo.Mark.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询成绩失败", zap.Error(err))
		return nil, "", err
	}

	// 3. 成绩索引: "studentID:lessonID" → mark
	markIndex := make(map[string]int, len(marks))
	for _, m := range marks {
		markIndex[markKey(m.StudentID, m.LessonID)] = m.Mark
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Gradebook"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	lastCol := 3 + len(lessons) + 2

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, colName(3), colName(lastCol-1), 14)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", course.Title)
	f.MergeCell(sheetName, "A1", cell(colName(lastCol-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "ID")
	f.SetCellValue(sheetName, cell("B", row), "Student")
	f.SetCellValue(sheetName, cell("C", row), "Email")
	for i, l := range lessons {
		f.SetCellValue(sheetName, cell(colName(3+i), row), fmt.Sprintf("%s (/%d)", l.Title, l.HighestMark))
	}
	f.SetCellValue(sheetName, cell(colName(3+len(lessons)), row), "Final mark")
	f.SetCellValue(sheetName, cell(colName(4+len(lessons)), row), "Passed")
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(lastCol-1), row), headerStyle)

	// 数据行
	row = 3
	for _, e := range enrollments {
		f.SetCellValue(sheetName, cell("A", row), e.StudentID)
		if e.Student != nil {
			f.SetCellValue(sheetName, cell("B", row), strings.TrimSpace(e.Student.FirstName+" "+e.Student.LastName))
			f.SetCellValue(sheetName, cell("C", row), e.Student.Email)
		}
		for i, l := range lessons {
			if m, ok := markIndex[markKey(e.StudentID, l.ID)]; ok {
				f.SetCellValue(sheetName, cell(colName(3+i), row), m)
			}
		}
		if e.FinalMark != nil {
			f.SetCellValue(sheetName, cell(colName(3+len(lessons)), row), *e.FinalMark)
		}
		if e.IsCoursePass != nil {
			f.SetCellValue(sheetName, cell(colName(4+len(lessons)), row), *e.IsCoursePass)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("gradebook_course_%d.xlsx", course.ID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func markKey(studentID, lessonID uint) string {
	return fmt.Sprintf("%d:%d", studentID, lessonID)
}

// colName 0 起始的列序号转列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
