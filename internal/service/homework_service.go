package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/storage"
)

// ── 作业模块业务错误 ──

var (
	ErrHomeworkNotFound   = apperrors.NotFound("homework not found")
	ErrAlreadyUploaded    = apperrors.BadRequest("homework is already uploaded")
	ErrFileTooLarge       = apperrors.Validation("file is too large")
	ErrFileTypeNotAllowed = apperrors.Validation("file type is not allowed")
)

// HomeworkService 作业文件的上传、下载与删除
//
// 上传与删除在同一事务中完成数据库行与文件的变更：
//   - 上传：插入行 → 写文件 → 提交，任一步失败回滚行
//   - 删除：删除行 → 删文件 → 提交，删文件失败同样回滚行
type HomeworkService interface {
	Upload(ctx context.Context, studentID, courseID, lessonID uint, file io.Reader, info *dto.UploadHomework) (*model.Homework, error)
	Open(ctx context.Context, studentID, courseID, lessonID uint) (*model.Homework, io.ReadCloser, error)
	Delete(ctx context.Context, studentID, courseID, lessonID uint) error
	// OpenForInstructor 讲师下载其任教课程中学生的作业
	OpenForInstructor(ctx context.Context, instructorID, studentID, courseID, lessonID uint) (*model.Homework, io.ReadCloser, error)
}

type homeworkService struct {
	repo    *repository.Repository
	store   storage.Storage
	cfg     *config.StorageConfig
	allowed map[string]bool
	logger  *zap.Logger
}

// NewHomeworkService 创建 HomeworkService 实例
func NewHomeworkService(repo *repository.Repository, store storage.Storage, cfg *config.StorageConfig, logger *zap.Logger) HomeworkService {
	allowed := make(map[string]bool, len(cfg.AllowedMIMETypes))
	for _, t := range cfg.AllowedMIMETypes {
		allowed[strings.ToLower(t)] = true
	}
	return &homeworkService{repo: repo, store: store, cfg: cfg, allowed: allowed, logger: logger}
}

// ────────────────────── Upload ──────────────────────

func (s *homeworkService) Upload(ctx context.Context, studentID, courseID, lessonID uint, file io.Reader, info *dto.UploadHomework) (*model.Homework, error) {
	// 1. 文件校验
	if info.Size > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	mimeType := strings.ToLower(strings.TrimSpace(strings.SplitN(info.MimeType, ";", 2)[0]))
	if !s.allowed[mimeType] {
		return nil, ErrFileTypeNotAllowed
	}

	// 2. 课时属于学生已选课程
	if err := s.ensureLesson(ctx, repository.LessonScope{CourseID: courseID, LessonID: lessonID, StudentID: studentID}); err != nil {
		return nil, err
	}

	hw := &model.Homework{
		StudentID: studentID,
		LessonID:  lessonID,
		FilePath:  homeworkKey(studentID, lessonID, info.FileName),
		Meta: datatypes.NewJSONType(model.HomeworkMeta{
			OriginalName: filepath.Base(info.FileName),
			MimeType:     mimeType,
			Size:         info.Size,
		}),
	}

	// 3. 事务：插入行 → 写文件 → 提交
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Homework.Create(ctx, hw); err != nil {
		rollback(tx)
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyUploaded
		}
		s.logger.Error("写入作业记录失败", zap.Error(err))
		return nil, err
	}

	if err := s.store.Save(ctx, hw.FilePath, file); err != nil {
		rollback(tx)
		s.logger.Error("保存作业文件失败", zap.String("path", hw.FilePath), zap.Error(err))
		return nil, err
	}

	if err := commit(tx); err != nil {
		s.logger.Error("提交事务失败", zap.Error(err))
		if delErr := s.store.Delete(ctx, hw.FilePath); delErr != nil {
			s.logger.Warn("清理作业文件失败", zap.String("path", hw.FilePath), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("作业已上传", zap.Uint("student_id", studentID), zap.Uint("lesson_id", lessonID))
	return hw, nil
}

// ────────────────────── Download ──────────────────────

func (s *homeworkService) Open(ctx context.Context, studentID, courseID, lessonID uint) (*model.Homework, io.ReadCloser, error) {
	if err := s.ensureLesson(ctx, repository.LessonScope{CourseID: courseID, LessonID: lessonID, StudentID: studentID}); err != nil {
		return nil, nil, err
	}
	return s.open(ctx, studentID, lessonID)
}

func (s *homeworkService) OpenForInstructor(ctx context.Context, instructorID, studentID, courseID, lessonID uint) (*model.Homework, io.ReadCloser, error) {
	err := s.ensureLesson(ctx, repository.LessonScope{
		CourseID:     courseID,
		LessonID:     lessonID,
		InstructorID: instructorID,
		StudentID:    studentID,
	})
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, studentID, lessonID)
}

func (s *homeworkService) open(ctx context.Context, studentID, lessonID uint) (*model.Homework, io.ReadCloser, error) {
	hw, err := s.repo.Homework.Get(ctx, studentID, lessonID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrHomeworkNotFound
		}
		s.logger.Error("查询作业记录失败", zap.Error(err))
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, hw.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("作业记录存在但文件缺失", zap.String("path", hw.FilePath))
			return nil, nil, ErrHomeworkNotFound
		}
		s.logger.Error("读取作业文件失败", zap.String("path", hw.FilePath), zap.Error(err))
		return nil, nil, err
	}
	return hw, rc, nil
}

// ────────────────────── Delete ──────────────────────

func (s *homeworkService) Delete(ctx context.Context, studentID, courseID, lessonID uint) error {
	if err := s.ensureLesson(ctx, repository.LessonScope{CourseID: courseID, LessonID: lessonID, StudentID: studentID}); err != nil {
		return err
	}

	// 事务：删除行 → 删文件 → 提交
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)

	hw, err := txRepo.Homework.Get(ctx, studentID, lessonID)
	if err != nil {
		rollback(tx)
		if repository.IsNotFound(err) {
			return ErrHomeworkNotFound
		}
		s.logger.Error("查询作业记录失败", zap.Error(err))
		return err
	}

	if err := txRepo.Homework.Delete(ctx, hw.ID); err != nil {
		rollback(tx)
		s.logger.Error("删除作业记录失败", zap.Error(err))
		return err
	}

	if err := s.store.Delete(ctx, hw.FilePath); err != nil {
		rollback(tx)
		s.logger.Error("删除作业文件失败", zap.String("path", hw.FilePath), zap.Error(err))
		return err
	}

	if err := commit(tx); err != nil {
		s.logger.Error("提交事务失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

func (s *homeworkService) ensureLesson(ctx context.Context, scope repository.LessonScope) error {
	if _, err := s.repo.Lesson.FindScoped(ctx, scope); err != nil {
		if repository.IsNotFound(err) {
			return ErrLessonScopeNotFound
		}
		s.logger.Error("查询课时失败", zap.Error(err))
		return err
	}
	return nil
}

// homeworkKey 生成存储路径 homeworks/<student>/<lesson>/<uuid><ext>
func homeworkKey(studentID, lessonID uint, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("homeworks/%d/%d/%s%s", studentID, lessonID, uuid.NewString(), ext)
}

func rollback(tx *gorm.DB) {
	if tx != nil {
		tx.Rollback()
	}
}

func commit(tx *gorm.DB) error {
	if tx == nil {
		return nil
	}
	return tx.Commit().Error
}
