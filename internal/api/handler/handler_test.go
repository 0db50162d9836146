package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/api/middleware"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/jwt"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.Setup(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	meResult    *dto.MeResponse
	meErr       error
	declined    []string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) HashPassword(plain string) (string, error) { return plain, nil }
func (m *mockAuthService) CheckPassword(hash, plain string) bool    { return hash == plain }
func (m *mockAuthService) VerifyToken(_ context.Context, _ string) (*jwt.Claims, error) {
	return nil, service.ErrTokenInvalid
}
func (m *mockAuthService) DeclineToken(_ context.Context, role string, _ uint) {
	m.declined = append(m.declined, role)
}
func (m *mockAuthService) Me(_ context.Context, _ string, _ uint) (*dto.MeResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock CourseService ──

type mockCourseService struct {
	createResult  *model.Course
	publishResult *model.Course
	publishErr    error
	assignErr     error
	publishedID   uint
}

func (m *mockCourseService) Create(_ context.Context, req *dto.CreateCourseRequest) (*model.Course, error) {
	return m.createResult, nil
}
func (m *mockCourseService) GetByID(_ context.Context, _ uint) (*dto.CourseDetailResponse, error) {
	return nil, service.ErrCourseNotFound
}
func (m *mockCourseService) List(_ context.Context, _ *dto.CourseListRequest) ([]model.Course, int64, error) {
	return nil, 0, nil
}
func (m *mockCourseService) Update(_ context.Context, _ uint, _ *dto.UpdateCourseRequest) (*model.Course, error) {
	return nil, nil
}
func (m *mockCourseService) Delete(_ context.Context, _ uint) error { return nil }
func (m *mockCourseService) Publish(_ context.Context, id uint) (*model.Course, error) {
	m.publishedID = id
	return m.publishResult, m.publishErr
}
func (m *mockCourseService) AssignInstructor(_ context.Context, _ *dto.AssignInstructorRequest) error {
	return m.assignErr
}
func (m *mockCourseService) UnassignInstructor(_ context.Context, _, _ uint) error { return nil }

// ── Mock HomeworkService ──

type mockHomeworkService struct {
	uploaded *dto.UploadHomework
	body     string
	openHW   *model.Homework
	openBody string
	err      error
}

func (m *mockHomeworkService) Upload(_ context.Context, _, _, _ uint, file io.Reader, info *dto.UploadHomework) (*model.Homework, error) {
	if m.err != nil {
		return nil, m.err
	}
	b, _ := io.ReadAll(file)
	m.uploaded = info
	m.body = string(b)
	return &model.Homework{StudentID: 1, LessonID: 2}, nil
}
func (m *mockHomeworkService) Open(_ context.Context, _, _, _ uint) (*model.Homework, io.ReadCloser, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.openHW, io.NopCloser(strings.NewReader(m.openBody)), nil
}
func (m *mockHomeworkService) Delete(_ context.Context, _, _, _ uint) error { return m.err }
func (m *mockHomeworkService) OpenForInstructor(ctx context.Context, _, studentID, courseID, lessonID uint) (*model.Homework, io.ReadCloser, error) {
	return m.Open(ctx, studentID, courseID, lessonID)
}

// ── Mock GradingService ──

type mockGradingService struct {
	gotArgs []uint
	gotMark int
	err     error
}

func (m *mockGradingService) ListCourses(_ context.Context, _ uint) ([]model.Course, error) {
	return nil, nil
}
func (m *mockGradingService) ListStudents(_ context.Context, _, _ uint) ([]model.Student, error) {
	return nil, nil
}
func (m *mockGradingService) PutMark(_ context.Context, instructorID, studentID, lessonID, courseID uint, mark int) (*model.StudentMark, error) {
	m.gotArgs = []uint{instructorID, studentID, lessonID, courseID}
	m.gotMark = mark
	if m.err != nil {
		return nil, m.err
	}
	return &model.StudentMark{StudentID: studentID, LessonID: lessonID, Mark: mark}, nil
}
func (m *mockGradingService) CreateFeedback(_ context.Context, _, _, _ uint, _ string) (*model.CourseFeedback, error) {
	return nil, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context, role string) {
	c.Set(middleware.CtxUserID, uint(1))
	c.Set(middleware.CtxRole, role)
}

func withAuth(role string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c, role)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginResult: &dto.TokenResponse{Token: "test-token"}})
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "john.doe@email.com", Password: "SomePassword1"}))

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	data, _ := resp.Data.(map[string]interface{})
	if data["token"] != "test-token" {
		t.Errorf("期望返回 token，实际=%v", resp.Data)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := serve(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
	if msg := parseResponse(w).Message; msg != "invalid request body" {
		t.Errorf("错误信息不匹配: %s", msg)
	}
}

func TestAuthHandler_Login_ValidationMessage(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := serve(r, "POST", "/auth/login", jsonBody(map[string]string{"email": "not-an-email", "password": "x"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if msg := parseResponse(w).Message; !strings.Contains(msg, "email") {
		t.Errorf("错误信息应包含字段名 email: %s", msg)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "john.doe@email.com", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.StatusCode != http.StatusUnauthorized || resp.Message == "" {
		t.Errorf("错误响应体不匹配: %+v", resp)
	}
}

func TestAuthHandler_Login_InternalErrorHidden(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: io.ErrUnexpectedEOF})
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "john.doe@email.com", Password: "x"}))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望 500，实际=%d", w.Code)
	}
	if strings.Contains(w.Body.String(), "unexpected EOF") {
		t.Error("响应中不应包含内部错误文本")
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	r := gin.New()
	r.GET("/auth/me", h.Me)

	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际=%d", w.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)
	r := gin.New()
	r.POST("/auth/logout", withAuth(model.RoleStudent, h.Logout))

	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if len(mock.declined) != 1 || mock.declined[0] != model.RoleStudent {
		t.Errorf("期望清除学生 Token，实际=%v", mock.declined)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_Publish_RuleViolation(t *testing.T) {
	mock := &mockCourseService{publishErr: apperrors.BadRequest("course has fewer than 5 lessons")}
	h := NewCourseHandler(mock, nil)
	r := gin.New()
	r.GET("/courses/:id/publish", h.Publish)

	w := serve(r, "GET", "/courses/7/publish", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if mock.publishedID != 7 {
		t.Errorf("期望发布课程 7，实际=%d", mock.publishedID)
	}
	if msg := parseResponse(w).Message; msg != "course has fewer than 5 lessons" {
		t.Errorf("错误信息不匹配: %s", msg)
	}
}

func TestCourseHandler_Publish_NotFound(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{publishErr: service.ErrCourseNotFound}, nil)
	r := gin.New()
	r.GET("/courses/:id/publish", h.Publish)

	w := serve(r, "GET", "/courses/7/publish", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

func TestCourseHandler_InvalidID(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{}, nil)
	r := gin.New()
	r.GET("/courses/:id/publish", h.Publish)

	for _, id := range []string{"abc", "0", "-1"} {
		w := serve(r, "GET", "/courses/"+id+"/publish", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("id=%s 期望 400，实际=%d", id, w.Code)
		}
	}
}

func TestCourseHandler_Create_Validation(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{createResult: &model.Course{Title: "Go"}}, nil)
	r := gin.New()
	r.POST("/courses", h.Create)

	w := serve(r, "POST", "/courses", jsonBody(map[string]string{"description": "no title"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 title 期望 400，实际=%d", w.Code)
	}

	w = serve(r, "POST", "/courses", jsonBody(dto.CreateCourseRequest{Title: "Go"}))
	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际=%d", w.Code)
	}
}

func TestCourseHandler_Assign_Duplicate(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{assignErr: service.ErrAlreadyAssigned}, nil)
	r := gin.New()
	r.POST("/courses/assign-instructor", h.AssignInstructor)

	w := serve(r, "POST", "/courses/assign-instructor", jsonBody(dto.AssignInstructorRequest{CourseID: 1, InstructorID: 2}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Homework Tests
// ═══════════════════════════════════════════════════════════

func multipartBody(t *testing.T, files map[string]string, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
		if contentType != "" {
			hdr.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("CreatePart 失败: %v", err)
		}
		part.Write([]byte(content))
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestStudentHandler_UploadHomework(t *testing.T) {
	mock := &mockHomeworkService{}
	h := NewStudentHandler(nil, nil, mock, 1)
	r := gin.New()
	r.POST("/students/courses/:courseId/lessons/:lessonId/homework", withAuth(model.RoleStudent, h.UploadHomework))

	body, ct := multipartBody(t, map[string]string{"answer.pdf": "%PDF-1.4"}, "application/pdf")
	req := httptest.NewRequest("POST", "/students/courses/1/lessons/2/homework", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际=%d body=%s", w.Code, w.Body.String())
	}
	if mock.uploaded == nil || mock.uploaded.FileName != "answer.pdf" || mock.uploaded.MimeType != "application/pdf" || mock.uploaded.Size != 8 {
		t.Errorf("上传信息不匹配: %+v", mock.uploaded)
	}
	if mock.body != "%PDF-1.4" {
		t.Errorf("文件内容不匹配: %q", mock.body)
	}
}

func TestStudentHandler_UploadHomework_TooManyFiles(t *testing.T) {
	h := NewStudentHandler(nil, nil, &mockHomeworkService{}, 1)
	r := gin.New()
	r.POST("/students/courses/:courseId/lessons/:lessonId/homework", withAuth(model.RoleStudent, h.UploadHomework))

	body, ct := multipartBody(t, map[string]string{"a.txt": "a", "b.txt": "b"}, "text/plain")
	req := httptest.NewRequest("POST", "/students/courses/1/lessons/2/homework", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestStudentHandler_UploadHomework_MissingFile(t *testing.T) {
	h := NewStudentHandler(nil, nil, &mockHomeworkService{}, 1)
	r := gin.New()
	r.POST("/students/courses/:courseId/lessons/:lessonId/homework", withAuth(model.RoleStudent, h.UploadHomework))

	w := serve(r, "POST", "/students/courses/1/lessons/2/homework", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际=%d", w.Code)
	}
}

func TestStudentHandler_DownloadHomework_ContentType(t *testing.T) {
	mock := &mockHomeworkService{
		openHW: &model.Homework{
			Meta: datatypes.NewJSONType(model.HomeworkMeta{OriginalName: "answer.pdf", MimeType: "application/pdf", Size: 8}),
		},
		openBody: "%PDF-1.4",
	}
	h := NewStudentHandler(nil, nil, mock, 1)
	r := gin.New()
	r.GET("/students/courses/:courseId/lessons/:lessonId/homework", withAuth(model.RoleStudent, h.DownloadHomework))

	w := serve(r, "GET", "/students/courses/1/lessons/2/homework", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("期望 Content-Type=application/pdf，实际=%s", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "answer.pdf") {
		t.Errorf("Content-Disposition 应包含原文件名: %s", w.Header().Get("Content-Disposition"))
	}
	if w.Body.String() != "%PDF-1.4" {
		t.Errorf("文件内容不匹配: %q", w.Body.String())
	}
}

func TestStudentHandler_DownloadHomework_NotFound(t *testing.T) {
	h := NewStudentHandler(nil, nil, &mockHomeworkService{err: service.ErrHomeworkNotFound}, 1)
	r := gin.New()
	r.GET("/students/courses/:courseId/lessons/:lessonId/homework", withAuth(model.RoleStudent, h.DownloadHomework))

	w := serve(r, "GET", "/students/courses/1/lessons/2/homework", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// InstructorHandler Tests
// ═══════════════════════════════════════════════════════════

const markPath = "/instructors/courses/:courseId/students/:studentId/lessons/:lessonId/mark"

func TestInstructorHandler_PutMark(t *testing.T) {
	mock := &mockGradingService{}
	h := NewInstructorHandler(nil, mock, nil)
	r := gin.New()
	r.PUT(markPath, withAuth(model.RoleInstructor, h.PutMark))

	w := serve(r, "PUT", "/instructors/courses/3/students/4/lessons/5/mark", jsonBody(map[string]int{"mark": 0}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d body=%s", w.Code, w.Body.String())
	}
	want := []uint{1, 4, 5, 3}
	for i := range want {
		if len(mock.gotArgs) != 4 || mock.gotArgs[i] != want[i] {
			t.Fatalf("参数顺序不匹配: 期望 %v，实际 %v", want, mock.gotArgs)
		}
	}
	if mock.gotMark != 0 {
		t.Errorf("期望 mark=0，实际=%d", mock.gotMark)
	}
}

func TestInstructorHandler_PutMark_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		body     interface{}
		wantCode int
	}{
		{"缺少 mark", nil, map[string]string{}, http.StatusBadRequest},
		{"负分", nil, map[string]int{"mark": -1}, http.StatusBadRequest},
		{"范围外", service.ErrLessonScopeNotFound, map[string]int{"mark": 5}, http.StatusNotFound},
		{"超过满分", service.ErrMarkTooHigh, map[string]int{"mark": 50}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewInstructorHandler(nil, &mockGradingService{err: tt.err}, nil)
			r := gin.New()
			r.PUT(markPath, withAuth(model.RoleInstructor, h.PutMark))

			w := serve(r, "PUT", "/instructors/courses/3/students/4/lessons/5/mark", jsonBody(tt.body))
			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际=%d", tt.wantCode, w.Code)
			}
		})
	}
}
