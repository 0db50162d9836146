package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/api/handler"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/testutil"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/jwt"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/mail"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/password"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/storage"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/validation"
)

const adminPassword = "SomePassword1"

func init() {
	if err := validation.Setup(); err != nil {
		panic(err)
	}
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// newTestServer 组装 sqlite + 本地存储 + 日志邮件的完整路由
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 1 << 20},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret-key-for-unit-testing-2026",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Enrollment: config.EnrollmentConfig{MaxCourses: 5, MinLessonsToPublish: 5},
		Storage: config.StorageConfig{
			MaxFileSize:      1 << 10,
			MaxFiles:         1,
			AllowedMIMETypes: []string{"application/pdf", "text/plain"},
		},
		Mail: config.MailConfig{Driver: "log", FromAddress: "no-reply@example.com"},
	}

	logger := zap.NewNop()
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal 失败: %v", err)
	}
	mailer, err := mail.New(&cfg.Mail, logger)
	if err != nil {
		t.Fatalf("mail.New 失败: %v", err)
	}
	t.Cleanup(mailer.Wait)

	svc := service.NewService(service.Deps{
		Config:  cfg,
		Repo:    repository.NewRepository(testutil.NewDB(t)),
		JWT:     jwt.NewManager(&cfg.Auth),
		Hasher:  password.NewHasher(cfg.Auth.BcryptCost),
		Storage: store,
		Mailer:  mailer,
		Logger:  logger,
	})
	return Setup(cfg, handler.NewHandler(svc, &cfg.Storage), svc.Auth, nil, logger)
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func expectCode(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("期望 %d，实际=%d body=%s", want, w.Code, w.Body.String())
	}
}

func dataID(t *testing.T, env envelope) uint {
	t.Helper()
	var v struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil || v.ID == 0 {
		t.Fatalf("响应中缺少 id: %s", env.Data)
	}
	return v.ID
}

func adminBody() map[string]interface{} {
	return map[string]interface{}{
		"first_name": "John",
		"last_name":  "Doe",
		"email":      "john.doe@email.com",
		"password":   adminPassword,
		"is_active":  true,
	}
}

func login(t *testing.T, r *gin.Engine, email, pwd string) string {
	t.Helper()
	w, env := call(t, r, "POST", "/auth/login", "", map[string]string{"email": email, "password": pwd})
	expectCode(t, w, http.StatusCreated)
	var tok struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &tok)
	if tok.Token == "" {
		t.Fatalf("登录响应缺少 token: %s", env.Data)
	}
	return tok.Token
}

// ═══════════════════════════════════════════════════════════
// 管理员与认证
// ═══════════════════════════════════════════════════════════

func TestE2E_AdminCreateAndLogin(t *testing.T) {
	r := newTestServer(t)

	w, env := call(t, r, "POST", "/admins", "", adminBody())
	expectCode(t, w, http.StatusCreated)
	if env.StatusCode != http.StatusCreated {
		t.Errorf("期望 statusCode=201，实际=%d", env.StatusCode)
	}
	if strings.Contains(w.Body.String(), "hash") || strings.Contains(w.Body.String(), adminPassword) {
		t.Errorf("响应不应包含密码: %s", w.Body.String())
	}

	w, env = call(t, r, "POST", "/admins", "", adminBody())
	expectCode(t, w, http.StatusBadRequest)
	if !strings.Contains(env.Message, "already exists") {
		t.Errorf("错误信息不匹配: %s", env.Message)
	}

	token := login(t, r, "john.doe@email.com", adminPassword)

	w, env = call(t, r, "GET", "/auth/me", token, nil)
	expectCode(t, w, http.StatusOK)
	if !strings.Contains(string(env.Data), `"role":"admin"`) {
		t.Errorf("期望角色 admin: %s", env.Data)
	}

	w, _ = call(t, r, "POST", "/auth/login", "", map[string]string{"email": "john.doe@email.com", "password": "WrongPassword1"})
	expectCode(t, w, http.StatusUnauthorized)
}

func TestE2E_CreateAdmin_WeakPassword(t *testing.T) {
	r := newTestServer(t)

	body := adminBody()
	body["password"] = "short"
	w, env := call(t, r, "POST", "/admins", "", body)

	expectCode(t, w, http.StatusBadRequest)
	if !strings.Contains(env.Message, "password") {
		t.Errorf("错误信息应指向 password: %s", env.Message)
	}
}

func TestE2E_ProtectedRoutes(t *testing.T) {
	r := newTestServer(t)

	w, env := call(t, r, "GET", "/courses", "", nil)
	expectCode(t, w, http.StatusUnauthorized)
	if env.Message != "User is not authorized" {
		t.Errorf("错误信息不匹配: %s", env.Message)
	}

	w, _ = call(t, r, "GET", "/courses", "garbage-token", nil)
	expectCode(t, w, http.StatusUnauthorized)

	call(t, r, "POST", "/students/registration", "", map[string]string{
		"first_name": "Jane", "last_name": "Roe", "email": "jane@example.com", "password": "StudentPass1",
	})
	// 未激活学生无法登录
	w, _ = call(t, r, "POST", "/auth/login", "", map[string]string{"email": "jane@example.com", "password": "StudentPass1"})
	expectCode(t, w, http.StatusUnauthorized)
}

func TestE2E_Health(t *testing.T) {
	r := newTestServer(t)

	w, _ := call(t, r, "GET", "/health", "", nil)
	expectCode(t, w, http.StatusOK)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应包含 X-Request-ID")
	}
}

// ═══════════════════════════════════════════════════════════
// 学生选课与作业
// ═══════════════════════════════════════════════════════════

func TestE2E_StudentFlow(t *testing.T) {
	r := newTestServer(t)

	call(t, r, "POST", "/admins", "", adminBody())
	adminToken := login(t, r, "john.doe@email.com", adminPassword)

	// 管理员建课与课时
	w, env := call(t, r, "POST", "/courses", adminToken, map[string]string{"title": "Go"})
	expectCode(t, w, http.StatusCreated)
	courseID := dataID(t, env)

	w, env = call(t, r, "POST", fmt.Sprintf("/courses/%d/lessons", courseID), adminToken,
		map[string]interface{}{"title": "Intro", "highest_mark": 10})
	expectCode(t, w, http.StatusCreated)
	lessonID := dataID(t, env)

	// 课时不足，发布失败
	w, env = call(t, r, "GET", fmt.Sprintf("/courses/%d/publish", courseID), adminToken, nil)
	expectCode(t, w, http.StatusBadRequest)

	// 学生注册 → 管理员激活 → 登录
	w, env = call(t, r, "POST", "/students/registration", "", map[string]string{
		"first_name": "Jane", "last_name": "Roe", "email": "jane@example.com",
		"password": "StudentPass1", "birth_date": "2000-01-02",
	})
	expectCode(t, w, http.StatusCreated)
	studentID := dataID(t, env)

	w, _ = call(t, r, "PUT", fmt.Sprintf("/students/%d/status", studentID), adminToken, map[string]bool{"is_active": true})
	expectCode(t, w, http.StatusOK)
	studentToken := login(t, r, "jane@example.com", "StudentPass1")

	// 学生无权访问管理接口
	w, env = call(t, r, "GET", "/courses", studentToken, nil)
	expectCode(t, w, http.StatusForbidden)
	if env.Message != "Forbidden resource" {
		t.Errorf("错误信息不匹配: %s", env.Message)
	}

	// 未选课时查看课时
	w, _ = call(t, r, "GET", fmt.Sprintf("/students/courses/%d/lessons", courseID), studentToken, nil)
	expectCode(t, w, http.StatusNotFound)

	// 选课
	w, _ = call(t, r, "POST", "/students/take-course", studentToken, map[string]uint{"course_id": courseID})
	expectCode(t, w, http.StatusCreated)
	w, _ = call(t, r, "POST", "/students/take-course", studentToken, map[string]uint{"course_id": courseID})
	expectCode(t, w, http.StatusBadRequest)

	w, env = call(t, r, "GET", "/students/courses", studentToken, nil)
	expectCode(t, w, http.StatusOK)
	if !strings.Contains(string(env.Data), `"title":"Go"`) {
		t.Errorf("期望已选课程 Go: %s", env.Data)
	}

	// 上传作业 → 下载 → 删除
	homeworkPath := fmt.Sprintf("/students/courses/%d/lessons/%d/homework", courseID, lessonID)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="answer.txt"`)
	hdr.Set("Content-Type", "text/plain")
	part, _ := mw.CreatePart(hdr)
	part.Write([]byte("my answer"))
	mw.Close()

	req := httptest.NewRequest("POST", homeworkPath, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	expectCode(t, w, http.StatusCreated)

	req = httptest.NewRequest("GET", homeworkPath, nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	expectCode(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("期望 Content-Type=text/plain，实际=%s", ct)
	}
	if w.Body.String() != "my answer" {
		t.Errorf("作业内容不匹配: %q", w.Body.String())
	}

	w, _ = call(t, r, "DELETE", homeworkPath, studentToken, nil)
	expectCode(t, w, http.StatusOK)
	w, _ = call(t, r, "GET", homeworkPath, studentToken, nil)
	expectCode(t, w, http.StatusNotFound)

	// 管理员导出成绩单
	req = httptest.NewRequest("GET", fmt.Sprintf("/courses/%d/gradebook", courseID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	expectCode(t, w, http.StatusOK)
	if !strings.Contains(w.Header().Get("Content-Disposition"), ".xlsx") {
		t.Errorf("期望导出 xlsx 文件: %s", w.Header().Get("Content-Disposition"))
	}
}
