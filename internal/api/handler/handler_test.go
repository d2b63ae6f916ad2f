package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	pkgerrors "github.com/Chafic123/Attendance-Backend/pkg/errors"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := SetupValidator(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.MeResponse
	meErr         error
	changePassErr error

	loggedOutJTI string
	loggedOutExp time.Time
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, exp time.Time) error {
	m.loggedOutJTI, m.loggedOutExp = jti, exp
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ service.Actor) (*dto.MeResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ service.Actor, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock CourseService ──

// mockCourseService overrides the methods under test; the embedded
// interface is nil and panics on anything else.
type mockCourseService struct {
	service.CourseService
	getResult    *dto.CourseResponse
	getErr       error
	createResult *dto.CourseResponse
	createErr    error
	studentsErr  error
	lastActor    service.Actor
}

func (m *mockCourseService) Get(_ context.Context, _ string) (*dto.CourseResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCourseService) Create(_ context.Context, _ *dto.CourseRequest) (*dto.CourseResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCourseService) Students(_ context.Context, actor service.Actor, _ string) ([]dto.CourseStudentResponse, error) {
	m.lastActor = actor
	return nil, m.studentsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) CourseAttendance(_ context.Context, _ service.Actor, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	service.NotificationService
	listedFor string
	markErr   error
}

func (m *mockNotificationService) ListForStudent(_ context.Context, _ service.Actor) ([]dto.NotificationResponse, error) {
	m.listedFor = model.RoleStudent
	return []dto.NotificationResponse{}, nil
}
func (m *mockNotificationService) ListForInstructor(_ context.Context, _ service.Actor) ([]dto.NotificationResponse, error) {
	m.listedFor = model.RoleInstructor
	return []dto.NotificationResponse{}, nil
}
func (m *mockNotificationService) MarkRead(_ context.Context, _ service.Actor, _ string) error {
	return m.markErr
}

// ── Mock ReportService ──

type mockReportService struct {
	service.ReportService
	body []byte
	err  error
}

func (m *mockReportService) StudentScheduleICS(_ context.Context, _ service.Actor) ([]byte, string, error) {
	return []byte("BEGIN:VCALENDAR"), "schedule_202301.ics", m.err
}

func (m *mockReportService) CourseAttendancePDF(_ context.Context, _ service.Actor, _ string) ([]byte, string, error) {
	return m.body, "attendance_CSC200-A.pdf", m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context, role string) {
	c.Set(CtxUserID, "test-user-id")
	c.Set(CtxRole, role)
	c.Set(CtxProfileID, "test-profile-id")
	c.Set(CtxTokenJTI, "test-jti")
	c.Set(CtxTokenExp, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
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

func serve(method, path string, body io.Reader, register func(r *gin.Engine)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r := gin.New()
	register(r)
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "rana@school.edu", Password: "secret"}), func(r *gin.Engine) {
		r.POST("/auth/login", h.Login)
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", strings.NewReader("invalid json"), func(r *gin.Engine) {
		r.POST("/auth/login", h.Login)
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_FieldErrors(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", jsonBody(map[string]string{"email": "not-an-email"}), func(r *gin.Engine) {
		r.POST("/auth/login", h.Login)
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Errors["email"] == "" || resp.Errors["password"] != "is required" {
		t.Errorf("expected per-field errors by json name, got %v", resp.Errors)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := serve("POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "rana@school.edu", Password: "wrong"}), func(r *gin.Engine) {
		r.POST("/auth/login", h.Login)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidToken})

	w := serve("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}), func(r *gin.Engine) {
		r.POST("/auth/refresh", h.RefreshToken)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_PassesTokenID(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", nil, func(r *gin.Engine) {
		r.POST("/auth/logout", withAuth(model.RoleStudent, h.Logout))
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.loggedOutJTI != "test-jti" || !mock.loggedOutExp.Equal(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected logout args: %s %v", mock.loggedOutJTI, mock.loggedOutExp)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("GET", "/auth/me", nil, func(r *gin.Engine) {
		r.GET("/auth/me", h.Me)
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WeakPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "short"}), func(r *gin.Engine) {
		r.PUT("/auth/password", withAuth(model.RoleStudent, h.ChangePassword))
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Errors["new_password"] != "must be at least 8" {
		t.Errorf("unexpected errors: %v", resp.Errors)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_ErrorMapping(t *testing.T) {
	conflict := &service.RoomConflictError{With: dto.CourseResponse{ID: "c-1", Code: "CSC200", Section: "A", Room: "B101"}}
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrCourseNotFound, 404, 13001},
		{"CodeTaken", service.ErrCourseCodeTaken, 409, 13002},
		{"RoomConflict", conflict, 409, 13003},
		{"NotInstructor", service.ErrNotCourseInstructor, 403, 13004},
		{"StaleVersion", pkgerrors.ErrOptimisticLock, 409, 10008},
		{"NoActiveTerm", service.ErrNoActiveTerm, 404, 12002},
		{"FieldError", &service.FieldError{Fields: map[string]string{"end_time": "must be after start_time"}}, 422, 10001},
		{"ImportHeader", service.ErrImportBadHeader, 422, 14103},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCourseHandler(&mockCourseService{getErr: tt.err}, nil, nil)

			w := serve("GET", "/courses/c-1", nil, func(r *gin.Engine) {
				r.GET("/courses/:id", h.GetCourse)
			})

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestCourseHandler_RoomConflictCarriesCourse(t *testing.T) {
	conflict := &service.RoomConflictError{With: dto.CourseResponse{ID: "c-1", Code: "CSC200", Section: "A", Room: "B101"}}
	h := NewCourseHandler(&mockCourseService{createErr: conflict}, nil, nil)

	body := dto.CourseRequest{
		Code: "CSC300", Section: "A", Name: "Algorithms", DayOfWeek: "MW",
		StartTime: "09:00", EndTime: "10:15", Room: "B101", Credits: 3,
		InstructorID: "2f1c8a4e-6f53-4a7e-9b0c-1d2e3f4a5b6c",
	}
	w := serve("POST", "/courses", jsonBody(body), func(r *gin.Engine) {
		r.POST("/courses", h.CreateCourse)
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var resp struct {
		Data dto.CourseConflictDetails `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ConflictWith.ID != "c-1" || resp.Data.ConflictWith.Code != "CSC200" {
		t.Errorf("expected the conflicting course in data, got %+v", resp.Data)
	}
}

func TestCourseHandler_CreateCourse_CustomRules(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{}, nil, nil)

	body := map[string]interface{}{
		"code": "CSC300", "section": "A", "name": "Algorithms", "day_of_week": "MX",
		"start_time": "9am", "end_time": "10:15", "room": "B101", "credits": 3,
		"instructor_id": "2f1c8a4e-6f53-4a7e-9b0c-1d2e3f4a5b6c",
	}
	w := serve("POST", "/courses", jsonBody(body), func(r *gin.Engine) {
		r.POST("/courses", h.CreateCourse)
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Errors["day_of_week"] == "" || resp.Errors["start_time"] != "must be a time in HH:MM format" {
		t.Errorf("unexpected errors: %v", resp.Errors)
	}
	if _, ok := resp.Errors["end_time"]; ok {
		t.Error("valid fields should not be reported")
	}
}

func TestCourseHandler_Students_PassesActor(t *testing.T) {
	mock := &mockCourseService{}
	h := NewCourseHandler(mock, nil, nil)

	w := serve("GET", "/courses/c-1/students", nil, func(r *gin.Engine) {
		r.GET("/courses/:id/students", withAuth(model.RoleInstructor, h.Students))
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.lastActor.Role != model.RoleInstructor || mock.lastActor.ProfileID != "test-profile-id" {
		t.Errorf("unexpected actor: %+v", mock.lastActor)
	}
}

func TestCourseHandler_ExportAttendance(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "attendance_CSC200-A.xlsx"}
	h := NewCourseHandler(nil, nil, mock)

	w := serve("GET", "/courses/c-1/export", nil, func(r *gin.Engine) {
		r.GET("/courses/:id/export", withAuth(model.RoleAdmin, h.ExportAttendance))
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != service.XLSXContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attendance_CSC200-A.xlsx") {
		t.Errorf("unexpected disposition: %s", cd)
	}
}

func TestCourseHandler_ExportAttendance_Forbidden(t *testing.T) {
	h := NewCourseHandler(nil, nil, &mockExportService{err: service.ErrNotCourseInstructor})

	w := serve("GET", "/courses/c-1/export", nil, func(r *gin.Engine) {
		r.GET("/courses/:id/export", withAuth(model.RoleInstructor, h.ExportAttendance))
	})

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// StudentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestStudentHandler_ImportStudents_MissingFile(t *testing.T) {
	h := NewStudentHandler(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "no file")
	_ = mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/students/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r := gin.New()
	r.POST("/students/import", h.ImportStudents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStudentHandler_ImportStudents_Unreadable(t *testing.T) {
	h := NewStudentHandler(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "students.xlsx")
	_, _ = part.Write([]byte("not a workbook"))
	_ = mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/students/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r := gin.New()
	r.POST("/students/import", h.ImportStudents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14101 {
		t.Errorf("expected code 14101, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_ListMine_ByRole(t *testing.T) {
	for _, role := range []string{model.RoleStudent, model.RoleInstructor} {
		mock := &mockNotificationService{}
		h := NewNotificationHandler(mock)

		w := serve("GET", "/notifications", nil, func(r *gin.Engine) {
			r.GET("/notifications", withAuth(role, h.ListMine))
		})

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", role, w.Code)
		}
		if mock.listedFor != role {
			t.Errorf("%s: listed for %q", role, mock.listedFor)
		}
	}
}

func TestNotificationHandler_MarkRead_NotRecipient(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{markErr: service.ErrNotRecipient})

	w := serve("PUT", "/notifications/n-1/read", nil, func(r *gin.Engine) {
		r.PUT("/notifications/:id/read", withAuth(model.RoleStudent, h.MarkRead))
	})

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 16002 {
		t.Errorf("expected code 16002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_CourseAttendance(t *testing.T) {
	h := NewReportHandler(&mockReportService{body: []byte("%PDF-1.3")})

	w := serve("GET", "/reports/courses/c-1", nil, func(r *gin.Engine) {
		r.GET("/reports/courses/:id", withAuth(model.RoleAdmin, h.CourseAttendance))
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected pdf body")
	}
}

func TestReportHandler_CourseAttendance_NotFound(t *testing.T) {
	h := NewReportHandler(&mockReportService{err: service.ErrCourseNotFound})

	w := serve("GET", "/reports/courses/c-1", nil, func(r *gin.Engine) {
		r.GET("/reports/courses/:id", withAuth(model.RoleAdmin, h.CourseAttendance))
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestReportHandler_MyScheduleICS(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	w := serve("GET", "/schedule/ics", nil, func(r *gin.Engine) {
		r.GET("/schedule/ics", withAuth(model.RoleStudent, h.MyScheduleICS))
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != service.ICSContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "schedule_202301.ics") {
		t.Errorf("unexpected disposition: %s", cd)
	}
}
