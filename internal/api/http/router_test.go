package http_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/aksamedia/aksamedia-admin/internal/admin"
	api "github.com/aksamedia/aksamedia-admin/internal/api/http"
	auth "github.com/aksamedia/aksamedia-admin/internal/auth/middleware"
	"github.com/aksamedia/aksamedia-admin/internal/config"
	"github.com/aksamedia/aksamedia-admin/internal/db/dbtest"
	"github.com/aksamedia/aksamedia-admin/internal/division"
	"github.com/aksamedia/aksamedia-admin/internal/employee"
	"github.com/aksamedia/aksamedia-admin/internal/score"
	"github.com/aksamedia/aksamedia-admin/internal/storage"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type harness struct {
	t         *testing.T
	db        *sqlx.DB
	handler   http.Handler
	authSvc   *auth.AuthService
	divisions *division.SQLStore
	scores    *score.SQLStore
}

func newHarness(t *testing.T, mutate ...func(*api.Deps)) *harness {
	t.Helper()
	return newConfiguredHarness(t, func(*config.Config) {}, mutate...)
}

func newConfiguredHarness(t *testing.T, configure func(*config.Config), mutate ...func(*api.Deps)) *harness {
	t.Helper()
	dbh := dbtest.Open(t)
	cfg := config.New()
	cfg.PublicURL = "http://api.test"
	cfg.LoginBurst = 100
	configure(cfg)

	blobs, err := storage.NewFSStore(t.TempDir(), cfg.BaseURL()+"/storage")
	require.NoError(t, err)

	admins := admin.NewSQLStore(dbh)
	_, _, err = admins.Upsert(context.Background(), admin.Admin{
		Name: "Admin Aksamedia", Username: "admin", Phone: "082269324126", Email: "adminaksamedia@gmail.com",
	}, "pastibisa")
	require.NoError(t, err)

	divs := division.NewSQLStore(dbh)
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, time.Hour, auth.NewSQLRevocations(dbh))
	scores := score.NewSQLStore(dbh)

	deps := api.Deps{
		Config:    cfg,
		DB:        dbh,
		Auth:      authSvc,
		Limiter:   auth.NewLoginLimiter(cfg.LoginRate, cfg.LoginBurst),
		Admins:    admins,
		Divisions: divs,
		Employees: employee.NewService(employee.NewSQLStore(dbh), divs, blobs, nil),
		Scores:    score.NewService(scores),
		Blobs:     blobs,
	}
	for _, m := range mutate {
		m(&deps)
	}
	return &harness{t: t, db: dbh, handler: api.NewRouter(deps), authSvc: authSvc, divisions: divs, scores: scores}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) token(role string) string {
	h.t.Helper()
	tok, err := h.authSvc.IssueJWT("tester", role)
	require.NoError(h.t, err)
	return tok
}

func jsonRequest(method, target, body, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func multipartRequest(t *testing.T, method, target, token string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestLoginAndLogout(t *testing.T) {
	h := newHarness(t)

	rec := h.do(jsonRequest(http.MethodPost, "/login", `{}`, ""))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "Validation failed", gjson.Get(body, "message").String())
	assert.True(t, gjson.Get(body, "errors.username").Exists())
	assert.True(t, gjson.Get(body, "errors.password").Exists())

	rec = h.do(jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"wrong"}`, ""))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", gjson.Get(rec.Body.String(), "message").String())

	rec = h.do(jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"pastibisa"}`, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Equal(t, "Login successfully", gjson.Get(body, "message").String())
	assert.Equal(t, "admin", gjson.Get(body, "data.admin.username").String())
	assert.False(t, gjson.Get(body, "data.admin.password").Exists())
	tok := gjson.Get(body, "data.token").String()
	require.NotEmpty(t, tok)

	rec = h.do(jsonRequest(http.MethodGet, "/divisions", "", tok))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(jsonRequest(http.MethodPost, "/logout", "", tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successfully", gjson.Get(rec.Body.String(), "message").String())

	rec = h.do(jsonRequest(http.MethodGet, "/divisions", "", tok))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAcceptsForms(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=admin&password=pastibisa"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, gjson.Get(rec.Body.String(), "data.token").String())
}

func TestLoginIsThrottled(t *testing.T) {
	h := newHarness(t, func(d *api.Deps) { d.Limiter = auth.NewLoginLimiter(0.001, 2) })
	for i := 0; i < 2; i++ {
		rec := h.do(jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"wrong"}`, ""))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := h.do(jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"pastibisa"}`, ""))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many login attempts", gjson.Get(rec.Body.String(), "message").String())
}

func TestLoginThrottleIgnoresForwardedHeaders(t *testing.T) {
	h := newHarness(t, func(d *api.Deps) { d.Limiter = auth.NewLoginLimiter(0.001, 2) })
	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		req := jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"wrong"}`, "")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		codes = append(codes, h.do(req).Code)
	}
	assert.Equal(t, []int{
		http.StatusUnauthorized, http.StatusUnauthorized,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, codes)
}

func TestLoginThrottleUsesForwardedAddressBehindTrustedProxy(t *testing.T) {
	h := newConfiguredHarness(t,
		func(c *config.Config) { c.TrustProxy = true },
		func(d *api.Deps) { d.Limiter = auth.NewLoginLimiter(0.001, 1) })

	login := func(ip string) int {
		req := jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"wrong"}`, "")
		req.Header.Set("X-Real-IP", ip)
		return h.do(req).Code
	}
	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.1"))
	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.2"))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t)
	for _, target := range []string{"/divisions", "/employees"} {
		rec := h.do(jsonRequest(http.MethodGet, target, "", ""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, "Unauthenticated", gjson.Get(rec.Body.String(), "message").String())
	}
}

func TestDivisionsArePaged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		_, _, err := h.divisions.EnsureByName(ctx, fmt.Sprintf("Division %02d", i))
		require.NoError(t, err)
	}
	tok := h.token(admin.RoleViewer)

	rec := h.do(jsonRequest(http.MethodGet, "/divisions", "", tok))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "Divisions retrieved successfully", gjson.Get(body, "message").String())
	assert.Len(t, gjson.Get(body, "data.divisions").Array(), 10)
	assert.Equal(t, "Division 01", gjson.Get(body, "data.divisions.0.name").String())
	assert.Equal(t, int64(12), gjson.Get(body, "pagination.total").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "pagination.last_page").Int())
	assert.Equal(t, "http://api.test/divisions?page=2", gjson.Get(body, "pagination.next_page_url").String())
	assert.Equal(t, gjson.Null, gjson.Get(body, "pagination.prev_page_url").Type)

	rec = h.do(jsonRequest(http.MethodGet, "/divisions?page=2", "", tok))
	body = rec.Body.String()
	assert.Len(t, gjson.Get(body, "data.divisions").Array(), 2)
	assert.Equal(t, int64(11), gjson.Get(body, "pagination.from").Int())
	assert.Equal(t, int64(12), gjson.Get(body, "pagination.to").Int())
	assert.Equal(t, gjson.Null, gjson.Get(body, "pagination.next_page_url").Type)

	rec = h.do(jsonRequest(http.MethodGet, "/divisions?name=division%2011", "", tok))
	body = rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "pagination.total").Int())
	assert.Equal(t, "Division 11", gjson.Get(body, "data.divisions.0.name").String())

	rec = h.do(jsonRequest(http.MethodGet, "/divisions?page=5", "", tok))
	body = rec.Body.String()
	assert.Empty(t, gjson.Get(body, "data.divisions").Array())
	assert.True(t, gjson.Get(body, "data.divisions").IsArray())
	assert.Equal(t, gjson.Null, gjson.Get(body, "pagination.from").Type)
}

func TestEmployeeLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	qa, _, err := h.divisions.EnsureByName(ctx, "QA")
	require.NoError(t, err)
	backend, _, err := h.divisions.EnsureByName(ctx, "Backend")
	require.NoError(t, err)
	tok := h.token(admin.RoleAdmin)

	rec := h.do(multipartRequest(t, http.MethodPost, "/employees", tok, map[string]string{
		"name": "Budi", "phone": "081234567890", "division": qa.ID, "position": "Tester",
	}, nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, gjson.Get(rec.Body.String(), "errors.image").Exists())

	rec = h.do(multipartRequest(t, http.MethodPost, "/employees", tok, map[string]string{
		"name": "Budi", "phone": "081234567890", "division": "missing", "position": "Tester",
	}, pngBytes))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, gjson.Get(rec.Body.String(), "errors.division").Exists())

	rec = h.do(multipartRequest(t, http.MethodPost, "/employees", tok, map[string]string{
		"name": "Budi", "phone": "081234567890", "division": qa.ID, "position": "Tester",
	}, pngBytes))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Equal(t, "Employee created successfully", gjson.Get(body, "message").String())
	id := gjson.Get(body, "data.employee.id").String()
	image := gjson.Get(body, "data.employee.image").String()
	assert.True(t, strings.HasPrefix(image, "http://api.test/storage/employees/"), image)
	assert.Equal(t, "QA", gjson.Get(body, "data.employee.division.name").String())

	rec = h.do(httptest.NewRequest(http.MethodGet, strings.TrimPrefix(image, "http://api.test"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	rec = h.do(jsonRequest(http.MethodGet, "/employees?division_id="+backend.ID, "", tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gjson.Get(rec.Body.String(), "data.employees").Array())

	rec = h.do(jsonRequest(http.MethodGet, "/employees?name=bud", "", tok))
	body = rec.Body.String()
	assert.Equal(t, "Employees retrieved successfully", gjson.Get(body, "message").String())
	assert.Equal(t, "Budi", gjson.Get(body, "data.employees.0.name").String())
	assert.Equal(t, int64(1), gjson.Get(body, "pagination.total").Int())

	rec = h.do(jsonRequest(http.MethodPut, "/employees/"+id, `{"position":"Lead","division":"`+backend.ID+`"}`, tok))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = rec.Body.String()
	assert.Equal(t, "Employee updated successfully", gjson.Get(body, "message").String())
	assert.Equal(t, "Lead", gjson.Get(body, "data.employee.position").String())
	assert.Equal(t, "Budi", gjson.Get(body, "data.employee.name").String())
	assert.Equal(t, "Backend", gjson.Get(body, "data.employee.division.name").String())

	rec = h.do(multipartRequest(t, http.MethodPut, "/employees/"+id, tok, map[string]string{"name": "Budi S"}, pngBytes))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEqual(t, image, gjson.Get(rec.Body.String(), "data.employee.image").String())
	assert.Equal(t, "Lead", gjson.Get(rec.Body.String(), "data.employee.position").String())

	rec = h.do(jsonRequest(http.MethodPut, "/employees/"+id, `{"name":"   "}`, tok))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, gjson.Get(rec.Body.String(), "errors.name").Exists())

	rec = h.do(jsonRequest(http.MethodPut, "/employees/nope", `{"name":"X"}`, tok))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Employee not found", gjson.Get(rec.Body.String(), "message").String())

	rec = h.do(jsonRequest(http.MethodDelete, "/employees/"+id, "", tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee deleted successfully", gjson.Get(rec.Body.String(), "message").String())

	rec = h.do(jsonRequest(http.MethodDelete, "/employees/"+id, "", tok))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewerCannotWrite(t *testing.T) {
	h := newHarness(t)
	tok := h.token(admin.RoleViewer)

	rec := h.do(multipartRequest(t, http.MethodPost, "/employees", tok, map[string]string{"name": "X"}, pngBytes))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = h.do(jsonRequest(http.MethodDelete, "/employees/any", "", tok))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = h.do(jsonRequest(http.MethodGet, "/employees", "", tok))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScoreReports(t *testing.T) {
	h := newHarness(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/nilaiRT", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", gjson.Get(rec.Body.String(), "data").Raw)

	_, err := h.scores.Insert(context.Background(), []score.Record{
		{Name: "Bob", Identifier: "002", AssessmentID: 7, SubjectLabel: "SOCIAL", Score: 4},
		{Name: "Alice", Identifier: "001", AssessmentID: 7, SubjectLabel: "ARTISTIC", Score: 5.9},
		{Name: "Alice", Identifier: "001", AssessmentID: 7, SubjectLabel: "ARTISTIC", Score: 3},
		{Name: "Carol", Identifier: "003", AssessmentID: 4, SubjectID: 44, Score: 2},
		{Name: "Carol", Identifier: "003", AssessmentID: 4, SubjectID: 44, Score: 1},
		{Name: "Dani", Identifier: "004", AssessmentID: 4, SubjectID: 46, Score: 2},
	})
	require.NoError(t, err)

	rec = h.do(httptest.NewRequest(http.MethodGet, "/nilaiRT", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "RT scores retrieved successfully", gjson.Get(body, "message").String())
	assert.Equal(t, "Alice", gjson.Get(body, "data.0.name").String())
	assert.Equal(t, "001", gjson.Get(body, "data.0.nisn").String())
	assert.Equal(t, int64(5), gjson.Get(body, "data.0.nilaiRt.artistic").Int())
	assert.Equal(t, "0", gjson.Get(body, "data.0.nilaiRt.social").Raw)
	assert.Equal(t, "Bob", gjson.Get(body, "data.1.name").String())
	assert.Equal(t, int64(4), gjson.Get(body, "data.1.nilaiRt.social").Int())

	rec = h.do(httptest.NewRequest(http.MethodGet, "/nilaiST", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Equal(t, "ST scores retrieved successfully", gjson.Get(body, "message").String())
	assert.Equal(t, "Dani", gjson.Get(body, "data.0.name").String())
	assert.InDelta(t, 200.0, gjson.Get(body, "data.0.listNilai.penalaran").Float(), 1e-9)
	assert.Equal(t, "Carol", gjson.Get(body, "data.1.name").String())
	assert.InDelta(t, 125.01, gjson.Get(body, "data.1.listNilai.verbal").Float(), 1e-9)
	assert.InDelta(t, 125.01, gjson.Get(body, "data.1.total").Float(), 1e-9)
	assert.Equal(t, 0.0, gjson.Get(body, "data.1.listNilai.figural").Float())
}

func TestScoreReportsHideStoreFailures(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.db.Close())

	for path, msg := range map[string]string{
		"/nilaiRT": "An unexpected error occurred while retrieving RT scores data",
		"/nilaiST": "An unexpected error occurred while retrieving ST scores data",
	} {
		rec := h.do(httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code, path)
		body := rec.Body.String()
		assert.Equal(t, "error", gjson.Get(body, "status").String())
		assert.Equal(t, msg, gjson.Get(body, "message").String())
		assert.Equal(t, gjson.Null, gjson.Get(body, "data").Type)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	h := newHarness(t)
	rec := h.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, h.db.Close())
	rec = h.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStorageRejectsMissingBlobs(t *testing.T) {
	h := newHarness(t)
	rec := h.do(httptest.NewRequest(http.MethodGet, "/storage/employees/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "File not found", gjson.Get(rec.Body.String(), "message").String())
}

func TestLinksShareTheRequestOriginWithoutPublicURL(t *testing.T) {
	h := newConfiguredHarness(t, func(c *config.Config) { c.PublicURL = ""; c.PageSize = 1 })
	ctx := context.Background()
	qa, _, err := h.divisions.EnsureByName(ctx, "QA")
	require.NoError(t, err)
	tok := h.token(admin.RoleAdmin)

	for _, name := range []string{"Ani", "Budi"} {
		rec := h.do(multipartRequest(t, http.MethodPost, "/employees", tok, map[string]string{
			"name": name, "phone": "081234567890", "division": qa.ID, "position": "Tester",
		}, pngBytes))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.True(t, strings.HasPrefix(gjson.Get(rec.Body.String(), "data.employee.image").String(),
			"http://example.com/storage/employees/"))
	}

	rec := h.do(jsonRequest(http.MethodGet, "/employees", "", tok))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(gjson.Get(body, "data.employees.0.image").String(), "http://example.com/storage/employees/"))
	assert.Equal(t, "http://example.com/employees?page=2", gjson.Get(body, "pagination.next_page_url").String())
}
