package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository/repotest"
	"github.com/iliyamo/portfolio-backend/internal/service"
	"github.com/iliyamo/portfolio-backend/internal/utils"
	"github.com/iliyamo/portfolio-backend/internal/validator"
)

type fakeUploader struct {
	mu      sync.Mutex
	n       int
	deleted []string
	failAt  string // folder whose uploads fail
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, folder string) (model.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if folder == f.failAt {
		return model.Media{}, &service.UploadError{Op: "upload", Err: errors.New("host down")}
	}
	_, _ = io.Copy(io.Discard, r)
	f.n++
	id := fmt.Sprintf("%s/%d", folder, f.n)
	return model.Media{ID: id, URL: "https://cdn.test/" + id}, nil
}

func (f *fakeUploader) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error { return nil }

type countingCache struct{ n int }

func (c *countingCache) Invalidate(context.Context) { c.n++ }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

// form builds a multipart body from fields and named files.
func form(t *testing.T, fields map[string]string, files ...string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range files {
		fw, err := w.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("payload"))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func do(e *echo.Echo, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doJSON(e *echo.Echo, method, target string, v any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(v)
	return do(e, method, target, bytes.NewReader(b), echo.MIMEApplicationJSON)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	tokens, _ := utils.NewTokenService("secret", "test", time.Hour)
	auth := service.NewAuthService(repotest.NewUsers(), tokens, nopMailer{}, 4, time.Minute, "http://front")
	up := &fakeUploader{}
	h := NewAuthHandler(auth, Uploads{Store: up, MaxBytes: 1 << 20}, SessionCookie{Name: "token"})
	e := newEcho()
	e.POST("/register", h.Register)

	fields := map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "Str0ng!Pass",
	}
	body, ct := form(t, fields, "avatar", "resume")
	first := do(e, http.MethodPost, "/register", body, ct)
	if first.Code != http.StatusCreated {
		t.Fatalf("first register = %d %s", first.Code, first.Body.String())
	}
	var cookie *http.Cookie
	for _, ck := range first.Result().Cookies() {
		if ck.Name == "token" {
			cookie = ck
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Fatalf("session cookie missing or not HttpOnly: %+v", cookie)
	}
	if strings.Contains(first.Body.String(), "password") {
		t.Fatalf("password leaked in response: %s", first.Body.String())
	}

	fields["email"] = "ADA@example.com"
	body, ct = form(t, fields, "avatar", "resume")
	second := do(e, http.MethodPost, "/register", body, ct)
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d %s", second.Code, second.Body.String())
	}
	if len(up.deleted) != 2 {
		t.Fatalf("orphaned uploads not removed: %v", up.deleted)
	}
}

func TestRegisterRequiresFiles(t *testing.T) {
	tokens, _ := utils.NewTokenService("secret", "test", time.Hour)
	auth := service.NewAuthService(repotest.NewUsers(), tokens, nopMailer{}, 4, time.Minute, "http://front")
	h := NewAuthHandler(auth, Uploads{Store: &fakeUploader{}}, SessionCookie{Name: "token"})
	e := newEcho()
	e.POST("/register", h.Register)

	body, ct := form(t, map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "Str0ng!Pass",
	}, "avatar")
	if rec := do(e, http.MethodPost, "/register", body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRegisterValidatesProfileBeforeUpload(t *testing.T) {
	tokens, _ := utils.NewTokenService("secret", "test", time.Hour)
	users := repotest.NewUsers()
	auth := service.NewAuthService(users, tokens, nopMailer{}, 4, time.Minute, "http://front")
	up := &fakeUploader{}
	h := NewAuthHandler(auth, Uploads{Store: up, MaxBytes: 1 << 20}, SessionCookie{Name: "token"})
	e := newEcho()
	e.POST("/register", h.Register)

	cases := map[string]string{
		"gender":      "robot",
		"phone":       "12-34",
		"portfolio":   "not a url",
		"linkedInUrl": "ftp://example.com/me",
	}
	for field, value := range cases {
		t.Run(field, func(t *testing.T) {
			body, ct := form(t, map[string]string{
				"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "Str0ng!Pass",
				field: value,
			}, "avatar", "resume")
			rec := do(e, http.MethodPost, "/register", body, ct)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
			}
		})
	}
	if up.n != 0 {
		t.Fatalf("uploaded %d files for invalid registrations", up.n)
	}
	if _, err := users.GetByEmail(context.Background(), "ada@example.com"); err == nil {
		t.Fatal("user stored despite invalid profile")
	}
}

func TestForgotPasswordSameReplyForUnknownEmail(t *testing.T) {
	tokens, _ := utils.NewTokenService("secret", "test", time.Hour)
	auth := service.NewAuthService(repotest.NewUsers(), tokens, nopMailer{}, 4, time.Minute, "http://front")
	_, _, err := auth.Register(context.Background(), service.RegisterInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "Str0ng!Pass",
	})
	if err != nil {
		t.Fatal(err)
	}
	h := NewAuthHandler(auth, Uploads{Store: &fakeUploader{}}, SessionCookie{Name: "token"})
	e := newEcho()
	e.POST("/forgotPassword", h.ForgotPassword)

	known := doJSON(e, http.MethodPost, "/forgotPassword", map[string]string{"email": "ada@example.com"})
	unknown := doJSON(e, http.MethodPost, "/forgotPassword", map[string]string{"email": "ghost@example.com"})
	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("known = %d, unknown = %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Fatalf("replies differ: %s vs %s", known.Body.String(), unknown.Body.String())
	}
	if strings.Contains(known.Body.String(), "ada@example.com") {
		t.Fatalf("reply echoes the address: %s", known.Body.String())
	}
}

func TestSendThenListNewestFirst(t *testing.T) {
	h := NewMessageHandler(repotest.NewMessages(), nil)
	e := newEcho()
	e.POST("/send", h.Send)
	e.GET("/getAllMessages", h.List)

	for _, subj := range []string{"  first  ", "second"} {
		rec := doJSON(e, http.MethodPost, "/send", map[string]string{
			"senderName": "  Grace  ", "subject": subj, "message": "  hello there  ",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("send = %d %s", rec.Code, rec.Body.String())
		}
	}

	got := decode[struct{ Items []model.Message }](t, do(e, http.MethodGet, "/getAllMessages", nil, ""))
	if len(got.Items) != 2 {
		t.Fatalf("items = %d", len(got.Items))
	}
	if got.Items[0].Subject != "second" || got.Items[1].Subject != "first" {
		t.Fatalf("order = %q, %q", got.Items[0].Subject, got.Items[1].Subject)
	}
	if got.Items[1].SenderName != "Grace" || got.Items[1].Message != "hello there" {
		t.Fatalf("fields not trimmed: %+v", got.Items[1])
	}
}

func TestSendRejectsShortSubject(t *testing.T) {
	h := NewMessageHandler(repotest.NewMessages(), nil)
	e := newEcho()
	e.POST("/send", h.Send)
	rec := doJSON(e, http.MethodPost, "/send", map[string]string{"senderName": "Grace", "subject": "x", "message": "hello"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func projectFixture(t *testing.T) (*echo.Echo, *repotest.Projects, *fakeUploader, *countingCache) {
	t.Helper()
	repo := repotest.NewProjects()
	up := &fakeUploader{}
	cache := &countingCache{}
	h := NewProjectHandler(repo, Uploads{Store: up, MaxBytes: 1 << 20}, cache)
	e := newEcho()
	e.POST("/addProject", h.Add)
	e.GET("/getProject/:id", h.Get)
	e.PUT("/updateProject/:id", h.Update)
	e.DELETE("/deleteProject/:id", h.Delete)
	return e, repo, up, cache
}

func TestUpdateProjectMergesTags(t *testing.T) {
	e, repo, _, cache := projectFixture(t)
	p := &model.Project{
		Title: "Site", Description: "Portfolio", Technologies: []string{"Rust"},
		ProjectBanner: model.Media{ID: "b1", URL: "https://cdn.test/b1"},
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(e, http.MethodPut, "/updateProject/"+p.ID.Hex(), map[string]any{"technologies": []string{"Go", "Rust"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %s", rec.Code, rec.Body.String())
	}
	got := decode[model.Project](t, rec)
	if strings.Join(got.Technologies, ",") != "Rust,Go" {
		t.Fatalf("technologies = %v", got.Technologies)
	}
	if cache.n != 1 {
		t.Fatalf("cache invalidations = %d", cache.n)
	}

	rec = doJSON(e, http.MethodPut, "/updateProject/"+p.ID.Hex(), map[string]any{"technologies": []string{}, "clearTechnologies": true})
	if got := decode[model.Project](t, rec); len(got.Technologies) != 0 {
		t.Fatalf("clear flag ignored: %v", got.Technologies)
	}
}

func TestUpdateProjectReplacesBannerAfterWrite(t *testing.T) {
	e, repo, up, _ := projectFixture(t)
	p := &model.Project{Title: "Site", Description: "Portfolio", ProjectBanner: model.Media{ID: "old", URL: "u"}}
	_ = repo.Create(context.Background(), p)

	body, ct := form(t, map[string]string{"deployed": "true"}, "projectBanner")
	rec := do(e, http.MethodPut, "/updateProject/"+p.ID.Hex(), body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %s", rec.Code, rec.Body.String())
	}
	got := decode[model.Project](t, rec)
	if got.ProjectBanner.ID == "old" || !got.Deployed {
		t.Fatalf("unexpected project %+v", got)
	}
	if len(up.deleted) != 1 || up.deleted[0] != "old" {
		t.Fatalf("deleted = %v", up.deleted)
	}
}

func TestAddProjectUploadFailureWritesNothing(t *testing.T) {
	e, repo, up, _ := projectFixture(t)
	up.failAt = model.FolderProjectBanner

	body, ct := form(t, map[string]string{"title": "Site", "description": "Portfolio"}, "projectBanner")
	rec := do(e, http.MethodPost, "/addProject", body, ct)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	if items, _ := repo.List(context.Background()); len(items) != 0 {
		t.Fatalf("project written despite failed upload: %+v", items)
	}
}

func TestAddProjectRequiresBanner(t *testing.T) {
	e, _, _, _ := projectFixture(t)
	body, ct := form(t, map[string]string{"title": "Site", "description": "Portfolio"})
	if rec := do(e, http.MethodPost, "/addProject", body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteSkillRemovesIconOnce(t *testing.T) {
	repo := repotest.NewSkills()
	up := &fakeUploader{}
	h := NewSkillHandler(repo, Uploads{Store: up, MaxBytes: 1 << 20})
	e := newEcho()
	e.POST("/addSkill", h.Add)
	e.GET("/getSkill/:id", h.Get)
	e.DELETE("/deleteSkill/:id", h.Delete)

	body, ct := form(t, map[string]string{"title": "Go", "proficiency": "expert"}, "svg")
	rec := do(e, http.MethodPost, "/addSkill", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add = %d %s", rec.Code, rec.Body.String())
	}
	s := decode[model.Skill](t, rec)
	if s.Proficiency != model.Expert {
		t.Fatalf("proficiency = %q", s.Proficiency)
	}

	if rec := do(e, http.MethodDelete, "/deleteSkill/"+s.ID.Hex(), nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	if len(up.deleted) != 1 || up.deleted[0] != s.SVG.ID {
		t.Fatalf("deleted = %v, want [%s]", up.deleted, s.SVG.ID)
	}
	if rec := do(e, http.MethodGet, "/getSkill/"+s.ID.Hex(), nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
	if rec := do(e, http.MethodDelete, "/deleteSkill/"+s.ID.Hex(), nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d", rec.Code)
	}
	if len(up.deleted) != 1 {
		t.Fatalf("icon deleted again: %v", up.deleted)
	}
}

func TestTimeLineCRUD(t *testing.T) {
	h := NewTimeLineHandler(repotest.NewTimeLines())
	e := newEcho()
	e.POST("/addTimeLine", h.Add)
	e.PUT("/updateTimeLine/:id", h.Update)
	e.GET("/getAllTimeLines", h.List)

	rec := doJSON(e, http.MethodPost, "/addTimeLine", map[string]any{
		"title": "Job", "description": "Backend", "timeLine": map[string]string{"from": "2020", "to": "2022"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add = %d %s", rec.Code, rec.Body.String())
	}
	tl := decode[model.TimeLine](t, rec)

	rec = doJSON(e, http.MethodPut, "/updateTimeLine/"+tl.ID.Hex(), map[string]string{"to": "present"})
	got := decode[model.TimeLine](t, rec)
	if got.TimeLine.From != "2020" || got.TimeLine.To != "present" || got.Title != "Job" {
		t.Fatalf("update = %+v", got)
	}

	if rec := doJSON(e, http.MethodPut, "/updateTimeLine/nope", map[string]string{"to": "x"}); rec.Code != http.StatusNotFound {
		t.Fatalf("bad id = %d", rec.Code)
	}
}

func TestUploadSizeLimit(t *testing.T) {
	h := NewSoftwareApplicationHandler(repotest.NewSoftwareApplications(), Uploads{Store: &fakeUploader{}, MaxBytes: 3})
	e := newEcho()
	e.POST("/addSoftwareApplication", h.Add)
	body, ct := form(t, map[string]string{"name": "VS Code"}, "svg")
	if rec := do(e, http.MethodPost, "/addSoftwareApplication", body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
}
