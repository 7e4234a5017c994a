package v1_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/taskboard-simple/api/v1"
	"github.com/taskboard-simple/database/databasetest"
	"github.com/taskboard-simple/dto"
	"github.com/taskboard-simple/middleware"
	"github.com/taskboard-simple/models"
	"github.com/taskboard-simple/services"
	"github.com/taskboard-simple/templates"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret123"

type server struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *services.AuthService
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := databasetest.New(t)
	router := gin.New()
	router.SetHTMLTemplate(templates.Load())
	v1.RegisterRoutes(router, db, v1.Options{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		HashCost:  bcrypt.MinCost,
	})

	return &server{
		router: router,
		db:     db,
		auth:   services.NewAuthService(db, "test-secret", time.Hour).WithHashCost(bcrypt.MinCost),
	}
}

func (s *server) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// signIn registers username and returns the user with a session cookie
func (s *server) signIn(t *testing.T, username string) (models.User, *http.Cookie) {
	t.Helper()
	user, err := s.auth.Register(dto.RegisterRequest{
		Username:        username,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}

	rec := s.do(http.MethodPost, "/accounts/login/", url.Values{
		"username": {username},
		"password": {testPassword},
	}, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("login %s: expected 302, got %d", username, rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return user, c
		}
	}
	t.Fatalf("login %s: no session cookie", username)
	return user, nil
}

func (s *server) createProject(t *testing.T, cookie *http.Cookie, name string) models.Project {
	t.Helper()
	rec := s.do(http.MethodPost, "/projects/create/", url.Values{
		"name":        {name},
		"description": {name + " description"},
	}, cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("create project: expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	var project models.Project
	if err := s.db.Where("name = ?", name).First(&project).Error; err != nil {
		t.Fatalf("load project %s: %v", name, err)
	}
	return project
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	s := newServer(t)

	for _, path := range []string{"/projects/", "/projects/create/", "/tasks/1/", "/accounts/delete/"} {
		rec := s.do(http.MethodGet, path, nil, nil)
		assertRedirect(t, rec, "/accounts/login/?next="+url.QueryEscape(path))
	}

	rec := s.do(http.MethodGet, "/projects/", nil, &http.Cookie{Name: middleware.SessionCookie, Value: "garbage"})
	assertRedirect(t, rec, "/accounts/login/?next=%2Fprojects%2F")
}

func TestHomeRedirects(t *testing.T) {
	s := newServer(t)
	assertRedirect(t, s.do(http.MethodGet, "/", nil, nil), "/accounts/login/")

	_, cookie := s.signIn(t, "alice")
	assertRedirect(t, s.do(http.MethodGet, "/", nil, cookie), "/projects/")
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	s.signIn(t, "alice")

	rec := s.do(http.MethodPost, "/accounts/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong-password"},
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/accounts/login/", url.Values{
		"username": {"alice"},
		"password": {testPassword},
		"next":     {"/projects/create/"},
	}, nil)
	assertRedirect(t, rec, "/projects/create/")

	rec = s.do(http.MethodPost, "/accounts/login/", url.Values{
		"username": {"alice"},
		"password": {testPassword},
		"next":     {"//evil.example.com/"},
	}, nil)
	assertRedirect(t, rec, "/projects/")
}

func TestRegister(t *testing.T) {
	s := newServer(t)

	form := url.Values{
		"username":         {"carol"},
		"email":            {"carol@example.com"},
		"password":         {testPassword},
		"password_confirm": {testPassword},
	}
	assertRedirect(t, s.do(http.MethodPost, "/accounts/register/", form, nil), "/accounts/login/")

	rec := s.do(http.MethodPost, "/accounts/register/", form, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate username: expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "carol@example.com") {
		t.Fatalf("expected submitted email to be re-rendered")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	s := newServer(t)
	_, cookie := s.signIn(t, "alice")

	rec := s.do(http.MethodPost, "/accounts/logout/", nil, cookie)
	assertRedirect(t, rec, "/accounts/login/")

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestCreateProject(t *testing.T) {
	s := newServer(t)
	_, cookie := s.signIn(t, "alice")

	project := s.createProject(t, cookie, "Website Redesign")

	rec := s.do(http.MethodGet, "/projects/", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Website Redesign") {
		t.Fatalf("expected project in list")
	}

	rec = s.do(http.MethodGet, "/projects/"+id(project.ID)+"/", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", rec.Code)
	}
}

func TestCreateProjectValidationKeepsInput(t *testing.T) {
	s := newServer(t)
	_, cookie := s.signIn(t, "alice")

	rec := s.do(http.MethodPost, "/projects/create/", url.Values{
		"name":        {"   "},
		"description": {"kept description"},
	}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "kept description") {
		t.Fatalf("expected submitted description in form")
	}
	if !strings.Contains(body, "This field is required.") {
		t.Fatalf("expected field error in form")
	}

	var count int64
	s.db.Model(&models.Project{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no project, got %d", count)
	}
}

func TestStrangerCannotTouchProject(t *testing.T) {
	s := newServer(t)
	_, alice := s.signIn(t, "alice")
	_, bob := s.signIn(t, "bob")
	project := s.createProject(t, alice, "Private")
	base := "/projects/" + id(project.ID)

	if rec := s.do(http.MethodGet, base+"/", nil, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("detail: expected 403, got %d", rec.Code)
	}
	update := url.Values{"name": {"Hijacked"}, "description": {"x"}}
	if rec := s.do(http.MethodPost, base+"/update/", update, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("update: expected 403, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, base+"/delete/", url.Values{}, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("delete: expected 403, got %d", rec.Code)
	}

	var reloaded models.Project
	if err := s.db.First(&reloaded, project.ID).Error; err != nil {
		t.Fatalf("project should still exist: %v", err)
	}
	if reloaded.Name != "Private" {
		t.Fatalf("project was modified: %q", reloaded.Name)
	}

	rec := s.do(http.MethodGet, "/projects/", nil, bob)
	if strings.Contains(rec.Body.String(), "Private") {
		t.Fatalf("stranger should not see the project")
	}
}

func TestMissingAndMalformedIDs(t *testing.T) {
	s := newServer(t)
	_, cookie := s.signIn(t, "alice")

	for _, path := range []string{"/projects/999/", "/projects/abc/", "/tasks/999/", "/tasks/0/update/", "/projects/-1/tasks/create/"} {
		if rec := s.do(http.MethodGet, path, nil, cookie); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestUpdateAndDeleteProject(t *testing.T) {
	s := newServer(t)
	_, cookie := s.signIn(t, "alice")
	project := s.createProject(t, cookie, "Draft")
	base := "/projects/" + id(project.ID)

	rec := s.do(http.MethodPost, base+"/update/", url.Values{"name": {"Final"}, "description": {"done"}}, cookie)
	assertRedirect(t, rec, "/projects/")

	var reloaded models.Project
	s.db.First(&reloaded, project.ID)
	if reloaded.Name != "Final" || reloaded.Description != "done" {
		t.Fatalf("unexpected project after update: %+v", reloaded)
	}

	if rec := s.do(http.MethodGet, base+"/delete/", nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("delete confirmation: expected 200, got %d", rec.Code)
	}
	assertRedirect(t, s.do(http.MethodPost, base+"/delete/", url.Values{}, cookie), "/projects/")

	if rec := s.do(http.MethodGet, base+"/", nil, cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestMembers(t *testing.T) {
	s := newServer(t)
	_, alice := s.signIn(t, "alice")
	bobUser, bob := s.signIn(t, "bob")
	project := s.createProject(t, alice, "Shared")
	base := "/projects/" + id(project.ID)

	rec := s.do(http.MethodPost, base+"/members/add/", url.Values{"username": {"nobody"}}, alice)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown member: expected 400, got %d", rec.Code)
	}

	assertRedirect(t, s.do(http.MethodPost, base+"/members/add/", url.Values{"username": {"bob"}}, alice), base+"/")
	if rec := s.do(http.MethodGet, base+"/", nil, bob); rec.Code != http.StatusOK {
		t.Fatalf("member detail: expected 200, got %d", rec.Code)
	}

	remove := base + "/members/" + id(bobUser.ID) + "/remove/"
	if rec := s.do(http.MethodPost, remove, url.Values{}, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("member removing: expected 403, got %d", rec.Code)
	}
	assertRedirect(t, s.do(http.MethodPost, remove, url.Values{}, alice), base+"/")
	if rec := s.do(http.MethodGet, base+"/", nil, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("removed member: expected 403, got %d", rec.Code)
	}
}

func TestTaskStatusFlow(t *testing.T) {
	s := newServer(t)
	_, alice := s.signIn(t, "alice")
	bobUser, bob := s.signIn(t, "bob")
	project := s.createProject(t, alice, "Website Redesign")
	projectPath := "/projects/" + id(project.ID) + "/"

	if rec := s.do(http.MethodGet, projectPath+"tasks/create/", nil, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner task form: expected 403, got %d", rec.Code)
	}

	rec := s.do(http.MethodPost, projectPath+"tasks/create/", url.Values{
		"name":        {"Mockups"},
		"description": {"Draw the new pages"},
		"assigned_to": {id(bobUser.ID)},
		"status":      {string(models.TaskStatusNotStarted)},
	}, alice)
	assertRedirect(t, rec, projectPath)

	var task models.Task
	if err := s.db.Where("name = ?", "Mockups").First(&task).Error; err != nil {
		t.Fatalf("load task: %v", err)
	}
	taskPath := "/tasks/" + id(task.ID) + "/"

	// assignment alone makes the project visible
	rec = s.do(http.MethodGet, "/projects/", nil, bob)
	if !strings.Contains(rec.Body.String(), "Website Redesign") {
		t.Fatalf("assignee should see the project")
	}

	if rec := s.do(http.MethodGet, taskPath+"update-status/", nil, bob); rec.Code != http.StatusOK {
		t.Fatalf("status form: expected 200, got %d", rec.Code)
	}
	rec = s.do(http.MethodPost, taskPath+"update-status/", url.Values{"status": {"Done"}}, bob)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status: expected 400, got %d", rec.Code)
	}
	rec = s.do(http.MethodPost, taskPath+"update-status/", url.Values{"status": {string(models.TaskStatusCompleted)}}, bob)
	assertRedirect(t, rec, taskPath)

	rec = s.do(http.MethodPost, taskPath+"update-status/", url.Values{"status": {string(models.TaskStatusInProgress)}}, alice)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("owner status update: expected 403, got %d", rec.Code)
	}

	var reloaded models.Task
	s.db.First(&reloaded, task.ID)
	if reloaded.Status != models.TaskStatusCompleted {
		t.Fatalf("expected Completed, got %q", reloaded.Status)
	}

	// the detail page accepts a status change from the owner too
	rec = s.do(http.MethodPost, taskPath, url.Values{"status": {string(models.TaskStatusInProgress)}}, alice)
	assertRedirect(t, rec, taskPath)
	s.db.First(&reloaded, task.ID)
	if reloaded.Status != models.TaskStatusInProgress {
		t.Fatalf("expected In Progress, got %q", reloaded.Status)
	}
}

func TestTaskFormValidation(t *testing.T) {
	s := newServer(t)
	_, alice := s.signIn(t, "alice")
	project := s.createProject(t, alice, "Website Redesign")
	path := "/projects/" + id(project.ID) + "/tasks/create/"

	rec := s.do(http.MethodPost, path, url.Values{
		"name":        {"Mockups"},
		"description": {"kept description"},
		"assigned_to": {"abc"},
		"status":      {string(models.TaskStatusNotStarted)},
	}, alice)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kept description") {
		t.Fatalf("expected submitted description in form")
	}

	rec = s.do(http.MethodPost, path, url.Values{
		"name":        {"Mockups"},
		"description": {"x"},
		"assigned_to": {"999"},
		"status":      {string(models.TaskStatusNotStarted)},
	}, alice)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown assignee: expected 400, got %d", rec.Code)
	}

	var count int64
	s.db.Model(&models.Task{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no task, got %d", count)
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	s := newServer(t)
	_, alice := s.signIn(t, "alice")
	_, bob := s.signIn(t, "bob")
	project := s.createProject(t, alice, "Website Redesign")
	projectPath := "/projects/" + id(project.ID) + "/"

	rec := s.do(http.MethodPost, projectPath+"tasks/create/", url.Values{
		"name":        {"Copy"},
		"description": {"Write copy"},
		"status":      {string(models.TaskStatusNotStarted)},
	}, alice)
	assertRedirect(t, rec, projectPath)

	var task models.Task
	s.db.Where("name = ?", "Copy").First(&task)
	taskPath := "/tasks/" + id(task.ID) + "/"

	if rec := s.do(http.MethodGet, taskPath+"update/", nil, alice); rec.Code != http.StatusOK {
		t.Fatalf("edit form: expected 200, got %d", rec.Code)
	}
	update := url.Values{
		"name":        {"Final copy"},
		"description": {"Write final copy"},
		"status":      {string(models.TaskStatusInProgress)},
	}
	if rec := s.do(http.MethodPost, taskPath+"update/", update, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("stranger update: expected 403, got %d", rec.Code)
	}
	assertRedirect(t, s.do(http.MethodPost, taskPath+"update/", update, alice), projectPath)

	rec = s.do(http.MethodGet, taskPath, nil, alice)
	if !strings.Contains(rec.Body.String(), "Final copy") {
		t.Fatalf("expected updated task on detail page")
	}

	if rec := s.do(http.MethodPost, taskPath+"delete/", url.Values{}, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("stranger delete: expected 403, got %d", rec.Code)
	}
	assertRedirect(t, s.do(http.MethodPost, taskPath+"delete/", url.Values{}, alice), projectPath)
	if rec := s.do(http.MethodGet, taskPath, nil, alice); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newServer(t)
	alice, cookie := s.signIn(t, "alice")
	s.createProject(t, cookie, "Doomed")

	rec := s.do(http.MethodPost, "/accounts/delete/", url.Values{}, cookie)
	assertRedirect(t, rec, "/accounts/login/")

	var users, projects int64
	s.db.Model(&models.User{}).Where("id = ?", alice.ID).Count(&users)
	s.db.Model(&models.Project{}).Count(&projects)
	if users != 0 || projects != 0 {
		t.Fatalf("expected user and owned projects gone, got users=%d projects=%d", users, projects)
	}

	// the old token no longer names an account
	assertRedirect(t, s.do(http.MethodGet, "/projects/", nil, cookie), "/accounts/login/?next=%2Fprojects%2F")
	rec = s.do(http.MethodPost, "/projects/create/", url.Values{"name": {"x"}, "description": {"y"}}, cookie)
	assertRedirect(t, rec, "/accounts/login/?next=%2Fprojects%2Fcreate%2F")
	assertRedirect(t, s.do(http.MethodGet, "/", nil, cookie), "/accounts/login/")
}

func TestMalformedFormIsBadRequest(t *testing.T) {
	s := newServer(t)
	_, cookie := s.signIn(t, "alice")
	project := s.createProject(t, cookie, "Website Redesign")

	paths := []string{
		"/projects/create/",
		"/projects/" + id(project.ID) + "/update/",
		"/projects/" + id(project.ID) + "/members/add/",
		"/projects/" + id(project.ID) + "/tasks/create/",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("name=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestPeopleShowDisplayName(t *testing.T) {
	s := newServer(t)
	_, alice := s.signIn(t, "alice")
	bob, _ := s.signIn(t, "bob")
	project := s.createProject(t, alice, "Website Redesign")
	projectPath := "/projects/" + id(project.ID) + "/"

	if err := s.db.Model(&models.User{}).Where("id = ?", bob.ID).Update("name", "Bob Builder").Error; err != nil {
		t.Fatalf("set name: %v", err)
	}
	rec := s.do(http.MethodPost, projectPath+"tasks/create/", url.Values{
		"name":        {"Mockups"},
		"description": {"Draw the new pages"},
		"assigned_to": {id(bob.ID)},
		"status":      {string(models.TaskStatusNotStarted)},
	}, alice)
	assertRedirect(t, rec, projectPath)

	rec = s.do(http.MethodGet, projectPath, nil, alice)
	if !strings.Contains(rec.Body.String(), "Bob Builder") {
		t.Fatalf("expected assignee display name on project page")
	}
	rec = s.do(http.MethodGet, projectPath+"tasks/create/", nil, alice)
	if !strings.Contains(rec.Body.String(), "Bob Builder") {
		t.Fatalf("expected display name in assignee choices")
	}
}

func TestHealthCheck(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
