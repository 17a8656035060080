// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/testutil"
	"github.com/xayahn/eduforge/lms"
)

// fakePlatform serves the endpoints the commands exercise.
type fakePlatform struct {
	mu          sync.Mutex
	enrollments []lms.Enrollment
	submissions []lms.Submission
	devices     int
}

func (p *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	route := r.Method + " " + r.URL.Path
	if !strings.HasPrefix(r.URL.Path, "/api/auth/") && !strings.HasPrefix(r.Header.Get("Authorization"), "Token ") {
		testutil.WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}

	switch route {
	case "POST /api/auth/login/":
		var body lms.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		staff := body.Username == "ada"
		if body.Password != "secret" {
			testutil.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid Credentials"})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"token": "token-" + body.Username,
			"user":  map[string]any{"id": len(body.Username), "username": body.Username, "is_staff": staff},
		})
	case "GET /api/courses/":
		testutil.WriteJSON(w, http.StatusOK, []lms.Course{
			{ID: 1, Title: "Go 101", InstructorName: "ada"},
			{ID: 2, Title: "Databases", InstructorName: "ada"},
		})
	case "GET /api/enrollments/":
		testutil.WriteJSON(w, http.StatusOK, p.enrollments)
	case "POST /api/enrollments/":
		var body lms.EnrollmentRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		enrollment := lms.Enrollment{ID: int64(len(p.enrollments) + 1), Student: body.Student, Course: body.Course, Progress: 0}
		p.enrollments = append(p.enrollments, enrollment)
		testutil.WriteJSON(w, http.StatusCreated, enrollment)
	case "GET /api/notifications/":
		testutil.WriteJSON(w, http.StatusOK, []lms.Notification{{ID: 1, Title: "Welcome"}, {ID: 2, Title: "Old", IsRead: true}})
	case "GET /api/submissions/":
		testutil.WriteJSON(w, http.StatusOK, p.submissions)
	case "POST /api/submissions/":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created := lms.Submission{
			ID:          int64(len(p.submissions) + 1),
			Project:     3,
			StudentName: r.FormValue("student_name"),
			GithubLink:  r.FormValue("github_link"),
		}
		p.submissions = append(p.submissions, created)
		testutil.WriteJSON(w, http.StatusCreated, created)
	case "PATCH /api/submissions/1/":
		var body lms.GradeRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		grade := body.Grade
		p.submissions[0].Grade = &grade
		testutil.WriteJSON(w, http.StatusOK, p.submissions[0])
	case "POST /api/devices/":
		p.devices++
		testutil.WriteJSON(w, http.StatusCreated, map[string]any{"id": 11, "device_type": "expo", "token": "ExponentPushToken[x]"})
	default:
		http.NotFound(w, r)
	}
}

type environment struct {
	t        *testing.T
	platform *fakePlatform
	server   *httptest.Server
	dir      string
	config   string
	password string
}

func newEnvironment(t *testing.T, pushSection string) *environment {
	t.Helper()
	for _, name := range []string{"EDUFORGE_CONFIG", "EDUFORGE_API_ROOT", "EDUFORGE_SESSION_FILE"} {
		t.Setenv(name, "")
	}

	platform := &fakePlatform{}
	server := httptest.NewServer(platform)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	if pushSection == "" {
		pushSection = "push:\n  enabled: false\n"
	}
	configText := "api:\n  root: " + server.URL + "/api\n  timeout: 5s\n" +
		"session:\n  file: " + filepath.Join(dir, "session.json") + "\n" +
		"cache:\n  dir: " + filepath.Join(dir, "cache") + "\n" +
		"log:\n  level: error\n  format: json\n" + pushSection
	configPath := filepath.Join(dir, "eduforge.yaml")
	if err := os.WriteFile(configPath, []byte(configText), 0o600); err != nil {
		t.Fatal(err)
	}
	passwordPath := filepath.Join(dir, "password")
	if err := os.WriteFile(passwordPath, []byte("secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return &environment{t: t, platform: platform, server: server, dir: dir, config: configPath, password: passwordPath}
}

// run executes one command line and returns stdout.
func (e *environment) run(args ...string) (string, error) {
	e.t.Helper()
	var stdout bytes.Buffer
	root := Root(&stdout)
	root.Output = &bytes.Buffer{}
	full := append([]string(nil), args...)
	full = append(full, "--config", e.config)
	err := root.Execute(full)
	return stdout.String(), err
}

func (e *environment) mustRun(args ...string) string {
	e.t.Helper()
	output, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("eduforge %s: %v", strings.Join(args, " "), err)
	}
	return output
}

func category(err error) cli.ErrorCategory {
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Category
	}
	return ""
}

func TestLearnerWorkflow(t *testing.T) {
	env := newEnvironment(t, "")

	if output := env.mustRun("login", "sam", "--password-file", env.password); !strings.Contains(output, "Signed in as sam") {
		t.Errorf("login output = %q", output)
	}
	if output := env.mustRun("whoami"); !strings.Contains(output, "student") || !strings.Contains(output, "submit_work") {
		t.Errorf("whoami output = %q", output)
	}

	env.mustRun("join", "2")

	var dashboard dashboardOutput
	if err := json.Unmarshal([]byte(env.mustRun("courses", "--json")), &dashboard); err != nil {
		t.Fatalf("decoding dashboard: %v", err)
	}
	if len(dashboard.Courses) != 2 || dashboard.Cached {
		t.Fatalf("dashboard = %+v, want two live courses", dashboard)
	}
	if dashboard.Courses[0].IsEnrolled || !dashboard.Courses[1].IsEnrolled {
		t.Errorf("enrollment flags = %+v, want only course 2 enrolled", dashboard.Courses)
	}
	if dashboard.Unread != 1 {
		t.Errorf("unread = %d, want 1", dashboard.Unread)
	}

	if output := env.mustRun("submit", "3", "--link", "https://github.com/sam/lab"); !strings.Contains(output, "Submitted #1") {
		t.Errorf("submit output = %q", output)
	}
	if _, err := env.run("submit", "3", "--link", "github.com/sam/lab"); category(err) != cli.CategoryValidation {
		t.Errorf("bad link error = %v, want validation", err)
	}

	if output := env.mustRun("grades"); !strings.Contains(output, "pending") {
		t.Errorf("grades output = %q", output)
	}
	if _, err := env.run("grade", "1", "90"); category(err) != cli.CategoryForbidden {
		t.Errorf("learner grading error = %v, want forbidden", err)
	}

	env.mustRun("logout")
	if _, err := env.run("courses"); category(err) != cli.CategoryUnauthenticated {
		t.Errorf("courses after logout error = %v, want unauthenticated", err)
	}
}

func TestInstructorGrades(t *testing.T) {
	env := newEnvironment(t, "")
	env.platform.submissions = []lms.Submission{
		{ID: 1, Project: 3, StudentName: "sam"},
		{ID: 2, Project: 4, StudentName: "lee"},
	}

	env.mustRun("login", "ada", "--password-file", env.password)

	if output := env.mustRun("grade", "1", "92", "--feedback", "solid"); !strings.Contains(output, "92/100") {
		t.Errorf("grade output = %q", output)
	}
	if _, err := env.run("grade", "1", "120"); category(err) != cli.CategoryValidation {
		t.Errorf("out of range grade error = %v, want validation", err)
	}

	var submissions []lms.Submission
	if err := json.Unmarshal([]byte(env.mustRun("grades", "--project", "3", "--json")), &submissions); err != nil {
		t.Fatal(err)
	}
	if len(submissions) != 1 || submissions[0].Grade == nil || *submissions[0].Grade != 92 {
		t.Errorf("project submissions = %+v, want the graded one", submissions)
	}

	if _, err := env.run("join", "1"); category(err) != cli.CategoryForbidden {
		t.Errorf("instructor join error = %v, want forbidden", err)
	}
	if _, err := env.run("project", "deadline", "3", "soon"); category(err) != cli.CategoryValidation {
		t.Errorf("bad deadline error = %v, want validation", err)
	}
}

func TestCoursesFallsBackToCache(t *testing.T) {
	env := newEnvironment(t, "")
	env.mustRun("login", "sam", "--password-file", env.password)

	if _, err := env.run("courses", "--cached"); category(err) != cli.CategoryNotFound {
		t.Errorf("cached before any fetch error = %v, want not found", err)
	}
	env.mustRun("courses")

	env.server.Close()
	output := env.mustRun("courses")
	if !strings.Contains(output, "offline") || !strings.Contains(output, "Go 101") {
		t.Errorf("offline output = %q, want cached dashboard", output)
	}
}

func TestBadCredentials(t *testing.T) {
	env := newEnvironment(t, "")
	wrong := filepath.Join(env.dir, "wrong")
	if err := os.WriteFile(wrong, []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := env.run("login", "sam", "--password-file", wrong)
	if category(err) != cli.CategoryUnauthenticated {
		t.Fatalf("error = %v, want unauthenticated", err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "session.json")); !os.IsNotExist(err) {
		t.Errorf("session file written after failed login: %v", err)
	}
}

func TestLoginRegistersDevice(t *testing.T) {
	env := newEnvironment(t, "push:\n  enabled: true\n  physical_device: true\n  permission: granted\n  device_token: ExponentPushToken[x]\n  step_timeout: 5s\n")
	env.mustRun("login", "sam", "--password-file", env.password)

	env.platform.mu.Lock()
	devices := env.platform.devices
	env.platform.mu.Unlock()
	if devices != 1 {
		t.Errorf("device registrations = %d, want 1", devices)
	}

	output := env.mustRun("push")
	if !strings.Contains(output, "Registered device 11") {
		t.Errorf("push output = %q", output)
	}
}

func TestKeygenSealsSession(t *testing.T) {
	env := newEnvironment(t, "")
	identity := filepath.Join(env.dir, "identity.txt")

	var stdout bytes.Buffer
	if err := Root(&stdout).Execute([]string{"keygen", "--output", identity}); err != nil {
		t.Fatalf("keygen: %v", err)
	}
	if !strings.Contains(stdout.String(), "age1") {
		t.Errorf("keygen output = %q, want a recipient", stdout.String())
	}

	config, err := os.ReadFile(env.config)
	if err != nil {
		t.Fatal(err)
	}
	config = bytes.Replace(config, []byte("session:\n"), []byte("session:\n  identity_file: "+identity+"\n"), 1)
	if err := os.WriteFile(env.config, config, 0o600); err != nil {
		t.Fatal(err)
	}

	env.mustRun("login", "sam", "--password-file", env.password)
	raw, err := os.ReadFile(filepath.Join(env.dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("token-sam")) {
		t.Error("session file holds the token in plaintext")
	}
	if output := env.mustRun("whoami"); !strings.Contains(output, "sam") {
		t.Errorf("whoami with sealed session = %q", output)
	}
}
