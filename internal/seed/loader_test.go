package seed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nishtha/internal/service"
)

const fixture = `courses:
  - videoURL: https://www.youtube.com/watch?v=abc123
    courseTitle: Express Basics
    modules:
      - name: Routing
        startTime: 0
        endTime: 120
        quizData:
          - question: Which method registers a GET route?
            options: [app.get, app.post, app.put, app.delete]
            answer: app.get
        projectBrief: Build a hello-world server.
      - name: Middleware
        startTime: 120
        endTime: 300
        quizData: []
        projectBrief: null
`

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := write(t, t.TempDir(), "courses.yaml", fixture)

	courses, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	c := courses[0]
	if c.VideoID != "abc123" {
		t.Errorf("videoID not derived from URL: %q", c.VideoID)
	}
	if len(c.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(c.Modules))
	}
	if !c.Modules[0].HasProject() {
		t.Error("first module should carry a project")
	}
	if c.Modules[1].HasProject() {
		t.Error("null brief should mean no project")
	}
}

func TestLoadRejectsAnswerOutsideOptions(t *testing.T) {
	body := `courses:
  - videoURL: https://youtu.be/xyz
    courseTitle: Broken
    modules:
      - name: One
        startTime: 0
        endTime: 10
        quizData:
          - question: Q
            options: [A, B, D, E]
            answer: C
`
	path := write(t, t.TempDir(), "bad.yaml", body)

	_, err := LoadFromFile(path)
	if !errors.Is(err, service.ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestLoadRejectsMismatchedVideoID(t *testing.T) {
	body := `courses:
  - videoURL: https://youtu.be/xyz
    videoID: other
    courseTitle: Mismatch
    modules:
      - name: One
        startTime: 0
        endTime: 10
`
	path := write(t, t.TempDir(), "bad.yaml", body)

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.yaml", fixture)
	write(t, dir, "b.yml", `courses:
  - videoURL: https://youtu.be/second
    courseTitle: Second
    modules:
      - name: Only
        startTime: 5
        endTime: 50
`)
	write(t, dir, "notes.txt", "ignored")

	courses, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	if courses[1].VideoID != "second" {
		t.Errorf("files should load in name order, got %q", courses[1].VideoID)
	}
}
