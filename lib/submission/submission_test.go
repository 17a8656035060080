// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package submission

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/xayahn/eduforge/lib/testutil"
	"github.com/xayahn/eduforge/lib/upload"
	"github.com/xayahn/eduforge/lms"
)

type receivedForm struct {
	path     string
	fields   map[string]string
	fileName string
	fileType string
	fileBody string
}

type fakeServer struct {
	mu       sync.Mutex
	received []receivedForm
	status   int
	nextID   int64
	// omitID makes successful responses carry an empty object.
	omitID bool
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	form := receivedForm{path: r.URL.Path, fields: make(map[string]string)}
	for key, values := range r.MultipartForm.Value {
		form.fields[key] = values[0]
	}
	for _, headers := range r.MultipartForm.File {
		file, err := headers[0].Open()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		content, _ := io.ReadAll(file)
		file.Close()
		form.fileName = headers[0].Filename
		form.fileType = headers[0].Header.Get("Content-Type")
		form.fileBody = string(content)
	}
	s.received = append(s.received, form)

	if s.status != 0 {
		testutil.WriteJSON(w, s.status, map[string]string{"detail": "upload rejected"})
		return
	}
	if s.omitID {
		testutil.WriteJSON(w, http.StatusCreated, map[string]any{})
		return
	}
	s.nextID++
	testutil.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":           s.nextID,
		"project":      3,
		"lesson":       4,
		"student_name": form.fields["student_name"],
		"file":         "/media/lesson_files/" + form.fileName,
	})
}

func (s *fakeServer) forms() []receivedForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]receivedForm(nil), s.received...)
}

func newClient(t *testing.T, server *fakeServer) *lms.Client {
	t.Helper()
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)
	client, err := lms.NewClient(lms.ClientConfig{APIRoot: httpServer.URL + "/api", Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func newPipeline(t *testing.T, uploader Uploader, onStatus func(PendingUpload)) *Pipeline {
	t.Helper()
	pipeline, err := NewPipeline(Config{Uploader: uploader, OnStatus: onStatus, Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatal(err)
	}
	return pipeline
}

func tempAttachment(t *testing.T) *upload.Descriptor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solution.zip")
	if err := os.WriteFile(path, []byte("PK\x03\x04"), 0600); err != nil {
		t.Fatal(err)
	}
	descriptor, err := upload.FromURI(path, "", "application/zip")
	if err != nil {
		t.Fatal(err)
	}
	return descriptor
}

func TestValidationRejectsBeforeNetwork(t *testing.T) {
	t.Parallel()

	server := &fakeServer{}
	pipeline := newPipeline(t, newClient(t, server), nil)
	file := tempAttachment(t)

	tests := []struct {
		name       string
		fields     Fields
		attachment *upload.Descriptor
		field      string
	}{
		{"empty name with link", Fields{ProjectID: 3, GithubLink: "https://github.com/sam/x"}, nil, "student_name"},
		{"empty name with file", Fields{ProjectID: 3}, file, "student_name"},
		{"blank name with link", Fields{ProjectID: 3, StudentName: "   ", GithubLink: "https://x"}, nil, "student_name"},
		{"ftp link", Fields{ProjectID: 3, StudentName: "Sam", GithubLink: "ftp://x"}, nil, "github_link"},
		{"link with space", Fields{ProjectID: 3, StudentName: "Sam", GithubLink: "https://github.com/a b"}, nil, "github_link"},
		{"no link and no file", Fields{ProjectID: 3, StudentName: "Sam"}, nil, "github_link"},
		{"no project", Fields{StudentName: "Sam", GithubLink: "https://x"}, nil, "project"},
	}

	for _, test := range tests {
		result, err := pipeline.Submit(context.Background(), test.fields, test.attachment)
		var validationErr *lms.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: error = %v, want ValidationError", test.name, err)
			continue
		}
		if validationErr.Field != test.field {
			t.Errorf("%s: field = %q, want %q", test.name, validationErr.Field, test.field)
		}
		if result.Upload.Status != Failed {
			t.Errorf("%s: status = %v, want failed", test.name, result.Upload.Status)
		}
	}

	if got := len(server.forms()); got != 0 {
		t.Errorf("made %d requests for invalid submissions", got)
	}
}

func TestSubmitWithFileAndLink(t *testing.T) {
	t.Parallel()

	server := &fakeServer{}
	var statuses []Status
	pipeline := newPipeline(t, newClient(t, server), func(pending PendingUpload) {
		statuses = append(statuses, pending.Status)
	})

	attachment := tempAttachment(t)
	result, err := pipeline.Submit(context.Background(), Fields{
		ProjectID:   3,
		StudentName: "Sam Lee",
		GithubLink:  "https://github.com/sam/solution",
		Comments:    "done early",
	}, attachment)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.SubmissionID != 1 {
		t.Errorf("SubmissionID = %d, want 1", result.SubmissionID)
	}
	if result.Upload.Digest != upload.HashAttachment([]byte("PK\x03\x04")) {
		t.Errorf("Digest = %s", result.Upload.Digest)
	}

	forms := server.forms()
	if len(forms) != 1 {
		t.Fatalf("received %d requests, want 1", len(forms))
	}
	form := forms[0]
	if form.path != "/api/submissions/" {
		t.Errorf("path = %q", form.path)
	}
	wantFields := map[string]string{
		"project":      "3",
		"student_name": "Sam Lee",
		"github_link":  "https://github.com/sam/solution",
		"comments":     "done early",
	}
	for key, want := range wantFields {
		if form.fields[key] != want {
			t.Errorf("field %s = %q, want %q", key, form.fields[key], want)
		}
	}
	if form.fileName != "solution.zip" || form.fileType != "application/zip" || form.fileBody != "PK\x03\x04" {
		t.Errorf("file part = %q %q %q", form.fileName, form.fileType, form.fileBody)
	}

	wantStatuses := []Status{Validating, Uploading, Succeeded}
	if len(statuses) != len(wantStatuses) {
		t.Fatalf("statuses = %v, want %v", statuses, wantStatuses)
	}
	for i := range wantStatuses {
		if statuses[i] != wantStatuses[i] {
			t.Errorf("status %d = %v, want %v", i, statuses[i], wantStatuses[i])
		}
	}
}

func TestSubmitLinkOnlyOmitsFilePart(t *testing.T) {
	t.Parallel()

	server := &fakeServer{}
	pipeline := newPipeline(t, newClient(t, server), nil)

	if _, err := pipeline.Submit(context.Background(), Fields{ProjectID: 3, StudentName: "Sam", GithubLink: "http://example.com/repo"}, nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	form := server.forms()[0]
	if form.fileName != "" {
		t.Errorf("unexpected file part %q", form.fileName)
	}
	if _, present := form.fields["comments"]; present {
		t.Error("empty comments field was sent")
	}
}

func TestSubmitFailureIsUploadError(t *testing.T) {
	t.Parallel()

	server := &fakeServer{status: http.StatusInternalServerError}
	pipeline := newPipeline(t, newClient(t, server), nil)

	result, err := pipeline.Submit(context.Background(), Fields{ProjectID: 3, StudentName: "Sam", GithubLink: "https://x"}, nil)
	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("error = %v, want UploadError", err)
	}
	if uploadErr.UploadID != result.Upload.ID {
		t.Errorf("UploadError id %s does not match pending upload %s", uploadErr.UploadID, result.Upload.ID)
	}
	if lms.KindOf(err) != lms.KindServerFault {
		t.Errorf("KindOf = %v, want server fault", lms.KindOf(err))
	}
	if result.Upload.Status != Failed {
		t.Errorf("status = %v, want failed", result.Upload.Status)
	}
	if got := len(server.forms()); got != 1 {
		t.Errorf("made %d attempts, want exactly 1", got)
	}
}

func TestResubmitCreatesSecondRecord(t *testing.T) {
	t.Parallel()

	server := &fakeServer{}
	pipeline := newPipeline(t, newClient(t, server), nil)
	fields := Fields{ProjectID: 3, StudentName: "Sam", GithubLink: "https://x"}

	first, err := pipeline.Submit(context.Background(), fields, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := pipeline.Submit(context.Background(), fields, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Upload.ID == second.Upload.ID {
		t.Error("two attempts share an upload id")
	}
	if first.SubmissionID == second.SubmissionID {
		t.Error("two attempts share a server record")
	}
}

func TestAttachmentPipeline(t *testing.T) {
	t.Parallel()

	server := &fakeServer{}
	pipeline, err := NewAttachmentPipeline(Config{Uploader: newClient(t, server), Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatal(err)
	}

	attachment, err := pipeline.Attach(context.Background(), 4, upload.FromBytes([]byte("slides"), "week1.pdf", "application/pdf"))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if attachment.Lesson != 4 {
		t.Errorf("attachment lesson = %d", attachment.Lesson)
	}

	form := server.forms()[0]
	if form.path != "/api/lesson-attachments/" {
		t.Errorf("path = %q", form.path)
	}
	if form.fields["lesson"] != "4" || form.fields["display_name"] != "week1.pdf" {
		t.Errorf("fields = %v", form.fields)
	}
	if form.fileName != "week1.pdf" || form.fileBody != "slides" {
		t.Errorf("file part = %q %q", form.fileName, form.fileBody)
	}

	if _, err := pipeline.Attach(context.Background(), 4, nil); lms.KindOf(err) != lms.KindValidation {
		t.Errorf("Attach(nil) = %v, want validation error", err)
	}
}

func TestAttachmentFailure(t *testing.T) {
	t.Parallel()

	server := &fakeServer{status: http.StatusBadRequest}
	pipeline, err := NewAttachmentPipeline(Config{Uploader: newClient(t, server), Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatal(err)
	}
	_, err = pipeline.Attach(context.Background(), 4, upload.FromBytes([]byte("x"), "", ""))
	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("error = %v, want UploadError", err)
	}
}

func TestSuccessWithoutIDIsMalformed(t *testing.T) {
	t.Parallel()

	server := &fakeServer{omitID: true}
	client := newClient(t, server)

	result, err := newPipeline(t, client, nil).Submit(context.Background(), Fields{ProjectID: 3, StudentName: "Sam", GithubLink: "https://x"}, nil)
	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("Submit error = %v, want UploadError", err)
	}
	if !errors.Is(err, lms.ErrMalformedResponse) {
		t.Errorf("Submit error = %v, want ErrMalformedResponse", err)
	}
	if result.SubmissionID != 0 || result.Upload.Status != Failed {
		t.Errorf("result = id %d status %v, want no id and failed", result.SubmissionID, result.Upload.Status)
	}

	attachments, err := NewAttachmentPipeline(Config{Uploader: client, Logger: testutil.DiscardLogger()})
	if err != nil {
		t.Fatal(err)
	}
	attachment, err := attachments.Attach(context.Background(), 4, upload.FromBytes([]byte("x"), "notes.txt", "text/plain"))
	if attachment != nil {
		t.Errorf("Attach returned %+v for a response without an id", attachment)
	}
	if !errors.As(err, &uploadErr) || !errors.Is(err, lms.ErrMalformedResponse) {
		t.Errorf("Attach error = %v, want UploadError wrapping ErrMalformedResponse", err)
	}
}
