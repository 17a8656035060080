// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import "strings"

// User is the account object returned by the auth endpoints.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff"`
}

// DisplayName is "first last" when either is set, else the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// LoginRequest is the body of POST auth/login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST auth/register/. A TeacherCode
// accepted by the server grants the instructor role.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	TeacherCode string `json:"teacher_code,omitempty"`
}

// AuthResponse is returned by both login and registration.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

// Course is a catalog entry. The nested collections are populated on
// both list and detail responses.
type Course struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	InstructorName string         `json:"instructor_name"`
	CreatedAt      string         `json:"created_at,omitempty"`
	Lessons        []Lesson       `json:"lessons,omitempty"`
	Projects       []Project      `json:"projects,omitempty"`
	Quizzes        []Quiz         `json:"quizzes,omitempty"`
	Announcements  []Announcement `json:"announcements,omitempty"`
}

// CourseRequest creates a course.
type CourseRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	InstructorName string `json:"instructor_name"`
}

// Lesson is one unit of course content.
type Lesson struct {
	ID          int64              `json:"id"`
	Course      int64              `json:"course"`
	Title       string             `json:"title"`
	ContentText string             `json:"content_text,omitempty"`
	VideoURL    string             `json:"video_url,omitempty"`
	Order       int                `json:"order"`
	Comments    []Comment          `json:"comments,omitempty"`
	Attachments []LessonAttachment `json:"attachments,omitempty"`
}

// LessonRequest creates a lesson.
type LessonRequest struct {
	Course      int64  `json:"course"`
	Title       string `json:"title"`
	ContentText string `json:"content_text,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// LessonAttachment is a file attached to a lesson.
type LessonAttachment struct {
	ID          int64  `json:"id"`
	Lesson      int64  `json:"lesson"`
	DisplayName string `json:"display_name,omitempty"`
	File        string `json:"file"`
	UploadedAt  string `json:"uploaded_at,omitempty"`
}

// Comment is a user's remark on a lesson.
type Comment struct {
	ID        int64  `json:"id"`
	User      int64  `json:"user"`
	Username  string `json:"username,omitempty"`
	Lesson    int64  `json:"lesson"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CommentRequest posts a comment.
type CommentRequest struct {
	User   int64  `json:"user"`
	Lesson int64  `json:"lesson"`
	Text   string `json:"text"`
}

// Project is an assignment. Deadline is a YYYY-MM-DD date.
type Project struct {
	ID           int64  `json:"id"`
	Course       int64  `json:"course"`
	Title        string `json:"title"`
	Instructions string `json:"instructions,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	Points       int    `json:"points"`
}

// ProjectRequest creates an assignment.
type ProjectRequest struct {
	Course       int64  `json:"course"`
	Title        string `json:"title"`
	Instructions string `json:"instructions,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	Points       int    `json:"points"`
}

// Quiz is read-only from this client.
type Quiz struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// Question is one quiz question.
type Question struct {
	ID      int64    `json:"id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

// Choice is one answer to a question.
type Choice struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Announcement is a course-wide message from the instructor.
type Announcement struct {
	ID       int64  `json:"id"`
	Course   int64  `json:"course"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	PostedAt string `json:"posted_at,omitempty"`
}

// AnnouncementRequest posts an announcement.
type AnnouncementRequest struct {
	Course  int64  `json:"course"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Enrollment links a student to a course. Progress is the server's
// completed-lesson percentage.
type Enrollment struct {
	ID          int64  `json:"id"`
	Student     int64  `json:"student"`
	Course      int64  `json:"course"`
	CourseTitle string `json:"course_title,omitempty"`
	Progress    int    `json:"progress"`
	EnrolledAt  string `json:"enrolled_at,omitempty"`
}

// EnrollmentRequest joins a course.
type EnrollmentRequest struct {
	Student int64 `json:"student"`
	Course  int64 `json:"course"`
}

// CompletionRequest marks a lesson complete for a student.
type CompletionRequest struct {
	Student int64 `json:"student"`
	Course  int64 `json:"course"`
	Lesson  int64 `json:"lesson"`
}

// CompletionResponse carries the recomputed progress.
type CompletionResponse struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// Submission is a learner's work for a project. Grade is nil until an
// instructor grades it.
type Submission struct {
	ID            int64  `json:"id"`
	Project       int64  `json:"project"`
	StudentName   string `json:"student_name"`
	GithubLink    string `json:"github_link,omitempty"`
	SubmittedFile string `json:"submitted_file,omitempty"`
	Comments      string `json:"comments,omitempty"`
	Grade         *int   `json:"grade"`
	Feedback      string `json:"feedback,omitempty"`
	SubmittedAt   string `json:"submitted_at,omitempty"`
}

// GradeRequest is the PATCH body for grading.
type GradeRequest struct {
	Grade    int    `json:"grade"`
	Feedback string `json:"feedback,omitempty"`
}

// Notification is an in-app message for a user.
type Notification struct {
	ID        int64  `json:"id"`
	User      int64  `json:"user"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DeviceRequest registers a push token with the backend.
type DeviceRequest struct {
	DeviceType string `json:"device_type"`
	Token      string `json:"token"`
}

// Device is the backend's record of a registered push token.
type Device struct {
	ID         int64  `json:"id"`
	User       *int64 `json:"user"`
	DeviceType string `json:"device_type"`
	Token      string `json:"token"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// DeviceTypeExpo is the only device type this client registers.
const DeviceTypeExpo = "expo"
