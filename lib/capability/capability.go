// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package capability derives what the signed-in user may do from their
// role. Derivation is pure: nothing here is persisted or fetched.
package capability

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/xayahn/eduforge/lib/session"
)

// ErrNotPermitted is returned by Require when the set lacks the
// capability.
var ErrNotPermitted = errors.New("capability: not permitted")

// Role is the user's role on the platform.
type Role int

const (
	Student Role = iota
	Teacher
)

func (r Role) String() string {
	if r == Teacher {
		return "teacher"
	}
	return "student"
}

// RoleOf returns Teacher for instructors and Student otherwise.
func RoleOf(s session.Session) Role {
	if s.User.IsInstructor {
		return Teacher
	}
	return Student
}

// Capability is a single permitted action.
type Capability uint8

const (
	CreateCourse Capability = iota
	EditContent
	DeleteContent
	GradeSubmission
	SubmitWork
	JoinCourse
	ViewOwnGrades
	ViewAllGrades

	capabilityCount
)

var capabilityNames = [capabilityCount]string{
	CreateCourse:    "create_course",
	EditContent:     "edit_content",
	DeleteContent:   "delete_content",
	GradeSubmission: "grade_submission",
	SubmitWork:      "submit_work",
	JoinCourse:      "join_course",
	ViewOwnGrades:   "view_own_grades",
	ViewAllGrades:   "view_all_grades",
}

func (c Capability) String() string {
	if c < capabilityCount {
		return capabilityNames[c]
	}
	return fmt.Sprintf("Capability(%d)", uint8(c))
}

// Set is a bit set of capabilities.
type Set uint16

// Of builds a set from capabilities.
func Of(capabilities ...Capability) Set {
	var set Set
	for _, c := range capabilities {
		set |= 1 << c
	}
	return set
}

var (
	teacherSet = Of(CreateCourse, EditContent, DeleteContent, GradeSubmission, ViewAllGrades)
	studentSet = Of(SubmitWork, JoinCourse, ViewOwnGrades)
)

// ForRole returns the capabilities granted to role.
func ForRole(role Role) Set {
	if role == Teacher {
		return teacherSet
	}
	return studentSet
}

// For returns the capabilities of s. A nil or incomplete session has
// none.
func For(s *session.Session) Set {
	if s == nil || !s.Complete() {
		return 0
	}
	return ForRole(RoleOf(*s))
}

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	return c < capabilityCount && s&(1<<c) != 0
}

// Len returns the number of capabilities in the set.
func (s Set) Len() int {
	return bits.OnesCount16(uint16(s))
}

// List returns the capabilities in declaration order.
func (s Set) List() []Capability {
	list := make([]Capability, 0, s.Len())
	for c := Capability(0); c < capabilityCount; c++ {
		if s.Has(c) {
			list = append(list, c)
		}
	}
	return list
}

func (s Set) String() string {
	names := make([]string, 0, s.Len())
	for _, c := range s.List() {
		names = append(names, c.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Require returns an error wrapping ErrNotPermitted unless c is in set.
func Require(set Set, c Capability) error {
	if set.Has(c) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotPermitted, c)
}
