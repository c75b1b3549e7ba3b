package models

import (
	"reflect"
	"testing"
	"time"
)

func TestUser_RoleHelpers(t *testing.T) {
	tests := []struct {
		role        Role
		admin       bool
		teamOrAdmin bool
	}{
		{RoleAdmin, true, true},
		{RoleTeam, false, true},
		{RolePublic, false, false},
		{RoleViewer, false, false},
	}
	for _, tt := range tests {
		u := &User{Role: tt.role}
		if got := u.IsAdmin(); got != tt.admin {
			t.Errorf("%s: IsAdmin() = %v, want %v", tt.role, got, tt.admin)
		}
		if got := u.IsTeamOrAdmin(); got != tt.teamOrAdmin {
			t.Errorf("%s: IsTeamOrAdmin() = %v, want %v", tt.role, got, tt.teamOrAdmin)
		}
	}
}

func TestUser_DisplayName(t *testing.T) {
	if got := (&User{Name: "Jo", Email: "jo@x.com"}).DisplayName(); got != "Jo" {
		t.Errorf("DisplayName() = %q, want Jo", got)
	}
	if got := (&User{Email: "jo@x.com"}).DisplayName(); got != "jo" {
		t.Errorf("DisplayName() = %q, want jo", got)
	}
}

func TestUser_SkillList(t *testing.T) {
	u := &User{Skills: "go, sql,, design "}
	want := []string{"go", "sql", "design"}
	if got := u.SkillList(); !reflect.DeepEqual(got, want) {
		t.Errorf("SkillList() = %v, want %v", got, want)
	}
}

func TestEvent_IsFull(t *testing.T) {
	two := 2
	unlimited := &Event{}
	limited := &Event{Capacity: &two}

	if unlimited.IsFull(1000) {
		t.Error("event without capacity is never full")
	}
	if limited.IsFull(1) {
		t.Error("1 of 2 seats taken should not be full")
	}
	if !limited.IsFull(2) {
		t.Error("2 of 2 seats taken should be full")
	}
}

func TestEvent_IsUpcoming(t *testing.T) {
	now := time.Now()
	if !(&Event{StartTime: now.Add(time.Hour)}).IsUpcoming(now) {
		t.Error("future event should be upcoming")
	}
	if (&Event{StartTime: now.Add(-time.Hour)}).IsUpcoming(now) {
		t.Error("past event should not be upcoming")
	}
}

func TestPost_IsAuthoredBy(t *testing.T) {
	p := &Post{AuthorID: "u1"}
	if !p.IsAuthoredBy("u1") {
		t.Error("author should match")
	}
	if p.IsAuthoredBy("u2") || p.IsAuthoredBy("") {
		t.Error("other or empty user should not match")
	}
}
