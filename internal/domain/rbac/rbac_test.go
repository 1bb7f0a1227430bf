package rbac

import "testing"

func TestHighestRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  string
	}{
		{"пустой набор", nil, ""},
		{"только readonly", []string{RoleReadonly}, RoleReadonly},
		{"admin и readonly", []string{RoleReadonly, RoleAdmin}, RoleAdmin},
		{"неизвестные роли игнорируются", []string{"offline_access", "uma_authorization"}, ""},
		{"смешанный набор", []string{"offline_access", RoleReadonly}, RoleReadonly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HighestRole(tt.roles); got != tt.want {
				t.Errorf("HighestRole(%v) = %q, хотели %q", tt.roles, got, tt.want)
			}
		})
	}
}

func TestMapGroupsToRole(t *testing.T) {
	admins := []string{"certportal-admins"}
	viewers := []string{"certportal-viewers", "hr"}

	tests := []struct {
		name   string
		groups []string
		want   string
	}{
		{"admin группа", []string{"certportal-admins"}, RoleAdmin},
		{"readonly группа", []string{"hr"}, RoleReadonly},
		{"обе группы", []string{"hr", "certportal-admins"}, RoleAdmin},
		{"нет совпадений", []string{"finance"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapGroupsToRole(tt.groups, admins, viewers); got != tt.want {
				t.Errorf("MapGroupsToRole(%v) = %q, хотели %q", tt.groups, got, tt.want)
			}
		})
	}
}

func TestSatisfies(t *testing.T) {
	if !Satisfies(RoleAdmin, RoleReadonly) {
		t.Error("admin должен покрывать readonly")
	}
	if Satisfies(RoleReadonly, RoleAdmin) {
		t.Error("readonly не должен покрывать admin")
	}
	if Satisfies("", RoleReadonly) {
		t.Error("пустая роль не должна покрывать readonly")
	}
}
