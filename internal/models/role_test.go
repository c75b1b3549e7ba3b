package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "admin", want: RoleAdmin},
		{input: " Team ", want: RoleTeam},
		{input: "PUBLIC", want: RolePublic},
		{input: "viewer", want: RoleViewer},
		{input: "owner", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRolesAreValid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("role %q should be valid", r)
		}
	}
	if Role("superuser").Valid() {
		t.Error("unknown role must not be valid")
	}
	if !DefaultRole.Valid() {
		t.Error("default role must be valid")
	}
}
