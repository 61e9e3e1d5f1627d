package constants

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   any
		want Role
	}{
		{"Admin", RoleAdmin},
		{" admin ", RoleAdmin},
		{"LEADER", RoleLeader},
		{RoleLeader, RoleLeader},
		{map[string]any{"name": "Leader"}, RoleLeader},
		{map[string]string{"name": "admin"}, RoleAdmin},
		{"pastor", RoleMember},
		{nil, RoleMember},
		{42, RoleMember},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Fatalf("ParseRole(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestIsKnownRole(t *testing.T) {
	if !IsKnownRole("member") || !IsKnownRole("Leader") {
		t.Fatal("known roles rejected")
	}
	if IsKnownRole("pastor") || IsKnownRole("") {
		t.Fatal("unknown roles accepted")
	}
	if !RoleLeader.In(LeaderAndAbove) || RoleMember.In(LeaderAndAbove) {
		t.Fatal("Role.In is wrong")
	}
}
