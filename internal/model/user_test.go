package model

import "testing"

func TestRoleLevel(t *testing.T) {
	if RoleLevel(RoleSuperadmin) <= RoleLevel(RoleAdmin) {
		t.Error("superadmin must outrank admin")
	}
	if RoleLevel(RoleAdmin) <= RoleLevel(RoleUser) {
		t.Error("admin must outrank user")
	}
	if RoleLevel("unknown") != 0 {
		t.Error("unknown roles must have level 0")
	}
}

func TestCanModerate(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		caller string
		owner  string
		action string
		want   bool
	}{
		{"owner submits own event", RoleUser, "a@x.io", "a@x.io", ActionSubmit, true},
		{"stranger cannot submit", RoleUser, "b@x.io", "a@x.io", ActionSubmit, false},
		{"admin submits on behalf", RoleAdmin, "mod@x.io", "a@x.io", ActionSubmit, true},
		{"user cannot approve", RoleUser, "a@x.io", "a@x.io", ActionApprove, false},
		{"admin approves", RoleAdmin, "mod@x.io", "a@x.io", ActionApprove, true},
		{"admin rejects", RoleAdmin, "mod@x.io", "a@x.io", ActionReject, true},
		{"admin cannot cancel", RoleAdmin, "mod@x.io", "a@x.io", ActionCancel, false},
		{"owner cannot cancel own event", RoleUser, "a@x.io", "a@x.io", ActionCancel, false},
		{"superadmin cancels", RoleSuperadmin, "root@x.io", "a@x.io", ActionCancel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanModerate(tt.role, tt.caller, tt.owner, tt.action)
			if got != tt.want {
				t.Errorf("CanModerate(%q, %q, %q, %q) = %v, want %v",
					tt.role, tt.caller, tt.owner, tt.action, got, tt.want)
			}
		})
	}
}
