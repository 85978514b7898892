package profile

import "testing"

func TestParseRole_Valid(t *testing.T) {
	for _, s := range []string{"client", "tech", "admin"} {
		role, err := ParseRole(s)
		if err != nil {
			t.Errorf("ParseRole(%q) returned error: %v", s, err)
		}
		if string(role) != s {
			t.Errorf("ParseRole(%q) = %q", s, role)
		}
	}
}

func TestParseRole_Invalid(t *testing.T) {
	for _, s := range []string{"", "owner", "Admin", "superuser"} {
		if _, err := ParseRole(s); err == nil {
			t.Errorf("ParseRole(%q) should return an error", s)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	if RoleUnset.Valid() {
		t.Error("unset role should not be valid")
	}
	if !RoleTech.Valid() {
		t.Error("tech role should be valid")
	}
	if Role("owner").Valid() {
		t.Error("unknown role should not be valid")
	}
}
