package enums

import "testing"

func TestParseInquiryStatus(t *testing.T) {
	for _, value := range []string{"pending", "processing", "completed"} {
		status, err := ParseInquiryStatus(value)
		if err != nil {
			t.Fatalf("expected %q to parse: %v", value, err)
		}
		if !status.IsValid() {
			t.Fatalf("parsed status %q should be valid", status)
		}
	}
}

func TestParseInquiryStatusRejectsUnknown(t *testing.T) {
	for _, value := range []string{"", "done", "PENDING", "archived"} {
		if _, err := ParseInquiryStatus(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestAdminRoleValidity(t *testing.T) {
	if !AdminRoleSuperAdmin.IsValid() {
		t.Fatal("super_admin should be a valid role")
	}
	if AdminRole("root").IsValid() {
		t.Fatal("unknown role should not validate")
	}
}
