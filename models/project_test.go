package models

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses() {
		if !IsValidStatus(s) {
			t.Fatalf("%q should be valid", s)
		}
	}

	for _, s := range []string{"", "Pending", "APPROVED", "under_review", "deleted", "revision required"} {
		if IsValidStatus(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestValidStatusesCount(t *testing.T) {
	if len(ValidStatuses()) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(ValidStatuses()))
	}
}
