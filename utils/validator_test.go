package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"student@example.edu", "a.b-c+tag@dept.example.ac.th"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Fatalf("%q should be valid", e)
		}
	}

	invalid := []string{"", "no-at.example.edu", "a@b", "a b@example.edu"}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Fatalf("%q should be invalid", e)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}
