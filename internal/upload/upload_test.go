package upload

import (
	"context"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Resume.pdf", "My_Resume.pdf"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\bob\cv.pdf`, "C_Users_bob_cv.pdf"},
		{"résumé final.pdf", "resume_final.pdf"},
		{"  .hidden.pdf ", "hidden.pdf"},
		{"con.pdf", "_con.pdf"},
		{"简历.pdf", "pdf"},
		{"???", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewScanner_EmptyAddrSkipsScan(t *testing.T) {
	s := NewScanner("")
	if err := s.Scan(context.Background(), strings.NewReader("anything")); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
