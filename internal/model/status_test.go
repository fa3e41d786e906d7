package model

import (
	"strings"
	"testing"
)

// TestStatusClassString tests the String method.
func TestStatusClassString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		class StatusClass
		want  string
	}{
		{StatusSuccess, "success"},
		{StatusRedirect, "redirect"},
		{StatusClientError, "client error"},
		{StatusServerError, "server error"},
		{StatusUnknown, "unknown"},
		{StatusClass(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.class.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestStatusClassColorize tests that colorizing never loses the text.
func TestStatusClassColorize(t *testing.T) {
	t.Parallel()

	for _, class := range []StatusClass{StatusSuccess, StatusRedirect, StatusClientError, StatusServerError, StatusUnknown} {
		if got := class.Colorize("301"); !strings.Contains(got, "301") {
			t.Errorf("%s: expected colorized text to contain '301', got %q", class, got)
		}
	}
}
