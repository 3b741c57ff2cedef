package profile

import "testing"

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		handle string
		ok     bool
	}{
		{"plain", "https://www.linkedin.com/in/jane-doe", "jane-doe", true},
		{"trailing slash", "https://www.linkedin.com/in/jane-doe/", "jane-doe", true},
		{"query string", "https://linkedin.com/in/jane-doe?originalSubdomain=uk", "jane-doe", true},
		{"slash and query", "https://linkedin.com/in/jane-doe/?trk=search", "jane-doe", true},
		{"no scheme", "linkedin.com/in/jane-doe", "jane-doe", true},
		{"unicode handle", "https://www.linkedin.com/in/björn-müller-1a2b", "björn-müller-1a2b", true},
		{"surrounding text", "profile: https://linkedin.com/in/jdoe (verified)", "jdoe", true},
		{"two urls first wins", "https://linkedin.com/in/first https://linkedin.com/in/second", "first", true},
		{"leading whitespace", "  https://linkedin.com/in/jdoe", "jdoe", true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"not a profile url", "https://www.linkedin.com/company/acme", "", false},
		{"wrong host", "https://example.com/in/jdoe", "", false},
		{"garbage", "n/a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle, ok := ExtractHandle(tt.in)
			if ok != tt.ok {
				t.Fatalf("ExtractHandle(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if handle != tt.handle {
				t.Errorf("ExtractHandle(%q) = %q, want %q", tt.in, handle, tt.handle)
			}
		})
	}
}
