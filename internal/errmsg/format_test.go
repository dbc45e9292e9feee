//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpMediaLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpMediaLoad,
			err:      errors.New("unsupported format: .ogg"),
			expected: "Failed to load media: unsupported format: .ogg",
		},
		{
			name:     "config operation",
			op:       OpConfigLoad,
			err:      errors.New("bad toml"),
			expected: "Failed to load configuration: bad toml",
		},
		{
			name:     "mpris operation",
			op:       OpMPRISStart,
			err:      errors.New("no session bus"),
			expected: "Failed to start MPRIS bridge: no session bus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpMediaLoad,
			context:  "song.mp3",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpMediaLoad,
			context:  "song.mp3",
			err:      errors.New("permission denied"),
			expected: "Failed to load media 'song.mp3': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpMediaSeek,
			context:  "",
			err:      errors.New("no item loaded"),
			expected: "Failed to seek: no item loaded",
		},
		{
			name:     "boundary parse with value context",
			op:       OpBoundaryParse,
			context:  "soon",
			err:      errors.New("invalid duration"),
			expected: "Failed to parse boundary times 'soon': invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpConfigLoad, OpLogSetup, OpMPRISStart,
		OpMediaLoad, OpMediaSeek,
		OpBoundaryParse,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}
			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
