package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

// newTestHandler builds a MaskHandler with a fixed home directory so the
// tests do not depend on the environment.
func newTestHandler(buf *bytes.Buffer, home string) *MaskHandler {
	return &MaskHandler{
		handler: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		home:    home,
	}
}

// TestMaskPath tests home-directory prefix rewriting.
func TestMaskPath(t *testing.T) {
	t.Parallel()

	home := filepath.Join(string(filepath.Separator), "home", "alice")

	tests := []struct {
		name  string
		home  string
		value string
		want  string
	}{
		{
			name:  "exact home directory",
			home:  home,
			value: home,
			want:  "~",
		},
		{
			name:  "path under home",
			home:  home,
			value: filepath.Join(home, "photos", "2024"),
			want:  filepath.Join("~", "photos", "2024"),
		},
		{
			name:  "sibling user untouched",
			home:  home,
			value: filepath.Join(string(filepath.Separator), "home", "alicex", "data"),
			want:  filepath.Join(string(filepath.Separator), "home", "alicex", "data"),
		},
		{
			name:  "home mid-string untouched",
			home:  home,
			value: "copied from " + home + " earlier",
			want:  "copied from " + home + " earlier",
		},
		{
			name:  "non-path value untouched",
			home:  home,
			value: "scan complete",
			want:  "scan complete",
		},
		{
			name:  "empty home disables masking",
			home:  "",
			value: filepath.Join(home, "photos"),
			want:  filepath.Join(home, "photos"),
		},
		{
			name:  "root home disables masking",
			home:  "/",
			value: "/etc/passwd",
			want:  "/etc/passwd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := &MaskHandler{home: tt.home}
			if got := h.maskPath(tt.value); got != tt.want {
				t.Errorf("maskPath(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// TestMaskHandlerHandle tests that records pass through masked.
func TestMaskHandlerHandle(t *testing.T) {
	t.Parallel()

	home := filepath.Join(string(filepath.Separator), "home", "alice")

	t.Run("masks string attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(newTestHandler(&buf, home))

		logger.Info("walking root", "path", filepath.Join(home, "photos"))

		out := buf.String()
		if strings.Contains(out, home) {
			t.Errorf("expected home directory to be masked: %s", out)
		}
		if !strings.Contains(out, filepath.Join("~", "photos")) {
			t.Errorf("expected masked path in output: %s", out)
		}
	})

	t.Run("leaves non-string attributes alone", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(newTestHandler(&buf, home))

		logger.Info("scored", "pairs", 42, "threshold", 0.8)

		out := buf.String()
		if !strings.Contains(out, "pairs=42") {
			t.Errorf("expected int attribute preserved: %s", out)
		}
		if !strings.Contains(out, "threshold=0.8") {
			t.Errorf("expected float attribute preserved: %s", out)
		}
	})

	t.Run("masks inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(newTestHandler(&buf, home))

		logger.Info("duplicate found",
			slog.Group("pair",
				slog.String("a", filepath.Join(home, "x")),
				slog.String("b", filepath.Join(home, "y")),
			),
		)

		out := buf.String()
		if strings.Contains(out, home) {
			t.Errorf("expected grouped paths to be masked: %s", out)
		}
	})

	t.Run("masks attributes added via With", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(newTestHandler(&buf, home))

		logger.With("root", filepath.Join(home, "data")).Info("starting")

		out := buf.String()
		if strings.Contains(out, home) {
			t.Errorf("expected With attribute to be masked: %s", out)
		}
	})

	t.Run("message text is not rewritten", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(newTestHandler(&buf, home))

		logger.Info("scan of " + home)

		if !strings.Contains(buf.String(), home) {
			t.Errorf("expected message text untouched: %s", buf.String())
		}
	})
}

// TestNewMaskHandler tests construction defaults.
func TestNewMaskHandler(t *testing.T) {
	t.Parallel()

	t.Run("nil handler falls back to default", func(t *testing.T) {
		t.Parallel()

		h := NewMaskHandler(nil)
		if h.handler == nil {
			t.Error("expected a non-nil underlying handler")
		}
	})

	t.Run("wraps the given handler", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := slog.NewTextHandler(&buf, nil)
		h := NewMaskHandler(inner)
		if h.handler != slog.Handler(inner) {
			t.Error("expected the provided handler to be wrapped")
		}
	})
}

// TestNewMaskedLogger tests level selection.
func TestNewMaskedLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level hides info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewMaskedLogger(&buf, false)

		logger.Info("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected info to be suppressed: %s", buf.String())
		}

		logger.Warn("shown")
		if !strings.Contains(buf.String(), "shown") {
			t.Errorf("expected warning to be logged: %s", buf.String())
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewMaskedLogger(&buf, true)

		logger.Debug("details")
		if !strings.Contains(buf.String(), "details") {
			t.Errorf("expected debug to be logged: %s", buf.String())
		}
	})

	t.Run("json variant emits json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewMaskedJSONLogger(&buf, true)

		logger.Info("event", "count", 3)
		out := buf.String()
		if !strings.HasPrefix(out, "{") {
			t.Errorf("expected JSON output: %s", out)
		}
		if !strings.Contains(out, `"count":3`) {
			t.Errorf("expected count attribute: %s", out)
		}
	})
}
