package tools

import (
	"errors"
	"testing"

	"github.com/mkotas/dualsub/internal/errs"
)

func TestPathMissingToolReturnsTypedError(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := Path("definitely-not-installed-anywhere")
	if err == nil {
		t.Fatal("expected error for missing tool")
	}

	var notFound *errs.ToolNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ToolNotFoundError, got %T", err)
	}
	if notFound.Tool != "definitely-not-installed-anywhere" {
		t.Errorf("unexpected tool name %q", notFound.Tool)
	}
	if !errors.Is(err, errs.ErrToolNotFound) {
		t.Error("expected ErrToolNotFound sentinel")
	}
}

func TestPathFindsCommonBinary(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// sh exists on every platform this runs on
	path, err := Path("sh")
	if err != nil {
		t.Fatalf("expected sh on PATH: %v", err)
	}
	if path == "" {
		t.Error("expected a non-empty path")
	}
	if !Available("sh") {
		t.Error("Available should agree with Path")
	}
}

func TestInstallHintForFFSubSync(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	err := &errs.ToolNotFoundError{Tool: FFSubSync, InstallHint: installHints[FFSubSync]}
	if got := err.Error(); got != "ffsubsync not found. Install with: pip install ffsubsync" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestLookupsAreMemoized(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if Available("nonexistent-tool-abc") {
		t.Fatal("tool should not exist")
	}
	mu.Lock()
	_, cached := cache["nonexistent-tool-abc"]
	mu.Unlock()
	if !cached {
		t.Error("negative lookup should be cached")
	}
}
