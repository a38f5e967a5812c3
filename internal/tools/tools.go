// Package tools resolves the external binaries the pipeline shells out to.
// Lookups are memoized for the process lifetime: a tool that appears or
// disappears mid-session is not re-detected until the next start.
package tools

import (
	"os/exec"
	"sync"

	"github.com/mkotas/dualsub/internal/errs"
)

const (
	FFSubSync = "ffsubsync"
	FFprobe   = "ffprobe"
)

var installHints = map[string]string{
	FFSubSync: "pip install ffsubsync",
	FFprobe:   "install ffmpeg (provides ffprobe)",
}

type lookup struct {
	path string
	err  error
}

var (
	mu    sync.Mutex
	cache = map[string]lookup{}
)

// Path returns the absolute path of the named tool, or a ToolNotFoundError
// carrying an install hint.
func Path(name string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if hit, ok := cache[name]; ok {
		return hit.path, hit.err
	}

	path, err := exec.LookPath(name)
	if err != nil {
		err = &errs.ToolNotFoundError{Tool: name, InstallHint: installHints[name]}
		cache[name] = lookup{err: err}
		return "", err
	}
	cache[name] = lookup{path: path}
	return path, nil
}

// Available reports whether the named tool is on PATH.
func Available(name string) bool {
	_, err := Path(name)
	return err == nil
}

// Reset clears memoized lookups. Test hook.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = map[string]lookup{}
}
