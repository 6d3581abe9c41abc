package executor

import (
	"fmt"
	"os/exec"
	"slices"
	"sync"
)

// DefaultTools is the allowlist used when New is given none.
var DefaultTools = []string{"system_profiler", "usbconfig", "pciconf", "kenv"}

// toolCache resolves allowlisted tool names to absolute paths once.
type toolCache struct {
	allowed []string
	mu      sync.RWMutex
	paths   map[string]string
}

func newToolCache(allowed []string) *toolCache {
	return &toolCache{
		allowed: slices.Clone(allowed),
		paths:   make(map[string]string),
	}
}

func (c *toolCache) lookup(name string) (string, error) {
	if !slices.Contains(c.allowed, name) {
		return "", fmt.Errorf("%s: %w", name, ErrNotAllowed)
	}

	c.mu.RLock()
	path, ok := c.paths[name]
	c.mu.RUnlock()
	if ok {
		return path, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", name, ErrNotFound)
	}

	c.mu.Lock()
	c.paths[name] = path
	c.mu.Unlock()
	return path, nil
}
