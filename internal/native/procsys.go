package native

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// DefaultProcSysRoot is where Linux exposes kernel tunables.
const DefaultProcSysRoot = "/proc/sys"

// ProcSysSource reads Linux kernel tunables by their dotted sysctl name
// (vm.swappiness -> /proc/sys/vm/swappiness). Values are text; pair it with
// WithEncoding(Text).
type ProcSysSource struct {
	root string
}

// NewProcSysSource creates a source rooted at root, or DefaultProcSysRoot
// when root is empty.
func NewProcSysSource(root string) *ProcSysSource {
	if root == "" {
		root = DefaultProcSysRoot
	}
	return &ProcSysSource{root: root}
}

// Read implements Source.
func (p *ProcSysSource) Read(name string, buf []byte, size *int) error {
	path, err := p.path(name)
	if err != nil {
		return err
	}
	value, err := os.ReadFile(path)
	if err != nil {
		var errno syscall.Errno
		if errors.As(err, &errno) {
			return errno
		}
		if errors.Is(err, fs.ErrNotExist) {
			return syscall.ENOENT
		}
		return err
	}
	return copyValue([]byte(strings.TrimRight(string(value), "\n")), buf, size)
}

// path maps a dotted name to a file below root, rejecting names that would
// escape it.
func (p *ProcSysSource) path(name string) (string, error) {
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", syscall.EINVAL
	}
	return filepath.Join(p.root, filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))), nil
}
