package native

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Encoding selects how an Accessor decodes scalar values.
type Encoding int

const (
	// Binary values are fixed-width integers in host byte order (sysctl, registry).
	Binary Encoding = iota
	// Text values are decimal strings (Linux /proc/sys).
	Text
)

const queryFailed = "native attribute query failed"

var errShortValue = errors.New("value size does not match requested width")

// Accessor performs typed, fail-soft reads against a Source.
// It holds no per-call state and is safe for concurrent use.
type Accessor struct {
	source   Source
	encoding Encoding
	logger   *slog.Logger
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithEncoding sets the scalar encoding. The default is Binary.
func WithEncoding(encoding Encoding) Option {
	return func(a *Accessor) {
		a.encoding = encoding
	}
}

// NewAccessor creates an Accessor over source.
func NewAccessor(source Source, logger *slog.Logger, opts ...Option) *Accessor {
	a := &Accessor{
		source: source,
		logger: logger.With(slog.String("component", "native")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Int reads a 32-bit integer, returning def on any failure.
func (a *Accessor) Int(name string, def int32) int32 {
	if a.encoding == Text {
		value, ok := a.parseText(name, 32)
		if !ok {
			return def
		}
		return int32(value)
	}
	buf, ok := a.fetch(name, 4)
	if !ok {
		return def
	}
	if len(buf) != 4 {
		a.fail(name, errShortValue, slog.Int("size", len(buf)))
		return def
	}
	return int32(binary.NativeEndian.Uint32(buf))
}

// Int64 reads a 64-bit integer, returning def on any failure. A 4-byte value
// is widened, since several BSD attributes are declared narrower than their
// documented type.
func (a *Accessor) Int64(name string, def int64) int64 {
	if a.encoding == Text {
		value, ok := a.parseText(name, 64)
		if !ok {
			return def
		}
		return value
	}
	buf, ok := a.fetch(name, 8)
	if !ok {
		return def
	}
	switch len(buf) {
	case 8:
		return int64(binary.NativeEndian.Uint64(buf))
	case 4:
		return int64(binary.NativeEndian.Uint32(buf))
	default:
		a.fail(name, errShortValue, slog.Int("size", len(buf)))
		return def
	}
}

// String reads a NUL-terminated string, returning def on any failure.
// An attribute that exists but is empty yields "".
func (a *Accessor) String(name, def string) string {
	size, ok := a.probe(name)
	if !ok {
		return def
	}
	// One extra byte guarantees room for the terminator.
	buf := make([]byte, size+1)
	if err := a.source.Read(name, buf, &size); err != nil {
		a.fail(name, err)
		return def
	}
	value := buf[:size]
	if i := bytes.IndexByte(value, 0); i >= 0 {
		value = value[:i]
	}
	return string(value)
}

// Record fills dst, a pointer to a fixed-layout struct, from the attribute.
// The value must be exactly binary.Size(dst) bytes. It reports whether dst
// was populated.
func (a *Accessor) Record(name string, dst any) bool {
	if a.encoding == Text {
		a.logger.Warn(queryFailed,
			slog.String("name", name),
			slog.String("reason", "records need binary encoding"),
		)
		return false
	}
	width := binary.Size(dst)
	if width <= 0 {
		a.logger.Error(queryFailed,
			slog.String("name", name),
			slog.String("reason", "destination has no fixed layout"),
		)
		return false
	}
	buf, ok := a.fetch(name, width)
	if !ok {
		return false
	}
	if len(buf) != width {
		a.fail(name, errShortValue,
			slog.Int("size", len(buf)),
			slog.Int("want", width),
		)
		return false
	}
	if err := binary.Read(bytes.NewReader(buf), binary.NativeEndian, dst); err != nil {
		a.fail(name, err)
		return false
	}
	return true
}

// Raw reads the attribute's bytes. The second result is false on failure.
func (a *Accessor) Raw(name string) ([]byte, bool) {
	size, ok := a.probe(name)
	if !ok {
		return nil, false
	}
	buf := make([]byte, size)
	if err := a.source.Read(name, buf, &size); err != nil {
		a.fail(name, err)
		return nil, false
	}
	return buf[:size], true
}

// probe asks the source for the attribute's size without copying it.
func (a *Accessor) probe(name string) (int, bool) {
	var size int
	if err := a.source.Read(name, nil, &size); err != nil {
		a.fail(name, err)
		return 0, false
	}
	if size < 0 {
		a.logger.Error(queryFailed,
			slog.String("name", name),
			slog.Int("size", size),
			slog.String("reason", "negative size from probe"),
		)
		return 0, false
	}
	return size, true
}

// fetch reads a value of known width without probing.
func (a *Accessor) fetch(name string, width int) ([]byte, bool) {
	buf := make([]byte, width)
	size := width
	if err := a.source.Read(name, buf, &size); err != nil {
		a.fail(name, err)
		return nil, false
	}
	return buf[:size], true
}

// parseText reads a decimal value. Multi-valued entries such as
// fs.file-nr yield their first field.
func (a *Accessor) parseText(name string, bits int) (int64, bool) {
	raw := a.String(name, "")
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, false
	}
	value, err := strconv.ParseInt(fields[0], 10, bits)
	if err != nil {
		a.fail(name, err)
		return 0, false
	}
	return value, true
}

func (a *Accessor) fail(name string, err error, attrs ...slog.Attr) {
	args := []any{
		slog.String("name", name),
		slog.Int("errno", Errno(err)),
		slog.String("error", err.Error()),
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}
	a.logger.Warn(queryFailed, args...)
}
