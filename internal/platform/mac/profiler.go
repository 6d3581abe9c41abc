package mac

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// profile runs system_profiler for one data type and decodes the array it
// reports under that type's key into dst.
func (h *HardwareAbstractionLayer) profile(dataType string, dst any) bool {
	out, err := h.run.Run(context.Background(), "system_profiler", "-json", dataType)
	if err != nil {
		h.logger.Warn("system_profiler failed",
			slog.String("data_type", dataType),
			slog.String("error", err.Error()),
		)
		return false
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out, &doc); err != nil {
		h.logger.Warn("failed to parse system_profiler output",
			slog.String("data_type", dataType),
			slog.String("error", err.Error()),
		)
		return false
	}
	raw, ok := doc[dataType]
	if !ok {
		h.logger.Debug("system_profiler reported no data", slog.String("data_type", dataType))
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		h.logger.Warn("failed to decode system_profiler items",
			slog.String("data_type", dataType),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// number decodes a JSON number, or the leading number of a string such as
// "92%" or "1536 MB". Anything else decodes as 0.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = number(leadingNumber(s))
	}
	return nil
}

func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || s[end] >= '0' && s[end] <= '9') {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

// parseSize converts "16 GB" or "1536 MB" to bytes.
func parseSize(s string) uint64 {
	v := leadingNumber(s)
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return uint64(v)
	}
	switch strings.ToUpper(fields[1]) {
	case "KB":
		v *= 1 << 10
	case "MB":
		v *= 1 << 20
	case "GB":
		v *= 1 << 30
	case "TB":
		v *= 1 << 40
	}
	return uint64(v)
}

// parseFrequency converts "2133 MHz" or "2.3 GHz" to Hz.
func parseFrequency(s string) int64 {
	v := leadingNumber(s)
	switch {
	case strings.HasSuffix(s, "GHz"):
		v *= 1e9
	case strings.HasSuffix(s, "MHz"):
		v *= 1e6
	case strings.HasSuffix(s, "kHz"):
		v *= 1e3
	}
	return int64(math.Round(v))
}

// yes reports the profiler's boolean spellings: "TRUE", "Yes", "spaudio_yes".
func yes(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "yes" || strings.HasSuffix(s, "_yes")
}

// stripPrefix drops the localization key prefix from enum values such as
// "sppci_vendor_Apple" or "coreaudio_device_type_builtin".
func stripPrefix(s, prefix string) string {
	return strings.TrimPrefix(s, prefix)
}
