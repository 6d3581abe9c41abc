package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/shirou/gopsutil/v4/host"
	"gopkg.in/yaml.v3"

	"github.com/doughall/hwinv/internal/hardware"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProcessor reports a fixed CPU whose ticks advance by 100 busy and 100
// idle milliseconds on every read.
type stubProcessor struct {
	hardware.NoProcessor
	reads atomic.Int64
}

func (p *stubProcessor) Identifier() hardware.ProcessorIdentifier {
	return hardware.ProcessorIdentifier{Vendor: "GenuineIntel", Name: "Test CPU", VendorFreq: 3_000_000_000}
}
func (p *stubProcessor) LogicalProcessorCount() int { return 4 }
func (p *stubProcessor) SystemCPULoadTicks() hardware.CPUTicks {
	n := uint64(p.reads.Add(1))
	return hardware.CPUTicks{User: 100 * n, Idle: 100 * n}
}
func (p *stubProcessor) SystemCPULoadBetweenTicks(prev hardware.CPUTicks) float64 {
	return hardware.LoadBetween(prev, p.SystemCPULoadTicks())
}

// stubHAL is a hardware layer with fixed contents. Nil list fields stay nil
// so Collect's normalisation is exercised.
type stubHAL struct {
	*hardware.Base
	nics  []hardware.NetworkIF
	disks []hardware.HWDiskStore
	usb   []hardware.UsbDevice
	tree  *bool
}

func newStubHAL() *stubHAL {
	h := &stubHAL{
		nics: []hardware.NetworkIF{
			{Name: "eth0", MAC: "3C:7C:3F:11:22:33", BytesRecv: 10},
			{Name: "docker0", MAC: "02:42:ac:11:00:01", Virtual: true},
			{Name: "lo", Loopback: true},
		},
		disks: []hardware.HWDiskStore{
			{Name: "nvme0n1", Serial: "S5GXNF0R123456", Reads: 5},
			{Name: "sda", Serial: "WD-WCC4E1234567"},
		},
		usb: []hardware.UsbDevice{{Name: "root hub"}},
	}
	h.Base = hardware.NewBase(hardware.Factories{
		ComputerSystem: func() *hardware.ComputerSystem {
			return &hardware.ComputerSystem{
				Manufacturer: "Dell Inc.",
				Model:        "Precision 3660",
				SerialNumber: "7XK2Q93",
				HardwareUUID: "4c4c4544-0058-4b10-8032-b7c04f513933",
				Baseboard:    hardware.Baseboard{Manufacturer: "Dell Inc.", Model: "0H3Y46"},
			}
		},
		Processor: func() hardware.CentralProcessor { return &stubProcessor{} },
	})
	return h
}

func (h *stubHAL) PowerSources() []hardware.PowerSource { return nil }
func (h *stubHAL) DiskStores() []hardware.HWDiskStore  { return h.disks }
func (h *stubHAL) Displays() []hardware.Display        { return nil }
func (h *stubHAL) NetworkIFs(includeLocal bool) []hardware.NetworkIF {
	return hardware.FilterLocal(h.nics, includeLocal)
}
func (h *stubHAL) UsbDevices(tree bool) []hardware.UsbDevice {
	h.tree = &tree
	return h.usb
}
func (h *stubHAL) SoundCards() []hardware.SoundCard       { return nil }
func (h *stubHAL) GraphicsCards() []hardware.GraphicsCard { return nil }

func fixedOptions() Options {
	return Options{
		HostInfo: func(context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{Hostname: "ws01", Platform: "ubuntu", PlatformVersion: "24.04", HostID: "abc"}, nil
		},
		Now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Logger: nopLogger(),
	}
}

func TestCollect(t *testing.T) {
	hal := newStubHAL()
	opts := fixedOptions()
	opts.UsbTree = true
	opts.ToolVersion = "1.2.3"

	r, err := Collect(context.Background(), hal, opts)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if r.Host.Hostname != "ws01" || r.Host.OS == "" || r.Host.Arch == "" {
		t.Errorf("Host = %+v", r.Host)
	}
	if r.ComputerSystem.SerialNumber != "7XK2Q93" {
		t.Errorf("ComputerSystem = %+v", r.ComputerSystem)
	}
	if r.Processor.LogicalProcessorCount != 4 || r.Processor.Load != -1 {
		t.Errorf("Processor = %+v", r.Processor)
	}
	if len(r.Processor.LoadAverage) != 3 {
		t.Errorf("LoadAverage = %v", r.Processor.LoadAverage)
	}
	if len(r.NetworkIFs) != 1 || r.NetworkIFs[0].Name != "eth0" {
		t.Errorf("NetworkIFs = %+v", r.NetworkIFs)
	}
	if hal.tree == nil || !*hal.tree {
		t.Error("UsbDevices not asked for a tree")
	}
	if r.PowerSources == nil || r.Displays == nil || r.SoundCards == nil || r.LogicalVolumeGroups == nil {
		t.Error("list categories must not be nil")
	}
	if r.Memory.Banks == nil || r.Sensors.FanSpeeds == nil {
		t.Error("memory banks and fan speeds must not be nil")
	}
	if r.SchemaVersion != SchemaVersion || r.ToolVersion != "1.2.3" {
		t.Errorf("SchemaVersion=%d ToolVersion=%q", r.SchemaVersion, r.ToolVersion)
	}
	if len(r.Fingerprint) != 64 {
		t.Errorf("Fingerprint = %q, want 64 hex chars", r.Fingerprint)
	}
}

func TestCollectHostInfoFailure(t *testing.T) {
	opts := fixedOptions()
	opts.HostInfo = func(context.Context) (*host.InfoStat, error) { return nil, errors.New("no host") }
	r, err := Collect(context.Background(), newStubHAL(), opts)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if r.Host.Hostname != "" || r.Host.OS == "" {
		t.Errorf("Host = %+v", r.Host)
	}
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Collect(ctx, newStubHAL(), fixedOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("Collect error = %v, want context.Canceled", err)
	}

	t.Run("during load sample", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		opts := fixedOptions()
		opts.LoadSample = time.Hour
		if _, err := Collect(ctx, newStubHAL(), opts); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Collect error = %v, want context.DeadlineExceeded", err)
		}
	})
}

func TestCollectCategories(t *testing.T) {
	hal := newStubHAL()
	opts := fixedOptions()
	opts.Categories = []string{"disks", "network"}
	r, err := Collect(context.Background(), hal, opts)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(r.DiskStores) != 2 || len(r.NetworkIFs) != 1 {
		t.Errorf("DiskStores = %d, NetworkIFs = %d", len(r.DiskStores), len(r.NetworkIFs))
	}
	if r.ComputerSystem.SerialNumber != "" {
		t.Errorf("computer system collected: %+v", r.ComputerSystem)
	}
	if hal.tree != nil {
		t.Error("usb devices collected")
	}
	if r.UsbDevices == nil || r.Memory.Banks == nil || r.Processor.LoadAverage == nil {
		t.Error("skipped categories must still encode as empty lists")
	}
	if r.Fingerprint != "" {
		t.Errorf("partial report has fingerprint %q", r.Fingerprint)
	}
}

func TestCollectLoadSample(t *testing.T) {
	opts := fixedOptions()
	opts.LoadSample = time.Millisecond
	r, err := Collect(context.Background(), newStubHAL(), opts)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if r.Processor.Load != 0.5 {
		t.Errorf("Load = %v, want 0.5", r.Processor.Load)
	}
}

func TestFingerprint(t *testing.T) {
	collect := func(hal *stubHAL) string {
		t.Helper()
		r, err := Collect(context.Background(), hal, fixedOptions())
		if err != nil {
			t.Fatalf("Collect: %v", err)
		}
		return r.Fingerprint
	}
	base := collect(newStubHAL())

	t.Run("stable across runs", func(t *testing.T) {
		if got := collect(newStubHAL()); got != base {
			t.Errorf("fingerprint changed: %s != %s", got, base)
		}
	})

	t.Run("ignores order and counters", func(t *testing.T) {
		hal := newStubHAL()
		hal.disks[0], hal.disks[1] = hal.disks[1], hal.disks[0]
		hal.disks[0].Reads = 999
		hal.nics[0].BytesRecv = 12345
		hal.nics[0].MAC = strings.ToLower(hal.nics[0].MAC)
		if got := collect(hal); got != base {
			t.Errorf("fingerprint changed: %s != %s", got, base)
		}
	})

	t.Run("ignores virtual interfaces", func(t *testing.T) {
		hal := newStubHAL()
		hal.nics[1].MAC = "02:42:ac:11:00:99"
		if got := collect(hal); got != base {
			t.Errorf("fingerprint changed: %s != %s", got, base)
		}
	})

	t.Run("changes with a disk swap", func(t *testing.T) {
		hal := newStubHAL()
		hal.disks[1].Serial = "WD-WCC4E7654321"
		if got := collect(hal); got == base {
			t.Error("fingerprint did not change")
		}
	})
}

func TestEncode(t *testing.T) {
	r, err := Collect(context.Background(), newStubHAL(), fixedOptions())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, r, FormatJSON); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !strings.Contains(buf.String(), `"soundCards": []`) {
			t.Error("empty list not encoded as []")
		}
		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if decoded["fingerprint"] != r.Fingerprint {
			t.Errorf("fingerprint = %v", decoded["fingerprint"])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, r, FormatYAML); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		var decoded struct {
			Host struct {
				Hostname string `yaml:"hostname"`
			} `yaml:"host"`
			ComputerSystem struct {
				Model string `yaml:"model"`
			} `yaml:"computerSystem"`
		}
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid yaml: %v", err)
		}
		if decoded.Host.Hostname != "ws01" || decoded.ComputerSystem.Model != "Precision 3660" {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("cbor deterministic", func(t *testing.T) {
		var a, b bytes.Buffer
		if err := Encode(&a, r, FormatCBOR); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if err := Encode(&b, r, FormatCBOR); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Error("CBOR output differs between runs")
		}
		var decoded Report
		if err := cbor.Unmarshal(a.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid cbor: %v", err)
		}
		if decoded.Fingerprint != r.Fingerprint || !decoded.CollectedAt.Equal(r.CollectedAt) {
			t.Errorf("decoded fingerprint=%s collectedAt=%v", decoded.Fingerprint, decoded.CollectedAt)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := Encode(io.Discard, r, "xml"); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Encode error = %v, want ErrUnknownFormat", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"cbor", FormatCBOR, false},
		{"table", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if err != nil && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("error = %v, want ErrUnknownFormat", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
