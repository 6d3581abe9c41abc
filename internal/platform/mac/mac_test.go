package mac

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/doughall/hwinv/internal/executor"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const hardwareJSON = `{"SPHardwareDataType":[{
  "_name":"hardware_overview",
  "boot_rom_version":"10151.101.3",
  "chip_type":"Apple M2",
  "machine_model":"Mac14,2",
  "machine_name":"MacBook Air",
  "model_number":"Z15S0005DLL/A",
  "number_processors":"proc 8:4:4",
  "physical_memory":"16 GB",
  "platform_UUID":"5a1c3e2f-0b4d-4e6a-9c8b-7d6e5f4a3b2c",
  "serial_number":"C02XK0ABCDEF"
}]}`

const memoryJSON = `{"SPMemoryDataType":[{"SPMemoryDataType":"16 GB","dimm_manufacturer":"Hynix","dimm_type":"LPDDR5"}]}`

const powerJSON = `{"SPPowerDataType":[
  {"_name":"spbattery_information",
   "sppower_battery_charge_info":{"sppower_battery_fully_charged":"FALSE","sppower_battery_is_charging":"TRUE","sppower_battery_state_of_charge":81},
   "sppower_battery_health_info":{"sppower_battery_cycle_count":120,"sppower_battery_health":"Good","sppower_battery_health_maximum_capacity":"92%"},
   "sppower_battery_model_info":{"sppower_battery_device_name":"bq40z651","sppower_battery_manufacturer":"SMP","sppower_battery_serial_number":"F5D1234567"}},
  {"_name":"sppower_information"},
  {"_name":"sppower_ac_charger_information","sppower_battery_charger_connected":"TRUE","sppower_battery_is_charging":"TRUE"}
]}`

const displaysJSON = `{"SPDisplaysDataType":[{
  "_name":"Apple M2",
  "spdisplays_mtlgpufamilysupport":"spdisplays_metal3",
  "spdisplays_vendor":"sppci_vendor_Apple",
  "sppci_cores":"10",
  "sppci_model":"Apple M2",
  "spdisplays_ndrvs":[{
    "_name":"Color LCD",
    "_spdisplays_display-product-id":"a050",
    "_spdisplays_display-serial-number":"fd626d62",
    "_spdisplays_display-vendor-id":"610",
    "_spdisplays_display-week":"0",
    "_spdisplays_display-year":"0"
  }]
}]}`

const usbJSON = `{"SPUSBDataType":[
  {"_name":"USB31Bus","host_controller":"AppleT8112USBXHCI","_items":[
    {"_name":"USB3.1 Hub","vendor_id":"0x05e3  (Genesys Logic, Inc.)","product_id":"0x0626","location_id":"0x01100000 / 1","_items":[
      {"_name":"USB Receiver","vendor_id":"0x046d  (Logitech Inc.)","product_id":"0xc52b","manufacturer":"Logitech","location_id":"0x01140000 / 3"}
    ]}
  ]},
  {"_name":"USB31Bus","host_controller":"AppleT8112USBXHCI-2"}
]}`

const audioJSON = `{"SPAudioDataType":[{"_name":"coreaudio_device","_items":[
  {"_name":"MacBook Air Speakers","coreaudio_device_manufacturer":"Apple Inc.","coreaudio_device_transport":"coreaudio_device_type_builtin"},
  {"_name":"MacBook Air Microphone","coreaudio_device_manufacturer":"Apple Inc.","coreaudio_device_transport":"coreaudio_device_type_builtin"}
]}]}`

func profilerOutput() executor.Canned {
	return executor.Canned{
		"system_profiler -json SPHardwareDataType": []byte(hardwareJSON),
		"system_profiler -json SPMemoryDataType":   []byte(memoryJSON),
		"system_profiler -json SPPowerDataType":    []byte(powerJSON),
		"system_profiler -json SPDisplaysDataType": []byte(displaysJSON),
		"system_profiler -json SPUSBDataType":      []byte(usbJSON),
		"system_profiler -json SPAudioDataType":    []byte(audioJSON),
	}
}

// appleSilicon simulates the sysctl tree of an M2 MacBook Air.
func appleSilicon(t *testing.T) *native.MapSource {
	t.Helper()
	src := native.NewMapSource()
	src.SetString("hw.model", "Mac14,2")
	src.SetInt64("hw.memsize", 16<<30)
	src.SetInt64("hw.pagesize", 16384)
	src.SetInt32("hw.logicalcpu", 8)
	src.SetInt32("hw.physicalcpu", 8)
	src.SetInt32("hw.packages", 1)
	src.SetString("machdep.cpu.brand_string", "Apple M2")
	var family uint32 = 0xda33d83d
	src.SetInt32("hw.cpufamily", int32(family))
	src.SetString("kern.osrelease", "23.4.0")

	var buf bytes.Buffer
	usage := xswUsage{Total: 2 << 30, Avail: 1536 << 20, Used: 512 << 20, PageSize: 16384, Encrypted: 1}
	if err := binary.Write(&buf, binary.NativeEndian, usage); err != nil {
		t.Fatalf("encode swap usage: %v", err)
	}
	src.Set("vm.swapusage", buf.Bytes())
	return src
}

func newTestHAL(t *testing.T, run executor.Runner) *HardwareAbstractionLayer {
	t.Helper()
	return New(appleSilicon(t), run, common.Unavailable(), nopLogger())
}

func TestComputerSystem(t *testing.T) {
	cs := newTestHAL(t, profilerOutput()).ComputerSystem()

	if cs.Manufacturer != "Apple Inc." || cs.Model != "MacBook Air (Mac14,2)" {
		t.Errorf("manufacturer/model = %q/%q", cs.Manufacturer, cs.Model)
	}
	if cs.SerialNumber != "C02XK0ABCDEF" {
		t.Errorf("SerialNumber = %q", cs.SerialNumber)
	}
	if cs.HardwareUUID != "5A1C3E2F-0B4D-4E6A-9C8B-7D6E5F4A3B2C" {
		t.Errorf("HardwareUUID = %q", cs.HardwareUUID)
	}
	if cs.Firmware.Name != "iBoot" || cs.Firmware.Version != "10151.101.3" {
		t.Errorf("Firmware = %+v", cs.Firmware)
	}
	if cs.Baseboard.Model != "Z15S0005DLL/A" || cs.Baseboard.SerialNumber != "C02XK0ABCDEF" {
		t.Errorf("Baseboard = %+v", cs.Baseboard)
	}
}

// countingRunner counts invocations per command line.
type countingRunner struct {
	executor.Canned
	calls atomic.Int32
}

func (c *countingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	c.calls.Add(1)
	return c.Canned.Run(ctx, name, args...)
}

func TestComputerSystemCachedAcrossGoroutines(t *testing.T) {
	run := &countingRunner{Canned: profilerOutput()}
	h := newTestHAL(t, run)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cs := h.ComputerSystem(); cs.SerialNumber != "C02XK0ABCDEF" {
				t.Errorf("SerialNumber = %q", cs.SerialNumber)
			}
		}()
	}
	wg.Wait()

	if n := run.calls.Load(); n != 1 {
		t.Errorf("system_profiler ran %d times, want 1", n)
	}
}

func TestMemory(t *testing.T) {
	m := newTestHAL(t, profilerOutput()).Memory()

	if m.Total() != 16<<30 {
		t.Errorf("Total = %d", m.Total())
	}
	if m.PageSize() != 16384 {
		t.Errorf("PageSize = %d", m.PageSize())
	}
	vm := m.VirtualMemory()
	if vm.SwapTotal != 2<<30 || vm.SwapUsed != 512<<20 {
		t.Errorf("swap = %d/%d", vm.SwapUsed, vm.SwapTotal)
	}
	banks := m.PhysicalMemory()
	if len(banks) != 1 {
		t.Fatalf("banks = %+v", banks)
	}
	if b := banks[0]; b.Capacity != 16<<30 || b.MemoryType != "LPDDR5" || b.Manufacturer != "Hynix" {
		t.Errorf("bank = %+v", b)
	}
}

func TestMemorySwapRecordSizeMismatch(t *testing.T) {
	src := appleSilicon(t)
	src.Set("vm.swapusage", make([]byte, 24))
	h := New(src, profilerOutput(), common.Unavailable(), nopLogger())

	if vm := h.Memory().VirtualMemory(); vm.SwapTotal != 0 {
		t.Errorf("SwapTotal = %d, want 0 for a short record", vm.SwapTotal)
	}
}

func TestProcessorAppleSilicon(t *testing.T) {
	p := newTestHAL(t, profilerOutput()).Processor()

	id := p.Identifier()
	if id.Vendor != "Apple Inc." || id.Name != "Apple M2" {
		t.Errorf("vendor/name = %q/%q", id.Vendor, id.Name)
	}
	if id.MicroArchitecture != "Blizzard/Avalanche" {
		t.Errorf("MicroArchitecture = %q", id.MicroArchitecture)
	}
	if id.ProcessorID != "00000000DA33D83D" {
		t.Errorf("ProcessorID = %q", id.ProcessorID)
	}
	if id.Identifier != "ARM64 Family 0xda33d83d Blizzard/Avalanche" {
		t.Errorf("Identifier = %q", id.Identifier)
	}
	if p.LogicalProcessorCount() != 8 || p.PhysicalProcessorCount() != 8 || p.PhysicalPackageCount() != 1 {
		t.Errorf("counts = %d/%d/%d", p.LogicalProcessorCount(), p.PhysicalProcessorCount(), p.PhysicalPackageCount())
	}
	if got := p.SystemLoadAverage(3); got[0] != -1 || got[2] != -1 {
		t.Errorf("SystemLoadAverage = %v, want -1s without a backend", got)
	}
}

func TestProcessorIntel(t *testing.T) {
	src := native.NewMapSource()
	src.SetInt32("hw.logicalcpu", 12)
	src.SetInt32("hw.physicalcpu", 6)
	src.SetInt32("hw.packages", 1)
	src.SetString("machdep.cpu.brand_string", "Intel(R) Core(TM) i7-8750H CPU @ 2.20GHz")
	src.SetString("machdep.cpu.vendor", "GenuineIntel")
	src.SetInt32("machdep.cpu.family", 6)
	src.SetInt32("machdep.cpu.model", 158)
	src.SetInt32("machdep.cpu.stepping", 10)
	src.SetInt32("machdep.cpu.signature", 0x906EA)
	src.SetInt64("hw.cpufrequency", 2200000000)
	src.SetInt64("hw.cpufrequency_max", 4100000000)

	p := New(src, executor.Canned{}, common.Unavailable(), nopLogger()).Processor()
	id := p.Identifier()
	if id.Identifier != "Intel64 Family 6 Model 158 Stepping 10" {
		t.Errorf("Identifier = %q", id.Identifier)
	}
	if id.ProcessorID != "00000000000906EA" {
		t.Errorf("ProcessorID = %q", id.ProcessorID)
	}
	if id.VendorFreq != 2200000000 || p.MaxFreq() != 4100000000 {
		t.Errorf("VendorFreq/MaxFreq = %d/%d", id.VendorFreq, p.MaxFreq())
	}
	if p.LogicalProcessorCount() != 12 || p.PhysicalProcessorCount() != 6 {
		t.Errorf("counts = %d/%d", p.LogicalProcessorCount(), p.PhysicalProcessorCount())
	}
	if lp := p.LogicalProcessors()[11]; lp.PhysicalProcessorNumber != 5 {
		t.Errorf("cpu11 core = %d, want 5", lp.PhysicalProcessorNumber)
	}
}

func TestPowerSources(t *testing.T) {
	sources := newTestHAL(t, profilerOutput()).PowerSources()
	if len(sources) != 1 {
		t.Fatalf("PowerSources = %+v", sources)
	}
	ps := sources[0]
	if !ps.PowerOnLine || !ps.Charging || ps.Discharging {
		t.Errorf("state online=%v charging=%v discharging=%v", ps.PowerOnLine, ps.Charging, ps.Discharging)
	}
	if math.Abs(ps.RemainingCapacityPercent-0.81) > 1e-9 {
		t.Errorf("RemainingCapacityPercent = %f", ps.RemainingCapacityPercent)
	}
	if ps.TimeRemainingEstimated != -1 {
		t.Errorf("TimeRemainingEstimated = %f, want -1 while charging", ps.TimeRemainingEstimated)
	}
	if ps.CapacityUnits != "RELATIVE" || ps.CurrentCapacity != 81 || ps.MaxCapacity != 92 || ps.CycleCount != 120 {
		t.Errorf("capacity = %+v", ps)
	}
	if ps.DeviceName != "bq40z651" || ps.Manufacturer != "SMP" || ps.SerialNumber != "F5D1234567" {
		t.Errorf("model info = %q/%q/%q", ps.DeviceName, ps.Manufacturer, ps.SerialNumber)
	}
}

func TestDisplaysAndGraphics(t *testing.T) {
	h := newTestHAL(t, profilerOutput())

	displays := h.Displays()
	if len(displays) != 1 {
		t.Fatalf("Displays = %+v", displays)
	}
	d := displays[0]
	if d.Name != "Color LCD" || d.ManufacturerID != "APP" || d.ProductCode != "A050" || d.SerialNumber != "FD626D62" {
		t.Errorf("display = %+v", d)
	}

	cards := h.GraphicsCards()
	if len(cards) != 1 {
		t.Fatalf("GraphicsCards = %+v", cards)
	}
	if c := cards[0]; c.Name != "Apple M2" || c.Vendor != "Apple" || c.VersionInfo != "cores=10, metal=metal3" {
		t.Errorf("card = %+v", c)
	}
}

func TestUsbDevices(t *testing.T) {
	h := newTestHAL(t, profilerOutput())

	tree := h.UsbDevices(true)
	if len(tree) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree))
	}
	if len(tree[0].ConnectedDevices) != 1 || tree[0].ConnectedDevices[0].Name != "USB3.1 Hub" {
		t.Fatalf("bus children = %+v", tree[0].ConnectedDevices)
	}
	hub := tree[0].ConnectedDevices[0]
	if hub.VendorID != "05e3" || hub.Vendor != "Genesys Logic, Inc." {
		t.Errorf("hub = %+v", hub)
	}
	if len(hub.ConnectedDevices) != 1 {
		t.Fatalf("hub children = %+v", hub.ConnectedDevices)
	}
	receiver := hub.ConnectedDevices[0]
	if receiver.Vendor != "Logitech" || receiver.ProductID != "c52b" || receiver.UniqueDeviceID != "046d:c52b:0x01140000" {
		t.Errorf("receiver = %+v", receiver)
	}

	flat := h.UsbDevices(false)
	want := []string{"USB31Bus", "USB3.1 Hub", "USB Receiver", "USB31Bus"}
	if len(flat) != len(want) {
		t.Fatalf("flat = %d devices, want %d", len(flat), len(want))
	}
	for i, name := range want {
		if flat[i].Name != name || flat[i].ConnectedDevices != nil {
			t.Errorf("flat[%d] = %q with %d children", i, flat[i].Name, len(flat[i].ConnectedDevices))
		}
	}
}

func TestSoundCards(t *testing.T) {
	cards := newTestHAL(t, profilerOutput()).SoundCards()
	if len(cards) != 2 {
		t.Fatalf("SoundCards = %+v", cards)
	}
	if c := cards[0]; c.Name != "Apple Inc. MacBook Air Speakers" || c.DriverVersion != "CoreAudio 23.4.0" || c.Codec != "builtin" {
		t.Errorf("card = %+v", c)
	}
}

func TestProfilerUnavailable(t *testing.T) {
	h := newTestHAL(t, executor.Canned{})

	cs := h.ComputerSystem()
	if cs.Manufacturer != "Apple Inc." || cs.Model != "Mac14,2" {
		t.Errorf("fallback = %q/%q", cs.Manufacturer, cs.Model)
	}
	if h.PowerSources() == nil || h.Displays() == nil || h.GraphicsCards() == nil ||
		h.SoundCards() == nil || h.UsbDevices(true) == nil || h.DiskStores() == nil ||
		h.NetworkIFs(true) == nil || h.LogicalVolumeGroups() == nil {
		t.Error("a list method returned nil")
	}
	if len(h.LogicalVolumeGroups()) != 0 {
		t.Error("macOS reports no logical volume groups")
	}
	if banks := h.Memory().PhysicalMemory(); banks == nil || len(banks) != 0 {
		t.Errorf("banks = %v", banks)
	}
}

func TestParseHelpers(t *testing.T) {
	sizes := map[string]uint64{"16 GB": 16 << 30, "1536 MB": 1536 << 20, "": 0, "n/a": 0}
	for in, want := range sizes {
		if got := parseSize(in); got != want {
			t.Errorf("parseSize(%q) = %d, want %d", in, got, want)
		}
	}
	freqs := map[string]int64{"2133 MHz": 2133000000, "2.3 GHz": 2300000000, "": 0}
	for in, want := range freqs {
		if got := parseFrequency(in); got != want {
			t.Errorf("parseFrequency(%q) = %d, want %d", in, got, want)
		}
	}
	id, name := splitUsbID("0x046d  (Logitech Inc.)")
	if id != "046d" || name != "Logitech Inc." {
		t.Errorf("splitUsbID = %q, %q", id, name)
	}
}
