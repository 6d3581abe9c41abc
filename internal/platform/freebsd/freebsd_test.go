package freebsd

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/doughall/hwinv/internal/executor"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const kenvOutput = `LINES="24"
smbios.bios.reldate="06/13/2019"
smbios.bios.vendor="LENOVO"
smbios.bios.version="N1MET59W (1.44 )"
smbios.planar.maker="LENOVO"
smbios.planar.product="20HRCTO1WW"
smbios.planar.serial="L1HF81234XY"
smbios.planar.version="Not Specified"
smbios.system.maker="LENOVO"
smbios.system.product="20HRCTO1WW"
smbios.system.serial="PF0ABCDE"
smbios.system.uuid="2c3e8f01-5124-11cb-a1b2-c3d4e5f60718"
smbios.system.version="ThinkPad X1 Carbon 5th"
`

const usbconfigOutput = `ugen0.1: <0x8086 XHCI root HUB> at usbus0, cfg=0 md=HOST spd=SUPER (5.0Gbps) pwr=SAVE (0mA)

  bLength = 0x0012 
  idVendor = 0x8086 
  idProduct = 0x0000 
  iManufacturer = 0x0001  <0x8086> 
  iProduct = 0x0002  <XHCI root HUB> 
  iSerialNumber = 0x0000  <no string> 

ugen0.2: <Logitech USB Receiver> at usbus0, cfg=0 md=HOST spd=FULL (12Mbps) pwr=ON (98mA)

  idVendor = 0x046d 
  idProduct = 0xc52b 
  iManufacturer = 0x0001  <Logitech> 
  iProduct = 0x0002  <USB Receiver> 
  iSerialNumber = 0x0000  <no string> 

ugen1.1: <0x8086 EHCI root HUB> at usbus1, cfg=0 md=HOST spd=HIGH (480Mbps) pwr=SAVE (0mA)

  idVendor = 0x8086 
  idProduct = 0x0000 
  iProduct = 0x0002  <EHCI root HUB> 
  iSerialNumber = 0x0000  <no string> 

ugen0.3: <Generic Flash Disk> at usbus0, cfg=0 md=HOST spd=HIGH (480Mbps) pwr=ON (200mA)

  idVendor = 0x058f 
  idProduct = 0x6387 
  iManufacturer = 0x0001  <Generic> 
  iProduct = 0x0002  <Flash Disk> 
  iSerialNumber = 0x0003  <ABCD1234> 
`

const pciconfOutput = "hostb0@pci0:0:0:0:\tclass=0x060000 rev=0x02 hdr=0x00 vendor=0x8086 device=0x5904 subvendor=0x17aa subdevice=0x224f\n" +
	"    vendor     = 'Intel Corporation'\n" +
	"    device     = 'Xeon E3-1200 v6/7th Gen Core Processor Host Bridge/DRAM Registers'\n" +
	"    class      = bridge\n" +
	"vgapci0@pci0:0:2:0:\tclass=0x030000 rev=0x02 hdr=0x00 vendor=0x8086 device=0x5916 subvendor=0x17aa subdevice=0x224f\n" +
	"    vendor     = 'Intel Corporation'\n" +
	"    device     = 'HD Graphics 620'\n" +
	"    class      = display\n" +
	"    subclass   = VGA\n" +
	"vgapci1@pci0:1:0:0:\tclass=0x030200 card=0x224f17aa chip=0x134d10de rev=0xa2 hdr=0x00\n" +
	"    vendor     = 'NVIDIA Corporation'\n" +
	"    device     = 'GM108M [GeForce 940MX]'\n" +
	"    class      = display\n" +
	"    subclass   = 3D\n"

const sndstat = `Installed devices:
pcm0: <Realtek ALC257 (Analog)> (play/rec) default
pcm1: <Intel Kaby Lake (HDMI/DP 8ch)> (play)
`

func tools() executor.Canned {
	return executor.Canned{
		"kenv":                       []byte(kenvOutput),
		"usbconfig dump_device_desc": []byte(usbconfigOutput),
		"pciconf -lv":                []byte(pciconfOutput),
	}
}

// laptop simulates the sysctl tree of a ThinkPad running FreeBSD 14.
func laptop() *native.MapSource {
	src := native.NewMapSource()
	src.SetString("hw.model", "Intel(R) Core(TM) i5-7200U CPU @ 2.50GHz")
	src.SetString("hw.machine_arch", "amd64")
	src.SetInt64("hw.physmem", 8<<30)
	src.SetInt32("hw.pagesize", 4096)
	src.SetInt32("hw.ncpu", 4)
	src.SetInt32("kern.smp.cores", 2)
	src.SetInt32("hw.clockrate", 2712)
	src.SetString("dev.cpu.0.freq_levels", "2701/15000 2700/15000 2500/13000 800/4000")
	src.SetInt32("dev.cpu.0.freq", 1800)
	src.SetInt32("dev.cpu.0.temperature", 3232)
	src.SetInt32("dev.cpu.1.temperature", 3282)
	src.SetInt32("vm.stats.sys.v_swtch", 123456)
	src.SetInt32("vm.stats.sys.v_intr", 7890)
	src.SetInt32("hw.acpi.battery.units", 1)
	src.SetInt32("hw.acpi.battery.life", 75)
	src.SetInt32("hw.acpi.battery.state", 1)
	src.SetInt32("hw.acpi.battery.time", 150)
	src.SetInt32("hw.acpi.acline", 0)
	src.SetString("kern.osrelease", "14.1-RELEASE")
	return src
}

func newTestHAL(t *testing.T, src native.Source, run executor.Runner) *HardwareAbstractionLayer {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dev"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "dev", "sndstat"), []byte(sndstat), 0o644); err != nil {
		t.Fatal(err)
	}
	return New(Options{Root: root}, src, run, common.Unavailable(), nopLogger())
}

func TestComputerSystem(t *testing.T) {
	cs := newTestHAL(t, laptop(), tools()).ComputerSystem()

	if cs.Manufacturer != "LENOVO" || cs.Model != "20HRCTO1WW (version: ThinkPad X1 Carbon 5th)" {
		t.Errorf("manufacturer/model = %q/%q", cs.Manufacturer, cs.Model)
	}
	if cs.HardwareUUID != "2C3E8F01-5124-11CB-A1B2-C3D4E5F60718" || cs.SerialNumber != "PF0ABCDE" {
		t.Errorf("uuid/serial = %q/%q", cs.HardwareUUID, cs.SerialNumber)
	}
	if cs.Firmware.Version != "N1MET59W (1.44 )" || cs.Firmware.ReleaseDate != "2019-06-13" || cs.Firmware.Description != "LENOVO BIOS" {
		t.Errorf("Firmware = %+v", cs.Firmware)
	}
	if cs.Baseboard.Model != "20HRCTO1WW" || cs.Baseboard.Version != "" {
		t.Errorf("Baseboard = %+v", cs.Baseboard)
	}
}

func TestMemory(t *testing.T) {
	m := newTestHAL(t, laptop(), tools()).Memory()
	if m.Total() != 8<<30 || m.PageSize() != 4096 {
		t.Errorf("total/page = %d/%d", m.Total(), m.PageSize())
	}
	if banks := m.PhysicalMemory(); banks == nil || len(banks) != 0 {
		t.Errorf("PhysicalMemory = %v", banks)
	}
}

func TestProcessor(t *testing.T) {
	p := newTestHAL(t, laptop(), tools()).Processor()

	id := p.Identifier()
	if id.Name != "Intel(R) Core(TM) i5-7200U CPU @ 2.50GHz" || !id.Is64Bit {
		t.Errorf("Identifier = %+v", id)
	}
	if id.VendorFreq != 2712000000 {
		t.Errorf("VendorFreq = %d", id.VendorFreq)
	}
	if p.MaxFreq() != 2701000000 {
		t.Errorf("MaxFreq = %d", p.MaxFreq())
	}
	if p.LogicalProcessorCount() != 4 || p.PhysicalProcessorCount() != 2 || p.PhysicalPackageCount() != 1 {
		t.Errorf("counts = %d/%d/%d", p.LogicalProcessorCount(), p.PhysicalProcessorCount(), p.PhysicalPackageCount())
	}
	freqs := p.CurrentFreq()
	if len(freqs) != 4 || freqs[3] != 1800000000 {
		t.Errorf("CurrentFreq = %v", freqs)
	}
	if p.ContextSwitches() != 123456 || p.Interrupts() != 7890 {
		t.Errorf("ctxt/intr = %d/%d", p.ContextSwitches(), p.Interrupts())
	}
}

func TestSensors(t *testing.T) {
	src := laptop()
	h := newTestHAL(t, src, tools())

	if got := h.Sensors().CPUTemperature(); math.Abs(got-55.05) > 0.01 {
		t.Errorf("CPUTemperature = %f, want 55.05", got)
	}
	if fans := h.Sensors().FanSpeeds(); fans == nil || len(fans) != 0 {
		t.Errorf("FanSpeeds = %v", fans)
	}

	src.Delete("dev.cpu.0.temperature")
	src.Delete("dev.cpu.1.temperature")
	src.SetInt32("hw.acpi.thermal.tz0.temperature", 3132)
	if got := h.Sensors().CPUTemperature(); math.Abs(got-40.05) > 0.01 {
		t.Errorf("thermal zone fallback = %f, want 40.05", got)
	}
}

func TestPowerSources(t *testing.T) {
	t.Run("discharging", func(t *testing.T) {
		sources := newTestHAL(t, laptop(), tools()).PowerSources()
		if len(sources) != 1 {
			t.Fatalf("PowerSources = %+v", sources)
		}
		ps := sources[0]
		if ps.PowerOnLine || ps.Charging || !ps.Discharging {
			t.Errorf("state = %+v", ps)
		}
		if ps.TimeRemainingEstimated != 9000 || ps.RemainingCapacityPercent != 0.75 || ps.CapacityUnits != "RELATIVE" {
			t.Errorf("remaining = %f s, %f", ps.TimeRemainingEstimated, ps.RemainingCapacityPercent)
		}
	})

	t.Run("on line, full", func(t *testing.T) {
		src := laptop()
		src.SetInt32("hw.acpi.acline", 1)
		src.SetInt32("hw.acpi.battery.state", 0)
		ps := newTestHAL(t, src, tools()).PowerSources()[0]
		if ps.TimeRemainingEstimated != -2 {
			t.Errorf("TimeRemainingEstimated = %f, want -2", ps.TimeRemainingEstimated)
		}
	})

	t.Run("charging", func(t *testing.T) {
		src := laptop()
		src.SetInt32("hw.acpi.acline", 1)
		src.SetInt32("hw.acpi.battery.state", 2)
		ps := newTestHAL(t, src, tools()).PowerSources()[0]
		if !ps.Charging || ps.TimeRemainingEstimated != -1 {
			t.Errorf("charging = %v, remaining = %f", ps.Charging, ps.TimeRemainingEstimated)
		}
	})

	t.Run("no battery", func(t *testing.T) {
		src := laptop()
		src.Delete("hw.acpi.battery.units")
		if got := newTestHAL(t, src, tools()).PowerSources(); got == nil || len(got) != 0 {
			t.Errorf("PowerSources = %v", got)
		}
	})
}

func TestUsbDevices(t *testing.T) {
	h := newTestHAL(t, laptop(), tools())

	tree := h.UsbDevices(true)
	if len(tree) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree))
	}
	hub := tree[0]
	if hub.Name != "XHCI root HUB" || len(hub.ConnectedDevices) != 2 {
		t.Fatalf("hub = %+v", hub)
	}
	receiver, disk := hub.ConnectedDevices[0], hub.ConnectedDevices[1]
	if receiver.Name != "USB Receiver" || receiver.Vendor != "Logitech" || receiver.UniqueDeviceID != "046d:c52b:ugen0.2" {
		t.Errorf("receiver = %+v", receiver)
	}
	if disk.SerialNumber != "ABCD1234" || disk.UniqueDeviceID != "058f:6387:ABCD1234" {
		t.Errorf("disk = %+v", disk)
	}

	flat := h.UsbDevices(false)
	want := []string{"XHCI root HUB", "USB Receiver", "Flash Disk", "EHCI root HUB"}
	if len(flat) != len(want) {
		t.Fatalf("flat = %d devices", len(flat))
	}
	for i, name := range want {
		if flat[i].Name != name {
			t.Errorf("flat[%d] = %q, want %q", i, flat[i].Name, name)
		}
	}
}

func TestSoundCards(t *testing.T) {
	cards := newTestHAL(t, laptop(), tools()).SoundCards()
	if len(cards) != 2 {
		t.Fatalf("SoundCards = %+v", cards)
	}
	if c := cards[0]; c.Name != "Realtek ALC257 (Analog)" || c.Codec != "Realtek ALC257" || c.DriverVersion != "FreeBSD 14.1-RELEASE" {
		t.Errorf("card0 = %+v", c)
	}
	if c := cards[1]; c.Codec != "Intel Kaby Lake" {
		t.Errorf("card1 codec = %q", c.Codec)
	}

	withHeader := parseSndstat([]byte("FreeBSD Audio Driver (64bit 2009061500/amd64)\nInstalled devices:\npcm0: <HDA Codec> (play)\n"), "fallback")
	if len(withHeader) != 1 || withHeader[0].DriverVersion != "FreeBSD Audio Driver (64bit 2009061500/amd64)" {
		t.Errorf("header driver = %+v", withHeader)
	}
}

func TestGraphicsCards(t *testing.T) {
	cards := newTestHAL(t, laptop(), tools()).GraphicsCards()
	if len(cards) != 2 {
		t.Fatalf("GraphicsCards = %+v", cards)
	}
	intel := cards[0]
	if intel.Name != "HD Graphics 620" || intel.Vendor != "Intel Corporation" || intel.DeviceID != "0x5916" {
		t.Errorf("intel = %+v", intel)
	}
	if intel.VersionInfo != "driver=vgapci, revision=0x02" {
		t.Errorf("VersionInfo = %q", intel.VersionInfo)
	}
	if nv := cards[1]; nv.DeviceID != "0x134d" || nv.Name != "GM108M [GeForce 940MX]" {
		t.Errorf("nvidia = %+v", nv)
	}
}

func TestToolsUnavailable(t *testing.T) {
	h := New(Options{Root: t.TempDir()}, native.NewMapSource(), executor.Canned{}, common.Unavailable(), nopLogger())

	if cs := h.ComputerSystem(); cs.Manufacturer != "" || cs.Firmware.Name != "BIOS" {
		t.Errorf("ComputerSystem = %+v", cs)
	}
	if h.Displays() == nil || h.UsbDevices(true) == nil || h.UsbDevices(false) == nil ||
		h.SoundCards() == nil || h.GraphicsCards() == nil || h.PowerSources() == nil ||
		h.DiskStores() == nil || h.NetworkIFs(false) == nil || h.LogicalVolumeGroups() == nil {
		t.Error("a list method returned nil")
	}
	if got := h.Sensors().CPUTemperature(); got != 0 {
		t.Errorf("CPUTemperature = %f, want 0", got)
	}
	if got := h.Processor().LogicalProcessorCount(); got <= 0 {
		t.Errorf("LogicalProcessorCount = %d, want the runtime count", got)
	}
}
