package linux

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/doughall/hwinv/internal/platform/common"
)

// nopLogger returns a logger that discards all output, suitable for tests.
func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeSyntheticFile creates a file at the given path within root,
// creating parent directories as needed.
func writeSyntheticFile(t *testing.T, root, path, content string) {
	t.Helper()
	fullPath := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

func mkdir(t *testing.T, root, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func symlink(t *testing.T, root, target, path string) {
	t.Helper()
	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(target, full); err != nil {
		t.Fatalf("symlink %s: %v", path, err)
	}
}

// minimalEDID is a valid base block for a GSM (LG) monitor with no
// descriptors.
func minimalEDID() []byte {
	b := make([]byte, 128)
	copy(b, []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00})
	b[8], b[9] = 0x1E, 0x6D // "GSM"
	b[10], b[11] = 0x01, 0x5B
	b[17] = 32
	b[18], b[19] = 1, 3
	return b
}

// syntheticRoot builds a laptop-like /sys and /proc tree.
func syntheticRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	// DMI.
	writeSyntheticFile(t, root, "sys/class/dmi/id/sys_vendor", "LENOVO\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/product_name", "20XW0055GE\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/product_version", "ThinkPad X1 Carbon Gen 9\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/product_serial", "PF2ABCDE\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/product_uuid", "4c4c4544-0042-3510-8056-b2c04f4e4b32\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/bios_vendor", "LENOVO\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/bios_version", "N32ET75W (1.51 )\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/bios_date", "08/03/2021\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/board_vendor", "LENOVO\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/board_name", "20XW0055GE\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/board_serial", "Not Specified\n")
	mkdir(t, root, "sys/firmware/efi")

	// CPU topology: one package, two cores, two threads each.
	for i, coreID := range []string{"0", "1", "0", "1"} {
		cpu := "sys/devices/system/cpu/cpu" + strconv.Itoa(i)
		writeSyntheticFile(t, root, cpu+"/topology/physical_package_id", "0\n")
		writeSyntheticFile(t, root, cpu+"/topology/core_id", coreID+"\n")
		writeSyntheticFile(t, root, cpu+"/cpufreq/cpuinfo_max_freq", "4700000\n")
		writeSyntheticFile(t, root, cpu+"/cpufreq/scaling_cur_freq", strconv.Itoa(1000000*(i+1))+"\n")
		mkdir(t, root, cpu+"/node0")
	}
	writeSyntheticFile(t, root, "proc/stat",
		"cpu  100 0 50 850 0 0 0 0 0 0\nintr 987654 0 0\nctxt 4321\nbtime 1700000000\n")
	writeSyntheticFile(t, root, "proc/sys/vm/swappiness", "60\n")

	// Sensors.
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon0/name", "acpitz\n")
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon0/temp1_input", "30000\n")
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon1/name", "coretemp\n")
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon1/temp1_input", "52000\n")
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon1/temp2_input", "49000\n")
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon2/name", "thinkpad\n")
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon2/fan1_input", "2400\n")
	writeSyntheticFile(t, root, "sys/class/hwmon/hwmon2/in0_input", "12000\n")

	// Power.
	writeSyntheticFile(t, root, "sys/class/power_supply/AC/uevent",
		"POWER_SUPPLY_NAME=AC\nPOWER_SUPPLY_TYPE=Mains\nPOWER_SUPPLY_ONLINE=0\n")
	writeSyntheticFile(t, root, "sys/class/power_supply/BAT0/uevent", ""+
		"POWER_SUPPLY_NAME=BAT0\nPOWER_SUPPLY_TYPE=Battery\nPOWER_SUPPLY_STATUS=Discharging\n"+
		"POWER_SUPPLY_PRESENT=1\nPOWER_SUPPLY_TECHNOLOGY=Li-poly\nPOWER_SUPPLY_CYCLE_COUNT=87\n"+
		"POWER_SUPPLY_VOLTAGE_NOW=16000000\nPOWER_SUPPLY_POWER_NOW=8000000\n"+
		"POWER_SUPPLY_ENERGY_FULL_DESIGN=57000000\nPOWER_SUPPLY_ENERGY_FULL=50000000\n"+
		"POWER_SUPPLY_ENERGY_NOW=25000000\nPOWER_SUPPLY_CAPACITY=50\n"+
		"POWER_SUPPLY_MODEL_NAME=5B10W13975\nPOWER_SUPPLY_MANUFACTURER=SMP\nPOWER_SUPPLY_SERIAL_NUMBER= 1234\n")

	// Block devices: one NVMe disk with two partitions, one loop device, and
	// an LVM volume group on the second partition.
	writeSyntheticFile(t, root, "sys/block/nvme0n1/size", "1000215216\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/device/model", "SAMSUNG MZVLB512HBJQ\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/device/serial", "S4ENNX0N123456\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/nvme0n1p1/partition", "1\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/nvme0n1p1/size", "1048576\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/nvme0n1p1/dev", "259:1\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/nvme0n1p2/partition", "2\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/nvme0n1p2/size", "999164559\n")
	writeSyntheticFile(t, root, "sys/block/nvme0n1/nvme0n1p2/dev", "259:2\n")
	writeSyntheticFile(t, root, "sys/block/loop0/size", "0\n")
	symlink(t, root, "../../nvme0n1p1", "dev/disk/by-uuid/A1B2-C3D4")

	writeSyntheticFile(t, root, "sys/block/dm-0/dm/name", "vg--data-root\n")
	writeSyntheticFile(t, root, "sys/block/dm-0/dm/uuid", "LVM-abc\n")
	mkdir(t, root, "sys/block/dm-0/slaves/nvme0n1p2")
	writeSyntheticFile(t, root, "sys/block/dm-1/dm/name", "vg--data-swap\n")
	writeSyntheticFile(t, root, "sys/block/dm-1/dm/uuid", "LVM-def\n")
	mkdir(t, root, "sys/block/dm-1/slaves/nvme0n1p2")
	writeSyntheticFile(t, root, "sys/block/dm-2/dm/name", "luks-1234\n")
	writeSyntheticFile(t, root, "sys/block/dm-2/dm/uuid", "CRYPT-LUKS2-1234\n")

	// DRM: one GPU, one connected and one disconnected connector.
	writeSyntheticFile(t, root, "sys/class/drm/card0/device/uevent",
		"DRIVER=i915\nPCI_ID=8086:9A49\nPCI_SLOT_NAME=0000:00:02.0\n")
	writeSyntheticFile(t, root, "sys/class/drm/card0/device/revision", "0x01\n")
	writeSyntheticFile(t, root, "sys/class/drm/card0-eDP-1/status", "connected\n")
	writeSyntheticFile(t, root, "sys/class/drm/card0-eDP-1/edid", string(minimalEDID()))
	writeSyntheticFile(t, root, "sys/class/drm/card0-HDMI-A-1/status", "disconnected\n")
	writeSyntheticFile(t, root, "sys/class/drm/card0-HDMI-A-1/edid", "")
	mkdir(t, root, "sys/class/drm/renderD128")

	// USB: root hub, a hub on port 1, and a mouse behind it.
	writeSyntheticFile(t, root, "sys/bus/usb/devices/usb1/product", "xHCI Host Controller\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/usb1/idVendor", "1d6b\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/usb1/idProduct", "0002\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/1-1/product", "USB2.0 Hub\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/1-1/idVendor", "05e3\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/1-1/idProduct", "0608\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/1-1.4/product", "USB Optical Mouse\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/1-1.4/manufacturer", "Logitech\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/1-1.4/idVendor", "046d\n")
	writeSyntheticFile(t, root, "sys/bus/usb/devices/1-1.4/idProduct", "c077\n")
	mkdir(t, root, "sys/bus/usb/devices/1-1.4:1.0")

	// Sound.
	writeSyntheticFile(t, root, "proc/asound/version", "Advanced Linux Sound Architecture Driver Version k6.5.0.\n")
	writeSyntheticFile(t, root, "proc/asound/cards",
		" 0 [PCH            ]: HDA-Intel - HDA Intel PCH\n"+
			"                      HDA Intel PCH at 0x603d1a0000 irq 147\n")
	writeSyntheticFile(t, root, "proc/asound/card0/codec#0", "Codec: Realtek ALC287\nAddress: 0\n")

	// Network.
	mkdir(t, root, "sys/class/net/wlp0s20f3/device")
	writeSyntheticFile(t, root, "sys/class/net/wlp0s20f3/speed", "-1\n")
	mkdir(t, root, "sys/class/net/lo")
	mkdir(t, root, "sys/class/net/br0")
	writeSyntheticFile(t, root, "sys/class/net/enp0s31f6/speed", "1000\n")
	mkdir(t, root, "sys/class/net/enp0s31f6/device")

	return root
}

func testBackend() common.Backend {
	b := common.Unavailable()
	b.Interfaces = func(context.Context) (net.InterfaceStatList, error) {
		return net.InterfaceStatList{
			{Index: 1, Name: "lo", Flags: []string{"up", "loopback"}},
			{Index: 2, Name: "enp0s31f6", HardwareAddr: "54:05:db:01:02:03", Flags: []string{"up"}},
			{Index: 3, Name: "wlp0s20f3", HardwareAddr: "a0:b1:c2:d3:e4:f5", Flags: []string{"up"}},
			{Index: 4, Name: "br0", HardwareAddr: "02:00:00:00:00:01", Flags: []string{"up"}},
		}, nil
	}
	b.DiskCounters = func(context.Context, ...string) (map[string]disk.IOCountersStat, error) {
		return map[string]disk.IOCountersStat{
			"nvme0n1": {ReadCount: 100, WriteCount: 50, ReadBytes: 409600, WriteBytes: 204800, IoTime: 30},
		}, nil
	}
	b.Partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/nvme0n1p1", Mountpoint: "/boot/efi"},
		}, nil
	}
	return b
}

func newTestHAL(t *testing.T) (*HardwareAbstractionLayer, string) {
	t.Helper()
	root := syntheticRoot(t)
	return New(Options{Root: root, DisableGHW: true}, testBackend(), nopLogger()), root
}

func TestComputerSystem(t *testing.T) {
	h, _ := newTestHAL(t)
	cs := h.ComputerSystem()

	if cs.Manufacturer != "LENOVO" || cs.SerialNumber != "PF2ABCDE" {
		t.Errorf("ComputerSystem = %+v", cs)
	}
	if cs.Model != "20XW0055GE (version: ThinkPad X1 Carbon Gen 9)" {
		t.Errorf("Model = %q", cs.Model)
	}
	if cs.HardwareUUID != "4C4C4544-0042-3510-8056-B2C04F4E4B32" {
		t.Errorf("HardwareUUID = %q", cs.HardwareUUID)
	}
	if cs.Firmware.Name != "UEFI" || cs.Firmware.ReleaseDate != "2021-08-03" {
		t.Errorf("Firmware = %+v", cs.Firmware)
	}
	if cs.Baseboard.SerialNumber != "" {
		t.Errorf("placeholder serial kept: %q", cs.Baseboard.SerialNumber)
	}
	if h.ComputerSystem() != cs {
		t.Error("ComputerSystem not cached")
	}
}

func TestSingletonsConcurrent(t *testing.T) {
	h, _ := newTestHAL(t)
	var wg sync.WaitGroup
	results := make(chan any, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- h.Processor()
			results <- h.Memory()
		}()
	}
	wg.Wait()
	close(results)

	processor, memory := h.Processor(), h.Memory()
	for r := range results {
		if r != any(processor) && r != any(memory) {
			t.Fatalf("got a second instance: %T", r)
		}
	}
}

func TestProcessorAndMemory(t *testing.T) {
	h, _ := newTestHAL(t)
	p := h.Processor()

	if p.LogicalProcessorCount() != 4 || p.PhysicalPackageCount() != 1 {
		t.Errorf("counts = %d logical, %d packages", p.LogicalProcessorCount(), p.PhysicalPackageCount())
	}
	if lp := p.LogicalProcessors()[3]; lp.PhysicalProcessorNumber != 1 {
		t.Errorf("cpu3 core = %d, want 1", lp.PhysicalProcessorNumber)
	}
	if p.MaxFreq() != 4_700_000_000 {
		t.Errorf("MaxFreq = %d", p.MaxFreq())
	}
	if f := p.CurrentFreq(); len(f) != 4 || f[2] != 3_000_000_000 {
		t.Errorf("CurrentFreq = %v", f)
	}
	if p.Interrupts() != 987654 || p.ContextSwitches() != 4321 {
		t.Errorf("interrupts/ctxt = %d/%d", p.Interrupts(), p.ContextSwitches())
	}

	if got := h.Memory().VirtualMemory().Swappiness; got != 60 {
		t.Errorf("Swappiness = %d", got)
	}
}

func TestSensors(t *testing.T) {
	h, _ := newTestHAL(t)
	s := h.Sensors()
	if s.CPUTemperature() != 52 {
		t.Errorf("CPUTemperature = %f, want coretemp 52", s.CPUTemperature())
	}
	if fans := s.FanSpeeds(); len(fans) != 1 || fans[0] != 2400 {
		t.Errorf("FanSpeeds = %v", fans)
	}
	if s.CPUVoltage() != 12 {
		t.Errorf("CPUVoltage = %f", s.CPUVoltage())
	}
}

func TestPowerSources(t *testing.T) {
	h, _ := newTestHAL(t)
	sources := h.PowerSources()
	if len(sources) != 1 {
		t.Fatalf("power sources = %d, want 1", len(sources))
	}
	b := sources[0]
	if b.Name != "BAT0" || !b.Discharging || b.PowerOnLine {
		t.Errorf("battery = %+v", b)
	}
	if b.CapacityUnits != "MWH" || b.CurrentCapacity != 25000 || b.MaxCapacity != 50000 || b.DesignCapacity != 57000 {
		t.Errorf("capacity = %s %d/%d/%d", b.CapacityUnits, b.CurrentCapacity, b.MaxCapacity, b.DesignCapacity)
	}
	if b.RemainingCapacityPercent != 0.5 {
		t.Errorf("RemainingCapacityPercent = %f", b.RemainingCapacityPercent)
	}
	if b.PowerUsageRate != -8000 {
		t.Errorf("PowerUsageRate = %f", b.PowerUsageRate)
	}
	// 25000 mWh at 8000 mW.
	if b.TimeRemainingInstant != 11250 {
		t.Errorf("TimeRemainingInstant = %f", b.TimeRemainingInstant)
	}
}

func TestDiskStoresFresh(t *testing.T) {
	h, root := newTestHAL(t)

	disks := h.DiskStores()
	if len(disks) != 4 {
		t.Fatalf("disks = %d, want nvme0n1 plus three dm devices", len(disks))
	}
	nvme := disks[3]
	if nvme.Name != "nvme0n1" {
		t.Fatalf("disks[3] = %q", nvme.Name)
	}
	if nvme.Size != 1000215216*512 || nvme.Serial != "S4ENNX0N123456" || nvme.Reads != 100 {
		t.Errorf("nvme0n1 = %+v", nvme)
	}
	if len(nvme.Partitions) != 2 {
		t.Fatalf("partitions = %d", len(nvme.Partitions))
	}
	p1 := nvme.Partitions[0]
	if p1.MountPoint != "/boot/efi" || p1.UUID != "A1B2-C3D4" || p1.Major != 259 || p1.Minor != 1 {
		t.Errorf("nvme0n1p1 = %+v", p1)
	}

	writeSyntheticFile(t, root, "sys/block/sda/size", "2048\n")
	if got := len(h.DiskStores()); got != 5 {
		t.Errorf("after hot-plug disks = %d, want 5", got)
	}
}

func TestLogicalVolumeGroups(t *testing.T) {
	h, _ := newTestHAL(t)
	groups := h.LogicalVolumeGroups()
	if len(groups) != 1 {
		t.Fatalf("groups = %+v", groups)
	}
	g := groups[0]
	if g.Name != "vg-data" {
		t.Errorf("Name = %q", g.Name)
	}
	if len(g.PhysicalVolumes) != 1 || g.PhysicalVolumes[0] != "/dev/nvme0n1p2" {
		t.Errorf("PhysicalVolumes = %v", g.PhysicalVolumes)
	}
	if len(g.LogicalVolumes) != 2 || len(g.LogicalVolumes["root"]) != 1 {
		t.Errorf("LogicalVolumes = %v", g.LogicalVolumes)
	}
}

func TestSplitDMName(t *testing.T) {
	tests := []struct {
		in, vg, lv string
		ok         bool
	}{
		{"vg0-root", "vg0", "root", true},
		{"vg--data-root", "vg-data", "root", true},
		{"vg-lv--snap", "vg", "lv-snap", true},
		{"nodash", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			vg, lv, ok := splitDMName(tt.in)
			if vg != tt.vg || lv != tt.lv || ok != tt.ok {
				t.Errorf("splitDMName(%q) = %q, %q, %v", tt.in, vg, lv, ok)
			}
		})
	}
}

func TestDisplaysAndGraphics(t *testing.T) {
	h, _ := newTestHAL(t)

	displays := h.Displays()
	if len(displays) != 1 || displays[0].ManufacturerID != "GSM" || displays[0].Year != 2022 {
		t.Errorf("displays = %+v", displays)
	}

	cards := h.GraphicsCards()
	if len(cards) != 1 {
		t.Fatalf("graphics cards = %d, want 1", len(cards))
	}
	if cards[0].Vendor != "Intel" || cards[0].DeviceID != "0x9a49" || cards[0].VersionInfo != "driver=i915, revision=0x01" {
		t.Errorf("card = %+v", cards[0])
	}
}

func TestUsbDevices(t *testing.T) {
	h, _ := newTestHAL(t)

	tree := h.UsbDevices(true)
	if len(tree) != 1 || len(tree[0].ConnectedDevices) != 1 {
		t.Fatalf("tree = %+v", tree)
	}
	mouse := tree[0].ConnectedDevices[0].ConnectedDevices
	if len(mouse) != 1 || mouse[0].Vendor != "Logitech" || mouse[0].UniqueDeviceID != "046d:c077:1-1.4" {
		t.Errorf("mouse = %+v", mouse)
	}

	flat := h.UsbDevices(false)
	if len(flat) != 3 {
		t.Fatalf("flat = %d, want 3", len(flat))
	}
	for _, d := range flat {
		if d.ConnectedDevices != nil {
			t.Errorf("%s has children in flat mode", d.Name)
		}
	}
}

func TestSoundCards(t *testing.T) {
	h, _ := newTestHAL(t)
	cards := h.SoundCards()
	if len(cards) != 1 {
		t.Fatalf("sound cards = %d", len(cards))
	}
	if cards[0].Name != "HDA Intel PCH" || cards[0].Codec != "Realtek ALC287" || cards[0].DriverVersion != "k6.5.0" {
		t.Errorf("card = %+v", cards[0])
	}
}

func TestNetworkIFs(t *testing.T) {
	h, _ := newTestHAL(t)

	physical := h.NetworkIFs(false)
	if len(physical) != 2 {
		t.Fatalf("physical interfaces = %+v", physical)
	}
	if physical[0].Name != "enp0s31f6" || physical[0].Speed != 1_000_000_000 {
		t.Errorf("wired = %+v", physical[0])
	}
	if physical[1].Speed != 0 {
		t.Errorf("unknown speed = %d, want 0", physical[1].Speed)
	}

	all := h.NetworkIFs(true)
	if len(all) != 4 {
		t.Fatalf("all interfaces = %d, want 4", len(all))
	}
	if !all[3].Virtual {
		t.Error("br0 has no device link and should be virtual")
	}
}

func TestEmptyRoot(t *testing.T) {
	h := New(Options{Root: t.TempDir(), DisableGHW: true}, common.Unavailable(), nopLogger())

	if h.ComputerSystem() == nil || h.Memory() == nil || h.Processor() == nil || h.Sensors() == nil {
		t.Fatal("singletons must never be nil")
	}
	if h.PowerSources() == nil || h.DiskStores() == nil || h.LogicalVolumeGroups() == nil ||
		h.Displays() == nil || h.NetworkIFs(true) == nil || h.UsbDevices(true) == nil ||
		h.SoundCards() == nil || h.GraphicsCards() == nil {
		t.Error("list categories must never be nil")
	}
	if got := h.Memory().VirtualMemory().Swappiness; got != -1 {
		t.Errorf("Swappiness = %d, want -1", got)
	}
	if got := h.Sensors().CPUTemperature(); got != 0 {
		t.Errorf("CPUTemperature = %f, want 0", got)
	}
}
