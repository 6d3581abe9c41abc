// Package render prints inventory sections as terminal tables.
package render

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/inventory"
)

// Style is applied to every table.
var Style = table.StyleLight

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(Style)
	t.SetTitle(title)
	return t
}

// properties renders a two-column name/value table, skipping empty values.
func properties(w io.Writer, title string, rows [][2]string) {
	t := newTable(w, title)
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		t.AppendRow(table.Row{r[0], r[1]})
	}
	t.Render()
}

func size(n uint64) string {
	if n == 0 {
		return ""
	}
	return humanize.IBytes(n)
}

func hertz(hz int64) string {
	switch {
	case hz <= 0:
		return "unknown"
	case hz >= 1_000_000_000:
		return strconv.FormatFloat(float64(hz)/1e9, 'f', 2, 64) + " GHz"
	default:
		return strconv.FormatFloat(float64(hz)/1e6, 'f', 0, 64) + " MHz"
	}
}

func percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

// ErrUnknownCategory is returned by Section for names outside
// inventory.Categories.
var ErrUnknownCategory = errors.New("unknown category")

var sections = map[string]func(io.Writer, *inventory.Report){
	"computer": func(w io.Writer, r *inventory.Report) { ComputerSystem(w, &r.ComputerSystem) },
	"cpu":      func(w io.Writer, r *inventory.Report) { Processor(w, r.Processor) },
	"memory":   func(w io.Writer, r *inventory.Report) { Memory(w, r.Memory) },
	"sensors":  func(w io.Writer, r *inventory.Report) { Sensors(w, r.Sensors) },
	"power":    func(w io.Writer, r *inventory.Report) { PowerSources(w, r.PowerSources) },
	"disks":    func(w io.Writer, r *inventory.Report) { DiskStores(w, r.DiskStores) },
	"lvm":      func(w io.Writer, r *inventory.Report) { LogicalVolumeGroups(w, r.LogicalVolumeGroups) },
	"displays": func(w io.Writer, r *inventory.Report) { Displays(w, r.Displays) },
	"network":  func(w io.Writer, r *inventory.Report) { NetworkIFs(w, r.NetworkIFs) },
	"usb":      func(w io.Writer, r *inventory.Report) { UsbDevices(w, r.UsbDevices) },
	"sound":    func(w io.Writer, r *inventory.Report) { SoundCards(w, r.SoundCards) },
	"graphics": func(w io.Writer, r *inventory.Report) { GraphicsCards(w, r.GraphicsCards) },
}

// Section prints one category of r.
func Section(w io.Writer, r *inventory.Report, category string) error {
	fn, ok := sections[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	fn(w, r)
	return nil
}

// Report prints every section of r.
func Report(w io.Writer, r *inventory.Report) {
	Host(w, r)
	ComputerSystem(w, &r.ComputerSystem)
	Processor(w, r.Processor)
	Memory(w, r.Memory)
	Sensors(w, r.Sensors)
	PowerSources(w, r.PowerSources)
	DiskStores(w, r.DiskStores)
	LogicalVolumeGroups(w, r.LogicalVolumeGroups)
	Displays(w, r.Displays)
	NetworkIFs(w, r.NetworkIFs)
	UsbDevices(w, r.UsbDevices)
	SoundCards(w, r.SoundCards)
	GraphicsCards(w, r.GraphicsCards)
}

func Host(w io.Writer, r *inventory.Report) {
	h := r.Host
	properties(w, "Host", [][2]string{
		{"Hostname", h.Hostname},
		{"OS", strings.TrimSpace(h.Platform + " " + h.PlatformVersion)},
		{"Kernel", strings.TrimSpace(h.KernelVersion + " " + h.KernelArch)},
		{"Virtualization", strings.TrimSpace(h.VirtualizationSystem + " " + h.VirtualizationRole)},
		{"Fingerprint", r.Fingerprint},
		{"Collected", r.CollectedAt.Format("2006-01-02 15:04:05 MST")},
	})
}

func ComputerSystem(w io.Writer, cs *hardware.ComputerSystem) {
	properties(w, "Computer System", [][2]string{
		{"Manufacturer", cs.Manufacturer},
		{"Model", cs.Model},
		{"Serial", cs.SerialNumber},
		{"UUID", cs.HardwareUUID},
		{"Firmware", strings.TrimSpace(cs.Firmware.Manufacturer + " " + cs.Firmware.Name + " " + cs.Firmware.Version)},
		{"Firmware date", cs.Firmware.ReleaseDate},
		{"Baseboard", strings.TrimSpace(cs.Baseboard.Manufacturer + " " + cs.Baseboard.Model + " " + cs.Baseboard.Version)},
		{"Baseboard serial", cs.Baseboard.SerialNumber},
	})
}

func Processor(w io.Writer, p inventory.Processor) {
	id := p.Identifier
	load := make([]string, 0, len(p.LoadAverage))
	for _, l := range p.LoadAverage {
		if l < 0 {
			load = append(load, "n/a")
			continue
		}
		load = append(load, strconv.FormatFloat(l, 'f', 2, 64))
	}
	rows := [][2]string{
		{"Name", id.Name},
		{"Vendor", id.Vendor},
		{"Family / Model / Stepping", strings.Join([]string{id.Family, id.Model, id.Stepping}, " / ")},
		{"Microarchitecture", id.MicroArchitecture},
		{"Processor ID", id.ProcessorID},
		{"Packages / Cores / Threads", fmt.Sprintf("%d / %d / %d", p.PhysicalPackageCount, p.PhysicalProcessorCount, p.LogicalProcessorCount)},
		{"Max frequency", hertz(p.MaxFreq)},
		{"Load average", strings.Join(load, " ")},
	}
	if p.Load >= 0 {
		rows = append(rows, [2]string{"Load", percent(p.Load)})
	}
	properties(w, "Processor", rows)
}

func Memory(w io.Writer, m inventory.Memory) {
	properties(w, "Memory", [][2]string{
		{"Total", size(m.Total)},
		{"Available", size(m.Available)},
		{"Swap", strings.TrimSpace(size(m.Virtual.SwapUsed) + " / " + size(m.Virtual.SwapTotal))},
		{"Page size", size(uint64(max(m.PageSize, 0)))},
	})
	if len(m.Banks) == 0 {
		return
	}
	t := newTable(w, "Memory Banks")
	t.AppendHeader(table.Row{"Bank", "Capacity", "Speed", "Type", "Manufacturer"})
	for _, b := range m.Banks {
		t.AppendRow(table.Row{b.BankLabel, size(b.Capacity), hertz(b.ClockSpeed), b.MemoryType, b.Manufacturer})
	}
	t.Render()
}

func Sensors(w io.Writer, s inventory.Sensors) {
	fans := make([]string, 0, len(s.FanSpeeds))
	for _, f := range s.FanSpeeds {
		fans = append(fans, strconv.Itoa(f)+" rpm")
	}
	rows := [][2]string{{"Fans", strings.Join(fans, ", ")}}
	if s.CPUTemperature > 0 {
		rows = append(rows, [2]string{"CPU temperature", strconv.FormatFloat(s.CPUTemperature, 'f', 1, 64) + " °C"})
	}
	if s.CPUVoltage > 0 {
		rows = append(rows, [2]string{"CPU voltage", strconv.FormatFloat(s.CPUVoltage, 'f', 2, 64) + " V"})
	}
	properties(w, "Sensors", rows)
}

func timeRemaining(seconds float64) string {
	switch seconds {
	case hardware.TimeRemainingUnknown:
		return "calculating"
	case hardware.TimeRemainingUnlimited:
		return "on AC"
	}
	minutes := int(seconds) / 60
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

func PowerSources(w io.Writer, sources []hardware.PowerSource) {
	t := newTable(w, "Power Sources")
	t.AppendHeader(table.Row{"Name", "Charge", "State", "Remaining", "Capacity", "Chemistry"})
	for _, p := range sources {
		state := "idle"
		switch {
		case p.Charging:
			state = "charging"
		case p.Discharging:
			state = "discharging"
		case p.PowerOnLine:
			state = "on AC"
		}
		capacity := fmt.Sprintf("%d/%d %s", p.CurrentCapacity, p.MaxCapacity, p.CapacityUnits)
		t.AppendRow(table.Row{p.Name, percent(p.RemainingCapacityPercent), state, timeRemaining(p.TimeRemainingEstimated), capacity, p.Chemistry})
	}
	t.Render()
}

func DiskStores(w io.Writer, disks []hardware.HWDiskStore) {
	t := newTable(w, "Disks")
	t.AppendHeader(table.Row{"Name", "Model", "Serial", "Size", "Reads", "Writes"})
	for _, d := range disks {
		t.AppendRow(table.Row{d.Name, d.Model, d.Serial, size(d.Size), humanize.IBytes(d.ReadBytes), humanize.IBytes(d.WriteBytes)})
		for _, p := range d.Partitions {
			t.AppendRow(table.Row{"  " + p.Identification, p.Type, p.UUID, size(p.Size), p.MountPoint, ""})
		}
	}
	t.Render()
}

func LogicalVolumeGroups(w io.Writer, groups []hardware.LogicalVolumeGroup) {
	if len(groups) == 0 {
		return
	}
	t := newTable(w, "Volume Groups")
	t.AppendHeader(table.Row{"Group", "Physical volumes", "Logical volumes"})
	for _, g := range groups {
		lvs := slices.Sorted(maps.Keys(g.LogicalVolumes))
		t.AppendRow(table.Row{g.Name, strings.Join(g.PhysicalVolumes, ", "), strings.Join(lvs, ", ")})
	}
	t.Render()
}

func Displays(w io.Writer, displays []hardware.Display) {
	t := newTable(w, "Displays")
	t.AppendHeader(table.Row{"Name", "Manufacturer", "Product", "Serial", "Made"})
	for _, d := range displays {
		made := ""
		if d.Year > 0 {
			made = fmt.Sprintf("week %d %d", d.Week, d.Year)
		}
		t.AppendRow(table.Row{d.Name, d.ManufacturerID, d.ProductCode, d.SerialNumber, made})
	}
	t.Render()
}

func NetworkIFs(w io.Writer, nics []hardware.NetworkIF) {
	t := newTable(w, "Network Interfaces")
	t.AppendHeader(table.Row{"Name", "MAC", "IPv4", "Speed", "Up", "Flags"})
	for _, n := range nics {
		var flags []string
		if n.DefaultRoute {
			flags = append(flags, "default")
		}
		if n.Virtual {
			flags = append(flags, "virtual")
		}
		if n.Loopback {
			flags = append(flags, "loopback")
		}
		if n.KnownVMMACAddr {
			flags = append(flags, "vm-mac")
		}
		speed := ""
		if n.Speed > 0 {
			speed = humanize.SI(float64(n.Speed), "bps")
		}
		t.AppendRow(table.Row{n.DisplayName, n.MAC, strings.Join(n.IPv4, ", "), speed, n.Up, strings.Join(flags, ",")})
	}
	t.Render()
}

func UsbDevices(w io.Writer, devices []hardware.UsbDevice) {
	t := newTable(w, "USB Devices")
	t.AppendHeader(table.Row{"Name", "Vendor", "ID", "Serial"})
	var walk func(devs []hardware.UsbDevice, depth int)
	walk = func(devs []hardware.UsbDevice, depth int) {
		for _, d := range devs {
			id := ""
			if d.VendorID != "" || d.ProductID != "" {
				id = d.VendorID + ":" + d.ProductID
			}
			t.AppendRow(table.Row{strings.Repeat("  ", depth) + d.Name, d.Vendor, id, d.SerialNumber})
			walk(d.ConnectedDevices, depth+1)
		}
	}
	walk(devices, 0)
	t.Render()
}

func SoundCards(w io.Writer, cards []hardware.SoundCard) {
	t := newTable(w, "Sound Cards")
	t.AppendHeader(table.Row{"Name", "Codec", "Driver"})
	for _, c := range cards {
		t.AppendRow(table.Row{c.Name, c.Codec, c.DriverVersion})
	}
	t.Render()
}

func GraphicsCards(w io.Writer, cards []hardware.GraphicsCard) {
	t := newTable(w, "Graphics Cards")
	t.AppendHeader(table.Row{"Name", "Vendor", "Device", "VRAM", "Version"})
	for _, c := range cards {
		t.AppendRow(table.Row{c.Name, c.Vendor, c.DeviceID, size(c.VRAM), c.VersionInfo})
	}
	t.Render()
}
