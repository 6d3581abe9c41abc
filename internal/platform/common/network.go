package common

import (
	"context"
	"log/slog"
	"net/netip"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v4/net"

	"github.com/doughall/hwinv/internal/hardware"
)

// NetworkOptions carries the platform-specific parts of NetworkIFs.
type NetworkOptions struct {
	// Virtual reports whether the named interface has no physical device.
	// Nil falls back to well-known software interface names.
	Virtual func(name string) bool
	// Speed in bits per second; nil leaves it 0.
	Speed func(name string) uint64
	// DisplayName defaults to the interface name.
	DisplayName func(name string) string
}

// NetworkIFs lists every interface with its addresses and counters, then
// applies the loopback/virtual filter.
func NetworkIFs(backend Backend, logger *slog.Logger, opts NetworkOptions, includeLocal bool) []hardware.NetworkIF {
	ctx := context.Background()
	ifaces, err := backend.Interfaces(ctx)
	if err != nil {
		logger.Warn("failed to list network interfaces", slog.String("error", err.Error()))
		return []hardware.NetworkIF{}
	}

	counters := map[string]net.IOCountersStat{}
	if stats, err := backend.NetCounters(ctx, true); err != nil {
		logger.Warn("failed to read network counters", slog.String("error", err.Error()))
	} else {
		for _, s := range stats {
			counters[s.Name] = s
		}
	}

	var routeAddr netip.Addr
	if backend.DefaultRoute != nil {
		if ip, err := backend.DefaultRoute(); err != nil {
			logger.Debug("no default route", slog.String("error", err.Error()))
		} else if addr, ok := netip.AddrFromSlice(ip); ok {
			routeAddr = addr.Unmap()
		}
	}

	now := time.Now()
	out := make([]hardware.NetworkIF, 0, len(ifaces))
	for _, iface := range ifaces {
		nif := hardware.NetworkIF{
			Name:          iface.Name,
			DisplayName:   iface.Name,
			Index:         iface.Index,
			MTU:           iface.MTU,
			MAC:           iface.HardwareAddr,
			IPv4:          []string{},
			SubnetMasks:   []int{},
			IPv6:          []string{},
			PrefixLengths: []int{},
			Timestamp:     now,
			Up:            slices.Contains(iface.Flags, "up"),
			Loopback:      slices.Contains(iface.Flags, "loopback"),
		}
		if opts.DisplayName != nil {
			if dn := opts.DisplayName(iface.Name); dn != "" {
				nif.DisplayName = dn
			}
		}
		for _, a := range iface.Addrs {
			prefix, err := netip.ParsePrefix(a.Addr)
			if err != nil {
				addr, aerr := netip.ParseAddr(a.Addr)
				if aerr != nil {
					continue
				}
				prefix = netip.PrefixFrom(addr, addr.BitLen())
			}
			addr := prefix.Addr().Unmap()
			if addr.Is4() {
				nif.IPv4 = append(nif.IPv4, addr.String())
				nif.SubnetMasks = append(nif.SubnetMasks, prefix.Bits())
			} else {
				nif.IPv6 = append(nif.IPv6, addr.String())
				nif.PrefixLengths = append(nif.PrefixLengths, prefix.Bits())
			}
			if routeAddr.IsValid() && addr == routeAddr {
				nif.DefaultRoute = true
			}
		}
		if c, ok := counters[iface.Name]; ok {
			nif.BytesRecv = c.BytesRecv
			nif.BytesSent = c.BytesSent
			nif.PacketsRecv = c.PacketsRecv
			nif.PacketsSent = c.PacketsSent
			nif.InErrors = c.Errin
			nif.OutErrors = c.Errout
			nif.InDrops = c.Dropin
		}
		if opts.Speed != nil {
			nif.Speed = opts.Speed(iface.Name)
		}
		nif.KnownVMMACAddr = hardware.IsKnownVMMAC(nif.MAC)
		if opts.Virtual != nil {
			nif.Virtual = opts.Virtual(iface.Name)
		} else {
			nif.Virtual = hardware.IsVirtualName(iface.Name)
		}
		if nif.Loopback {
			nif.Virtual = false
		}
		out = append(out, nif)
	}
	return hardware.FilterLocal(out, includeLocal)
}
