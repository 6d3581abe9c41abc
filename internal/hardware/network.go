package hardware

import "strings"

// OUI prefixes assigned to hypervisor vendors.
var vmMACPrefixes = []string{
	"00:50:56", // VMware
	"00:0C:29", // VMware
	"00:05:69", // VMware
	"08:00:27", // VirtualBox
	"00:15:5D", // Hyper-V
	"00:1C:42", // Parallels
	"00:16:3E", // Xen
	"52:54:00", // QEMU/KVM
}

// virtualNamePrefixes name software interfaces created by bridges, tunnels
// and container runtimes.
var virtualNamePrefixes = []string{
	"veth", "docker", "br-", "virbr", "vmnet", "vboxnet", "tun", "tap",
	"utun", "awdl", "llw", "bridge", "cni", "flannel", "kube-ipvs", "wg",
}

// IsKnownVMMAC reports whether mac carries a hypervisor vendor prefix.
// Both ':' and '-' separators are accepted.
func IsKnownVMMAC(mac string) bool {
	mac = strings.ToUpper(strings.ReplaceAll(mac, "-", ":"))
	for _, p := range vmMACPrefixes {
		if strings.HasPrefix(mac, p) {
			return true
		}
	}
	return false
}

// IsVirtualName reports whether an interface name matches a well-known
// software interface naming scheme.
func IsVirtualName(name string) bool {
	for _, p := range virtualNamePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// FilterLocal drops loopback and virtual interfaces unless includeLocal is
// set. The result is never nil.
func FilterLocal(ifs []NetworkIF, includeLocal bool) []NetworkIF {
	out := make([]NetworkIF, 0, len(ifs))
	for _, nif := range ifs {
		if !includeLocal && (nif.Loopback || nif.Virtual) {
			continue
		}
		out = append(out, nif)
	}
	return out
}
