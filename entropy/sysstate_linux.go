//go:build linux

package entropy

import "golang.org/x/sys/unix"

// systemState returns the uptime in seconds and the free-memory figure
// in bytes; zeros when the probe fails.
func systemState() (uptime int64, freemem uint64) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		uptime = int64(si.Uptime)
		freemem = uint64(si.Freeram) * uint64(si.Unit)
	}
	return
}
