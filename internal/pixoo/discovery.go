package pixoo

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwulff/roundel/internal/storage"
)

// DeviceType is the stored type of a Pixoo mirror.
const DeviceType = "pixoo64"

// pingTimeout bounds each address check.
const pingTimeout = 500 * time.Millisecond

// DiscoveredDevice represents a found Pixoo device.
type DiscoveredDevice struct {
	Name string
	IP   string
}

// ToDevice converts a scan result into a storable record with a fresh id.
func (d DiscoveredDevice) ToDevice() *storage.Device {
	return storage.NewDevice(uuid.NewString(), d.IP, d.Name, DeviceType)
}

// ProgressFunc is called during scanning to report progress.
type ProgressFunc func(current, total int)

// scanWorkers bounds concurrent address checks.
const scanWorkers = 50

// ScanForDevices checks every host of the first IPv4 /24 on an up interface.
func ScanForDevices(ctx context.Context, onProgress ProgressFunc) ([]DiscoveredDevice, error) {
	prefix, err := localPrefix()
	if err != nil {
		return nil, err
	}
	return ScanHosts(ctx, subnetHosts(prefix), DefaultPort, onProgress)
}

// ScanHosts checks each host on port. Progress is reported after every
// host; results keep the order of hosts.
func ScanHosts(ctx context.Context, hosts []string, port int, onProgress ProgressFunc) ([]DiscoveredDevice, error) {
	found := make([]*DiscoveredDevice, len(hosts))
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for w := 0; w < min(scanWorkers, len(hosts)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				found[i] = pingPixoo(ctx, hosts[i], port)

				mu.Lock()
				done++
				n := done
				if onProgress != nil {
					onProgress(n, len(hosts))
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for i := range hosts {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var devices []DiscoveredDevice
	for _, d := range found {
		if d != nil {
			devices = append(devices, *d)
		}
	}
	return devices, ctx.Err()
}

// subnetHosts lists .1 through .254 of a /24.
func subnetHosts(prefix netip.Prefix) []string {
	base := prefix.Masked().Addr().As4()
	hosts := make([]string, 0, 254)
	for i := 1; i <= 254; i++ {
		base[3] = byte(i)
		hosts = append(hosts, netip.AddrFrom4(base).String())
	}
	return hosts
}

// localPrefix returns the /24 of the first non-loopback IPv4 address.
func localPrefix() (netip.Prefix, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip, ok := netip.AddrFromSlice(ipNet.IP.To4())
			if !ok || ip.IsLoopback() {
				continue
			}
			return netip.PrefixFrom(ip, 24).Masked(), nil
		}
	}

	return netip.Prefix{}, fmt.Errorf("could not determine local network")
}

// pingPixoo checks if host answers the Pixoo API.
func pingPixoo(ctx context.Context, host string, port int) *DiscoveredDevice {
	client := NewClientWithTimeout(host, port, pingTimeout)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := client.sendCommand(pingCtx, Command{Command: "Channel/GetIndex"}); err != nil {
		return nil
	}
	return &DiscoveredDevice{Name: "Pixoo", IP: host}
}
