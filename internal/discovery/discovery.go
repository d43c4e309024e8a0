// Package discovery advertises the HTTP API over mDNS and finds other
// displays on the LAN.
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog"
)

// mDNS service identity.
const (
	ServiceType   = "_roundel._tcp"
	ServiceDomain = "local."
)

type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error)

// Advertiser publishes this display's API.
type Advertiser struct {
	instance string
	port     int
	text     []string
	logger   zerolog.Logger
	register registerFunc

	mu      sync.Mutex
	server  *zeroconf.Server
	running bool
}

// Config configures an Advertiser.
type Config struct {
	// Instance defaults to "<hostname>-roundel".
	Instance string
	Port     int
	Version  string
	Station  string
	Logger   zerolog.Logger
}

// NewAdvertiser creates an advertiser; call Start to publish.
func NewAdvertiser(cfg Config) *Advertiser {
	instance := cfg.Instance
	if instance == "" {
		hostname, _ := os.Hostname()
		instance = fmt.Sprintf("%s-roundel", hostname)
	}
	return &Advertiser{
		instance: instance,
		port:     cfg.Port,
		text:     TXTRecords(cfg.Version, cfg.Station),
		logger:   cfg.Logger.With().Str("component", "discovery").Logger(),
		register: zeroconf.Register,
	}
}

// TXTRecords builds the metadata published with the service.
func TXTRecords(version, station string) []string {
	if version == "" {
		version = "dev"
	}
	text := []string{"version=" + version, "path=/status"}
	if station != "" {
		text = append(text, "station="+station)
	}
	return text
}

// Start registers the service. Calling Start twice is a no-op.
func (a *Advertiser) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}
	server, err := a.register(a.instance, ServiceType, ServiceDomain, a.port, a.text, nil)
	if err != nil {
		return fmt.Errorf("failed to register mdns service: %w", err)
	}
	a.server = server
	a.running = true

	a.logger.Info().
		Str("instance", a.instance).
		Int("port", a.port).
		Msg("advertising http api")
	return nil
}

// Stop withdraws the service.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
	a.running = false
}

// Running reports whether the service is registered.
func (a *Advertiser) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Instance returns the advertised instance name.
func (a *Advertiser) Instance() string {
	return a.instance
}

// Peer is another display found on the LAN.
type Peer struct {
	Instance string
	Host     string
	IP       string
	Port     int
	Text     []string
}

// Browse lists displays answering within timeout.
func Browse(ctx context.Context, timeout time.Duration) ([]Peer, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var peers []Peer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case e, ok := <-entries:
				if !ok {
					return
				}
				peers = append(peers, peerFromEntry(e))
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse: %w", err)
	}
	<-ctx.Done()
	<-done
	return peers, nil
}

func peerFromEntry(e *zeroconf.ServiceEntry) Peer {
	p := Peer{
		Instance: e.Instance,
		Host:     e.HostName,
		Port:     e.Port,
		Text:     e.Text,
	}
	if len(e.AddrIPv4) > 0 {
		p.IP = e.AddrIPv4[0].String()
	}
	return p
}

// PortFromAddr extracts the port from a listen address such as ":8080".
func PortFromAddr(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port in %q", addr)
	}
	return port, nil
}
