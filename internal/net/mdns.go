package net

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"LocalSketch/internal/state"

	"github.com/hashicorp/mdns"
)

const serviceType = "_localsketch._tcp"

// Peer is a session server found on the LAN.
type Peer struct {
	Name string
	Host string
	Port int
}

// Link returns the WebSocket URL of the peer.
func (p Peer) Link() string { return ShareLink(p.Host, p.Port) }

// Advertise announces a session server on port under name. Shut the
// returned server down to withdraw it.
func Advertise(port int, name string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if name == "" {
		name = host
	}

	service, err := mdns.NewMDNSService(
		name,
		serviceType,
		"",
		"",
		port,
		[]net.IP{firstIPv4()},
		[]string{"LocalSketch", "path=" + Path},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	state.Logger().Info("[MDNS] advertising", "service", serviceType, "name", name, "port", port)
	return server, nil
}

// Discover browses the LAN for timeout and reports each server found.
func Discover(timeout time.Duration, found func(Peer)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Peer{
				Name: instanceName(e.Name),
				Host: e.AddrV4.String(),
				Port: e.Port,
			})
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mDNS query: %w", err)
	}
	return nil
}

// instanceName strips the service suffix from an mDNS instance name.
func instanceName(full string) string {
	name, _, _ := strings.Cut(full, "."+serviceType)
	return strings.ReplaceAll(name, `\ `, " ")
}

// firstIPv4 returns the first non-loopback IPv4 of an interface that is up.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
