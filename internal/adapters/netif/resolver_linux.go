//go:build linux

package netif

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// Resolver implements ports.AddressResolver via netlink.
type Resolver struct{}

// NewResolver creates an address resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// IPv4 returns the interface's first IPv4 address. A missing link or an
// empty address list means the tunnel is not up, not an error.
func (Resolver) IPv4(name string) (string, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		if _, ok := err.(netlink.LinkNotFoundError); ok {
			return "", nil
		}
		return "", fmt.Errorf("lookup %s: %w", name, err)
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return "", fmt.Errorf("list %s addresses: %w", name, err)
	}
	if len(addrs) == 0 {
		return "", nil
	}
	return addrs[0].IP.String(), nil
}
