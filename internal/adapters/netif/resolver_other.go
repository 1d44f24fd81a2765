//go:build !linux

package netif

import "net"

// Resolver implements ports.AddressResolver with the portable net package.
type Resolver struct{}

// NewResolver creates an address resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// IPv4 returns the interface's first IPv4 address. A missing interface or
// one without an IPv4 assignment means the tunnel is not up, not an error.
func (Resolver) IPv4(name string) (string, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return "", nil
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", nil
}
