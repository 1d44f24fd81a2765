package ports

// AddressResolver reports the IPv4 address assigned to a local network
// interface.
type AddressResolver interface {
	// IPv4 returns the interface's first IPv4 address. An absent interface
	// or one with no IPv4 assignment yields "" and a nil error; that is a
	// normal "connect to VPN first" condition, not a failure.
	IPv4(name string) (string, error)
}
