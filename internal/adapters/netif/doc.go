// Package netif resolves addresses assigned to local network interfaces,
// primarily the VPN tunnel interface the lab network is reached through.
// On linux it reads the kernel's view via netlink; elsewhere it falls back
// to the portable net package.
package netif
