package net

import (
	"fmt"
	"net"
	"strconv"

	"LocalSketch/internal/state"
)

// OutgoingIP finds the local address other machines on the LAN can reach.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback()
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// localIPFallback is used on networks without internet access.
func localIPFallback() string {
	ip := firstIPv4()
	if ip.IsLoopback() {
		state.Logger().Warn("[SERVER] no LAN address found, share link uses loopback")
	}
	return ip.String()
}

// ShareLink returns the WebSocket URL of a session server on port.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(host, strconv.Itoa(port)), Path)
}

// ListenerPort returns the TCP port of ln.
func ListenerPort(ln net.Listener) int {
	if a, ok := ln.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}
