package web

import (
	"context"
	"errors"
	"net"

	"github.com/rook-computer/wordclock/internal/system"
)

// DeviceLinkURL resolves the Wi-Fi address through the netinfo script and
// returns the URL of this server on it.
//
// It runs OS scripts, so it must never be used by the simulator.
func DeviceLinkURL(r system.Runner, listenAddr string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		ip, err := system.WiFiIPv4(ctx, r)
		if err != nil {
			return "", err
		}
		if ip == "" {
			return "", errors.New("wifi has no address")
		}
		return linkURL(ip, listenAddr), nil
	}
}

// StaticLinkURL always returns host's URL on this server.
func StaticLinkURL(host, listenAddr string) func(ctx context.Context) (string, error) {
	return func(context.Context) (string, error) {
		return linkURL(host, listenAddr), nil
	}
}

func linkURL(host, listenAddr string) string {
	_, port, err := net.SplitHostPort(listenAddr)
	if err != nil || port == "" || port == "80" {
		return "http://" + host + "/"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
