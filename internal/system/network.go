package system

import (
	"context"
	"fmt"
	"strings"
)

const (
	netInfoScript = "netinfo.sh"
	wifiScript    = "wifi.sh"
)

func WiFiIPv4(ctx context.Context, r Runner) (string, error) {
	stdout, stderr, err := r.Run(ctx, netInfoScript, "wifi-ip")
	if err != nil {
		return "", fmt.Errorf("netinfo wifi-ip failed: %v: %s", err, stderr)
	}
	return strings.TrimSpace(stdout), nil
}

// WiFiPowerSave puts the radio in minimum modem power-save: it sleeps
// between beacons and stays associated.
func WiFiPowerSave(ctx context.Context, r Runner) error {
	_, stderr, err := r.Run(ctx, wifiScript, "powersave", "min-modem")
	if err != nil {
		return fmt.Errorf("wifi powersave failed: %v: %s", err, stderr)
	}
	return nil
}
