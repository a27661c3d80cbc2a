package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"placements-hub/internal/domain"
)

const sessionPath = "/api/auth/session/"

const (
	publicIPEndpoint = "https://api.ipify.org?format=json"
	geoEndpointFmt   = "https://ipapi.co/%s/json/"
)

// collectSessionDetails builds the login audit snapshot. The local fields are
// always filled; the public IP and geolocation fields are looked up only when
// EnableGeo is set, and any lookup failure leaves them at their fallbacks.
func (c *SessionClient) collectSessionDetails(ctx context.Context) domain.SessionDetails {
	details := domain.SessionDetails{
		IP:        localIP(),
		LoginAt:   time.Now().UTC().Format(time.RFC3339),
		UserAgent: c.cfg.UserAgent,
		Browser:   "placementsctl",
		OS:        runtime.GOOS,
		Device:    "cli",
	}

	if !c.cfg.EnableGeo {
		return details
	}

	ip, err := c.publicIP(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "public IP lookup failed", "error", err)
		return details
	}
	details.IP = ip

	if geo, err := c.geolocate(ctx, ip); err != nil {
		c.logger.DebugContext(ctx, "geolocation lookup failed", "ip", ip, "error", err)
	} else {
		details.Country = geo.Country
		details.Region = geo.Region
		details.City = geo.City
		details.Latitude = geo.Latitude
		details.Longitude = geo.Longitude
	}
	return details
}

// sendSessionDetails reports the snapshot to the backend's session endpoint.
func (c *SessionClient) sendSessionDetails(ctx context.Context, details domain.SessionDetails) error {
	resp, err := c.Post(ctx, sessionPath, details)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("session endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

type geoResult struct {
	Country   *string  `json:"country_name"`
	Region    *string  `json:"region"`
	City      *string  `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// publicIP asks an external echo service for the caller's public address.
// The request goes through the bare HTTP client: no bearer token leaves the
// placements backend.
func (c *SessionClient) publicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, publicIPEndpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.IP == "" {
		return "", fmt.Errorf("empty IP in lookup response")
	}
	return body.IP, nil
}

func (c *SessionClient) geolocate(ctx context.Context, ip string) (*geoResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(geoEndpointFmt, ip), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var geo geoResult
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return nil, err
	}
	return &geo, nil
}

// localIP picks the outbound interface address, falling back to loopback.
// The UDP dial sends no packets.
func localIP() string {
	conn, err := net.Dial("udp", "10.255.255.255:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
