package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrNoPublicIP is returned for empty, loopback and private addresses,
// which geo lookup services cannot place.
var ErrNoPublicIP = errors.New("geo: not a public ip")

// Geo is a coarse location for an IP address.
type Geo struct {
	City     string
	Region   string
	Country  string
	Timezone string
}

type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (Geo, error)
}

// FormatGeo renders "City, Region, Country", skipping blanks.
func FormatGeo(g Geo) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{g.City, g.Region, g.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func publicIP(s string) (net.IP, bool) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return nil, false
	}
	return ip, true
}

// IPAPIResolver looks addresses up on ip-api.com.
type IPAPIResolver struct {
	Client *http.Client
}

func (r IPAPIResolver) Lookup(ctx context.Context, raw string) (Geo, error) {
	ip, ok := publicIP(raw)
	if !ok {
		return Geo{}, ErrNoPublicIP
	}
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}

	url := fmt.Sprintf("http://ip-api.com/json/%s?fields=status,message,country,regionName,city,timezone", ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Geo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Geo{}, err
	}
	defer resp.Body.Close()

	var body struct {
		Status     string `json:"status"`
		Message    string `json:"message"`
		Country    string `json:"country"`
		RegionName string `json:"regionName"`
		City       string `json:"city"`
		Timezone   string `json:"timezone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Geo{}, err
	}
	if !strings.EqualFold(body.Status, "success") {
		return Geo{}, fmt.Errorf("geo lookup failed: %s", body.Message)
	}
	return Geo{City: body.City, Region: body.RegionName, Country: body.Country, Timezone: body.Timezone}, nil
}

type cachedGeo struct {
	geo Geo
	at  time.Time
}

// CachingResolver memoizes successful lookups for TTL.
type CachingResolver struct {
	Next GeoResolver
	TTL  time.Duration

	mu    sync.Mutex
	cache map[string]cachedGeo
}

func NewCachingResolver(next GeoResolver, ttl time.Duration) *CachingResolver {
	return &CachingResolver{Next: next, TTL: ttl, cache: map[string]cachedGeo{}}
}

func (r *CachingResolver) Lookup(ctx context.Context, ip string) (Geo, error) {
	now := time.Now()
	r.mu.Lock()
	if c, ok := r.cache[ip]; ok && now.Sub(c.at) < r.TTL {
		r.mu.Unlock()
		return c.geo, nil
	}
	r.mu.Unlock()

	g, err := r.Next.Lookup(ctx, ip)
	if err != nil {
		return Geo{}, err
	}
	r.mu.Lock()
	r.cache[ip] = cachedGeo{geo: g, at: now}
	r.mu.Unlock()
	return g, nil
}
