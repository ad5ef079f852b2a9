// Package static provides a geolocation provider backed by a CIDR-to-country
// table loaded once at startup. It suits deployments that ship a curated IP
// range data set instead of calling an external geo API.
package static

import (
	"context"
	"fmt"
	"net/netip"
	"sort"

	"bidscope/internal/privacy/models"
)

const vendorName = "static"

type entry struct {
	prefix  netip.Prefix
	country string
}

// Provider resolves country codes from an in-memory prefix table. Read-only
// after construction, safe for concurrent lookups.
type Provider struct {
	entries []entry
}

// New builds a provider from a cidr -> ISO 3166-1 alpha-2 country table.
func New(table map[string]string) (*Provider, error) {
	entries := make([]entry, 0, len(table))
	for cidr, country := range table {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("parse geo table entry %q: %w", cidr, err)
		}
		entries = append(entries, entry{prefix: prefix.Masked(), country: country})
	}

	// Most-specific prefix wins.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].prefix.Bits() > entries[j].prefix.Bits()
	})

	return &Provider{entries: entries}, nil
}

// Lookup implements ports.GeoLocationService.
func (p *Provider) Lookup(ctx context.Context, ipAddress string) (*models.GeoInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr, err := netip.ParseAddr(ipAddress)
	if err != nil {
		return nil, fmt.Errorf("parse ip %q: %w", ipAddress, err)
	}
	addr = addr.Unmap()

	for _, e := range p.entries {
		if e.prefix.Contains(addr) {
			return &models.GeoInfo{Vendor: vendorName, Country: e.country}, nil
		}
	}
	return nil, fmt.Errorf("no geo data for %q", ipAddress)
}
