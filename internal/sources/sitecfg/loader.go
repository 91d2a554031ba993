// Package sitecfg describes the single e-commerce site the tracker supports:
// which domains are accepted and which request headers the fetcher sends.
package sitecfg

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Site is the runtime view of the supported shop.
type Site struct {
	Name    string
	Domains []string
	Headers map[string]string
}

// Default returns the built-in site descriptor, used when no file is
// configured.
func Default() *Site {
	return &Site{
		Name:    "RenewKart",
		Domains: []string{"renewkart.com"},
	}
}

// Load reads and parses a site.yaml file. An empty path yields the built-in
// default.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse site yaml: %w", err)
	}

	site := &Site{
		Name:    strings.TrimSpace(f.Site.Name),
		Domains: make([]string, 0, len(f.Site.Domains)),
		Headers: f.Site.Headers,
	}
	for _, d := range f.Site.Domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			site.Domains = append(site.Domains, d)
		}
	}

	if site.Name == "" || len(site.Domains) == 0 {
		return nil, fmt.Errorf("site file %s: name and at least one domain are required", path)
	}
	return site, nil
}

// Supports reports whether host belongs to the shop, matching either the
// domain itself or any subdomain of it.
func (s *Site) Supports(host string) bool {
	host = strings.ToLower(host)
	for _, d := range s.Domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
