// Package fetcher downloads article pages and extracts their readable text.
package fetcher

import (
	"fmt"
	"net"
	"net/url"
)

// validateURL rejects URLs the scraper must not request.
//
// Only http and https are allowed. When denyPrivateIPs is set the host is
// resolved and every address is checked against loopback, private and
// link-local ranges (IPv4 and IPv6).
func validateURL(urlStr string, denyPrivateIPs bool) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return nil, fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return u, nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil, fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return nil, fmt.Errorf("%w: hostname '%s' resolves to private IP %s", ErrPrivateIP, hostname, ip.String())
		}
	}

	return u, nil
}

// isPrivateIP reports loopback (127.0.0.0/8, ::1), private (RFC 1918, fc00::/7)
// and link-local (169.254.0.0/16, fe80::/10) addresses.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
