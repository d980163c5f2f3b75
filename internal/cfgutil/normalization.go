// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// NormalizeAddress returns the normalized form of the address, adding a default
// port if necessary.  An error is returned if the address, even without a port,
// is not valid.
func NormalizeAddress(addr string, defaultPort string) (hostport string, err error) {
	// If the first SplitHostPort errors because of a missing port and not
	// for an invalid host, add the port.  If the second SplitHostPort
	// fails, then a port is not missing and the original error should be
	// returned.
	host, port, origErr := net.SplitHostPort(addr)
	if origErr == nil {
		return net.JoinHostPort(host, port), nil
	}
	addr = net.JoinHostPort(addr, defaultPort)
	_, _, err = net.SplitHostPort(addr)
	if err != nil {
		return "", origErr
	}
	return addr, nil
}

// NormalizeNodeURL turns a node given as host, host:port or full URL into a
// base URL without trailing slash.  Port 443 and schemeless hosts default to
// https, anything else to http.
func NormalizeNodeURL(node string, defaultPort string) (string, error) {
	node = strings.TrimSpace(node)
	if node == "" {
		return "", fmt.Errorf("empty node address")
	}

	if strings.Contains(node, "://") {
		u, err := url.Parse(node)
		if err != nil {
			return "", err
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
		}
		if u.Host == "" {
			return "", fmt.Errorf("node URL %q has no host", node)
		}
		return strings.TrimSuffix(u.String(), "/"), nil
	}

	hostport, err := NormalizeAddress(node, defaultPort)
	if err != nil {
		return "", err
	}
	_, port, _ := net.SplitHostPort(hostport)

	scheme := "http"
	if port == "443" {
		scheme = "https"
		hostport = strings.TrimSuffix(hostport, ":443")
	}
	return scheme + "://" + hostport, nil
}
