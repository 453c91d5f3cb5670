// Copyright (c) 2020 aerth <aerth@riseup.net>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// package greylist implements a basic whitelisting/blacklisting http middleware
//
// It reads 2 files (whitelist file, blacklist file) once, when the list is
// created. Each line holds an IP address or a CIDR block; blank lines and
// lines starting with '#' are skipped. The lists never change afterwards.
package greylist

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// List is a greylist instance
type List struct {
	whitelist, blacklist []*net.IPNet
	allMethods           bool
	log                  *zap.Logger
}

// New accepts whitelist filename and blacklist filename.
// Empty filenames and missing files are not used and not reported.
//
// By default, only non-GET requests are protected.
// If your program demands, use l.SetAllMethods(true)
func New(whitelistFilename, blacklistFilename string, logger *zap.Logger) (*List, error) {
	l := &List{log: logger.Named("greylist")}
	var err error
	if l.whitelist, err = readList(whitelistFilename); err != nil {
		return nil, fmt.Errorf("whitelist: %w", err)
	}
	if l.blacklist, err = readList(blacklistFilename); err != nil {
		return nil, fmt.Errorf("blacklist: %w", err)
	}
	if len(l.whitelist)+len(l.blacklist) > 0 {
		l.log.Info("loaded lists", zap.Int("whitelisted", len(l.whitelist)), zap.Int("blacklisted", len(l.blacklist)))
	}
	return l, nil
}

// SetAllMethods blocks all requests from blacklisted IPs, not only state changing ones.
func (l *List) SetAllMethods(b bool) {
	l.allMethods = b
}

// Allowed reports whether ip may make state changing requests.
// A whitelisted address is allowed even if it is also blacklisted.
func (l *List) Allowed(ip net.IP) bool {
	if ip == nil {
		return true
	}
	if contains(l.whitelist, ip) {
		return true
	}
	return !contains(l.blacklist, ip)
}

// Protect a http.Handler
//
//	r.Use(glist.Protect)
func (l *List) Protect(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// quick short circuit for safe requests
		if !l.allMethods && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
			h.ServeHTTP(w, r)
			return
		}
		ip := remoteIP(r)
		if !l.Allowed(ip) {
			l.log.Info("blocking blacklisted ip", zap.Stringer("ip", ip), zap.String("path", r.URL.Path))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func remoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}

func contains(list []*net.IPNet, ip net.IP) bool {
	for _, n := range list {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// readList parses one address or CIDR block per line.
func readList(filename string) ([]*net.IPNet, error) {
	if filename == "" {
		return nil, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var list []*net.IPNet
	scanner := bufio.NewScanner(f)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineno, err)
		}
		list = append(list, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func parseEntry(s string) (*net.IPNet, error) {
	if strings.Contains(s, "/") {
		_, n, err := net.ParseCIDR(s)
		return n, err
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("bad ip address %q", s)
	}
	bits := 8 * net.IPv4len
	if ip.To4() == nil {
		bits = 8 * net.IPv6len
	} else {
		ip = ip.To4()
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}
