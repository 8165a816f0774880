package domain

import (
	"net/netip"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Blacklist is an immutable set of SHA-1 digests of blacklisted hostname and
// IP wildcards. Plaintext addresses are never stored; lookups hash candidate
// wildcards derived from the queried address and test set membership.
//
// IP addresses descend from the narrowest wildcard to the widest
// (10.100.200.1 -> 10.100.200.* -> 10.100.* -> 10.*). Hostnames ascend over
// their parent domains with the top level label dropped
// (a.b.example.tld -> *.b.example -> *.example).
type Blacklist struct {
	hashes map[string]struct{}
}

// NewBlacklist builds a blacklist from hex digests. Entries are trimmed and
// lowercased; empty entries are ignored.
func NewBlacklist(hashes []string) Blacklist {
	set := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		set[h] = struct{}{}
	}
	return Blacklist{hashes: set}
}

// Contains reports whether digest is part of the blacklist.
func (b Blacklist) Contains(digest string) bool {
	_, ok := b.hashes[strings.ToLower(digest)]
	return ok
}

func (b Blacklist) Len() int { return len(b.hashes) }

// Hashes returns the digests in ascending order.
func (b Blacklist) Hashes() []string {
	out := lo.Keys(b.hashes)
	slices.Sort(out)
	return out
}

func (Blacklist) Shape() Shape { return ShapeBlacklist }
func (Blacklist) eventValue()  {}

func (b Blacklist) Equal(other EventValue) bool {
	o, ok := other.(Blacklist)
	if !ok || len(o.hashes) != len(b.hashes) {
		return false
	}
	for h := range b.hashes {
		if _, ok := o.hashes[h]; !ok {
			return false
		}
	}
	return true
}

// IsBlacklisted evaluates a hostname or IP address.
func (b Blacklist) IsBlacklisted(address string) (bool, error) {
	_, ok, err := b.Match(address)
	return ok, err
}

// IsBlacklistedIP evaluates a dotted-quad IPv4 address.
func (b Blacklist) IsBlacklistedIP(address string) (bool, error) {
	candidates, err := IPCandidates(address)
	if err != nil {
		return false, err
	}
	_, ok := b.first(candidates)
	return ok, nil
}

// IsBlacklistedHostname evaluates a hostname.
func (b Blacklist) IsBlacklistedHostname(name string) (bool, error) {
	candidates, err := HostnameCandidates(name)
	if err != nil {
		return false, err
	}
	_, ok := b.first(candidates)
	return ok, nil
}

// Match returns the first candidate wildcard of address whose digest is
// blacklisted.
func (b Blacklist) Match(address string) (string, bool, error) {
	candidates, err := Candidates(address)
	if err != nil {
		return "", false, err
	}
	c, ok := b.first(candidates)
	return c, ok, nil
}

func (b Blacklist) first(candidates []string) (string, bool) {
	for _, c := range candidates {
		if _, ok := b.hashes[Digest(c)]; ok {
			return c, true
		}
	}
	return "", false
}

// Candidates returns the wildcards tested for address, in lookup order.
// Addresses that look like IP literals take the IP path; IPv4-mapped IPv6
// literals are unmapped first and any other IPv6 literal is rejected.
func Candidates(address string) ([]string, error) {
	if addr, err := netip.ParseAddr(address); err == nil {
		if addr.Is4In6() {
			return IPCandidates(addr.Unmap().String())
		}
		if addr.Is6() {
			return nil, &InvalidAddressError{Address: address, Reason: "IPv6 addresses are not supported"}
		}
		return IPCandidates(address)
	}
	if isDottedDecimal(address) {
		return IPCandidates(address)
	}
	return HostnameCandidates(address)
}

// IPCandidates returns a.b.c.*, a.b.* and a.* for the address a.b.c.d.
// The full address itself is never a candidate.
func IPCandidates(address string) ([]string, error) {
	segments := strings.Split(address, ".")
	if len(segments) != 4 {
		return nil, &InvalidAddressError{Address: address, Reason: "must contain exactly 4 segments"}
	}
	out := make([]string, 0, 3)
	for i := 3; i > 0; i-- {
		out = append(out, strings.Join(segments[:i], ".")+".*")
	}
	return out, nil
}

// HostnameCandidates returns *.<suffix> for every proper parent of name with
// the final label removed, narrowest first. Names of one or two labels have
// no candidates. Trailing empty labels are ignored.
func HostnameCandidates(name string) ([]string, error) {
	labels := strings.Split(name, ".")
	for len(labels) > 0 && labels[len(labels)-1] == "" {
		labels = labels[:len(labels)-1]
	}
	if len(labels) == 0 {
		return nil, &InvalidAddressError{Address: name, Reason: "must contain at least one label"}
	}
	n := len(labels)
	out := make([]string, 0, max(n-2, 0))
	for i := 1; i < n-1; i++ {
		out = append(out, "*."+strings.Join(labels[i:n-1], "."))
	}
	return out, nil
}

// isDottedDecimal reports whether s consists only of digits and at least one
// dot, i.e. was meant as an IPv4 address even if it is not a valid one.
func isDottedDecimal(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
