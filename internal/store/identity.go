package store

import (
	"fmt"
	"net/netip"
	"strings"
)

// voterIdentity picks the key used by the duplicate-vote guard: the user id
// when present, otherwise the normalized client address.
func voterIdentity(userID, ip string) (string, error) {
	if userID = strings.TrimSpace(userID); userID != "" {
		return "user:" + userID, nil
	}
	addr := NormalizeIP(ip)
	if addr == "" {
		return "", fmt.Errorf("%w: a user id or client address is required", ErrInvalidVote)
	}
	return "ip:" + addr, nil
}

// NormalizeIP strips ports and zones and unmaps IPv4-in-IPv6 addresses so the
// same client always produces the same key. Unparseable input is lowercased as-is.
func NormalizeIP(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().Unmap().WithZone("").String()
	}
	if addr, err := netip.ParseAddr(strings.Trim(raw, "[]")); err == nil {
		return addr.Unmap().WithZone("").String()
	}
	return strings.ToLower(raw)
}

func voterKey(itemID, identity string) string {
	return itemID + "\x00" + identity
}
