package utils

// AddrPrefixLen is the fixed prefix length used for file naming and display.
const AddrPrefixLen = 10

// AddrPrefix truncates an address to the fixed prefix used in snapshot and
// ledger file names.
func AddrPrefix(address string) string {
	if len(address) <= AddrPrefixLen {
		return address
	}
	return address[:AddrPrefixLen]
}

// DedupeAddresses removes duplicates from a list of addresses while
// preserving first-seen order.
func DedupeAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
