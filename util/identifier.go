package util

import (
	"fmt"
	"hash/fnv"
	"unicode/utf8"
)

// TruncateIdentifier shortens name to at most maxLen bytes without splitting a
// multi-byte character. A truncated name keeps
// its prefix and ends with an FNV-1a suffix of the full name, so two long names
// sharing a prefix still get distinct results. maxLen <= 0 disables truncation.
func TruncateIdentifier(name string, maxLen int) string {
	if maxLen <= 0 || len(name) <= maxLen {
		return name
	}

	h := fnv.New32a()
	h.Write([]byte(name))
	suffix := fmt.Sprintf("_%08x", h.Sum32())
	if maxLen <= len(suffix) {
		return suffix[len(suffix)-maxLen:]
	}
	cut := maxLen - len(suffix)
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut] + suffix
}
