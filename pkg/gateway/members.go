package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// HashMembers derives the canonical digest of a member set. The
// gateway indexes multisig outputs by this digest, so the order the
// caller lists members in never matters.
func HashMembers(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, "")))
	return hex.EncodeToString(sum[:])
}
