package signature

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector returns the 0x-prefixed 4-byte selector of sig: the first four
// bytes of keccak256 over the canonical form.
func Selector(sig string) string {
	return hexutil.Encode(crypto.Keccak256([]byte(Canonical(sig)))[:4])
}

// Verify reports whether sig hashes to selector. Directory entries are user
// submitted, so a candidate is not guaranteed to match.
func Verify(sig, selector string) bool {
	return strings.EqualFold(Selector(sig), selector)
}
