package signature

import "regexp"

// Pattern recognizes a well-known function shape. Shape is matched against the
// canonical signature (names stripped).
type Pattern struct {
	Family string
	Name   string
	Shape  *regexp.Regexp
	Bonus  float64
}

// Matches reports whether the canonical signature has this pattern's shape.
func (p Pattern) Matches(canonical string) bool {
	return p.Shape != nil && p.Shape.MatchString(canonical)
}

// DefaultPatterns returns the built-in protocol patterns. The order is part of
// the scoring contract: only the first match counts.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{"ERC-20", "transfer", regexp.MustCompile(`^transfer\(address,uint256\)$`), 10},
		{"ERC-20", "transferFrom", regexp.MustCompile(`^transferFrom\(address,address,uint256\)$`), 10},
		{"ERC-20", "approve", regexp.MustCompile(`^approve\(address,uint256\)$`), 10},
		{"ERC-20", "balanceOf", regexp.MustCompile(`^balanceOf\(address\)$`), 8},
		{"ERC-721", "safeTransferFrom", regexp.MustCompile(`^safeTransferFrom\(address,address,uint256(,bytes)?\)$`), 9},
		{"ERC-721", "ownerOf", regexp.MustCompile(`^ownerOf\(uint256\)$`), 8},
		{"ERC-1155", "safeBatchTransferFrom", regexp.MustCompile(`^safeBatchTransferFrom\(address,address,uint256\[\],uint256\[\],bytes\)$`), 9},
		{"AMM", "router swap", regexp.MustCompile(`^swap(Exact\w+For\w+|\w+ForExact\w+)\(.*\)$`), 7},
		{"AMM", "liquidity", regexp.MustCompile(`^(add|remove)Liquidity\w*\(.*\)$`), 6},
		{"AMM", "pool swap", regexp.MustCompile(`^(swap|exactInput\w*|exactOutput\w*)\(.*\)$`), 5},
	}
}
