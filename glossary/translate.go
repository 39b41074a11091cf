package glossary

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Translation is a term rendered for a non-technical reader.
type Translation struct {
	Term       Term     `json:"term"`
	Simplified string   `json:"simplified"`
	Related    []string `json:"related,omitempty"`
}

// substitutions maps protocol jargon to plain language. Order matters:
// longer phrases come before the shorter phrases they contain, so
// "automated market maker" never turns into a half-replaced hybrid.
var substitutions = []struct {
	jargon string
	plain  string
}{
	{"automated market maker", "trading venue that quotes prices from a formula"},
	{"money market", "lending pool"},
	{"order flow", "stream of incoming trades"},
	{"orderbook", "list of open buy and sell offers"},
	{"intent", "signed trade request"},
	{"solver", "agent that finds the best way to fill a trade"},
	{"liquidity provider", "user who deposits funds for others to trade against"},
	{"liquidity", "available funds"},
	{"collateral", "deposited assets backing a loan"},
	{"slippage", "price drift between quote and fill"},
	{"tvl", "total value of deposited funds"},
	{"impermanent loss", "value lost versus simply holding the assets"},
	{"oracle", "external price feed"},
	{"settlement", "final transfer of the traded assets"},
	{"on-chain", "recorded on the blockchain"},
}

// Simplify rewrites a summary in plain language by applying the fixed
// substitutions in order, case-insensitively. Each pass replaces every
// occurrence; already-substituted text is not revisited by the same rule.
func Simplify(text string) string {
	for _, sub := range substitutions {
		text = replaceFold(text, sub.jargon, sub.plain)
	}
	return text
}

// replaceFold replaces every case-insensitive occurrence of old in s with
// replacement. old must be non-empty. Lowering a rune can change its byte
// length, so match offsets found in the lowered text are mapped back to s
// through a per-byte offset table instead of being reused directly.
func replaceFold(s, old, replacement string) string {
	lowOld := strings.ToLower(old)

	var lowered strings.Builder
	lowered.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		lr := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(lr); j++ {
			offsets = append(offsets, i)
		}
		lowered.WriteRune(lr)
	}
	offsets = append(offsets, len(s))
	lower := lowered.String()

	var b strings.Builder
	prev := 0
	for start := 0; ; {
		i := strings.Index(lower[start:], lowOld)
		if i < 0 {
			break
		}
		i += start
		b.WriteString(s[prev:offsets[i]])
		b.WriteString(replacement)
		prev = offsets[i+len(lowOld)]
		start = i + len(lowOld)
	}
	if prev == 0 {
		return s
	}
	b.WriteString(s[prev:])
	return b.String()
}
