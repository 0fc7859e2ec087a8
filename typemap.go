package main

import (
	"math"
	"math/big"
	"regexp"
	"strings"
)

// integerDeclPattern matches declared type names that carry integer affinity:
// up to three leading letters, then "INT", then anything alphanumeric
// (INT, INTEGER, BIGINT, MEDIUMINT, INT8, ...).
var integerDeclPattern = regexp.MustCompile(`^[A-Z]{0,3}INT[0-9A-Z]*`)

// typePattern is one entry of the ordered type dispatch table. Matching is
// first-match-wins, so entry order is load-bearing and must not be shuffled.
type typePattern struct {
	match  func(string) bool
	target TargetType
}

func prefixAny(prefixes ...string) func(string) bool {
	return func(decl string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(decl, p) {
				return true
			}
		}
		return false
	}
}

var declaredTypePatterns = []typePattern{
	{integerDeclPattern.MatchString, TypeInteger},
	{prefixAny("TEXT", "STRING"), TypeText},
	{prefixAny("BLOB"), TypeBytea},
	{prefixAny("REAL"), TypeDoublePrecision},
	{prefixAny("NUMERIC"), TypeNumeric},
	{prefixAny("BOOL"), TypeBoolean},
	{prefixAny("FLOAT"), TypeDoublePrecision},
}

// mapDeclaredType translates a source declared type name into a target type
// tag. It is total: anything unmatched falls back to TEXT. Integer results
// are provisional; resolveIntegerWidth decides the final width from sampled
// data.
func mapDeclaredType(declaredType string) TargetType {
	decl := strings.ToUpper(strings.TrimSpace(declaredType))
	for _, p := range declaredTypePatterns {
		if p.match(decl) {
			return p.target
		}
	}
	return TypeText
}

var (
	maxInt32Mag = big.NewInt(math.MaxInt32)
	maxInt64Mag = big.NewInt(math.MaxInt64)
)

// resolveIntegerWidth picks the narrowest target type that holds every
// sampled value of an integer-typed column. No samples means the column is
// empty (or all NULL) and INTEGER is assumed. Magnitudes beyond int64 cannot
// be held by any PG integer type and fall back to NUMERIC.
func resolveIntegerWidth(samples []*big.Int) TargetType {
	width := TypeInteger
	for _, v := range samples {
		mag := new(big.Int).Abs(v)
		if mag.Cmp(maxInt64Mag) > 0 {
			return TypeNumeric
		}
		if mag.Cmp(maxInt32Mag) > 0 {
			width = TypeBigint
		}
	}
	return width
}
