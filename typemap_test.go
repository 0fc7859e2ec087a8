package main

import (
	"math/big"
	"testing"
)

func TestMapDeclaredType(t *testing.T) {
	tests := []struct {
		decl string
		want TargetType
	}{
		{"INT", TypeInteger},
		{"int", TypeInteger},
		{"INTEGER", TypeInteger},
		{"integer", TypeInteger},
		{"BIGINT", TypeInteger},
		{"BigInt", TypeInteger},
		{"INT8", TypeInteger},
		{"MEDIUMINT", TypeInteger},
		{"bigint(20) unsigned", TypeInteger},
		{"TEXT", TypeText},
		{"text", TypeText},
		{"STRING", TypeText},
		{"BLOB", TypeBytea},
		{"blob", TypeBytea},
		{"REAL", TypeDoublePrecision},
		{"NUMERIC", TypeNumeric},
		{"NUMERIC(10,2)", TypeNumeric},
		{"BOOL", TypeBoolean},
		{"BOOLEAN", TypeBoolean},
		{"FLOAT", TypeDoublePrecision},
		{"float", TypeDoublePrecision},
		// VARCHAR matches nothing in the dispatch table
		{"VARCHAR(255)", TypeText},
		{"DATETIME", TypeText},
		{"", TypeText},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			if got := mapDeclaredType(tt.decl); got != tt.want {
				t.Errorf("mapDeclaredType(%q) = %v, want %v", tt.decl, got, tt.want)
			}
		})
	}
}

// The integer pattern must win before the TEXT fallback for every integer-ish
// spelling, regardless of letter case.
func TestMapDeclaredType_IntegerPatternOrder(t *testing.T) {
	for _, decl := range []string{"INT", "Int", "iNtEgEr", "BIGINT", "bigint", "INT2", "INT8", "MEDIUMINT"} {
		if got := mapDeclaredType(decl); got != TypeInteger {
			t.Errorf("mapDeclaredType(%q) = %v, want %v", decl, got, TypeInteger)
		}
	}
}

func bigPow2(exp uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), exp)
}

func TestResolveIntegerWidth(t *testing.T) {
	int31 := bigPow2(31) // first magnitude beyond int32
	int31max := new(big.Int).Sub(int31, big.NewInt(1))
	int63 := bigPow2(63) // first magnitude beyond int64
	int63max := new(big.Int).Sub(int63, big.NewInt(1))

	tests := []struct {
		name    string
		samples []*big.Int
		want    TargetType
	}{
		{"no samples", nil, TypeInteger},
		{"empty slice", []*big.Int{}, TypeInteger},
		{"small value", []*big.Int{big.NewInt(5)}, TypeInteger},
		{"int32 max fits", []*big.Int{int31max}, TypeInteger},
		{"just over int32", []*big.Int{int31}, TypeBigint},
		{"negative over int32", []*big.Int{new(big.Int).Neg(int31)}, TypeBigint},
		{"int64 max fits bigint", []*big.Int{int63max}, TypeBigint},
		{"just over int64", []*big.Int{int63}, TypeNumeric},
		{"mixed picks widest", []*big.Int{big.NewInt(1), int31, big.NewInt(7)}, TypeBigint},
		{"numeric wins over bigint", []*big.Int{int31, int63}, TypeNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveIntegerWidth(tt.samples); got != tt.want {
				t.Errorf("resolveIntegerWidth(%v) = %v, want %v", tt.samples, got, tt.want)
			}
		})
	}
}
