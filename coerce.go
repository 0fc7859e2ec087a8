package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// coerceRow converts one source row into target-typed values, positionally:
// row[i] corresponds to cols[i]. Extra-column defaults are appended after all
// native values, so the output order matches the INSERT column list built by
// insertStatement (native columns, then extra columns).
func coerceRow(row []any, cols []Column, resolved map[string]TargetType, extras []ExtraColumn) ([]any, error) {
	if len(row) != len(cols) {
		return nil, fmt.Errorf("row has %d values, expected %d columns", len(row), len(cols))
	}

	out := make([]any, 0, len(cols)+len(extras))
	for i, col := range cols {
		v, err := coerceValue(row[i], resolved[col.Name])
		if err != nil {
			err.Column = col.Name
			return nil, err
		}
		out = append(out, v)
	}
	for _, ex := range extras {
		out = append(out, ex.Default)
	}
	return out, nil
}

// coerceValue converts a single raw value to its resolved target type. Raw
// values arrive from database/sql as a closed set of kinds: nil, bool, int64,
// float64, string, []byte. The textual literal "None" is a serialized NULL
// left behind by the source's export path and maps to NULL for every target.
func coerceValue(val any, target TargetType) (any, *CoercionError) {
	if val == nil || isNoneLiteral(val) {
		return nil, nil
	}

	switch target {
	case TypeBoolean:
		return coerceBool(val)
	case TypeText:
		return coerceText(val), nil
	case TypeInteger, TypeBigint, TypeNumeric:
		return coerceInteger(val, target)
	case TypeDoublePrecision:
		return coerceFloat(val)
	case TypeBytea:
		// Already binary; hand it to the driver untouched.
		return val, nil
	default:
		return nil, &CoercionError{Target: target, Value: val, Reason: "unknown target type"}
	}
}

func isNoneLiteral(val any) bool {
	switch v := val.(type) {
	case string:
		return v == "None"
	case []byte:
		return string(v) == "None"
	}
	return false
}

func coerceBool(val any) (any, *CoercionError) {
	switch v := val.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case string:
		return parseBoolText(v, val)
	case []byte:
		return parseBoolText(string(v), val)
	}
	return nil, &CoercionError{Target: TypeBoolean, Value: val, Reason: "value kind not convertible to boolean"}
}

func parseBoolText(s string, orig any) (any, *CoercionError) {
	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &CoercionError{Target: TypeBoolean, Value: orig, Reason: "numeric text out of range"}
		}
		return n != 0, nil
	}
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, &CoercionError{Target: TypeBoolean, Value: orig, Reason: "text is neither numeric nor true/false"}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// coerceText never fails: any raw kind has a string form.
func coerceText(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return fmt.Sprint(val)
}

func coerceInteger(val any, target TargetType) (any, *CoercionError) {
	switch v := val.(type) {
	case int64:
		return v, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		// Fractional parts are truncated, matching integer conversion of a
		// REAL value stored in an integer-declared column.
		return int64(v), nil
	case string:
		return parseIntegerText(v, val, target)
	case []byte:
		return parseIntegerText(string(v), val, target)
	}
	return nil, &CoercionError{Target: target, Value: val, Reason: "value kind not convertible to integer"}
}

func parseIntegerText(s string, orig any, target TargetType) (any, *CoercionError) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err == nil {
		return n, nil
	}
	// Out-of-range digits are still valid for a NUMERIC column; pgx accepts
	// the decimal text form for numeric parameters.
	if _, ok := new(big.Int).SetString(trimmed, 10); ok {
		return trimmed, nil
	}
	return nil, &CoercionError{Target: target, Value: orig, Reason: "text is not integer-parseable"}
}

func coerceFloat(val any) (any, *CoercionError) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return float64(1), nil
		}
		return float64(0), nil
	case string:
		return parseFloatText(v, val)
	case []byte:
		return parseFloatText(string(v), val)
	}
	return nil, &CoercionError{Target: TypeDoublePrecision, Value: val, Reason: "value kind not convertible to double precision"}
}

func parseFloatText(s string, orig any) (any, *CoercionError) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, &CoercionError{Target: TypeDoublePrecision, Value: orig, Reason: "text is not float-parseable"}
	}
	return f, nil
}
