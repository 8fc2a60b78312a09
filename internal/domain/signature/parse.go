package signature

import (
	"strings"
)

// Split separates a text signature into its function name and raw parameter
// texts. Commas nested inside tuple parentheses don't split. Whitespace around
// each parameter is trimmed; names are kept.
func Split(sig string) (name string, params []string) {
	sig = strings.TrimSpace(sig)
	open := strings.Index(sig, "(")
	if open < 0 {
		return sig, nil
	}
	name = strings.TrimSpace(sig[:open])

	inner := sig[open+1:]
	if close := strings.LastIndex(inner, ")"); close >= 0 {
		inner = inner[:close]
	}
	if strings.TrimSpace(inner) == "" {
		return name, nil
	}

	depth, last := 0, 0
	for i, r := range inner {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				params = append(params, strings.TrimSpace(inner[last:i]))
				last = i + 1
			}
		}
	}
	params = append(params, strings.TrimSpace(inner[last:]))
	return name, params
}

// TypeOf returns the ABI type of one parameter text, dropping the parameter
// name and data-location keywords: "address indexed to" -> "address".
func TypeOf(param string) string {
	param = strings.TrimSpace(param)
	if strings.HasPrefix(param, "(") {
		depth := 0
		for i, r := range param {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 && r == ' ' {
				return param[:i]
			}
		}
		return param
	}
	if fields := strings.Fields(param); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// NameOf returns the parameter name if the text carries one.
func NameOf(param string) string {
	fields := strings.Fields(TypeOfRest(param))
	for i := len(fields) - 1; i >= 0; i-- {
		switch fields[i] {
		case "indexed", "memory", "calldata", "storage", "payable":
			continue
		}
		return fields[i]
	}
	return ""
}

// TypeOfRest returns what follows the type in a parameter text.
func TypeOfRest(param string) string {
	param = strings.TrimSpace(param)
	return strings.TrimSpace(strings.TrimPrefix(param, TypeOf(param)))
}

// Canonical strips parameter names and whitespace:
// "transfer(address to, uint256 amount)" -> "transfer(address,uint256)".
func Canonical(sig string) string {
	name, params := Split(sig)
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = CanonicalType(TypeOf(p))
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

// CanonicalType normalizes a single ABI type. Names inside tuples are dropped
// and the uint, int and byte aliases get their explicit width.
func CanonicalType(typ string) string {
	if components, suffix, ok := TupleComponents(typ); ok {
		types := make([]string, len(components))
		for i, c := range components {
			types[i] = CanonicalType(TypeOf(c))
		}
		return "(" + strings.Join(types, ",") + ")" + suffix
	}

	typ = strings.ReplaceAll(typ, " ", "")
	base, suffix := typ, ""
	if i := strings.Index(typ, "["); i >= 0 {
		base, suffix = typ[:i], typ[i:]
	}
	switch base {
	case "uint":
		base = "uint256"
	case "int":
		base = "int256"
	case "byte":
		base = "bytes1"
	}
	return base + suffix
}

// TupleComponents splits a tuple type such as "(address to,uint256)[2]" into
// its component texts and array suffix. ok is false for non-tuple types.
func TupleComponents(typ string) (components []string, suffix string, ok bool) {
	typ = strings.TrimSpace(typ)
	typ = strings.TrimPrefix(typ, "tuple")
	if !strings.HasPrefix(typ, "(") {
		return nil, "", false
	}

	depth := 0
	for i, r := range typ {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			_, components = Split(typ[:i+1])
			return components, strings.ReplaceAll(typ[i+1:], " ", ""), true
		}
	}
	return nil, "", false
}

// countParams counts parameters the way the scoring heuristic does: commas in
// the parameter list plus one, zero for an empty list. Tuple commas count too.
func countParams(sig string) int {
	list := paramList(sig)
	if strings.TrimSpace(list) == "" {
		return 0
	}
	return strings.Count(list, ",") + 1
}

// flatParams splits the parameter list on every comma, matching countParams.
func flatParams(sig string) []string {
	list := paramList(sig)
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func paramList(sig string) string {
	open := strings.Index(sig, "(")
	if open < 0 {
		return ""
	}
	inner := sig[open+1:]
	if close := strings.LastIndex(inner, ")"); close >= 0 {
		inner = inner[:close]
	}
	return inner
}
