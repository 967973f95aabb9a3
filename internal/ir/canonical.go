package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON.
// This is the ONLY serialization used for artifact hashing.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats and no null (returns error)
//
// Accepted inputs: string, int, int64, bool, []any, []string, map[string]any
// and any Node (converted with NodeValue).
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case Node:
		return marshalCanonical(buf, NodeValue(val))
	case string:
		return marshalCanonicalString(buf, val)
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []string:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonicalString(buf, s); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range sortedKeysUTF16(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonicalString(buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := marshalCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// NodeValue converts an expression tree into plain values suitable for
// MarshalCanonical. Every node becomes an object with a "type" field.
func NodeValue(n Node) map[string]any {
	switch n := n.(type) {
	case *Ident:
		return map[string]any{"type": "Identifier", "name": n.Name}
	case *StringLit:
		return map[string]any{"type": "StringLiteral", "value": n.Value}
	case *NumLit:
		return map[string]any{"type": "NumericLiteral", "value": n.Value}
	case *BoolLit:
		return map[string]any{"type": "BooleanLiteral", "value": n.Value}
	case *ArrayExpr:
		elems := make([]any, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = NodeValue(e)
		}
		return map[string]any{"type": "ArrayExpression", "elements": elems}
	case *CallExpr:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = NodeValue(a)
		}
		return map[string]any{"type": "CallExpression", "callee": NodeValue(n.Callee), "arguments": args}
	case *ArrowFunc:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = NodeValue(p)
		}
		body := make([]any, len(n.Body))
		for i, s := range n.Body {
			body[i] = NodeValue(s)
		}
		return map[string]any{"type": "ArrowFunctionExpression", "params": params, "body": body}
	case *ExprStmt:
		return map[string]any{"type": "ExpressionStatement", "expression": NodeValue(n.X)}
	default:
		return map[string]any{"type": fmt.Sprintf("%T", n)}
	}
}

// sortedKeysUTF16 returns map keys ordered by UTF-16 code units per RFC 8785.
func sortedKeysUTF16(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	return slices.Compare(ua, ub)
}

// marshalCanonicalString writes a canonical JSON string with NFC normalization.
// Only control characters, backslash and quote are escaped.
func marshalCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := strings.TrimSuffix(tmp.String(), "\n")

	// json.Encoder escapes U+2028 and U+2029 for JavaScript; RFC 8785 does not.
	buf.WriteString(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns \u2028 and \u2029 escapes back into literal
// runes, leaving an escaped backslash followed by "u2028" untouched.
func unescapeLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		if s[i+1] == 'u' && i+6 <= len(s) && (s[i+2:i+6] == "2028" || s[i+2:i+6] == "2029") {
			if s[i+5] == '8' {
				b.WriteString("\u2028")
			} else {
				b.WriteString("\u2029")
			}
			i += 5
			continue
		}
		// Any other escape: copy both bytes so the next backslash is never
		// mistaken for the start of a new escape.
		b.WriteByte(s[i])
		b.WriteByte(s[i+1])
		i++
	}
	return b.String()
}
