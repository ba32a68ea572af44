package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON form of a unit.
//
// The encoding is deterministic: object keys are sorted by UTF-16 code
// units, strings are NFC normalized and not HTML escaped, and numeric
// constants stay in their kind-tagged literal form, so no float formatting is
// involved. Two structurally identical units (same shape, names, IDs and
// literals) encode to identical bytes.
func MarshalCanonical(u *Unit) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("cannot marshal nil unit")
	}
	tree, err := unitTree(u)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unitTree(u *Unit) (map[string]any, error) {
	params := make([]any, len(u.Params))
	for i, p := range u.Params {
		params[i] = varTree(p)
	}
	body, err := nodeTree(u.Body)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", u.Name, err)
	}
	return map[string]any{
		"name":   u.Name,
		"kind":   u.Kind.String(),
		"params": params,
		"body":   body,
	}, nil
}

func varTree(v Var) map[string]any {
	node := "param"
	if _, ok := v.(*Local); ok {
		node = "local"
	}
	return map[string]any{
		"node": node,
		"id":   v.VarID(),
		"name": v.VarName(),
		"kind": v.Kind().String(),
	}
}

func labelTree(l *Label) map[string]any {
	return map[string]any{
		"id":   l.ID,
		"name": l.Name,
		"kind": l.Type.String(),
	}
}

func nodeTree(e Expr) (map[string]any, error) {
	switch n := e.(type) {
	case nil:
		return nil, fmt.Errorf("nil node")
	case *Param:
		return varTree(n), nil
	case *Local:
		return varTree(n), nil
	case *Const:
		return map[string]any{"node": "const", "kind": n.Type.String(), "value": n.Value}, nil
	case *Binary:
		l, err := nodeTree(n.L)
		if err != nil {
			return nil, fmt.Errorf("%v left: %w", n.Op, err)
		}
		r, err := nodeTree(n.R)
		if err != nil {
			return nil, fmt.Errorf("%v right: %w", n.Op, err)
		}
		return map[string]any{"node": "binary", "op": n.Op.String(), "kind": n.Type.String(), "left": l, "right": r}, nil
	case *Decrement:
		return map[string]any{"node": "decrement", "target": varTree(n.Target)}, nil
	case *Assign:
		v, err := nodeTree(n.Value)
		if err != nil {
			return nil, fmt.Errorf("assign value: %w", err)
		}
		return map[string]any{"node": "assign", "target": varTree(n.Target), "value": v}, nil
	case *Block:
		locals := make([]any, len(n.Locals))
		for i, l := range n.Locals {
			locals[i] = varTree(l)
		}
		stmts := make([]any, len(n.Stmts))
		for i, s := range n.Stmts {
			st, err := nodeTree(s)
			if err != nil {
				return nil, fmt.Errorf("block stmt[%d]: %w", i, err)
			}
			stmts[i] = st
		}
		out := map[string]any{"node": "block", "locals": locals, "stmts": stmts}
		if n.Result != nil {
			r, err := nodeTree(n.Result)
			if err != nil {
				return nil, fmt.Errorf("block result: %w", err)
			}
			out["result"] = r
		}
		return out, nil
	case *Loop:
		body, err := nodeTree(n.Body)
		if err != nil {
			return nil, fmt.Errorf("loop %s: %w", n.Label.Name, err)
		}
		return map[string]any{"node": "loop", "label": labelTree(n.Label), "body": body}, nil
	case *IfThenElse:
		c, err := nodeTree(n.Cond)
		if err != nil {
			return nil, fmt.Errorf("if cond: %w", err)
		}
		t, err := nodeTree(n.Then)
		if err != nil {
			return nil, fmt.Errorf("if then: %w", err)
		}
		out := map[string]any{"node": "if", "kind": n.Type.String(), "cond": c, "then": t}
		if n.Else != nil {
			el, err := nodeTree(n.Else)
			if err != nil {
				return nil, fmt.Errorf("if else: %w", err)
			}
			out["else"] = el
		}
		return out, nil
	case *Break:
		v, err := nodeTree(n.Value)
		if err != nil {
			return nil, fmt.Errorf("break %s: %w", n.Label.Name, err)
		}
		return map[string]any{"node": "break", "label": labelTree(n.Label), "value": v}, nil
	default:
		return nil, fmt.Errorf("unsupported node type: %T", e)
	}
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		return writeCanonicalString(buf, val)
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// writeCanonicalString writes s NFC normalized, without HTML escaping.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// compareUTF16 orders keys by UTF-16 code units (RFC 8785), which differs
// from Go's byte order for characters outside the BMP.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
