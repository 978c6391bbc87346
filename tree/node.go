package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Kind identifies the shape of a [Node].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one value of a configuration tree.
//
// Map nodes keep their keys in the order they were defined. A nil *Node reads
// as null.
type Node struct {
	kind  Kind
	value any // bool, json.Number, or string
	keys  []string
	items []*Node // list elements, or map values parallel to keys
}

// Null returns a null node.
func Null() *Node { return &Node{kind: KindNull} }

// Bool returns a boolean node.
func Bool(b bool) *Node { return &Node{kind: KindBool, value: b} }

// Number returns a numeric node. n must be a valid JSON number.
func Number(n json.Number) *Node { return &Node{kind: KindNumber, value: n} }

// String returns a string node.
func String(s string) *Node { return &Node{kind: KindString, value: s} }

// List returns a list node holding items.
func List(items ...*Node) *Node {
	return &Node{kind: KindList, items: slices.Clone(items)}
}

// Map returns an empty map node.
func Map() *Node { return &Node{kind: KindMap} }

// Kind returns the kind of n.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}

	return n.kind
}

// Value returns the scalar value of n: nil, bool, [json.Number], or string.
// It returns nil for lists and maps.
func (n *Node) Value() any {
	if n == nil {
		return nil
	}

	return n.value
}

// Len returns the number of list elements or map entries.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}

	return len(n.items)
}

// Keys returns the keys of a map node in definition order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}

	return slices.Clone(n.keys)
}

// Index returns the i'th element of a list node, or the value of the i'th key
// of a map node. It returns nil if i is out of range.
func (n *Node) Index(i int) *Node {
	if n == nil || i < 0 || i >= len(n.items) {
		return nil
	}

	return n.items[i]
}

// Get follows path from n. Each element selects a map key, or a list index
// written in decimal. It returns nil if any element does not resolve.
func (n *Node) Get(path ...string) *Node {
	for _, p := range path {
		switch n.Kind() {
		case KindMap:
			i := slices.Index(n.keys, p)
			if i < 0 {
				return nil
			}

			n = n.items[i]

		case KindList:
			i, err := strconv.Atoi(p)
			if err != nil {
				return nil
			}

			n = n.Index(i)

		default:
			return nil
		}
	}

	return n
}

// Set maps key to v in a map node. It returns n for chaining.
//
// If key exists its value is replaced in place, unless both the old and new
// values are maps, in which case v is merged into the old value.
func (n *Node) Set(key string, v *Node) *Node {
	if v == nil {
		v = Null()
	}

	if i := slices.Index(n.keys, key); i >= 0 {
		if old := n.items[i]; old.Kind() == KindMap && v.Kind() == KindMap {
			for j, k := range v.keys {
				old.Set(k, v.items[j])
			}
		} else {
			n.items[i] = v
		}

		return n
	}

	n.keys = append(n.keys, key)
	n.items = append(n.items, v)

	return n
}

// Append adds v to the end of a list node. It returns n for chaining.
func (n *Node) Append(v *Node) *Node {
	if v == nil {
		v = Null()
	}

	n.items = append(n.items, v)

	return n
}

// Native returns n as plain Go values: nil, bool, int64, float64, string,
// []any, and map[string]any. Numbers that fit an int64 become int64.
func (n *Node) Native() any {
	switch n.Kind() {
	case KindNull:
		return nil
	case KindBool, KindString:
		return n.value
	case KindNumber:
		num := n.value.(json.Number)
		if i, err := num.Int64(); err == nil {
			return i
		}

		if f, err := num.Float64(); err == nil {
			return f
		}

		return num.String()
	case KindList:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Native()
		}

		return out
	case KindMap:
		out := make(map[string]any, len(n.keys))
		for i, k := range n.keys {
			out[k] = n.items[i].Native()
		}

		return out
	}

	return nil
}

// MarshalJSON implements [json.Marshaler], keeping map keys in order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encodeJSON(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (n *Node) encodeJSON(buf *bytes.Buffer) error {
	switch n.Kind() {
	case KindNull:
		buf.WriteString("null")

	case KindBool:
		buf.WriteString(strconv.FormatBool(n.value.(bool)))

	case KindNumber:
		buf.WriteString(n.value.(json.Number).String())

	case KindString:
		b, err := json.Marshal(n.value.(string))
		if err != nil {
			return err
		}

		buf.Write(b)

	case KindList:
		buf.WriteByte('[')

		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := item.encodeJSON(buf); err != nil {
				return err
			}
		}

		buf.WriteByte(']')

	case KindMap:
		buf.WriteByte('{')

		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}

			b, err := json.Marshal(k)
			if err != nil {
				return err
			}

			buf.Write(b)
			buf.WriteByte(':')

			if err := n.items[i].encodeJSON(buf); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	}

	return nil
}

// MarshalYAML implements [yaml.InterfaceMarshaler], keeping map keys in order.
func (n *Node) MarshalYAML() (any, error) {
	return n.yamlValue(), nil
}

func (n *Node) yamlValue() any {
	switch n.Kind() {
	case KindList:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.yamlValue()
		}

		return out
	case KindMap:
		out := make(yaml.MapSlice, len(n.keys))
		for i, k := range n.keys {
			out[i] = yaml.MapItem{Key: k, Value: n.items[i].yamlValue()}
		}

		return out
	default:
		return n.Native()
	}
}

// String returns the compact JSON encoding of n.
func (n *Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%%!(tree error: %v)", err)
	}

	return string(b)
}

// FromNative converts a Go value to a Node.
//
// Supported are nil, booleans, integers, floats, [json.Number], [*big.Int],
// strings, [time.Time] (as an RFC 3339 string), *Node, [yaml.MapSlice],
// structs implementing [fmt.Stringer] (as their string), and slices and maps
// of these. Maps other than MapSlice must have string keys and
// are ordered by key.
func FromNative(v any) (*Node, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if val == nil {
			return Null(), nil
		}

		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return Number(val), nil
	case *big.Int:
		return Number(json.Number(val.String())), nil
	case float64:
		return fromFloat(val)
	case float32:
		return fromFloat(float64(val))
	case time.Time:
		return String(val.Format(time.RFC3339Nano)), nil
	case yaml.MapSlice:
		m := Map()

		for _, item := range val {
			child, err := FromNative(item.Value)
			if err != nil {
				return nil, err
			}

			m.Set(fmt.Sprint(item.Key), child)
		}

		return m, nil
	case fmt.Stringer:
		// Local dates and times decoded from TOML, among others.
		if rv := reflect.ValueOf(val); rv.Kind() == reflect.Struct {
			return String(val.String()), nil
		}
	}

	return fromReflect(reflect.ValueOf(v))
}

func fromFloat(f float64) (*Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported number %v", f)
	}

	return Number(json.Number(strconv.FormatFloat(f, 'g', -1, 64))), nil
}

func fromReflect(rv reflect.Value) (*Node, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(json.Number(strconv.FormatInt(rv.Int(), 10))), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(json.Number(strconv.FormatUint(rv.Uint(), 10))), nil

	case reflect.Slice, reflect.Array:
		list := List()

		for i := range rv.Len() {
			child, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			list.Append(child)
		}

		return list, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}

		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})

		m := Map()

		for _, k := range keys {
			child, err := FromNative(rv.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}

			m.Set(k.String(), child)
		}

		return m, nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return FromNative(rv.Elem().Interface())

	case reflect.Invalid:
		return Null(), nil
	}

	return nil, fmt.Errorf("unsupported value type %s", rv.Type())
}
