package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind identifies which variant of a Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
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
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a decoded JSON value. Numbers keep their literal text and
// objects keep their source key order.
type Value struct {
	Kind   Kind
	Bool   bool
	Text   string // string contents, or the literal of a number
	Items  []*Value
	Object *Object
}

// Object is a JSON object with insertion-ordered keys.
type Object struct {
	keys   []string
	fields map[string]*Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]*Value)}
}

// Set stores v under key. A repeated key keeps its first position and takes
// the latest value.
func (o *Object) Set(key string, v *Value) {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (*Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Has reports whether key is present, whatever its value.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Keys returns the object keys in source order.
func (o *Object) Keys() []string {
	return o.keys
}

// Values returns the object values in source order.
func (o *Object) Values() []*Value {
	values := make([]*Value, len(o.keys))
	for i, key := range o.keys {
		values[i] = o.fields[key]
	}
	return values
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// StringValue returns a string value.
func StringValue(s string) *Value {
	return &Value{Kind: KindString, Text: s}
}

// NumberValue returns a number value holding the literal text.
func NumberValue(literal string) *Value {
	return &Value{Kind: KindNumber, Text: literal}
}

// ArrayValue returns an array value.
func ArrayValue(items ...*Value) *Value {
	return &Value{Kind: KindArray, Items: items}
}

// ObjectValue wraps o in a value.
func ObjectValue(o *Object) *Value {
	return &Value{Kind: KindObject, Object: o}
}

var errUnexpectedEnd = errors.New("unexpected end of JSON input")

type parseFrame struct {
	value  *Value
	key    string
	hasKey bool
}

// ParseJSON decodes a single JSON document into a Value.
//
// Decoding walks the token stream with an explicit stack, so nesting depth
// is bounded only by memory.
func ParseJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		root  *Value
		stack []*parseFrame
	)

	attach := func(v *Value) {
		if len(stack) == 0 {
			root = v
			return
		}
		top := stack[len(stack)-1]
		if top.value.Kind == KindArray {
			top.value.Items = append(top.value.Items, v)
			return
		}
		top.value.Object.Set(top.key, v)
		top.key, top.hasKey = "", false
	}

	for root == nil || len(stack) > 0 {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errUnexpectedEnd
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				v := ObjectValue(NewObject())
				attach(v)
				stack = append(stack, &parseFrame{value: v})
			case '[':
				v := ArrayValue()
				attach(v)
				stack = append(stack, &parseFrame{value: v})
			case '}', ']':
				stack = stack[:len(stack)-1]
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].value.Kind == KindObject && !stack[n-1].hasKey {
				stack[n-1].key, stack[n-1].hasKey = t, true
				continue
			}
			attach(StringValue(t))
		case json.Number:
			attach(NumberValue(t.String()))
		case bool:
			attach(&Value{Kind: KindBool, Bool: t})
		case nil:
			attach(&Value{Kind: KindNull})
		default:
			return nil, fmt.Errorf("unexpected JSON token %T", tok)
		}
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	return root, nil
}

// scalarText renders strings and numbers as trimmed text. Every other kind
// yields "".
func scalarText(v *Value) string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Text)
	case KindNumber:
		return formatNumber(v.Text)
	}
	return ""
}

// formatNumber prints integral numbers without a fractional part.
func formatNumber(literal string) string {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return literal
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// numberOf reads a number or a numeric string.
func numberOf(v *Value) (float64, bool) {
	if v == nil || (v.Kind != KindNumber && v.Kind != KindString) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// truthy reports whether v is boolean true or the string "true".
func truthy(v *Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindString:
		return strings.EqualFold(strings.TrimSpace(v.Text), "true")
	}
	return false
}
