package object

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// *****************************************************************************
// Type assertion helpers
// *****************************************************************************

func AsString(obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", typeErrorf("expected a string (%s given)", obj.Type())
	}
	return s.value, nil
}

func AsInt(obj Object) (int64, error) {
	i, ok := obj.(*Int)
	if !ok {
		return 0, typeErrorf("expected an integer (%s given)", obj.Type())
	}
	return i.value, nil
}

func AsFloat(obj Object) (float64, error) {
	f, ok := toFloat(obj)
	if !ok {
		return 0, typeErrorf("expected a number (%s given)", obj.Type())
	}
	return f, nil
}

func AsList(obj Object) (*List, error) {
	list, ok := obj.(*List)
	if !ok {
		return nil, typeErrorf("expected a list (%s given)", obj.Type())
	}
	return list, nil
}

func AsMap(obj Object) (*Map, error) {
	m, ok := obj.(*Map)
	if !ok {
		return nil, typeErrorf("expected a map (%s given)", obj.Type())
	}
	return m, nil
}

// *****************************************************************************
// Converting Go values to Hexza objects
// *****************************************************************************

// FromGo converts a Go value to an object. It understands the values
// produced by encoding/json as well as the common scalar types.
func FromGo(value any) (Object, error) {
	switch value := value.(type) {
	case nil:
		return Nil, nil
	case Object:
		return value, nil
	case bool:
		return NewBool(value), nil
	case int:
		return NewInt(int64(value)), nil
	case int32:
		return NewInt(int64(value)), nil
	case int64:
		return NewInt(value), nil
	case float32:
		return NewFloat(float64(value)), nil
	case float64:
		return NewFloat(value), nil
	case json.Number:
		return numberFromJSON(value)
	case string:
		return NewString(value), nil
	case []string:
		items := make([]Object, 0, len(value))
		for _, s := range value {
			items = append(items, NewString(s))
		}
		return NewList(items), nil
	case []any:
		items := make([]Object, 0, len(value))
		for _, v := range value {
			item, err := FromGo(v)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewList(items), nil
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			item, err := FromGo(value[k])
			if err != nil {
				return nil, err
			}
			m.Set(k, item)
		}
		return m, nil
	default:
		return nil, typeErrorf("unsupported go type: %T", value)
	}
}

func numberFromJSON(n json.Number) (Object, error) {
	if i, err := n.Int64(); err == nil {
		return NewInt(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, typeErrorf("invalid number: %s", n)
	}
	return NewFloat(f), nil
}

// *****************************************************************************
// JSON
// *****************************************************************************

// MarshalJSON encodes an object as JSON. Maps keep their key order.
func MarshalJSON(obj Object) ([]byte, error) {
	switch obj := obj.(type) {
	case json.Marshaler:
		return obj.MarshalJSON()
	case *List:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range obj.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			encoded, err := MarshalJSON(item)
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case *Int, *Float, *String, *Bool:
		return json.Marshal(obj.Interface())
	default:
		return json.Marshal(obj.String())
	}
}

// FromJSON decodes a JSON document. Object keys keep their document order
// and integral numbers become ints.
func FromJSON(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	obj, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid json: unexpected data after value")
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (Object, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '[':
			var items []Object
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return NewList(items), nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid json: object key %v", keyTok)
				}
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		}
		return nil, fmt.Errorf("invalid json: unexpected %v", tok)
	default:
		return FromGo(tok)
	}
}
