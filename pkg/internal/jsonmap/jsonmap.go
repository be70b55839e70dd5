// Package jsonmap decodes JSON objects into maps that remember their key order,
// so that a report can be rewritten without reshuffling fields it does not touch.
package jsonmap

import (
	"bytes"
	"encoding/json"

	"golang.org/x/xerrors"
)

// OrderedMap is a map that preserves its order
type OrderedMap struct {
	o []string
	m map[string]interface{}

	Marshaller func(val interface{}) (res []byte, err error)
}

// Get retrieves a value
func (m *OrderedMap) Get(key string) (val interface{}, ok bool) {
	val, ok = m.m[key]
	return
}

// GetArray retrieves a value if it holds a JSON array.
func (m *OrderedMap) GetArray(key string) ([]interface{}, bool) {
	val, ok := m.m[key]
	if !ok {
		return nil, false
	}
	arr, ok := val.([]interface{})
	return arr, ok
}

// GetString retrieves a value if it holds a JSON string.
func (m *OrderedMap) GetString(key string) (string, bool) {
	val, ok := m.m[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// Set sets the value of a key. If the key hasn't been set before its added
// as last key to the end of the map.
func (m *OrderedMap) Set(key string, val interface{}) {
	if m.m == nil {
		m.m = make(map[string]interface{})
	}
	if _, exists := m.m[key]; !exists {
		m.o = append(m.o, key)
	}

	m.m[key] = val
}

// Keys returns the list of all keys in the map
func (m *OrderedMap) Keys() []string {
	return m.o
}

// MarshalJSON marshals the map to JSON
func (m *OrderedMap) MarshalJSON() (res []byte, err error) {
	if m.Marshaller == nil {
		m.Marshaller = json.Marshal
	}

	res = append(res, '{')
	for i, key := range m.o {
		k, err := m.Marshaller(key)
		if err != nil {
			return nil, err
		}
		res = append(res, bytes.TrimSpace(k)...)
		res = append(res, ':')

		val := m.m[key]
		propagateMarshaller(val, m.Marshaller)
		b, err := m.Marshaller(val)
		if err != nil {
			return nil, err
		}
		res = append(res, b...)
		if i < len(m.o)-1 {
			res = append(res, ',')
		}
	}
	res = append(res, '}')

	return
}

// propagateMarshaller hands the marshaller down to nested maps, including those
// sitting inside arrays, so that escaping settings apply to the whole tree.
func propagateMarshaller(val interface{}, marshaller func(interface{}) ([]byte, error)) {
	switch v := val.(type) {
	case *OrderedMap:
		v.Marshaller = marshaller
	case []interface{}:
		for _, e := range v {
			propagateMarshaller(e, marshaller)
		}
	}
}

// UnmarshalJSON unmarshals a JSON struct into this ordered map
func (m *OrderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	err := consumeDelimiter(dec, '{')
	if err != nil {
		return err
	}

	err = m.parseObject(dec)
	if err != nil {
		return err
	}

	return nil
}

func (m *OrderedMap) parseObject(dec *json.Decoder) error {
	if m.m == nil {
		m.m = make(map[string]interface{})
	}
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := token.(string)
		if !ok {
			return xerrors.Errorf("JSON object key must be a string")
		}

		token, err = dec.Token()
		if err != nil {
			return err
		}
		val, err := unmarshalOrderedJSON(token, dec)
		if err != nil {
			return err
		}
		m.Set(key, val)
	}

	err := consumeDelimiter(dec, '}')
	if err != nil {
		return err
	}

	return nil
}

func parseArray(dec *json.Decoder) (res []interface{}, err error) {
	// an empty array must survive a round trip as [] rather than null
	res = make([]interface{}, 0)
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := unmarshalOrderedJSON(token, dec)
		if err != nil {
			return nil, err
		}
		res = append(res, val)
	}

	err = consumeDelimiter(dec, ']')
	if err != nil {
		return nil, err
	}

	return res, nil
}

func unmarshalOrderedJSON(token json.Token, dec *json.Decoder) (val interface{}, err error) {
	delim, ok := token.(json.Delim)
	if !ok {
		return token, nil
	}

	switch delim {
	case '{':
		var r OrderedMap
		err = r.parseObject(dec)
		val = &r
		return
	case '[':
		return parseArray(dec)
	default:
		return nil, xerrors.Errorf("unexpected delimiter: %q", delim)
	}
}

func consumeDelimiter(dec *json.Decoder, t json.Delim) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := token.(json.Delim)
	if !ok {
		return xerrors.Errorf("expected delimiter %q", t)
	}
	if delim != t {
		return xerrors.Errorf("expected delimiter %q, got %q", t, delim)
	}

	return nil
}

// MarshalJSON consistently marshals an OrderedMap to JSON
func MarshalJSON(om *OrderedMap, indent string, escapeHTML bool) ([]byte, error) {
	marshaller := func(val interface{}) ([]byte, error) {
		buf := bytes.NewBuffer(nil)
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(escapeHTML)
		enc.SetIndent("", indent)
		err := enc.Encode(val)
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	om.Marshaller = marshaller
	return marshaller(om)
}
