package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Counter is a string-keyed count that remembers first-insertion order,
// so summaries and JSON output list keys in the order they were seen.
type Counter struct {
	keys   []string
	counts map[string]int
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: map[string]int{}}
}

// Add increments key by n.
func (c *Counter) Add(key string, n int) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key] += n
}

// Inc increments key by one.
func (c *Counter) Inc(key string) { c.Add(key, 1) }

// Get returns the count for key (0 if absent).
func (c *Counter) Get(key string) int {
	if c == nil {
		return 0
	}
	return c.counts[key]
}

// Keys returns keys in insertion order.
func (c *Counter) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Map returns a plain map copy of the counts.
func (c *Counter) Map() map[string]int {
	m := make(map[string]int, c.Len())
	if c == nil {
		return m
	}
	for k, v := range c.counts {
		m[k] = v
	}
	return m
}

// MarshalJSON encodes the counter as a JSON object in insertion order.
func (c *Counter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if c != nil {
		for i, k := range c.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, _ := json.Marshal(c.counts[k])
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving the document's key order.
func (c *Counter) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = Counter{counts: map[string]int{}}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("counter: expected JSON object, got %v", tok)
	}
	*c = Counter{counts: map[string]int{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		c.Add(key, n)
	}
	_, err = dec.Token()
	return err
}
