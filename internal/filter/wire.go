package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The wire shape consumed by the data endpoint:
//
//	{"operator": "AND"|"OR",
//	 "filter_item": {key: {"value","operator"} | {"operator","filter_item"}}}
//
// Leaf vs nested group is discriminated by the presence of "filter_item".
// filter_item keys are emitted in insertion order; the deserializer preserves
// the order it reads, so serialize/parse round trips are stable.

// MarshalJSON emits the group in the wire shape.
func (g *Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"operator":`)
	logic := g.Logic
	if logic == "" {
		logic = LogicAnd
	}
	op, err := json.Marshal(string(logic))
	if err != nil {
		return nil, err
	}
	buf.Write(op)
	buf.WriteString(`,"filter_item":{`)
	for i, key := range g.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(g.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the wire shape, preserving filter_item key order.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw struct {
		Operator   Logic           `json:"operator"`
		FilterItem json.RawMessage `json:"filter_item"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Logic = raw.Operator
	if g.Logic == "" {
		g.Logic = LogicAnd
	}
	if !g.Logic.IsValid() {
		return fmt.Errorf("%w: logic %q", ErrInvalidValue, raw.Operator)
	}
	g.items = map[string]Node{}
	g.keys = nil
	if len(raw.FilterItem) == 0 {
		return nil
	}
	return decodeItems(raw.FilterItem, g)
}

// decodeItems walks the filter_item object token by token so key order
// survives the round trip.
func decodeItems(data json.RawMessage, g *Group) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("filter: filter_item is not an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("filter: non-string key in filter_item")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		node, err := decodeNode(value)
		if err != nil {
			return fmt.Errorf("filter: key %q: %w", key, err)
		}
		g.insert(key, node)
	}
	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func decodeNode(data json.RawMessage) (Node, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if _, isGroup := probe["filter_item"]; isGroup {
		group := NewGroup()
		if err := group.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return group, nil
	}
	var leaf Leaf
	if err := json.Unmarshal(data, &leaf); err != nil {
		return nil, err
	}
	if leaf.Operator == "" {
		leaf.Operator = OpEqual
	}
	if !leaf.Operator.IsValid() {
		return nil, fmt.Errorf("%w: operator %q", ErrInvalidValue, leaf.Operator)
	}
	return &leaf, nil
}

// MarshalJSON serializes the Set as its root group.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.root)
}

// Wire returns the filters payload for the data/export endpoints: one root
// group, or an empty list when no constraints are set.
func (s *Set) Wire() []*Group {
	if s.IsEmpty() {
		return []*Group{}
	}
	return []*Group{s.root}
}

// Parse is the canonical deserializer for a serialized Set.
func Parse(data []byte) (*Set, error) {
	root := NewGroup()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, err
	}
	return &Set{root: root}, nil
}
