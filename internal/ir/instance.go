package ir

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Instance is a stable roommates preference profile.
//
// Participants fixes the iteration order used by the solver. Preferences maps
// each participant to its strict preference order over the others, most
// preferred first.
//
// Instance decodes from a JSON or YAML mapping of id -> list of ids and keeps
// the key order of the source document.
type Instance struct {
	Participants []string
	Preferences  map[string][]string
}

// NewInstance builds an Instance from ids in the given order.
// The preference slices are copied.
func NewInstance(order []string, prefs map[string][]string) Instance {
	inst := Instance{
		Participants: make([]string, len(order)),
		Preferences:  make(map[string][]string, len(prefs)),
	}
	copy(inst.Participants, order)
	for id, list := range prefs {
		inst.Preferences[id] = append([]string(nil), list...)
	}
	return inst
}

// Len returns the number of participants.
func (in Instance) Len() int {
	return len(in.Participants)
}

// Clone returns a deep copy of the instance.
func (in Instance) Clone() Instance {
	return NewInstance(in.Participants, in.Preferences)
}

// add appends a participant, rejecting duplicate keys.
func (in *Instance) add(id string, prefs []string) error {
	if in.Preferences == nil {
		in.Preferences = make(map[string][]string)
	}
	if _, dup := in.Preferences[id]; dup {
		return fmt.Errorf("duplicate participant %q", id)
	}
	in.Participants = append(in.Participants, id)
	in.Preferences[id] = prefs
	return nil
}

// UnmarshalJSON decodes a JSON object of id -> [ids], preserving key order.
func (in *Instance) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("instance: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("instance: expected JSON object, got %v", tok)
	}

	var out Instance
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("instance: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("instance: expected participant id, got %v", tok)
		}

		var prefs []string
		if err := dec.Decode(&prefs); err != nil {
			return fmt.Errorf("instance: preferences of %q: %w", id, err)
		}
		if err := out.add(id, prefs); err != nil {
			return fmt.Errorf("instance: %w", err)
		}
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("instance: %w", err)
	}

	*in = out
	return nil
}

// MarshalJSON encodes the instance as a JSON object in participant order.
func (in Instance) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range in.Participants {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		prefs := in.Preferences[id]
		if prefs == nil {
			prefs = []string{}
		}
		val, err := json.Marshal(prefs)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping of id -> [ids], preserving key order.
func (in *Instance) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("instance: line %d: expected mapping of participant to preferences", node.Line)
	}

	var out Instance
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var prefs []string
		if err := valNode.Decode(&prefs); err != nil {
			return fmt.Errorf("instance: line %d: preferences of %q: %w", valNode.Line, keyNode.Value, err)
		}
		if err := out.add(keyNode.Value, prefs); err != nil {
			return fmt.Errorf("instance: line %d: %w", keyNode.Line, err)
		}
	}

	*in = out
	return nil
}

// canonicalMap converts the instance to the generic form accepted by
// MarshalCanonical. Participant order is kept as an explicit array.
func (in Instance) canonicalMap() map[string]any {
	order := make([]any, len(in.Participants))
	for i, id := range in.Participants {
		order[i] = id
	}

	prefs := make(map[string]any, len(in.Preferences))
	for id, list := range in.Preferences {
		prefs[id] = stringsToAny(list)
	}

	return map[string]any{
		"participants": order,
		"preferences":  prefs,
	}
}

func stringsToAny(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}
