package recompute

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MarshalSnapshotYAML encodes a snapshot with sections and names in model order.
func MarshalSnapshotYAML(model Model, s Snapshot) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	section := func(key string, fields []Field, values map[string]decimal.Decimal) {
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range fields {
			if v, ok := values[f.Name]; ok {
				node.Content = append(node.Content, keyNode(f.Name), valueNode(v))
			}
		}
		if len(node.Content) > 0 {
			root.Content = append(root.Content, keyNode(key), node)
		}
	}

	var prices, units []Field
	for _, st := range model.Streams {
		if st.Price != nil {
			prices = append(prices, *st.Price)
		}
		units = append(units, st.Units)
	}

	section("budget", model.BudgetFields, s.Budget)
	root.Content = append(root.Content, keyNode("donation"), valueNode(s.Donation))
	if s.DonationSlider != nil {
		root.Content = append(root.Content, keyNode("donationSlider"), valueNode(*s.DonationSlider))
	}
	section("prices", prices, s.Prices)
	section("units", units, s.Units)
	section("allocation", model.AllocationFields, s.Allocation)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseSnapshotYAML decodes a snapshot written by MarshalSnapshotYAML.
// Unknown top-level keys are rejected.
func ParseSnapshotYAML(data []byte) (Snapshot, error) {
	var s Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return s, nil
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

func valueNode(v decimal.Decimal) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}
}
