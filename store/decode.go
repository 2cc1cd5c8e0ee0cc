package store

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	hostsKey        = "hosts"
	applicationsKey = "applications"
	hostNameKey     = "name"
	sopsKey         = "sops"
)

// Decode parses a cluster definition. Node-level decoding keeps the declared
// order of application-keyed maps, which the run script and file map depend on.
func Decode(data []byte) (*Store, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	s := New()
	if doc.Kind == 0 {
		return s, nil // empty document
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return s, nil
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)

	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return s, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("definition must be a mapping, line %d", root.Line)
	}

	entries, err := mappingEntries(root)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		switch e.key {
		case hostsKey:
			hosts, err := decodeHosts(e.value)
			if err != nil {
				return nil, err
			}
			s.Hosts = hosts
		case applicationsKey:
			if err := decodeApplications(s.Global, e.value, "global"); err != nil {
				return nil, err
			}
		case sopsKey:
			// encryption metadata left behind by a pass-through decrypter
		default:
			if err := setProperty(s.Global, e.key, e.value, "global"); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func decodeHosts(node *yaml.Node) ([]Host, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s must be a list, line %d", hostsKey, node.Line)
	}

	seen := map[string]bool{}
	hosts := make([]Host, 0, len(node.Content))

	for _, each := range node.Content {
		each = resolveAlias(each)
		if each.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("host entry must be a mapping, line %d", each.Line)
		}

		entries, err := mappingEntries(each)
		if err != nil {
			return nil, err
		}

		host := NewHost("")
		for _, e := range entries {
			switch e.key {
			case hostNameKey:
				host.Name = e.value.Value
			case applicationsKey:
				if err := decodeApplications(host.Properties, e.value, "host"); err != nil {
					return nil, err
				}
			default:
				if err := setProperty(host.Properties, e.key, e.value, "host"); err != nil {
					return nil, err
				}
			}
		}

		if host.Name == "" {
			return nil, fmt.Errorf("host entry without a %s, line %d", hostNameKey, each.Line)
		}
		if seen[host.Name] {
			return nil, fmt.Errorf("duplicate host [%s], line %d", host.Name, each.Line)
		}
		seen[host.Name] = true

		hosts = append(hosts, host)
	}

	return hosts, nil
}

func decodeApplications(ps Properties, node *yaml.Node, scope string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%s must be a mapping, line %d", applicationsKey, node.Line)
	}

	applications, err := mappingEntries(node)
	if err != nil {
		return err
	}

	for _, a := range applications {
		if a.value.Kind != yaml.MappingNode {
			return fmt.Errorf("properties of application [%s] must be a mapping, line %d", a.key, a.value.Line)
		}

		values, err := mappingEntries(a.value)
		if err != nil {
			return err
		}

		for _, v := range values {
			p, ok := ParseProperty(v.key)
			if !ok {
				log.Warn().Msgf("Ignoring unknown %s property [%s] for application [%s]", scope, v.key, a.key)
				continue
			}

			value, err := toValue(v.value)
			if err != nil {
				return err
			}

			if ps.applications[a.key] == nil {
				ps.applications[a.key] = map[Property]Value{}
			}
			ps.applications[a.key][p] = value
		}
	}
	return nil
}

func setProperty(ps Properties, name string, node *yaml.Node, scope string) error {
	p, ok := ParseProperty(name)
	if !ok {
		log.Warn().Msgf("Ignoring unknown %s property [%s]", scope, name)
		return nil
	}

	value, err := toValue(node)
	if err != nil {
		return err
	}
	ps.values[p] = value
	return nil
}

func toValue(n *yaml.Node) (Value, error) {
	n = resolveAlias(n)

	switch n.Kind {
	case yaml.ScalarNode:
		return scalarValue(n), nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			c = resolveAlias(c)
			if c.Kind != yaml.ScalarNode || c.ShortTag() == "!!null" {
				continue
			}
			items = append(items, c.Value)
		}
		return List(items...), nil
	case yaml.MappingNode:
		entries, err := mappingEntries(n)
		if err != nil {
			return Absent(), err
		}

		mapped := make([]MapEntry, 0, len(entries))
		for _, e := range entries {
			value, err := toValue(e.value)
			if err != nil {
				return Absent(), err
			}
			mapped = append(mapped, MapEntry{Key: e.key, Value: value})
		}
		return Map(mapped...), nil
	}
	return Absent(), nil
}

// null and false both mean "not set"
func scalarValue(n *yaml.Node) Value {
	switch n.ShortTag() {
	case "!!null":
		return Absent()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil && !b {
			return Absent()
		}
	}
	return Scalar(n.Value)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

type keyValue struct {
	key   string
	value *yaml.Node
}

// mappingEntries lists the pairs of a mapping in declared order, expanding
// merge keys (<<) in place. Keys declared directly win over merged ones, and
// earlier merge sources win over later ones.
func mappingEntries(n *yaml.Node) ([]keyValue, error) {
	return mergedEntries(n, map[*yaml.Node]bool{})
}

func mergedEntries(n *yaml.Node, visiting map[*yaml.Node]bool) ([]keyValue, error) {
	if visiting[n] {
		return nil, fmt.Errorf("merge key refers back to its own mapping, line %d", n.Line)
	}
	visiting[n] = true
	defer delete(visiting, n)

	declared := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMergeKey(n.Content[i]) {
			declared[n.Content[i].Value] = true
		}
	}

	merged := map[string]bool{}
	entries := make([]keyValue, 0, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], resolveAlias(n.Content[i+1])
		if !isMergeKey(key) {
			entries = append(entries, keyValue{key: key.Value, value: value})
			continue
		}

		sources, err := mergeSources(value)
		if err != nil {
			return nil, err
		}

		for _, src := range sources {
			inherited, err := mergedEntries(src, visiting)
			if err != nil {
				return nil, err
			}
			for _, e := range inherited {
				if declared[e.key] || merged[e.key] {
					continue
				}
				merged[e.key] = true
				entries = append(entries, e)
			}
		}
	}

	return entries, nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

func mergeSources(n *yaml.Node) ([]*yaml.Node, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}, nil
	case yaml.SequenceNode:
		sources := make([]*yaml.Node, 0, len(n.Content))
		for _, each := range n.Content {
			each = resolveAlias(each)
			if each.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("merge source must be a mapping, line %d", each.Line)
			}
			sources = append(sources, each)
		}
		return sources, nil
	}
	return nil, fmt.Errorf("merge value must be a mapping or a list of mappings, line %d", n.Line)
}
