package store

// Kind identifies which shape a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindScalar
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "absent"
	}
}

// Value is a configuration value: absent, a single string, a list of strings,
// or a mapping from application identifier to a scalar or list.
// The zero Value is Absent.
type Value struct {
	kind    Kind
	scalar  string
	list    []string
	keys    []string
	entries map[string]Value
}

func Absent() Value {
	return Value{}
}

func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

// MapEntry is one application-keyed entry of a Map value.
type MapEntry struct {
	Key   string
	Value Value
}

// Map builds an ordered map value. Nested maps are stored as Absent, and a
// repeated key keeps its first position with the last value.
func Map(entries ...MapEntry) Value {
	v := Value{kind: KindMap, entries: make(map[string]Value, len(entries))}
	for _, e := range entries {
		if _, seen := v.entries[e.Key]; !seen {
			v.keys = append(v.keys, e.Key)
		}
		if e.Value.kind == KindMap {
			v.entries[e.Key] = Absent()
		} else {
			v.entries[e.Key] = e.Value
		}
	}
	return v
}

func (v Value) Kind() Kind {
	return v.kind
}

// Present is false only for Absent.
func (v Value) Present() bool {
	return v.kind != KindAbsent
}

// Truthy reports whether the value counts as set for a host override: empty
// scalars, lists and maps are treated like Absent.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindScalar:
		return v.scalar != ""
	case KindList:
		return len(v.list) > 0
	case KindMap:
		return len(v.keys) > 0
	default:
		return false
	}
}

// Strings normalises the value to a list. Maps have no list form and yield nil.
func (v Value) Strings() []string {
	switch v.kind {
	case KindScalar:
		return []string{v.scalar}
	case KindList:
		return append([]string{}, v.list...)
	default:
		return nil
	}
}

// String returns the scalar text, or "" for any other shape.
func (v Value) String() string {
	if v.kind == KindScalar {
		return v.scalar
	}
	return ""
}

// Keys returns the application identifiers of a Map in declaration order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	return append([]string{}, v.keys...)
}

// ForApplication returns the entry for the application of a Map value.
func (v Value) ForApplication(application string) Value {
	if v.kind != KindMap {
		return Absent()
	}
	return v.entries[application]
}

// Entries returns the values of a Map in declaration order.
func (v Value) Entries() []Value {
	if v.kind != KindMap {
		return nil
	}
	values := make([]Value, 0, len(v.keys))
	for _, k := range v.keys {
		values = append(values, v.entries[k])
	}
	return values
}
