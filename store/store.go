package store

import (
	"errors"
	"fmt"
)

var ErrHostNotFound = errors.New("host not found")

// Host is a deployment target with its own override scope.
type Host struct {
	Name string
	Properties
}

// Store is the decoded cluster definition. It is never mutated after Decode.
type Store struct {
	Global  Properties
	Hosts   []Host
	Version string
}

func New() *Store {
	return &Store{Global: NewProperties()}
}

func (s *Store) Host(name string) (Host, error) {
	for _, h := range s.Hosts {
		if h.Name == name {
			return h, nil
		}
	}
	return Host{}, fmt.Errorf("%w: %s", ErrHostNotFound, name)
}

func (s *Store) HostNames() []string {
	names := make([]string, 0, len(s.Hosts))
	for _, h := range s.Hosts {
		names = append(names, h.Name)
	}
	return names
}

// NewHost returns a host with an empty override scope.
func NewHost(name string) Host {
	return Host{Name: name, Properties: NewProperties()}
}
