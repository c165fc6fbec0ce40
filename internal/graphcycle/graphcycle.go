package graphcycle

import (
	"fmt"
	"strings"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// MissingPolicy controls behavior when an edge points at a node that does not exist.
type MissingPolicy uint8

const (
	MissingPolicyIgnore MissingPolicy = iota
	MissingPolicyError
)

// CycleError reports a cycle. Path starts and ends at the same node.
type CycleError[K comparable] struct {
	Path []K
}

// Error returns the error string.
func (e CycleError[K]) Error() string {
	parts := make([]string, len(e.Path))
	for i, k := range e.Path {
		parts[i] = fmt.Sprint(k)
	}
	return "cycle detected: " + strings.Join(parts, " -> ")
}

// MissingError reports an edge to a node that does not exist.
type MissingError[K comparable] struct {
	From K
	Key  K
}

// Error returns the error string.
func (e MissingError[K]) Error() string {
	return fmt.Sprintf("missing node %v referenced from %v", e.Key, e.From)
}

// Config configures cycle detection over a directed graph.
type Config[K comparable] struct {
	Exists  func(K) bool
	Next    func(K) ([]K, error)
	Starts  []K
	Missing MissingPolicy
}

// Detect walks edges depth-first from Starts, in order, and reports the first
// cycle or traversal error.
func Detect[K comparable](cfg Config[K]) error {
	if cfg.Next == nil {
		return fmt.Errorf("cycle detect: next function is nil")
	}
	states := make(map[K]visitState, len(cfg.Starts))
	var path []K

	var visit func(key, from K, hasFrom bool) error
	visit = func(key, from K, hasFrom bool) error {
		switch states[key] {
		case stateVisiting:
			return CycleError[K]{Path: cyclePath(path, key)}
		case stateDone:
			return nil
		}

		if cfg.Exists != nil && !cfg.Exists(key) {
			if cfg.Missing == MissingPolicyIgnore {
				return nil
			}
			if !hasFrom {
				var zero K
				from = zero
			}
			return MissingError[K]{From: from, Key: key}
		}

		states[key] = stateVisiting
		path = append(path, key)
		neighbors, err := cfg.Next(key)
		if err != nil {
			return err
		}
		for _, next := range neighbors {
			if err := visit(next, key, true); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		states[key] = stateDone
		return nil
	}

	for _, start := range cfg.Starts {
		var zero K
		if err := visit(start, zero, false); err != nil {
			return err
		}
	}
	return nil
}

func cyclePath[K comparable](path []K, key K) []K {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == key {
			out := make([]K, 0, len(path)-i+1)
			out = append(out, path[i:]...)
			return append(out, key)
		}
	}
	return []K{key, key}
}
