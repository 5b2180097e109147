// active/set.go
// Copyright(c) 2022 Matt Pharr, Apache License

package active

import (
	"slices"
	"strings"
)

type SetKind int

const (
	Unset SetKind = iota // optional field not given
	Any                  // "*"
	List                 // explicit, possibly empty, comma-separated list
)

// Set is a condition field that is either the wildcard "*" or a list of
// values. A wildcard and a list containing every possible value are
// different things and are kept distinct.
type Set[T comparable] struct {
	Kind  SetKind
	Items []T `json:",omitempty" msgpack:",omitempty"`
}

func Wildcard[T comparable]() Set[T] {
	return Set[T]{Kind: Any}
}

func ListOf[T comparable](items ...T) Set[T] {
	return Set[T]{Kind: List, Items: items}
}

// Matches reports whether v is selected by the set. An unset field
// matches nothing.
func (s Set[T]) Matches(v T) bool {
	switch s.Kind {
	case Any:
		return true
	case List:
		return slices.Contains(s.Items, v)
	default:
		return false
	}
}

// Contains reports whether every member of sub is also in s. Unset
// subsets are always contained and a wildcard contains everything.
func (s Set[T]) Contains(sub Set[T]) bool {
	switch {
	case sub.Kind == Unset || s.Kind == Any:
		return true
	case sub.Kind == Any || s.Kind == Unset:
		return false
	}
	for _, v := range sub.Items {
		if !slices.Contains(s.Items, v) {
			return false
		}
	}
	return true
}

// Format renders the set as it appears in a file.
func (s Set[T]) Format(str func(T) string) string {
	switch s.Kind {
	case Any:
		return "*"
	case List:
		f := make([]string, len(s.Items))
		for i, v := range s.Items {
			f[i] = str(v)
		}
		return strings.Join(f, ",")
	default:
		return ""
	}
}

func parseSet[T comparable](field string, parse func(string) (T, error)) (Set[T], error) {
	field = strings.TrimSpace(field)
	if field == "*" {
		return Wildcard[T](), nil
	}
	s := Set[T]{Kind: List}
	if field == "" {
		return s, nil
	}
	for _, f := range strings.Split(field, ",") {
		v, err := parse(strings.TrimSpace(f))
		if err != nil {
			return Set[T]{}, err
		}
		s.Items = append(s.Items, v)
	}
	return s, nil
}

func parseNames(field string) Set[string] {
	s, _ := parseSet(field, func(s string) (string, error) { return s, nil })
	return s
}

func identity(s string) string { return s }
