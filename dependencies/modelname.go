package dependencies

import "strings"

// NormalizedEntityName wraps an entity type name that is guaranteed to be in
// its normalized form: the lowercase "<namespace>.<type>" string exactly as it
// appears in a graph dump. It is the node identity in the dependency graph and
// the map key everywhere else; equality and ordering are defined on the
// normalized form only.
type NormalizedEntityName struct {
	name string
}

// NewNormalizedEntityName normalizes a raw entity type name. A name without a
// namespace separator is a contract violation and fails immediately.
func NewNormalizedEntityName(name string) (NormalizedEntityName, error) {
	if !strings.Contains(name, ".") {
		return NormalizedEntityName{}, &MalformedNameError{Input: name}
	}
	return NormalizedEntityName{name: strings.ToLower(name)}, nil
}

// MustNormalizedEntityName is for names known to be well-formed, like the
// literals in scope root declarations and tests.
func MustNormalizedEntityName(name string) NormalizedEntityName {
	n, err := NewNormalizedEntityName(name)
	if err != nil {
		panic(err)
	}
	return n
}

func (n NormalizedEntityName) String() string {
	return n.name
}

// Less orders names lexicographically on the normalized form.
func (n NormalizedEntityName) Less(other NormalizedEntityName) bool {
	return n.name < other.name
}

// IsZero reports whether the name was never constructed.
func (n NormalizedEntityName) IsZero() bool {
	return n.name == ""
}
