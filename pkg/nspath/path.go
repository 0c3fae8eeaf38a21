// Package nspath implements the immutable path value shared by the naming
// server and storage server.
//
// A Path is an ordered, finite sequence of non-empty components. No
// component may contain '/' or ':'; the empty sequence denotes the root.
// Compare paths with Equal: a Path holds a slice, so it is not comparable
// with == and cannot be used as a map key.
package nspath

import (
	"strings"

	"github.com/marmos91/nsfs/internal/errs"
)

// Path is an immutable sequence of path components.
type Path struct {
	components []string
}

// Root is the path with zero components.
var Root = Path{}

// Parse builds a Path from its string representation.
//
// The string must start with "/" and must not contain ":". Consecutive
// separators collapse and trailing separators are ignored, so "//x///y/"
// parses the same as "/x/y".
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, errs.Newf(errs.Argument, s, "path must not be empty")
	}
	if !strings.HasPrefix(s, "/") {
		return Path{}, errs.Newf(errs.Argument, s, "path must start with '/'")
	}
	if strings.Contains(s, ":") {
		return Path{}, errs.Newf(errs.Argument, s, "path must not contain ':'")
	}

	var components []string
	for _, c := range strings.Split(s, "/") {
		if c != "" {
			components = append(components, c)
		}
	}
	return Path{components: components}, nil
}

// MustParse is like Parse but panics on error. Intended for literals in
// tests and static call sites, never for untrusted input.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Join returns a new path with component appended to p.
func (p Path) Join(component string) (Path, error) {
	if component == "" {
		return Path{}, errs.New(errs.Argument, "component must not be empty")
	}
	if strings.ContainsAny(component, "/:") {
		return Path{}, errs.Newf(errs.Argument, component, "component must not contain '/' or ':'")
	}
	next := make([]string, len(p.components)+1)
	copy(next, p.components)
	next[len(p.components)] = component
	return Path{components: next}, nil
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return len(p.components) == 0
}

// Components returns the ordered list of path components. The result must
// not be mutated by the caller.
func (p Path) Components() []string {
	return p.components
}

// Parent returns the path to the parent of p. Fails for the root path.
func (p Path) Parent() (Path, error) {
	if p.IsRoot() {
		return Path{}, errs.New(errs.Argument, "root has no parent")
	}
	return Path{components: p.components[:len(p.components)-1]}, nil
}

// Last returns the final component of p. Fails for the root path.
func (p Path) Last() (string, error) {
	if p.IsRoot() {
		return "", errs.New(errs.Argument, "root has no last component")
	}
	return p.components[len(p.components)-1], nil
}

// String renders p in its canonical form: "/" for root, otherwise
// "/c1/c2/...". It round-trips through Parse.
func (p Path) String() string {
	if p.IsRoot() {
		return "/"
	}
	return "/" + strings.Join(p.components, "/")
}

// Equal reports whether p and other have identical components.
func (p Path) Equal(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i, c := range p.components {
		if c != other.components[i] {
			return false
		}
	}
	return true
}

// IsSubpath reports whether other's components are a prefix of p's — that
// is, whether p is other, or a descendant of other.
func (p Path) IsSubpath(other Path) bool {
	if len(other.components) > len(p.components) {
		return false
	}
	for i, c := range other.components {
		if p.components[i] != c {
			return false
		}
	}
	return true
}

// Compare provides a total order consistent with Equal: ancestors precede
// their descendants, and otherwise paths compare lexicographically on their
// string form. This is the order any root-to-leaf locking walk naturally
// produces, so acquiring locks in Compare order across every caller can
// never deadlock.
func (p Path) Compare(other Path) int {
	if p.Equal(other) {
		return 0
	}
	if p.IsSubpath(other) {
		// other is an ancestor of p: p follows.
		return 1
	}
	if other.IsSubpath(p) {
		// p is an ancestor of other: p precedes.
		return -1
	}
	return strings.Compare(p.String(), other.String())
}
