package ir

import (
	"fmt"
	"strings"
)

// Category tags a variable-table key or a dependency descriptor.
type Category string

const (
	// CategoryLocal marks an indirect reference resolved through the variable table.
	CategoryLocal Category = "local"

	// CategoryProp marks an externally supplied input.
	CategoryProp Category = "prop"

	// CategoryState marks an internally owned input.
	CategoryState Category = "state"
)

// ValidCategories defines the allowed category tags.
var ValidCategories = map[Category]bool{
	CategoryLocal: true,
	CategoryProp:  true,
	CategoryState: true,
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !ValidCategories[c] {
		return "", fmt.Errorf("invalid category %q: must be one of local, prop, state", s)
	}
	return c, nil
}

// IsTerminal reports whether descriptors of this category name a statement directly.
func (c Category) IsTerminal() bool {
	return c == CategoryProp || c == CategoryState
}

// Key addresses one variable-table entry.
//
// It replaces the "<category>,<name>" composite strings used by the analysis
// phase. String renders that composite form, so lookups behave identically.
type Key struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
}

// LocalKey returns the key used to resolve a local descriptor.
func LocalKey(name string) Key {
	return Key{Category: CategoryLocal, Name: name}
}

// String returns the composite "<category>,<name>" form.
func (k Key) String() string {
	return string(k.Category) + "," + k.Name
}

// ParseKey parses a composite "<category>,<name>" key.
//
// Only the first comma separates category from name; names may contain
// further commas.
func ParseKey(s string) (Key, error) {
	cat, name, ok := strings.Cut(s, ",")
	if !ok {
		return Key{}, fmt.Errorf("invalid key %q: expected \"<category>,<name>\"", s)
	}
	c, err := ParseCategory(cat)
	if err != nil {
		return Key{}, fmt.Errorf("invalid key %q: %w", s, err)
	}
	if name == "" {
		return Key{}, fmt.Errorf("invalid key %q: name is empty", s)
	}
	return Key{Category: c, Name: name}, nil
}

// Descriptor is a tagged dependency reference.
//
// Kind local means "resolve further via the variable table"; prop and state
// are terminal and Key is the key of a statement.
type Descriptor struct {
	Kind Category `json:"kind"`
	Key  string   `json:"key"`
}

// Local creates a local descriptor.
func Local(name string) Descriptor {
	return Descriptor{Kind: CategoryLocal, Key: name}
}

// Prop creates a terminal prop descriptor.
func Prop(statement string) Descriptor {
	return Descriptor{Kind: CategoryProp, Key: statement}
}

// State creates a terminal state descriptor.
func State(statement string) Descriptor {
	return Descriptor{Kind: CategoryState, Key: statement}
}

// String returns the composite "<kind>,<key>" form.
func (d Descriptor) String() string {
	return string(d.Kind) + "," + d.Key
}

// ParseDescriptor parses the composite "<kind>,<key>" form.
func ParseDescriptor(s string) (Descriptor, error) {
	k, err := ParseKey(s)
	if err != nil {
		return Descriptor{}, fmt.Errorf("invalid descriptor: %w", err)
	}
	return Descriptor{Kind: k.Category, Key: k.Name}, nil
}
