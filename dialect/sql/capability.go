package sql

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is a CrateDB server version.
type Version struct {
	Major int `yaml:"major"`
	Minor int `yaml:"minor"`
	Patch int `yaml:"patch"`
}

// ParseVersion parses a dotted version string such as "4.8.1". Missing
// minor or patch components default to zero.
func ParseVersion(s string) (Version, error) {
	var v Version
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 {
		return v, fmt.Errorf("dialect/sql: malformed version %q", s)
	}
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, fmt.Errorf("dialect/sql: malformed version %q", s)
		}
		*dst[i] = n
	}
	return v, nil
}

// String renders the version in dotted form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders v against o, returning -1, 0 or 1.
func (v Version) Compare(o Version) int {
	pairs := [3][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

// MarshalYAML renders the version as a dotted string.
func (v Version) MarshalYAML() (any, error) {
	return v.String(), nil
}

// UnmarshalYAML accepts either a dotted string or a major/minor/patch
// mapping.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseVersion(node.Value)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	}
	type plain Version
	return node.Decode((*plain)(v))
}

// insertSelectWithoutParenthesesMinVersion is the first server version
// that accepts INSERT ... SELECT without parentheses around the SELECT.
var insertSelectWithoutParenthesesMinVersion = Version{Major: 1, Minor: 0, Patch: 1}

// Mode selects the compilation strategy for version-sensitive statements.
type Mode int

const (
	// Modern targets current servers.
	Modern Mode = iota
	// Legacy targets servers older than 1.0.1 and parenthesizes the
	// SELECT body of INSERT ... SELECT statements.
	Legacy
)

func (m Mode) String() string {
	if m == Legacy {
		return "legacy"
	}
	return "modern"
}

// Capabilities describes the target server for a Compiler.
type Capabilities struct {
	// ServerVersion is the CrateDB version statements are compiled for.
	ServerVersion Version `yaml:"server_version"`
	// DefaultSchema qualifies unqualified table names when set.
	DefaultSchema string `yaml:"default_schema,omitempty"`
	// MultiRowValues reports whether the server accepts multi-row VALUES
	// lists.
	MultiRowValues bool `yaml:"multi_row_values"`
	// DefaultValues reports whether the server accepts
	// INSERT ... DEFAULT VALUES.
	DefaultValues bool `yaml:"default_values"`
	// ReturningPrecedes places the RETURNING clause before the VALUES or
	// SELECT body instead of at the end of the statement.
	ReturningPrecedes bool `yaml:"returning_precedes,omitempty"`
	// QualifiedSetColumns qualifies primary-table columns with the table
	// name in multi-table UPDATE SET clauses.
	QualifiedSetColumns bool `yaml:"qualified_set_columns,omitempty"`
	// BatchedExecute marks deployments executing through the bulk
	// endpoint. An insert with no values then compiles to a one-column
	// DEFAULT tuple instead of DEFAULT VALUES.
	BatchedExecute bool `yaml:"batched_execute,omitempty"`
}

// DefaultCapabilities returns capabilities for a current server.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		ServerVersion:  Version{Major: 4, Minor: 0, Patch: 0},
		MultiRowValues: true,
		DefaultValues:  true,
	}
}

// ParseCapabilities decodes a YAML capabilities document.
func ParseCapabilities(data []byte) (Capabilities, error) {
	caps := DefaultCapabilities()
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return Capabilities{}, fmt.Errorf("dialect/sql: parse capabilities: %w", err)
	}
	return caps, nil
}

// mode returns the compilation mode implied by the server version.
func (c Capabilities) mode() Mode {
	if c.ServerVersion.AtLeast(insertSelectWithoutParenthesesMinVersion) {
		return Modern
	}
	return Legacy
}
