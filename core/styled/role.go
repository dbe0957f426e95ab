package styled

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
)

// Role is the structural meaning of a style for segmentation.
type Role int

// Role constants. RoleOther covers every named style without a structural
// meaning and is scanned exactly like RolePlain.
const (
	RolePlain Role = iota
	RoleVerseNumber
	RoleChapterNumber
	RoleStanzaBreak
	RoleOther
)

var roleNames = map[Role]string{
	RolePlain:         "plain",
	RoleVerseNumber:   "verse_number",
	RoleChapterNumber: "chapter_number",
	RoleStanzaBreak:   "stanza_break",
	RoleOther:         "other",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// IsNumber reports whether the role marks a chapter or verse number run.
func (r Role) IsNumber() bool {
	return r == RoleVerseNumber || r == RoleChapterNumber
}

// ParseRole converts a role name as used in style files back to a Role.
func ParseRole(name string) (Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return RolePlain, segerrors.NewValidation("role", fmt.Sprintf("unknown role %q", name))
}

// StyleMap resolves style names to roles. The empty style name is plain
// text; names the map does not know resolve to RoleOther.
type StyleMap struct {
	roles map[string]Role
}

// DefaultStyles returns the built-in mapping covering USFM markers and the
// FieldWorks style names.
func DefaultStyles() *StyleMap {
	return &StyleMap{roles: map[string]Role{
		"c":              RoleChapterNumber,
		"v":              RoleVerseNumber,
		"b":              RoleStanzaBreak,
		"Chapter Number": RoleChapterNumber,
		"Verse Number":   RoleVerseNumber,
		"Stanza Break":   RoleStanzaBreak,
	}}
}

// Role returns the role of a style name.
func (m *StyleMap) Role(name string) Role {
	if name == "" {
		return RolePlain
	}
	if m == nil {
		return DefaultStyles().Role(name)
	}
	if role, ok := m.roles[name]; ok {
		return role
	}
	return RoleOther
}

// Set assigns a role to a style name.
func (m *StyleMap) Set(name string, role Role) {
	if m.roles == nil {
		m.roles = make(map[string]Role)
	}
	m.roles[name] = role
}

// Names returns the style names assigned to a role, sorted.
func (m *StyleMap) Names(role Role) []string {
	var names []string
	for name, r := range m.roles {
		if r == role {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// styleFile is the YAML layout of a style configuration:
//
//	roles:
//	  verse_number: ["v", "Verse Number", "Verse Number Alt"]
//	  stanza_break: ["b", "Stanza Break"]
type styleFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadStyles reads a YAML style file and merges it over DefaultStyles.
func LoadStyles(r io.Reader) (*StyleMap, error) {
	var cfg styleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, &segerrors.ParseError{Format: "styles", Message: err.Error(), Err: fmt.Errorf("%w: %v", segerrors.ErrInvalidInput, err)}
	}

	m := DefaultStyles()
	for roleName, names := range cfg.Roles {
		role, err := ParseRole(roleName)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			m.Set(name, role)
		}
	}
	return m, nil
}
