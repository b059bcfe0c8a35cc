package domain

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// DocumentExtension is the extension a document must carry to be mentionable
const DocumentExtension = ".md"

// AllowedSigns lists the characters that may be configured as a mention sign
const AllowedSigns = "@#+!$%^&*~=-:;><|"

// DefaultMentionLabel is used in "create" prompts when a mention type has no label
const DefaultMentionLabel = "Item"

// LinkKind tells how a link record was derived
type LinkKind int

const (
	// LinkKindFilename records come from the document's own file name
	LinkKindFilename LinkKind = iota
	// LinkKindAlias records come from an alias declared in the document's frontmatter
	LinkKindAlias
)

func (k LinkKind) String() string {
	switch k {
	case LinkKindFilename:
		return "filename"
	case LinkKindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// MentionType configures one mention category, identified by its sign
type MentionType struct {
	Sign         string `json:"-"`
	Label        string `json:"label,omitempty"`
	TemplatePath string `json:"templatePath,omitempty"`
	Folder       string `json:"folder,omitempty"`
}

// DisplayLabel returns the label used in "create" prompts
func (t MentionType) DisplayLabel() string {
	if strings.TrimSpace(t.Label) == "" {
		return DefaultMentionLabel
	}
	return t.Label
}

// NotePath returns the vault-relative path of the document created for name
func (t MentionType) NotePath(name string) string {
	fileName := t.Sign + name + DocumentExtension
	folder := strings.Trim(t.Folder, "/")
	if folder == "" {
		return fileName
	}
	return folder + "/" + fileName
}

// MentionTypes maps a sign to its mention type
type MentionTypes map[string]MentionType

// Signs returns the configured signs in a stable order
func (m MentionTypes) Signs() []string {
	signs := make([]string, 0, len(m))
	for sign := range m {
		if sign != "" {
			signs = append(signs, sign)
		}
	}
	slices.Sort(signs)
	return signs
}

// Get returns the mention type for sign, with Sign populated
func (m MentionTypes) Get(sign string) (MentionType, bool) {
	t, ok := m[sign]
	if !ok {
		return MentionType{Sign: sign}, false
	}
	t.Sign = sign
	return t, true
}

// signPrefix returns the registered sign s starts with, if any
func (m MentionTypes) signPrefix(s string) (string, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return "", false
	}
	sign := s[:size]
	if _, ok := m[sign]; !ok {
		return "", false
	}
	return sign, true
}

// ValidateSign checks that sign is a single allowed character
func ValidateSign(sign string) error {
	if utf8.RuneCountInString(sign) != 1 {
		return fmt.Errorf("sign %q must be exactly one character", sign)
	}
	if !strings.Contains(AllowedSigns, sign) {
		return fmt.Errorf("sign %q is not one of %s", sign, AllowedSigns)
	}
	return nil
}

// ValidateMentionTypes checks that every sign is valid. Signs are single
// characters, so distinct map keys can never overlap.
func ValidateMentionTypes(types MentionTypes) error {
	for _, sign := range types.Signs() {
		if err := ValidateSign(sign); err != nil {
			return err
		}
	}
	if _, ok := types[""]; ok {
		return fmt.Errorf("sign must not be empty")
	}
	return nil
}

// LinkParts is the result of parsing a path or alias into mention components
type LinkParts struct {
	Sign     string
	Name     string
	FileName string // sign + name, empty for alias parts
}

// ParseLinkFromPath extracts mention parts from a vault-relative document path.
// The final path segment must start with a registered sign and end in the
// document extension.
func ParseLinkFromPath(path string, types MentionTypes) (LinkParts, bool) {
	if !strings.HasSuffix(path, DocumentExtension) {
		return LinkParts{}, false
	}

	segment := path[strings.LastIndex(path, "/")+1:]
	sign, ok := types.signPrefix(segment)
	if !ok {
		return LinkParts{}, false
	}

	fileName := strings.TrimSuffix(segment, DocumentExtension)
	name := fileName[len(sign):]
	if name == "" {
		return LinkParts{}, false
	}

	return LinkParts{
		Sign:     sign,
		Name:     name,
		FileName: fileName,
	}, true
}

// ParseLinkFromAlias extracts mention parts from a frontmatter alias
func ParseLinkFromAlias(alias string, types MentionTypes) (LinkParts, bool) {
	sign, ok := types.signPrefix(alias)
	if !ok {
		return LinkParts{}, false
	}

	name := alias[len(sign):]
	if name == "" {
		return LinkParts{}, false
	}

	return LinkParts{Sign: sign, Name: name}, true
}

// Link is a single fact: the document at Path can be mentioned as Sign+Name
type Link struct {
	Sign     string
	Path     string
	Name     string
	FileName string
	Kind     LinkKind
}

// IsCanonical reports whether the link text equals the document file name
func (l Link) IsCanonical() bool {
	return l.Sign+l.Name == l.FileName
}

// DisplayText renders the link for a suggestion list
func (l Link) DisplayText() string {
	if l.Kind == LinkKindAlias && !l.IsCanonical() {
		return fmt.Sprintf("%s (%s)", l.Name, l.FileName)
	}
	return l.Name
}

// LinkText renders the wiki link inserted into a document
func (l Link) LinkText() string {
	return CreateMentionLink(l.Sign, l.Name, l.FileName)
}

// CreateMentionLink formats a wiki link to fileName shown as sign+name
func CreateMentionLink(sign, name, fileName string) string {
	text := sign + name
	if fileName == "" || fileName == text {
		return "[[" + text + "]]"
	}
	return "[[" + fileName + "|" + text + "]]"
}
