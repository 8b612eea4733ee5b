package domain

// KnowledgeSection is a named block of profile text used to ground replies
type KnowledgeSection struct {
	Section string `json:"section" yaml:"section"`
	Content string `json:"content" yaml:"content"`
}

// Profile holds the portfolio owner identity and contact handles
type Profile struct {
	Name     string `json:"name" yaml:"name"`
	NameAr   string `json:"name_ar,omitempty" yaml:"name_ar,omitempty"` // Arabic script, optional
	Email    string `json:"email" yaml:"email"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	GitHub   string `json:"github" yaml:"github"`
}

// FirstName returns the first word of the owner name
func (p Profile) FirstName() string {
	return firstWord(p.Name)
}

// Localized returns the full and first name in Arabic script when arabic is
// set and an Arabic name is known, the Latin names otherwise.
func (p Profile) Localized(arabic bool) (name, first string, ok bool) {
	if arabic && p.NameAr != "" {
		return p.NameAr, firstWord(p.NameAr), true
	}
	return p.Name, p.FirstName(), false
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
