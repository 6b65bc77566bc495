package persona

import "strings"

// Role is the canonical classification of a document section.
type Role int

const (
	RoleOther Role = iota
	RoleCharacteristics
	RoleVoice
	RoleMetadata
)

func (r Role) String() string {
	switch r {
	case RoleCharacteristics:
		return "characteristics"
	case RoleVoice:
		return "voice"
	case RoleMetadata:
		return "metadata"
	default:
		return "other"
	}
}

// Authors pick their own heading spellings; each set below maps to one
// canonical role. Matching is exact after trimming and lowercasing, no
// fuzzy matching: an unknown heading is RoleOther, never an error.
var roleSynonyms = map[string]Role{
	"characteristics": RoleCharacteristics,
	"traits":          RoleCharacteristics,
	"personality":     RoleCharacteristics,
	"character":       RoleCharacteristics,

	"voice":          RoleVoice,
	"tone":           RoleVoice,
	"speech":         RoleVoice,
	"speaking style": RoleVoice,

	"metadata":      RoleMetadata,
	"info":          RoleMetadata,
	"details":       RoleMetadata,
	"configuration": RoleMetadata,
	"settings":      RoleMetadata,
	"properties":    RoleMetadata,
}

// Classify maps a section heading to its canonical role.
func Classify(heading string) Role {
	if role, ok := roleSynonyms[strings.ToLower(strings.TrimSpace(heading))]; ok {
		return role
	}
	return RoleOther
}
