package persona

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical metadata keys. These literal names are the wire contract
// between persona documents and the bot-launch payload; existing documents
// depend on them.
const (
	KeyImage         = "image"
	KeyEntryMessage  = "entry_message"
	KeyTextMessage   = "text_message"
	KeyVoiceID       = "voice_id"
	KeyGender        = "gender"
	KeyRelevantLinks = "relevant_links"
	KeyTTSParams     = "tts_params"
)

// Raw keys authors actually write, resolved to canonical keys. A raw key
// absent from this table lands in the extra bucket verbatim.
var keySynonyms = map[string]string{
	"image":   KeyImage,
	"picture": KeyImage,
	"avatar":  KeyImage,

	"entry_message": KeyEntryMessage,
	"greeting":      KeyEntryMessage,
	"message":       KeyEntryMessage,

	"text_message": KeyTextMessage,

	"cartesia_voice_id": KeyVoiceID,
	"voice":             KeyVoiceID,
	"voice_id":          KeyVoiceID,

	"gender": KeyGender,

	"relevant_links": KeyRelevantLinks,
	"links":          KeyRelevantLinks,
	"references":     KeyRelevantLinks,
	"urls":           KeyRelevantLinks,

	"tts_params": KeyTTSParams,
}

// Metadata is the canonical key/value map extracted from a Metadata
// section. Unrecognized keys are never dropped; they are retained verbatim
// in Extra for round-tripping.
type Metadata struct {
	Image         string            `json:"image,omitempty"`
	EntryMessage  string            `json:"entry_message,omitempty"`
	TextMessage   string            `json:"text_message,omitempty"`
	VoiceID       string            `json:"voice_id,omitempty"`
	Gender        string            `json:"gender,omitempty"`
	RelevantLinks []string          `json:"relevant_links,omitempty"`
	TTSParams     map[string]any    `json:"tts_params,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// IsZero reports whether no metadata was extracted.
func (m Metadata) IsZero() bool {
	return m.Image == "" && m.EntryMessage == "" && m.TextMessage == "" &&
		m.VoiceID == "" && m.Gender == "" && m.RelevantLinks == nil &&
		len(m.TTSParams) == 0 && len(m.Extra) == 0
}

// CanonicalKey resolves a raw metadata key to its canonical form. The
// second return value reports whether the key is recognized.
func CanonicalKey(raw string) (string, bool) {
	key, ok := keySynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return key, ok
}

// ParseMetadata parses the body of a Metadata section into a canonical
// Metadata map. Lines may or may not carry a leading dash bullet; a line is
// split on its first colon. If the same canonical key is supplied more than
// once (directly or through synonyms) the last occurrence wins. Lines
// without a colon and nested blocks with broken indentation are reported as
// diagnostics and never abort parsing of the rest of the section.
func ParseMetadata(section, body string) (Metadata, []Diagnostic) {
	md := Metadata{}
	var diags []Diagnostic

	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentOf(line)
		content := stripBullet(strings.TrimSpace(line))

		rawKey, value, found := strings.Cut(content, ":")
		if !found {
			diags = append(diags, Diagnostic{
				Severity: SeverityInfo,
				Section:  section,
				Line:     i + 1,
				Message:  "metadata line has no key/value separator",
				Raw:      line,
			})
			continue
		}
		rawKey = strings.TrimSpace(rawKey)
		value = strings.TrimSpace(value)
		canonical, recognized := CanonicalKey(rawKey)

		// A key with no value followed by deeper-indented lines opens a
		// nested block scoped to that key.
		if value == "" && nextLineDeeper(lines, i, indent) {
			params, end, err := parseNestedBlock(lines, i+1, indent)
			if err != nil {
				raw := strings.Join(lines[i:end+1], "\n")
				md.setExtra(rawKey, raw)
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Section:  section,
					Key:      rawKey,
					Line:     i + 1,
					Message:  fmt.Sprintf("malformed metadata block: %v", err),
					Raw:      raw,
				})
				i = end
				continue
			}
			if recognized && canonical == KeyTTSParams {
				md.TTSParams = params
			} else {
				md.setExtra(rawKey, strings.Join(lines[i:end+1], "\n"))
				diags = append(diags, Diagnostic{
					Severity: SeverityInfo,
					Section:  section,
					Key:      rawKey,
					Line:     i + 1,
					Message:  "unrecognized nested metadata block retained verbatim",
				})
			}
			i = end
			continue
		}

		if !recognized {
			md.setExtra(rawKey, value)
			diags = append(diags, Diagnostic{
				Severity: SeverityInfo,
				Section:  section,
				Key:      rawKey,
				Line:     i + 1,
				Message:  "unrecognized metadata key retained in extra bucket",
			})
			continue
		}

		switch canonical {
		case KeyImage:
			md.Image = value
		case KeyEntryMessage:
			md.EntryMessage = value
		case KeyTextMessage:
			md.TextMessage = value
		case KeyVoiceID:
			md.VoiceID = value
		case KeyGender:
			md.Gender = value
		case KeyRelevantLinks:
			md.RelevantLinks = splitLinks(value)
		case KeyTTSParams:
			// Inline value for a composite key has no defined shape.
			md.setExtra(rawKey, value)
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Section:  section,
				Key:      rawKey,
				Line:     i + 1,
				Message:  "tts_params must be a nested block; inline value retained in extra bucket",
				Raw:      line,
			})
		}
	}

	return md, diags
}

func (m *Metadata) setExtra(key, value string) {
	if m.Extra == nil {
		m.Extra = make(map[string]string)
	}
	m.Extra[key] = value
}

// parseNestedBlock parses indentation-scoped child lines beginning at
// start. Children must share one indentation level deeper than the opener;
// anything else is inconsistent and fails the whole block. On failure the
// returned index still covers every line belonging to the block so the
// caller can demote it as a unit and keep parsing after it. Returns the
// parsed map and the index of the last line consumed.
func parseNestedBlock(lines []string, start, openerIndent int) (map[string]any, int, error) {
	params := make(map[string]any)
	childIndent := -1
	end := start - 1
	var blockErr error

	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentOf(line)
		if indent <= openerIndent {
			break
		}
		end = i
		if blockErr != nil {
			continue // still consuming the broken block
		}
		if childIndent == -1 {
			childIndent = indent
		} else if indent != childIndent {
			blockErr = fmt.Errorf("inconsistent indentation at line %d", i+1)
			continue
		}

		content := stripBullet(strings.TrimSpace(line))
		key, value, found := strings.Cut(content, ":")
		if !found {
			blockErr = fmt.Errorf("nested line %d has no key/value separator", i+1)
			continue
		}
		params[strings.TrimSpace(key)] = coerceValue(strings.TrimSpace(value))
	}

	if blockErr != nil {
		return nil, end, blockErr
	}
	return params, end, nil
}

// splitLinks parses a relevant_links value into an ordered URL list. URLs
// are whitespace separated; comma separation is accepted as a fallback. An
// empty value yields an empty list, not nil.
func splitLinks(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		links := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				links = append(links, p)
			}
		}
		return links
	}
	return strings.Fields(value)
}

// coerceValue converts nested block values to their natural types, the way
// existing persona documents expect: booleans, integers, floats, strings.
func coerceValue(value string) any {
	switch strings.ToLower(value) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func stripBullet(s string) string {
	if strings.HasPrefix(s, "- ") {
		return strings.TrimSpace(s[2:])
	}
	return s
}

func nextLineDeeper(lines []string, i, indent int) bool {
	for j := i + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "" {
			continue
		}
		return indentOf(lines[j]) > indent
	}
	return false
}
