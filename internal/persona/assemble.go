package persona

import (
	"strings"
)

// Persona is the canonical record assembled from one persona document.
// Treated as immutable once produced; edits re-enter the pipeline as a new
// document.
type Persona struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Characteristics  []string  `json:"characteristics"`
	VoiceDescription string    `json:"voice_description,omitempty"`
	Metadata         Metadata  `json:"metadata"`
	ExtraSections    []Section `json:"extra_sections,omitempty"`
}

// Normalize runs the whole pipeline on raw document text: split, classify,
// parse metadata, assemble. Pure and deterministic; the same text always
// yields the same persona.
func Normalize(text string) (*Persona, []Diagnostic, error) {
	doc, err := Split(text)
	if err != nil {
		return nil, nil, err
	}
	return Assemble(doc)
}

// Assemble combines a split document into a canonical Persona. Name and
// description are required; everything else degrades to diagnostics. When
// several sections classify to the same role their content is appended in
// document order, never silently overwritten.
func Assemble(doc *Document) (*Persona, []Diagnostic, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, nil, &IncompletePersonaError{Field: "name"}
	}
	if strings.TrimSpace(doc.Description) == "" {
		return nil, nil, &IncompletePersonaError{Field: "description"}
	}

	p := &Persona{
		Name:            strings.TrimSpace(doc.Name),
		Description:     strings.TrimSpace(doc.Description),
		Characteristics: []string{},
	}
	var diags []Diagnostic
	var voiceBodies []string

	for _, sec := range doc.Sections {
		if strings.TrimSpace(sec.Body) == "" {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Section:  sec.Heading,
				Message:  "section has no content",
			})
		}

		switch Classify(sec.Heading) {
		case RoleCharacteristics:
			p.Characteristics = append(p.Characteristics, parseTraits(sec.Body)...)
		case RoleVoice:
			if body := strings.TrimSpace(sec.Body); body != "" {
				voiceBodies = append(voiceBodies, body)
			}
		case RoleMetadata:
			md, mdiags := ParseMetadata(sec.Heading, sec.Body)
			p.Metadata.merge(md)
			diags = append(diags, mdiags...)
		default:
			p.ExtraSections = append(p.ExtraSections, sec)
			diags = append(diags, Diagnostic{
				Severity: SeverityInfo,
				Section:  sec.Heading,
				Message:  "unrecognized section heading retained in extra sections",
			})
		}
	}

	// Voice descriptions are consumed for display and prompt construction,
	// so bullet structure is preserved as line breaks rather than parsed.
	p.VoiceDescription = strings.Join(voiceBodies, "\n\n")

	return p, diags, nil
}

// parseTraits extracts characteristics from a section body: one entry per
// bullet line; any non-bullet lines are kept as a single trailing free-text
// entry rather than discarded. Duplicate traits are dropped.
func parseTraits(body string) []string {
	var traits []string
	var freeText []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			trait := strings.TrimSpace(line[2:])
			if trait != "" && !seen[trait] {
				seen[trait] = true
				traits = append(traits, trait)
			}
			continue
		}
		freeText = append(freeText, line)
	}

	if len(freeText) > 0 {
		entry := strings.Join(freeText, "\n")
		if !seen[entry] {
			traits = append(traits, entry)
		}
	}
	return traits
}

// merge folds another metadata map into this one, later occurrences
// winning per canonical key.
func (m *Metadata) merge(o Metadata) {
	if o.Image != "" {
		m.Image = o.Image
	}
	if o.EntryMessage != "" {
		m.EntryMessage = o.EntryMessage
	}
	if o.TextMessage != "" {
		m.TextMessage = o.TextMessage
	}
	if o.VoiceID != "" {
		m.VoiceID = o.VoiceID
	}
	if o.Gender != "" {
		m.Gender = o.Gender
	}
	if o.RelevantLinks != nil {
		m.RelevantLinks = o.RelevantLinks
	}
	if len(o.TTSParams) > 0 {
		m.TTSParams = o.TTSParams
	}
	for k, v := range o.Extra {
		m.setExtra(k, v)
	}
}
