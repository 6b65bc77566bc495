package persona

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Layout describes how a persona document arranges its sections, so edits
// saved back to disk keep the author's chosen headings and metadata style.
type Layout struct {
	CharacteristicsHeading string
	VoiceHeading           string
	MetadataHeading        string
	DashMetadata           bool
	HasCharacteristics     bool
	HasVoice               bool
}

// DefaultLayout is the layout used for newly created personas.
func DefaultLayout() Layout {
	return Layout{
		CharacteristicsHeading: "Characteristics",
		VoiceHeading:           "Voice",
		MetadataHeading:        "Metadata",
		DashMetadata:           true,
		HasCharacteristics:     true,
		HasVoice:               true,
	}
}

// DetectLayout inspects existing document text and records which section
// headings and metadata style it uses. Unparseable text falls back to the
// default layout.
func DetectLayout(text string) Layout {
	layout := DefaultLayout()
	doc, err := Split(text)
	if err != nil {
		return layout
	}

	layout.HasCharacteristics = false
	layout.HasVoice = false
	titler := cases.Title(language.English)

	for _, sec := range doc.Sections {
		switch Classify(sec.Heading) {
		case RoleCharacteristics:
			layout.HasCharacteristics = true
			layout.CharacteristicsHeading = titler.String(sec.Heading)
		case RoleVoice:
			layout.HasVoice = true
			layout.VoiceHeading = titler.String(sec.Heading)
		case RoleMetadata:
			layout.MetadataHeading = titler.String(sec.Heading)
			layout.DashMetadata = detectDashStyle(sec.Body)
		}
	}
	return layout
}

func detectDashStyle(body string) bool {
	sawKeyValue := false
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "- ") {
			return true
		}
		if strings.Contains(line, ":") {
			sawKeyValue = true
		}
	}
	return !sawKeyValue
}

// Render serializes a persona back into the document convention, using the
// given layout. Normalizing the rendered text yields an equal persona for
// all canonical fields.
func Render(p *Persona, layout Layout) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n%s\n", p.Name, p.Description)

	if layout.HasCharacteristics && len(p.Characteristics) > 0 {
		fmt.Fprintf(&b, "\n## %s\n", layout.CharacteristicsHeading)
		for _, trait := range p.Characteristics {
			// A multi-line entry is accumulated free text, authored without
			// bullets; bulleting it would split it on the next parse.
			if strings.Contains(trait, "\n") {
				fmt.Fprintf(&b, "%s\n", trait)
				continue
			}
			fmt.Fprintf(&b, "- %s\n", trait)
		}
	}

	if layout.HasVoice && p.VoiceDescription != "" {
		fmt.Fprintf(&b, "\n## %s\n%s\n", layout.VoiceHeading, p.VoiceDescription)
	}

	if !p.Metadata.IsZero() {
		fmt.Fprintf(&b, "\n## %s\n", layout.MetadataHeading)
		renderMetadata(&b, p.Metadata, layout.DashMetadata)
	}

	for _, sec := range p.ExtraSections {
		fmt.Fprintf(&b, "\n## %s\n", sec.Heading)
		if sec.Body != "" {
			fmt.Fprintf(&b, "%s\n", sec.Body)
		}
	}

	return b.String()
}

func renderMetadata(b *strings.Builder, md Metadata, dash bool) {
	prefix := ""
	if dash {
		prefix = "- "
	}
	write := func(key, value string) {
		fmt.Fprintf(b, "%s%s: %s\n", prefix, key, value)
	}

	if md.Image != "" {
		write(KeyImage, md.Image)
	}
	if md.EntryMessage != "" {
		write(KeyEntryMessage, md.EntryMessage)
	}
	if md.TextMessage != "" {
		write(KeyTextMessage, md.TextMessage)
	}
	if md.VoiceID != "" {
		write(KeyVoiceID, md.VoiceID)
	}
	if md.Gender != "" {
		write(KeyGender, md.Gender)
	}
	if md.RelevantLinks != nil {
		write(KeyRelevantLinks, strings.Join(md.RelevantLinks, " "))
	}

	if len(md.TTSParams) > 0 {
		fmt.Fprintf(b, "%s%s:\n", prefix, KeyTTSParams)
		for _, key := range sortedKeys(md.TTSParams) {
			fmt.Fprintf(b, "    %s: %s\n", key, formatParam(md.TTSParams[key]))
		}
	}

	for _, key := range sortedKeys(md.Extra) {
		value := md.Extra[key]
		if strings.Contains(value, "\n") {
			// Demoted raw block, kept verbatim.
			fmt.Fprintf(b, "%s\n", value)
			continue
		}
		write(key, value)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatParam renders a coerced nested value so re-parsing restores the
// same type. Whole floats keep a trailing ".0" to stay floats.
func formatParam(v any) string {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
