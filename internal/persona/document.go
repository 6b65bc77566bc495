package persona

import (
	"strings"
)

// Section is one headed block of a persona document. The heading is kept
// verbatim (case preserved); the body runs to the next level-2 heading or
// the end of the document. Empty bodies are retained so validation can
// report them.
type Section struct {
	Heading string
	Body    string
}

// Document is the split form of a raw persona document: the title heading,
// the description paragraph between the title and the first section, and
// the ordered sections that follow.
type Document struct {
	Name        string
	Description string
	Sections    []Section
}

// Split breaks raw persona text into a Document. The first level-1 heading
// becomes the persona name; everything between it and the first level-2
// heading becomes the description. A document without a level-1 heading is
// rejected with ErrMalformedDocument.
func Split(text string) (*Document, error) {
	lines := strings.Split(text, "\n")

	doc := &Document{}
	titleSeen := false
	var body []string
	var current *Section

	flush := func() {
		joined := strings.Join(body, "\n")
		if current != nil {
			current.Body = strings.TrimRight(joined, " \t\n")
			doc.Sections = append(doc.Sections, *current)
		} else if titleSeen {
			doc.Description = strings.TrimSpace(joined)
		}
		body = body[:0]
	}

	for _, line := range lines {
		switch {
		case !titleSeen && strings.HasPrefix(line, "# "):
			doc.Name = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			titleSeen = true
			body = body[:0]
		case strings.HasPrefix(line, "## "):
			flush()
			current = &Section{Heading: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
		default:
			body = append(body, line)
		}
	}
	flush()

	if !titleSeen {
		return nil, ErrMalformedDocument
	}
	return doc, nil
}
