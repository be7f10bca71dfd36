package chunker

import (
	"regexp"
	"strings"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// Section is a structural unit of a document: a run of text under one
// detected heading, with the page span it was drawn from.
type Section struct {
	// Label is the normalized section identifier, empty for preamble
	// text before the first detected heading.
	Label string

	// Title is the heading text following the identifier, if any.
	Title string

	// Units are the section's paragraphs in order, each annotated with
	// the page it came from.
	Units []Unit
}

// Unit is one paragraph of section text with its source page.
type Unit struct {
	Text string
	Page int
}

// Heading conventions of the corpus, tried in order:
// a regulation code with title, an AMC/GM prefix, a subpart, a chapter,
// and a plain numbered heading.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z]{2,4}(?:\.[A-Z0-9]{1,4}){2,})\s+(.+)$`),
	regexp.MustCompile(`^((?:AMC|GM)\d*\s+[A-Z]{2,4}(?:\.[A-Z0-9]{1,4}){2,})\s*(.*)$`),
	regexp.MustCompile(`^(SUBPART\s+[A-Z])\s*[-–]\s*(.+)$`),
	regexp.MustCompile(`^(CHAPTER\s+\d+)\s*[-–]\s*(.+)$`),
	regexp.MustCompile(`^(\d+\.[\d.]+)\s+([A-Z].*)$`),
}

// MatchHeading reports whether a line is a section heading, returning
// the normalized identifier and title when it is. Exposed for the
// extraction adapters, which tag pages with the first heading they see.
func MatchHeading(line string) (label, title string, ok bool) {
	for _, p := range sectionPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			title = ""
			if len(m) > 2 {
				title = strings.TrimSpace(m[2])
			}
			return domain.NormalizeSectionLabel(m[1]), title, true
		}
	}
	return "", "", false
}

// SectionHint returns the first section heading detected in a page's
// text, or empty when the page has none. Extractors tag each Page with
// it so SplitSections only scans pages that carry a heading.
func SectionHint(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if label, _, ok := MatchHeading(strings.TrimSpace(line)); ok {
			return label
		}
	}
	return ""
}

// SplitSections walks pages line by line and groups text into sections
// at detected headings. Text before the first heading becomes an
// unlabelled section. Pages with no extractable text contribute
// nothing. A page whose SectionHint is empty carries no heading, so
// its lines join the current section without per-line detection.
func SplitSections(pages []domain.Page) []Section {
	var sections []Section
	current := Section{}
	var buf []string
	bufPage := 0

	flushParagraphs := func() {
		if len(buf) == 0 {
			return
		}
		text := strings.Join(buf, "\n")
		for _, para := range splitParagraphs(text) {
			current.Units = append(current.Units, Unit{Text: para, Page: bufPage})
		}
		buf = nil
	}

	flushSection := func() {
		flushParagraphs()
		if len(current.Units) > 0 {
			sections = append(sections, current)
		}
	}

	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		// Accumulated lines belong to the page they were read from.
		flushParagraphs()
		bufPage = page.Number

		for _, line := range strings.Split(page.Text, "\n") {
			if page.SectionHint != "" {
				trimmed := strings.TrimSpace(line)
				if label, title, ok := MatchHeading(trimmed); ok {
					flushSection()
					current = Section{Label: label, Title: title}
					buf = nil
					continue
				}
			}
			buf = append(buf, line)
		}
		flushParagraphs()
	}
	flushSection()

	return sections
}
