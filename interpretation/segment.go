package interpretation

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"juspatria-backend/models"
)

// Segments whose trimmed length does not exceed this are separator noise.
const minSegmentRunes = 10

var delimiterPattern = regexp.MustCompile(`(?m)^[ \t]*---[ \t]*\r?$`)

// One level of blockquote at the start of a line.
var quotePrefix = regexp.MustCompile(`(?m)^[ \t]*> ?`)

// Each marker is a label line, optionally prefixed by quote marks, emoji and
// emphasis, ending with a colon and a newline. The case-law label accepts any
// qualifier before the colon ("JURISPRUDÊNCIA STF/STJ", "Jurisprudência:").
var (
	articleMarker        = regexp.MustCompile(`(?im)^[^\p{L}\n]*ARTIGO EM QUEST[ÃA]O[ \t]*:[ \t*]*\r?\n`)
	interpretationMarker = regexp.MustCompile(`(?im)^[^\p{L}\n]*INTERPRETA[ÇC][ÃA]O[ \t]*:[ \t*]*\r?\n`)
	jurisprudenceMarker  = regexp.MustCompile(`(?im)^[^\p{L}\n]*JURISPRUD[ÊE]NCIA[^\n:]*:[ \t*]*\r?\n`)

	allMarkers = []*regexp.Regexp{articleMarker, interpretationMarker, jurisprudenceMarker}
)

// Segment materializes Blocks into an ordered slice.
func Segment(raw string) []models.AnalysisBlock {
	return slices.Collect(Blocks(raw))
}

// Blocks lazily yields one AnalysisBlock per delimiter-separated segment of raw.
// Blocks that do not follow the template come back with empty fields; callers
// must render Raw for those (see AnalysisBlock.Degraded).
func Blocks(raw string) iter.Seq[models.AnalysisBlock] {
	return func(yield func(models.AnalysisBlock) bool) {
		if strings.TrimSpace(raw) == "" {
			return
		}
		index := 0
		for _, segment := range delimiterPattern.Split(raw, -1) {
			if utf8.RuneCountInString(strings.TrimSpace(segment)) <= minSegmentRunes {
				continue
			}
			if !yield(parseBlock(index, segment)) {
				return
			}
			index++
		}
	}
}

func parseBlock(index int, segment string) models.AnalysisBlock {
	return models.AnalysisBlock{
		ID:             fmt.Sprintf("block-%d", index),
		Article:        extractSection(segment, articleMarker, false),
		Interpretation: extractSection(segment, interpretationMarker, false),
		Jurisprudence:  extractSection(segment, jurisprudenceMarker, true),
		Raw:            segment,
	}
}

// extractSection returns the text after the first match of marker, unquoted
// and trimmed. The capture stops at the next marker of any kind unless toEnd
// is set.
func extractSection(segment string, marker *regexp.Regexp, toEnd bool) string {
	loc := marker.FindStringIndex(segment)
	if loc == nil {
		return ""
	}
	start := loc[1]
	end := len(segment)
	if !toEnd {
		end = nextMarker(segment, start)
	}
	return unquote(segment[start:end])
}

// unquote drops the "> " the layout puts in front of every section line.
// A lone ">" becomes a blank line.
func unquote(section string) string {
	return strings.TrimSpace(quotePrefix.ReplaceAllString(section, ""))
}

// nextMarker returns the offset of the closest marker at or after from.
func nextMarker(segment string, from int) int {
	end := len(segment)
	rest := segment[from:]
	for _, m := range allMarkers {
		if loc := m.FindStringIndex(rest); loc != nil && from+loc[0] < end {
			end = from + loc[0]
		}
	}
	return end
}
