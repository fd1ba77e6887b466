package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type SectionKind int

const (
	SectionHeading SectionKind = iota
	SectionBody
)

// Section is one display unit of an announcement. Headings only carry a
// Label, bodies only carry Text.
type Section struct {
	Kind  SectionKind
	Label string
	Text  string
}

// Fragment is an event block tagged with [remember]. Text is the block as it
// was before the tag was stripped, Section is the index of the body section
// the block was rendered into.
type Fragment struct {
	Key     string
	Text    string
	Section int
}

type Result struct {
	Sections []Section
	Eligible []Fragment
}

// EligibleTexts returns the raw text of every eligible fragment in source order.
func (r Result) EligibleTexts() []string {
	texts := make([]string, 0, len(r.Eligible))
	for _, f := range r.Eligible {
		texts = append(texts, f.Text)
	}
	return texts
}

const rememberTag = "[remember]"

var (
	headingSpanRe = regexp.MustCompile(`(?s)\[tituloinicio\].*?\[titulofin\]`)
	headingBodyRe = regexp.MustCompile(`(?s)\[tituloinicio\](.*?)\[titulofin\]`)
	eventMarkerRe = regexp.MustCompile(`\[evento\d+\]`)
	firstTokenRe  = regexp.MustCompile(`(\[evento\d+\])\s+(\S+)`)
	linkRe        = regexp.MustCompile(`\[linki\](https?://[^\s\[]+)\[linke\](\S+)`)
	timestampRe   = regexp.MustCompile(`<t:(\d+):F>`)
)

// ReminderKey is the event key handed to the reminder button of the n-th
// (1-based) eligible fragment.
func ReminderKey(n int) string {
	return fmt.Sprintf("reminder_%d", n)
}

// Parse converts announcement markup into display sections and the list of
// fragments that get a reminder button.
func Parse(raw string) Result {
	var res Result

	last := 0
	for _, loc := range headingSpanRe.FindAllStringIndex(raw, -1) {
		res.parseEvents(raw[last:loc[0]])
		res.parseHeading(raw[loc[0]:loc[1]])
		last = loc[1]
	}
	res.parseEvents(raw[last:])

	return res
}

func (r *Result) parseHeading(span string) {
	m := headingBodyRe.FindStringSubmatch(span)
	if m == nil {
		r.parseEvents(span)
		return
	}
	r.Sections = append(r.Sections, Section{Kind: SectionHeading, Label: m[1]})
}

func (r *Result) parseEvents(span string) {
	markers := eventMarkerRe.FindAllStringIndex(span, -1)
	for i, loc := range markers {
		end := len(span)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		r.addEvent(strings.TrimSpace(span[loc[0]:end]))
	}
}

func (r *Result) addEvent(block string) {
	if loc := firstTokenRe.FindStringSubmatchIndex(block); loc != nil {
		block = block[:loc[0]] + block[loc[2]:loc[3]] + " **" + block[loc[4]:loc[5]] + "**" + block[loc[1]:]
	}

	if strings.Contains(block, rememberTag) {
		r.Eligible = append(r.Eligible, Fragment{
			Key:     ReminderKey(len(r.Eligible) + 1),
			Text:    block,
			Section: len(r.Sections),
		})
		block = strings.TrimSpace(strings.ReplaceAll(block, rememberTag, ""))
	}

	block = linkRe.ReplaceAllString(block, "[$2]($1)")
	block = strings.ReplaceAll(block, ")(", ") - (")

	r.Sections = append(r.Sections, Section{Kind: SectionBody, Text: block})
}

// ExtractTime returns the instant carried by the first <t:UNIX:F> marker in text.
func ExtractTime(text string) (time.Time, bool) {
	m := timestampRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}
