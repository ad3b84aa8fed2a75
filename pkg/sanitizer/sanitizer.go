package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Strategy is a single normalization step; a Pipeline runs them in order.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reCollapseSpace = regexp.MustCompile(`\s+`)
	reControlChars  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	reValidPhone    = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{6,19}$`)

	// Regions tried when a phone number arrives without a country code.
	fallbackRegions = []string{"US", "GB", "IL"}
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

func collapseWhitespace(s string) string {
	return reCollapseSpace.ReplaceAllString(s, " ")
}

// SanitizeName cleans a customer-supplied display name: runs of
// whitespace collapse to a single space, remaining control characters
// are dropped. Collapse runs first so embedded newlines and tabs become
// spaces instead of vanishing.
func SanitizeName(input string) string {
	p := Pipeline{collapseWhitespace, stripControl, trim}
	return p.Apply(input)
}

// SanitizeFreeText cleans notes and cancellation reasons. Same rules as
// names but newlines survive.
func SanitizeFreeText(input string) string {
	keepNewlines := func(s string) string {
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSpace(collapseWhitespace(stripControl(line)))
		}
		return strings.Join(lines, "\n")
	}
	p := Pipeline{keepNewlines, trim}
	return p.Apply(input)
}

// SanitizeEmail lowercases and trims. Format validation is the
// validator's job, not ours.
func SanitizeEmail(input string) string {
	p := Pipeline{trim, strings.ToLower}
	return p.Apply(input)
}

// SanitizePhone normalizes to E.164 when the number parses; inputs that
// don't look like phone numbers at all come back empty so validation
// rejects them with a useful message.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if !reValidPhone.MatchString(phone) {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if parsed, err := phonenumbers.Parse(phone, ""); err == nil {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
		return ""
	}

	for _, region := range fallbackRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
