// Package profileview derives the presentation pieces of a profile detail page.
package profileview

import (
	"sort"
	"strings"
	"unicode"

	"profile-listing-go/internal/models"
)

// Labels are the literal prefixes that split a description into sections.
var Labels = []string{
	"About Me:",
	"Interests & Hobbies:",
	"What I Offer:",
	"Values & Privacy:",
}

// Section is one block of a description. Title is empty for untitled text.
type Section struct {
	Title string
	Body  string
}

// Sections splits description at the first occurrence of each label, in
// order of appearance. Text before the first label becomes an untitled
// section. Without any label the whole text is one untitled section.
func Sections(description string) []Section {
	text := strings.TrimSpace(description)
	if text == "" {
		return nil
	}

	type mark struct {
		at    int
		label string
	}
	var marks []mark
	for _, l := range Labels {
		if i := strings.Index(text, l); i >= 0 {
			marks = append(marks, mark{at: i, label: l})
		}
	}
	if len(marks) == 0 {
		return []Section{{Body: text}}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].at < marks[j].at })

	var out []Section
	if pre := strings.TrimSpace(text[:marks[0].at]); pre != "" {
		out = append(out, Section{Body: pre})
	}
	for i, m := range marks {
		start := m.at + len(m.label)
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].at
		}
		if start > end {
			start = end
		}
		out = append(out, Section{
			Title: strings.TrimSuffix(m.label, ":"),
			Body:  strings.TrimSpace(text[start:end]),
		})
	}
	return out
}

// TelURL builds a tel: link, keeping digits and a leading plus.
func TelURL(contact string) string {
	n := phoneDigits(contact)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(strings.TrimSpace(contact), "+") {
		n = "+" + n
	}
	return "tel:" + n
}

// WhatsAppURL builds a wa.me chat link from the digits of contact.
func WhatsAppURL(contact string) string {
	n := phoneDigits(contact)
	if n == "" {
		return ""
	}
	return "https://wa.me/" + n
}

func phoneDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Gallery is the ordered image strip: main image then gallery images.
func Gallery(p models.Profile) []string {
	return p.ImageURLs()
}

// Featured returns the first n featured profiles, preserving order.
func Featured(profiles []models.Profile, n int) []models.Profile {
	var out []models.Profile
	for _, p := range profiles {
		if n > 0 && len(out) == n {
			break
		}
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out
}
