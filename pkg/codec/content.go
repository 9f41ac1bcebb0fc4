// Package codec packs application-specific fields into the one free-text
// field the remote document store offers, and unpacks them back. Decoding
// tolerates text that was never produced here (a human typing directly in
// the ERP UI) by degrading to best-effort defaults instead of failing.
package codec

import (
	"regexp"
	"strings"
)

// Defaults applied when a tag is absent from the decoded text
const (
	DefaultContentType     = "post"
	DefaultContentPlatform = "instagram"
)

// ContentFields is the structured portion of a content grid item that
// rides inside the remote description field.
type ContentFields struct {
	Type      string
	Platforms []string
	Caption   string
	Notes     string
}

var (
	typeTagRe      = regexp.MustCompile(`\[TYPE:\s*([^\]]*)\]`)
	platformsTagRe = regexp.MustCompile(`\[PLATFORMS:\s*([^\]]*)\]`)
	notesTagRe     = regexp.MustCompile(`\[NOTES:\s*([^\]]*)\]`)
	anyTagRe       = regexp.MustCompile(`\[[A-Z]+:[^\]]*\]`)
)

// EncodeContent emits one bracketed line per known field in a fixed
// order, a blank line, then the free-form caption.
func EncodeContent(f ContentFields) string {
	var b strings.Builder

	b.WriteString("[TYPE: " + f.Type + "]\n")
	b.WriteString("[PLATFORMS: " + strings.Join(f.Platforms, ",") + "]\n")
	if f.Notes != "" {
		b.WriteString("[NOTES: " + f.Notes + "]\n")
	}
	b.WriteString("\n")
	b.WriteString(f.Caption)

	return b.String()
}

// DecodeContent extracts the bracketed fields from text. Absent tags get
// documented defaults; the tag-stripped remainder becomes the caption.
// Never fails, whatever the input.
func DecodeContent(text string) ContentFields {
	f := ContentFields{
		Type:      DefaultContentType,
		Platforms: []string{DefaultContentPlatform},
	}

	if m := typeTagRe.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			f.Type = v
		}
	}
	if m := platformsTagRe.FindStringSubmatch(text); m != nil {
		if platforms := splitList(m[1]); len(platforms) > 0 {
			f.Platforms = platforms
		}
	}
	if m := notesTagRe.FindStringSubmatch(text); m != nil {
		f.Notes = strings.TrimSpace(m[1])
	}

	f.Caption = strings.TrimSpace(anyTagRe.ReplaceAllString(text, ""))

	return f
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
