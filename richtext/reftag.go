package richtext

import (
	"regexp"
	"strings"
)

var (
	// {kind:id[@site][:attr]||url}
	refTagRegexp = regexp.MustCompile(`\{([A-Za-z][\w]*):([^@:}|\s]+)(?:@([^:}|\s]+))?(?::([^}|\s]+))?\|\|([^}\s]+)\}`)

	// href="url#kind:id[@site][:attr]"
	refURLRegexp = regexp.MustCompile(`(href|src)=(["'])([^"'#]*)#([A-Za-z][\w]*):(\d+)(?:@(\d+))?(?::([\w.]+))?["']`)
)

// RefTag is a reference to an element
// with the URL it resolved to.
type RefTag struct {
	Kind string
	ID   string
	Site string
	Attr string
	URL  string
}

// Ref returns the reference without URL
// as "kind:id[@site][:attr]".
func (t RefTag) Ref() string {
	var b strings.Builder
	b.WriteString(t.Kind)
	b.WriteByte(':')
	b.WriteString(t.ID)
	if t.Site != "" {
		b.WriteByte('@')
		b.WriteString(t.Site)
	}
	if t.Attr != "" {
		b.WriteByte(':')
		b.WriteString(t.Attr)
	}
	return b.String()
}

// String returns the tag as "{kind:id[@site][:attr]||url}".
func (t RefTag) String() string {
	return "{" + t.Ref() + "||" + t.URL + "}"
}

// ParseRefTags returns all reference tags in str.
func ParseRefTags(str string) []RefTag {
	var tags []RefTag
	for _, m := range refTagRegexp.FindAllStringSubmatch(str, -1) {
		tags = append(tags, RefTag{Kind: m[1], ID: m[2], Site: m[3], Attr: m[4], URL: m[5]})
	}
	return tags
}

// ExpandRefTags replaces every reference tag in str
// with its URL and the reference as fragment.
func ExpandRefTags(str string) string {
	return refTagRegexp.ReplaceAllStringFunc(str, func(tag string) string {
		m := refTagRegexp.FindStringSubmatch(tag)
		t := RefTag{Kind: m[1], ID: m[2], Site: m[3], Attr: m[4], URL: m[5]}
		return t.URL + "#" + t.Ref()
	})
}

// FoldRefTags replaces href and src attribute values
// with a reference fragment by their reference tag.
func FoldRefTags(html string) string {
	return refURLRegexp.ReplaceAllStringFunc(html, func(attr string) string {
		m := refURLRegexp.FindStringSubmatch(attr)
		t := RefTag{Kind: m[4], ID: m[5], Site: m[6], Attr: m[7], URL: m[3]}
		return m[1] + "=" + m[2] + t.String() + m[2]
	})
}
