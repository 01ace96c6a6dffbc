package xmlapi

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//////////////////////////////////////////////////

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	if u.Scheme == "" {
		return false
	}

	return true
}

// Parses a date-and-time string (RFC3339) as formatted by YouTube at various
// endpoints, and returns the corresponding timestamp (in milliseconds).
//
// On parsing failure, ok is false.
func parseDate(datetime string) (timestamp int64, ok bool) {
	t, err := time.Parse(time.RFC3339, datetime)
	if err != nil {
		return 0, false
	}

	return t.UnixMilli(), true
}

// isIdentifier reports whether s only consists of characters YouTube uses in
// channel and video identifiers, and its length lies within [min, max].
func isIdentifier(s string, min, max int) bool {
	n := len(s)
	if n < min || n > max {
		return false
	}

	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			if r == '-' || r == '_' {
				continue
			}

			return false
		}
	}

	return true
}

//////////////////////////////////////////////////

// headTag is a <link> or <meta> tag with lower-cased attribute keys.
type headTag struct {
	Atom  atom.Atom
	Attrs map[string]string
}

func (t headTag) attr(key string) string {
	return t.Attrs[key]
}

// scanHeadTags cuts every <link> and <meta> tag out of an (arbitrarily large)
// HTML page and parses only those. YouTube pages are several megabytes of
// inline scripts, so parsing the whole document is wasteful.
func scanHeadTags(b []byte) []headTag {
	if len(b) == 0 {
		return nil
	}

	tagEnd := []byte(">")
	markers := [][]byte{[]byte("<link"), []byte("<meta")}

	fragment := []byte("<html><body>")
	p := b[:]
	for {
		startPos := -1
		for _, marker := range markers {
			pos := bytes.Index(p, marker)
			if pos >= 0 && (startPos < 0 || pos < startPos) {
				startPos = pos
			}
		}
		if startPos < 0 {
			break
		}
		p = p[startPos:]

		endPos := bytes.Index(p, tagEnd)
		if endPos < 0 {
			break
		}
		tag := p[:endPos+1]
		p = p[endPos+1:]

		if len(tag) > len("<link")+len(tagEnd) {
			fragment = append(fragment, tag...)
		}
	}
	fragment = append(fragment, []byte("</body></html>")...)

	root, err := html.Parse(bytes.NewReader(fragment))
	if err != nil || root == nil {
		return nil
	}

	var tags []headTag
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		for ; node != nil; node = node.NextSibling {
			if node.Type == html.ElementNode && (node.DataAtom == atom.Link || node.DataAtom == atom.Meta) && len(node.Attr) > 0 {
				tag := headTag{
					Atom:  node.DataAtom,
					Attrs: make(map[string]string, len(node.Attr)),
				}
				for _, attr := range node.Attr {
					tag.Attrs[strings.ToLower(attr.Key)] = strings.TrimSpace(attr.Val)
				}

				tags = append(tags, tag)
			}

			walk(node.FirstChild)
		}
	}
	walk(root)

	return tags
}

// valueAfter returns the part of s following marker, cut at the first of the
// given terminators. ok is false if marker does not occur in s.
func valueAfter(s string, marker string, terminators string) (value string, ok bool) {
	pos := strings.Index(s, marker)
	if pos < 0 {
		return "", false
	}
	value = s[pos+len(marker):]

	if end := strings.IndexAny(value, terminators); end >= 0 {
		value = value[:end]
	}

	return value, true
}
