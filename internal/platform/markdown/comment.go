package markdown

import "strings"

const (
	commentOpen  = "<!--"
	commentClose = "-->"
)

// Comment renders a single-line HTML comment carrying a tagged payload,
// e.g. Comment("SRS", "a=1") == "<!-- SRS: a=1 -->".
func Comment(tag, payload string) string {
	return commentOpen + " " + tag + ": " + payload + " " + commentClose
}

// HasCommentTag reports whether line opens a comment labelled with tag.
// Surrounding whitespace and spacing after "<!--" are ignored.
func HasCommentTag(line, tag string) bool {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, commentOpen) {
		return false
	}
	s = strings.TrimLeft(s[len(commentOpen):], " \t")
	return strings.HasPrefix(s, tag+":")
}

// ParseComment returns the payload of a complete single-line comment
// labelled with tag.
func ParseComment(line, tag string) (string, bool) {
	if !HasCommentTag(line, tag) {
		return "", false
	}
	s := strings.TrimSpace(line)
	if !strings.HasSuffix(s, commentClose) {
		return "", false
	}
	s = strings.TrimSuffix(s[len(commentOpen):], commentClose)
	s = strings.TrimLeft(s, " \t")
	s = strings.TrimPrefix(s, tag+":")
	return strings.TrimSpace(s), true
}
