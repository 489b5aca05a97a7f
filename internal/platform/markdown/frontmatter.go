package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// splitRaw cuts a leading yaml block off content. CRLF files are accepted.
func splitRaw(content string) (raw string, body string, ok bool, err error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, separator) {
		return "", content, false, nil
	}
	rest := strings.TrimPrefix(normalized, separator)
	if strings.HasPrefix(rest, separator) {
		return "", rest[len(separator):], true, nil
	}
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		if strings.HasSuffix(rest, "\n---") {
			return strings.TrimSuffix(rest, "\n---"), "", true, nil
		}
		return "", "", false, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	return rest[:idx], rest[idx+len("\n---\n"):], true, nil
}

// DecodeFrontmatter unmarshals the yaml block of content into out and
// returns the remaining body. Content without frontmatter leaves out untouched.
func DecodeFrontmatter(content string, out any) (string, error) {
	raw, body, ok, err := splitRaw(content)
	if err != nil {
		return "", err
	}
	if !ok {
		return body, nil
	}
	if err := yaml.Unmarshal([]byte(raw), out); err != nil {
		return "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return body, nil
}

func RenderFrontmatter(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
