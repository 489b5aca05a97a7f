package domain

import (
	"slices"
	"strings"
)

// UpdateContent rewrites the SRS metadata of every card matched by updates
// and leaves all other lines untouched. Each update is used at most once;
// those that match no forward card come back in Unmatched.
func UpdateContent(original string, updates []CardUpdate, syntax Syntax) MergeResult {
	syntax = syntax.orDefault()
	lines := strings.Split(original, "\n")
	pending := slices.Clone(updates)
	out := make([]string, 0, len(lines)+len(updates))
	matched := 0

	for i := 0; i < len(lines); {
		decl, ok := scanDeclaration(lines, i, syntax)
		if !ok {
			out = append(out, lines[i])
			i++
			continue
		}
		out = append(out, lines[decl.start:decl.end]...)
		_, metaEnd := metadataRun(lines, decl.end)

		idx := matchUpdate(pending, decl.front, decl.back)
		if idx < 0 {
			out = append(out, lines[decl.end:metaEnd]...)
			i = metaEnd
			continue
		}
		u := pending[idx]
		pending = slices.Delete(pending, idx, idx+1)
		out = append(out, FormatMetadata(u.Interval, u.Ease, u.Due)+lineEnding(lines[decl.end-1]))
		matched++
		i = metaEnd
	}

	return MergeResult{
		Content:   strings.Join(out, "\n"),
		Matched:   matched,
		Unmatched: pending,
	}
}

func matchUpdate(pending []CardUpdate, front, back string) int {
	for i, u := range pending {
		if strings.TrimSpace(u.Front) != front {
			continue
		}
		ub := strings.TrimSpace(u.Back)
		if ub != "" && back != "" && ub != back {
			continue
		}
		return i
	}
	return -1
}

func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r") {
		return "\r"
	}
	return ""
}
