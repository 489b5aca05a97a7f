package domain

import "strings"

type declarationKind int

const (
	declBasic declarationKind = iota + 1
	declInverse
	declMultiLine
	declMultiLineReversed
)

// declaration is one card-producing construct found in a file. Lines
// [start, end) hold its text; for multi-line cards end-1 is the answer line.
type declaration struct {
	kind  declarationKind
	front string
	back  string
	start int
	end   int
}

// scanDeclaration classifies lines[i]. Both Extract and UpdateContent go
// through it, so the writer sees exactly the cards the parser sees.
//
// The inverse separator is checked first and the basic separator only when
// it is absent: a ";;;" line declares one reversible pair, not an extra
// basic card whose back starts with ";".
func scanDeclaration(lines []string, i int, syntax Syntax) (declaration, bool) {
	line := strings.TrimSpace(lines[i])
	if line == "" || IsMetadataLine(line) {
		return declaration{}, false
	}
	if front, back, ok := strings.Cut(line, syntax.InverseSeparator); ok {
		return inline(declInverse, front, back, i)
	}
	if front, back, ok := strings.Cut(line, syntax.Separator); ok {
		return inline(declBasic, front, back, i)
	}
	if !strings.HasPrefix(line, "?") {
		return declaration{}, false
	}
	kind, question := declMultiLine, line[1:]
	if strings.HasPrefix(line, "??") {
		kind, question = declMultiLineReversed, line[2:]
	}
	question = strings.TrimSpace(question)
	if question == "" || i+1 >= len(lines) {
		return declaration{}, false
	}
	answer := strings.TrimSpace(lines[i+1])
	if answer == "" || IsMetadataLine(answer) {
		return declaration{}, false
	}
	return declaration{kind: kind, front: question, back: answer, start: i, end: i + 2}, true
}

func inline(kind declarationKind, front, back string, i int) (declaration, bool) {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return declaration{}, false
	}
	return declaration{kind: kind, front: front, back: back, start: i, end: i + 1}, true
}

// cards expands the declaration; reversed siblings follow their forward card
// and never carry a schedule.
func (d declaration) cards(schedule *ScheduleInfo) []Card {
	forward := Card{Front: d.front, Back: d.back, Context: []string{}, Schedule: schedule}
	switch d.kind {
	case declInverse:
		forward.Type = CardTypeBasic
		return []Card{forward, {Front: d.back, Back: d.front, Type: CardTypeReversed, Context: []string{}}}
	case declMultiLineReversed:
		forward.Type = CardTypeMultiLine
		return []Card{forward, {Front: d.back, Back: d.front, Type: CardTypeMultiLineReversed, Context: []string{}}}
	case declMultiLine:
		forward.Type = CardTypeMultiLine
	default:
		forward.Type = CardTypeBasic
	}
	return []Card{forward}
}

// metadataRun returns the end of the run of metadata lines starting at from
// and the first schedule in it that decodes.
func metadataRun(lines []string, from int) (*ScheduleInfo, int) {
	var schedule *ScheduleInfo
	i := from
	for ; i < len(lines) && IsMetadataLine(lines[i]); i++ {
		if schedule != nil {
			continue
		}
		if info, ok := ParseMetadata(lines[i]); ok {
			schedule = &info
		}
	}
	return schedule, i
}

// Extract returns every card declared in content, in file order.
func Extract(content string, syntax Syntax) []Card {
	syntax = syntax.orDefault()
	lines := strings.Split(content, "\n")
	cards := make([]Card, 0)
	for i := 0; i < len(lines); {
		decl, ok := scanDeclaration(lines, i, syntax)
		if !ok {
			i++
			continue
		}
		schedule, next := metadataRun(lines, decl.end)
		cards = append(cards, decl.cards(schedule)...)
		i = next
	}
	return cards
}
