package schema

import "strings"

// JoinDocLines assembles doc_lines into a single flowed string. Non-empty
// lines are joined with a space into a paragraph and each empty line is a
// literal newline (paragraph break). Separators at either end are dropped.
func JoinDocLines(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(line)
		sb.WriteString(" ")
	}
	out := strings.ReplaceAll(sb.String(), " \n", "\n")
	return strings.Trim(out, " \n")
}
