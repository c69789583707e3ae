package sheets

import "strings"

// notFoundCell is written for any value the resolution could not
// establish.
const notFoundCell = "不明"

// SafeCell normalizes a resolved value for a spreadsheet cell: empty
// strings and the pipeline's absence sentinels all render as 不明.
func SafeCell(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return notFoundCell
	}
	switch strings.ToLower(s) {
	case "unknown", "false", "none", "null":
		return notFoundCell
	}
	return s
}
