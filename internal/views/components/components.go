package components

func noticeKind(kind string) string {
	switch kind {
	case "success", "error":
		return kind
	default:
		return "info"
	}
}

// padRow sizes row to width cells, dropping any extras.
func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
