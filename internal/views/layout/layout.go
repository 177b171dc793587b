package layout

func mainWidth(narrow bool) string {
	if narrow {
		return "narrow"
	}
	return "wide"
}
