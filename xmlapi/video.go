package xmlapi

//////////////////////////////////////////////////

// Checks (roughly) if the given string is a valid YouTube video ID.
func IsValidVideoID(s string) bool {
	return isIdentifier(s, 6, 48)
}
