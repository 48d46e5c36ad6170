package codec

// IsValidISBN reports whether s looks like an ISBN: 10 to 13 characters made
// of digits and hyphens. It is a format check for input layers only; the
// codec and the catalog accept any non-empty id.
func IsValidISBN(s string) bool {
	if len(s) < 10 || len(s) > 13 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
