package domain

// CoalesceStr returns the first non-empty value, or "".
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
