package utils

// ToStringSlice keeps the string elements of slice, dropping everything else.
func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// Redact masks all but the first keep characters of s.
func Redact(s string, keep int) string {
	if s == "" {
		return ""
	}
	if keep < 0 {
		keep = 0
	}
	if len(s) <= keep {
		return "***"
	}
	return s[:keep] + "***"
}
