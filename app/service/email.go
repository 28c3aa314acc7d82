package service

import "strings"

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index key off a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
