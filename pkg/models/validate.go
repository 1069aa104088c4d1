package models

import (
	"regexp"
	"strings"
)

var (
	reDomain = regexp.MustCompile(`^[a-z0-9-]+\.[a-z]{2,}$`)
	reEmail  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidDomain accepts root domains only: one lowercase label and a TLD.
func ValidDomain(d string) bool {
	return reDomain.MatchString(strings.TrimSpace(d))
}

func ValidEmail(e string) bool {
	return reEmail.MatchString(strings.TrimSpace(e))
}
