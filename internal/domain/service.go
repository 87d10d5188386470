package domain

import (
	"fmt"
	"strings"
)

// Service describes one hosted service and the subdomain it is reachable on.
type Service struct {
	ID          int    `json:"id"`
	Image       string `json:"image"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Subdomain is the first DNS label only.
	// Example: git
	Subdomain string `json:"subdomain"`

	Tags []Tag `json:"tags"`
}

// URL returns the public address of the service under baseDomain.
// An empty subdomain yields the bare domain.
func (s Service) URL(baseDomain string) string {
	baseDomain = strings.Trim(baseDomain, ".")
	sub := strings.Trim(s.Subdomain, ".")
	if sub == "" {
		return fmt.Sprintf("https://%s", baseDomain)
	}
	return fmt.Sprintf("https://%s.%s", sub, baseDomain)
}
