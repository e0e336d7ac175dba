package domain

import "strings"

// Normalize lowercases the host and trims the default port, so every spelling of the same
// host has the same key.
func Normalize(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))

	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == '.' || host[i] == ']' {
			break
		} else if host[i] == ':' {
			if host[i+1:] == "80" {
				// only the default port. Non-default must always be presented
				host = host[:i]
			}

			break
		}
	}

	return host
}
