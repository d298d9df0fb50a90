// Package user resolves the operator identity used when minting tokens.
package user

import (
	"os"
	"os/user"
	"strings"
)

// Fallback is used when no identity can be determined
const Fallback = "unknown"

// GetCurrentUsername returns the current system username.
// It tries user.Current(), then the USER environment variable, then Fallback.
func GetCurrentUsername() string {
	currentUser, err := user.Current()
	if err == nil && currentUser.Username != "" {
		return stripDomain(currentUser.Username)
	}
	if username := os.Getenv("USER"); username != "" {
		return username
	}
	return Fallback
}

// Resolve returns explicit when set, otherwise the current system username
func Resolve(explicit string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	return GetCurrentUsername()
}

// stripDomain drops a Windows "DOMAIN\" prefix
func stripDomain(name string) string {
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[i+1:]
	}
	return name
}
