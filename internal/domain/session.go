// Package domain holds the chat entities shared by the backend and the client.
package domain

import (
	"time"
	"unicode/utf8"
)

// DefaultSessionTitle is used when a session is created without a title.
const DefaultSessionTitle = "নতুন কথোপকথন"

// titleLimit is the number of characters kept from the first message when a
// session is created implicitly.
const titleLimit = 30

// Session is a titled conversation container.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TruncateTitle derives a session title from the first message of a
// conversation: the first 30 characters followed by "..." when longer.
func TruncateTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleLimit]) + "..."
}
