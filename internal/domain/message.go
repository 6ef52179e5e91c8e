package domain

import (
	"net/mail"
	"strings"
)

// UnknownSender is the sender key used when a message carries no usable
// From header.
const UnknownSender = "unknown"

// MessageMeta holds the header-level view of a message. The body is never
// fetched; Snippet is the short excerpt the mailbox provides.
type MessageMeta struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
	Sender  string `json:"sender"`
}

// NormalizeSender derives the grouping key from a raw From header: the
// lowercase email address when the header parses, the lowercase trimmed raw
// string otherwise, and UnknownSender when the header is empty. The function
// is idempotent.
func NormalizeSender(from string) string {
	s := strings.TrimSpace(from)
	if s == "" {
		return UnknownSender
	}
	if addr, err := mail.ParseAddress(s); err == nil && addr.Address != "" {
		return strings.ToLower(addr.Address)
	}
	return strings.ToLower(s)
}
