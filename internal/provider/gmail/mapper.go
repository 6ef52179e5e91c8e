package gmail

import (
	"strings"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	gmailapi "google.golang.org/api/gmail/v1"
)

// mapMessage converts a metadata-format Gmail message to a MessageMeta.
// Missing headers become empty strings, never errors.
func mapMessage(msg *gmailapi.Message) *domain.MessageMeta {
	var headers []*gmailapi.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	from := findHeader(headers, "From")
	return &domain.MessageMeta{
		ID:      msg.Id,
		From:    from,
		To:      findHeader(headers, "To"),
		Subject: findHeader(headers, "Subject"),
		Date:    findHeader(headers, "Date"),
		Snippet: msg.Snippet,
		Sender:  domain.NormalizeSender(from),
	}
}

// findHeader performs a case-insensitive lookup for a header value.
func findHeader(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
