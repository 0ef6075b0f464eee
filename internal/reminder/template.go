// AngelaMos | 2026
// template.go

package reminder

import (
	"strings"
)

// Message templates keyed by (kind, channel). WhatsApp copy is short
// and casual, email copy carries a salutation and sign-off.
var messageTemplates = map[string]map[string]string{
	KindFollowup: {
		ChannelWhatsApp: "Hi {name}! Just checking in on our conversation. " +
			"Let me know if you have any questions!",
		ChannelEmail: "Hi {name},\n\nI wanted to follow up on our recent " +
			"conversation. Please let me know if you have any questions or " +
			"if there's anything I can help with.\n\nBest regards",
	},
	KindPayment: {
		ChannelWhatsApp: "Hi {name}! This is a friendly reminder about the " +
			"pending payment. Please let me know if you have any questions.",
		ChannelEmail: "Hi {name},\n\nThis is a friendly reminder about your " +
			"pending payment. Please let me know if you have any questions " +
			"or concerns.\n\nBest regards",
	},
}

const fallbackName = "there"

// TemplateMessage renders the canned message for a kind/channel pair
// with the client's name substituted in. Unknown pairs return "".
func TemplateMessage(kind, channel, clientName string) string {
	byChannel, ok := messageTemplates[kind]
	if !ok {
		return ""
	}

	template, ok := byChannel[channel]
	if !ok {
		return ""
	}

	name := strings.TrimSpace(clientName)
	if name == "" {
		name = fallbackName
	}

	return strings.ReplaceAll(template, "{name}", name)
}
