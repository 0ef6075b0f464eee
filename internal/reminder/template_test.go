// AngelaMos | 2026
// template_test.go

package reminder

import (
	"strings"
	"testing"
)

func TestTemplateMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		kind       string
		channel    string
		clientName string
		contains   string
	}{
		{
			name:       "followup whatsapp",
			kind:       KindFollowup,
			channel:    ChannelWhatsApp,
			clientName: "Alice",
			contains:   "Hi Alice! Just checking in",
		},
		{
			name:       "followup email has sign-off",
			kind:       KindFollowup,
			channel:    ChannelEmail,
			clientName: "Alice",
			contains:   "Best regards",
		},
		{
			name:       "payment whatsapp",
			kind:       KindPayment,
			channel:    ChannelWhatsApp,
			clientName: "Bob",
			contains:   "Hi Bob! This is a friendly reminder about the pending payment",
		},
		{
			name:       "payment email",
			kind:       KindPayment,
			channel:    ChannelEmail,
			clientName: "Bob",
			contains:   "Hi Bob,\n\nThis is a friendly reminder",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := TemplateMessage(tc.kind, tc.channel, tc.clientName)
			if !strings.Contains(got, tc.contains) {
				t.Fatalf("TemplateMessage() = %q, want it to contain %q",
					got, tc.contains)
			}
			if strings.Contains(got, "{name}") {
				t.Fatalf("placeholder left unsubstituted: %q", got)
			}
		})
	}
}

func TestTemplateMessageFallbackName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   "} {
		got := TemplateMessage(KindFollowup, ChannelWhatsApp, name)
		if !strings.Contains(got, "Hi there!") {
			t.Fatalf("TemplateMessage(%q) = %q, want fallback name", name, got)
		}
	}
}

func TestTemplateMessageUnknownPair(t *testing.T) {
	t.Parallel()

	if got := TemplateMessage("invoice", ChannelEmail, "Alice"); got != "" {
		t.Fatalf("TemplateMessage(unknown kind) = %q, want empty", got)
	}
	if got := TemplateMessage(KindFollowup, "sms", "Alice"); got != "" {
		t.Fatalf("TemplateMessage(unknown channel) = %q, want empty", got)
	}
}
