package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"note-ai/assistant/internal/chat"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want chat.ErrorKind
	}{
		{
			name: "Sign-in phrase",
			raw:  "rpc error: code = Unauthenticated desc = Please sign in to use AI features",
			want: chat.ErrSignInRequired,
		},
		{
			name: "Invalid API key",
			raw:  "Invalid API key. Please check your AI configuration in workspace settings.",
			want: chat.ErrInvalidCredential,
		},
		{
			name: "Bare unauthenticated code",
			raw:  "code = Unauthenticated desc = token expired",
			want: chat.ErrInvalidCredential,
		},
		{
			name: "Rate limit",
			raw:  "Rate limit exceeded. Please try again later.",
			want: chat.ErrRateLimited,
		},
		{
			name: "Resource exhausted code",
			raw:  "code = ResourceExhausted desc = too many requests",
			want: chat.ErrRateLimited,
		},
		{
			name: "Quota",
			raw:  "You exceeded your current quota, please check your plan and billing details",
			want: chat.ErrQuotaExceeded,
		},
		{
			name: "Incomplete configuration",
			raw:  "AI configuration incomplete. Please configure model, API key, and base URL.",
			want: chat.ErrConfigIncomplete,
		},
		{
			name: "Missing configuration",
			raw:  "AI configuration is not set up. Contact your administrator to set up AI configuration.",
			want: chat.ErrConfigAbsent,
		},
		{
			name: "Unknown message",
			raw:  "connection reset by peer",
			want: chat.ErrUnclassified,
		},
		{
			name: "Case insensitive",
			raw:  "RATE LIMIT EXCEEDED",
			want: chat.ErrRateLimited,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, chat.Classify(tc.raw))
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Run("Classified kinds map to stable phrasing", func(t *testing.T) {
		got := chat.UserMessage(chat.ErrRateLimited, "code = ResourceExhausted")
		assert.Equal(t, "Rate limit exceeded. Please try again later.", got)
	})

	t.Run("Unclassified passes the raw message through", func(t *testing.T) {
		got := chat.UserMessage(chat.ErrUnclassified, "connection reset by peer")
		assert.Equal(t, "connection reset by peer", got)
	})
}
