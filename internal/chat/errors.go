package chat

import "strings"

// ErrorKind classifies a generation failure for presentation. The transport
// does not carry a structured code in all cases, so classification matches
// known phrases in the raw message. Deliberately loose: an unknown message
// passes through untouched.
type ErrorKind int

const (
	ErrUnclassified ErrorKind = iota
	ErrSignInRequired
	ErrInvalidCredential
	ErrRateLimited
	ErrQuotaExceeded
	ErrConfigIncomplete
	ErrConfigAbsent
)

// Classify maps a raw error message onto an ErrorKind. Match order matters:
// the sign-in phrase also contains "ai features", and the incomplete-config
// phrase must win over the not-set-up one.
func Classify(raw string) ErrorKind {
	msg := strings.ToLower(raw)
	switch {
	case strings.Contains(msg, "please sign in to use ai features"):
		return ErrSignInRequired
	case strings.Contains(msg, "invalid api key") || strings.Contains(msg, "unauthenticated"):
		return ErrInvalidCredential
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource exhausted"):
		return ErrRateLimited
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return ErrQuotaExceeded
	case strings.Contains(msg, "ai configuration incomplete") || strings.Contains(msg, "failed precondition"):
		return ErrConfigIncomplete
	case strings.Contains(msg, "ai configuration is not set up") || strings.Contains(msg, "contact your administrator"):
		return ErrConfigAbsent
	default:
		return ErrUnclassified
	}
}

// UserMessage renders an ErrorKind as the message shown to the user. For
// ErrUnclassified the raw message is passed through.
func UserMessage(kind ErrorKind, raw string) string {
	switch kind {
	case ErrSignInRequired:
		return "Please sign in to use AI features."
	case ErrInvalidCredential:
		return "Invalid API key. Please check your AI settings."
	case ErrRateLimited:
		return "Rate limit exceeded. Please try again later."
	case ErrQuotaExceeded:
		return "Quota exceeded. Please check your provider account."
	case ErrConfigIncomplete:
		return "AI configuration is incomplete. Please finish setting it up in workspace settings."
	case ErrConfigAbsent:
		return "AI is not configured. Please set up the AI configuration in workspace settings."
	default:
		return raw
	}
}
