package constants

// ContextKeyUserID is the key under which the authenticated user's ID is
// stored in both the session and the request context.
const ContextKeyUserID = "user_id"

// Pagination limits
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8
