package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Roles a User account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Brick lifecycle statuses.
const (
	BrickStatusPublished = "published"
	BrickStatusPending   = "pending"
	BrickStatusRejected  = "rejected"
)

// NewPartRequest lifecycle statuses. A request leaves "submitted" exactly
// once and never transitions again.
const (
	RequestStatusSubmitted = "submitted"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
)

// Notification types.
const (
	NotificationRequestApproved = "request_approved"
	NotificationRequestRejected = "request_rejected"
	NotificationEditApproved    = "edit_approved"
	NotificationEditRejected    = "edit_rejected"
	NotificationNewComment      = "new_comment"
	NotificationSystem          = "system"
)

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
