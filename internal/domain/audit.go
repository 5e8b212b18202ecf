package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit event types recorded by the service.
const (
	AuditRegister      = "register"
	AuditLogin         = "login"
	AuditLogout        = "logout"
	AuditProfileUpdate = "profile_update"
	AuditLinkCreate    = "link_create"
	AuditLinkDelete    = "link_delete"
	AuditDomainAdd     = "domain_add"
)

// AuditEntry is an append-only record of a security-relevant action.
// Write-only from this code's perspective.
type AuditEntry struct {
	ID        int64
	ProfileID *uuid.UUID
	EventType string
	Payload   map[string]any

	IP        string
	UserAgent string

	CreatedAt time.Time
}

type AuditRepository interface {
	Insert(ctx context.Context, entry *AuditEntry) error
}
