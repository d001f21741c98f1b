package repo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded against mutations.
const (
	ActionImport = "import"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditMeta carries request-scoped client details into the store layer so
// the audit trail can attribute mutations.
type AuditMeta struct {
	IPAddress string
	UserAgent string
}

// AuditEvent is the wire form of a mutation event published to the audit
// recorder. OperationID is assigned once per mutation so redelivery stays
// idempotent.
type AuditEvent struct {
	OperationID string    `json:"operationId"`
	UserID      string    `json:"userId"`
	Action      string    `json:"action"`
	EntityID    string    `json:"entityId,omitempty"`
	Description string    `json:"description"`
	OldValues   string    `json:"oldValues,omitempty"`
	NewValues   string    `json:"newValues,omitempty"`
	Metadata    string    `json:"metadata,omitempty"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// publishEvent emits a mutation event without blocking the request path.
// A full queue is logged and dropped; the data write it describes has
// already committed.
func (r *Repository) publishEvent(ev AuditEvent) {
	if r.events == nil {
		return
	}
	ev.OperationID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(ev)
	if err != nil {
		r.logger.Error("marshal audit event", "action", ev.Action, "error", err)
		return
	}
	publish := r.events.Publish
	if tp, ok := r.events.(interface{ TryPublish([]byte) error }); ok {
		publish = tp.TryPublish
	}
	if err := publish(payload); err != nil {
		r.logger.Error("publish audit event", "action", ev.Action, "error", err)
	}
}
