package store

import (
	"context"

	"quote-service/internal/models"
	"quote-service/internal/shared"
)

// InsertAuditEntry records an event; an event ID already present is ignored
func (s *Store) InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO audit_log (event_id, event_type, entity, entity_id, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING`),
		entry.EventID, entry.EventType, entry.Entity, entry.EntityID, entry.Payload)
	return shared.StoreError("insert audit entry", err)
}

// ListAuditEntries retrieves audit entries in insertion order
func (s *Store) ListAuditEntries(ctx context.Context) ([]models.AuditEntry, error) {
	entries := []models.AuditEntry{}
	err := s.db.SelectContext(ctx, &entries,
		"SELECT id, event_id, event_type, entity, entity_id, payload FROM audit_log ORDER BY id")
	if err != nil {
		return nil, shared.StoreError("select audit entries", err)
	}
	return entries, nil
}
