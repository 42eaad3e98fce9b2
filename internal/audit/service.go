package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditmodel "github.com/orderhub/order-management/internal/core/datamodel/audit"
)

// RevisionRepository stores and lists order snapshots, newest first.
type RevisionRepository interface {
	Create(revision *auditmodel.OrderRevision) error
	ListByOrderID(orderID uuid.UUID) ([]*auditmodel.OrderRevision, error)
}

// HistoryEntry is one revision with its delta against the previous one.
type HistoryEntry struct {
	RevisionID uuid.UUID        `json:"revision_id"`
	CreatedAt  time.Time        `json:"created_at"`
	CreatedBy  string           `json:"created_by,omitempty"`
	Comment    string           `json:"comment,omitempty"`
	Changes    map[string][]any `json:"changes"`
}

type Service struct {
	repo   RevisionRepository
	schema Schema
	logger *slog.Logger
}

func NewService(repo RevisionRepository, schema Schema, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		schema: schema,
		logger: logger,
	}
}

// RecordOrderRevision persists a flattened snapshot of the order.
func (s *Service) RecordOrderRevision(orderID uuid.UUID, snapshot map[string]any, comment, createdBy string) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	revision := &auditmodel.OrderRevision{
		ID:        uuid.New(),
		OrderID:   orderID,
		Snapshot:  raw,
		Comment:   comment,
		CreatedBy: createdBy,
	}

	if err := s.repo.Create(revision); err != nil {
		s.logger.Error("failed to record order revision", "order_id", orderID, "error", err)
		return err
	}

	return nil
}

// OrderHistory returns the order's revisions newest first, each with the
// rendered diff against its predecessor. The oldest revision diffs against
// an empty snapshot, so it shows every populated field.
func (s *Service) OrderHistory(orderID uuid.UUID) ([]HistoryEntry, error) {
	revisions, err := s.repo.ListByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(revisions))
	for i, revision := range revisions {
		newFields, err := revision.Fields()
		if err != nil {
			s.logger.Error("skipping unreadable revision snapshot",
				"revision_id", revision.ID, "error", err)
			continue
		}

		oldFields := map[string]any{}
		if i+1 < len(revisions) {
			oldFields, err = revisions[i+1].Fields()
			if err != nil {
				s.logger.Error("treating unreadable predecessor snapshot as empty",
					"revision_id", revisions[i+1].ID, "error", err)
				oldFields = map[string]any{}
			}
		}

		entries = append(entries, HistoryEntry{
			RevisionID: revision.ID,
			CreatedAt:  revision.CreatedAt,
			CreatedBy:  revision.CreatedBy,
			Comment:    revision.Comment,
			Changes:    DiffVersions(s.schema, oldFields, newFields),
		})
	}

	return entries, nil
}
