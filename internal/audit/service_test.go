package audit

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	auditmodel "github.com/orderhub/order-management/internal/core/datamodel/audit"
)

type mockRevisionRepo struct {
	revisions []*auditmodel.OrderRevision
	createErr error
}

func (m *mockRevisionRepo) Create(revision *auditmodel.OrderRevision) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.revisions = append([]*auditmodel.OrderRevision{revision}, m.revisions...)
	return nil
}

func (m *mockRevisionRepo) ListByOrderID(uuid.UUID) ([]*auditmodel.OrderRevision, error) {
	return m.revisions, nil
}

func mustSnapshot(fields map[string]any) json.RawMessage {
	raw, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	return raw
}

var _ = ginkgo.Describe("AuditService", func() {
	var (
		repo    *mockRevisionRepo
		service *Service
		orderID uuid.UUID
	)

	noopLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ginkgo.BeforeEach(func() {
		repo = &mockRevisionRepo{}
		service = NewService(repo, NewSchema(
			FieldDescriptor{Name: "reference", Kind: KindScalar},
			FieldDescriptor{Name: "billing_email", Kind: KindScalar},
		), noopLogger)
		orderID = uuid.New()
	})

	ginkgo.Describe("RecordOrderRevision", func() {
		ginkgo.It("should persist the snapshot with comment and author", func() {
			err := service.RecordOrderRevision(orderID,
				map[string]any{"reference": "ORD-1"}, "Created.", "tester")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.revisions).To(gomega.HaveLen(1))
			gomega.Expect(repo.revisions[0].OrderID).To(gomega.Equal(orderID))
			gomega.Expect(repo.revisions[0].Comment).To(gomega.Equal("Created."))
			gomega.Expect(repo.revisions[0].CreatedBy).To(gomega.Equal("tester"))
		})
	})

	ginkgo.Describe("OrderHistory", func() {
		ginkgo.It("should diff each revision against its predecessor", func() {
			repo.revisions = []*auditmodel.OrderRevision{
				{
					ID:        uuid.New(),
					OrderID:   orderID,
					Snapshot:  mustSnapshot(map[string]any{"reference": "ORD-1", "billing_email": "b@example.com"}),
					CreatedAt: time.Now(),
				},
				{
					ID:        uuid.New(),
					OrderID:   orderID,
					Snapshot:  mustSnapshot(map[string]any{"reference": "ORD-1", "billing_email": "a@example.com"}),
					CreatedAt: time.Now().Add(-time.Hour),
				},
			}

			entries, err := service.OrderHistory(orderID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(2))
			gomega.Expect(entries[0].Changes).To(gomega.HaveKey("billing_email"))
			gomega.Expect(entries[0].Changes["billing_email"]).To(gomega.Equal([]any{"a@example.com", "b@example.com"}))
			gomega.Expect(entries[0].Changes).ToNot(gomega.HaveKey("reference"))
		})

		ginkgo.It("should diff the oldest revision against an empty snapshot", func() {
			repo.revisions = []*auditmodel.OrderRevision{
				{
					ID:       uuid.New(),
					OrderID:  orderID,
					Snapshot: mustSnapshot(map[string]any{"reference": "ORD-1"}),
				},
			}

			entries, err := service.OrderHistory(orderID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(1))
			gomega.Expect(entries[0].Changes["reference"]).To(gomega.Equal([]any{nil, "ORD-1"}))
		})

		ginkgo.It("should skip revisions whose snapshot cannot be decoded", func() {
			repo.revisions = []*auditmodel.OrderRevision{
				{ID: uuid.New(), OrderID: orderID, Snapshot: json.RawMessage(`{broken`)},
				{ID: uuid.New(), OrderID: orderID, Snapshot: mustSnapshot(map[string]any{"reference": "ORD-1"})},
			}

			entries, err := service.OrderHistory(orderID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(1))
		})
	})
})
