package dbmaintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/orderhub/order-management/internal/audit"
	auditmodel "github.com/orderhub/order-management/internal/core/datamodel/audit"
	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
)

type mockOrderStore struct {
	orders  map[uuid.UUID]*ordermodel.Order
	updated []*ordermodel.Order
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: map[uuid.UUID]*ordermodel.Order{}}
}

func (m *mockOrderStore) GetByID(id uuid.UUID) (*ordermodel.Order, error) {
	if order, ok := m.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockOrderStore) Update(order *ordermodel.Order) error {
	m.orders[order.ID] = order
	m.updated = append(m.updated, order)
	return nil
}

type mockRevisionRepo struct {
	created []*auditmodel.OrderRevision
}

func (m *mockRevisionRepo) Create(revision *auditmodel.OrderRevision) error {
	m.created = append(m.created, revision)
	return nil
}

func (m *mockRevisionRepo) ListByOrderID(uuid.UUID) ([]*auditmodel.OrderRevision, error) {
	return m.created, nil
}

var _ = ginkgo.Describe("OrderMaintenance", func() {
	var (
		store       *mockOrderStore
		revisions   *mockRevisionRepo
		maintenance *OrderMaintenance
		ctx         context.Context
		orderID     uuid.UUID
	)

	noopLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ginkgo.BeforeEach(func() {
		store = newMockOrderStore()
		revisions = &mockRevisionRepo{}
		auditService := audit.NewService(revisions, audit.NewSchema(), noopLogger)
		maintenance = NewOrderMaintenance(store, auditService, noopLogger)
		ctx = context.Background()

		orderID = uuid.New()
		store.orders[orderID] = &ordermodel.Order{
			ID:           orderID,
			Reference:    "ORD-TEST1",
			Status:       ordermodel.StatusDraft,
			BillingEmail: "old@example.com",
			TotalCost:    1000,
		}
	})

	ginkgo.Describe("UpdateBillingEmail", func() {
		ginkgo.It("should update the order and record a revision", func() {
			row := map[string]string{"id": orderID.String(), "billing_email": "new@example.com"}

			err := maintenance.UpdateBillingEmail(ctx, row, Options{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(store.orders[orderID].BillingEmail).To(gomega.Equal("new@example.com"))
			gomega.Expect(revisions.created).To(gomega.HaveLen(1))
			gomega.Expect(revisions.created[0].CreatedBy).To(gomega.Equal("dbmaintenance"))
		})

		ginkgo.It("should skip orders already carrying the email", func() {
			row := map[string]string{"id": orderID.String(), "billing_email": "old@example.com"}

			err := maintenance.UpdateBillingEmail(ctx, row, Options{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(store.updated).To(gomega.BeEmpty())
			gomega.Expect(revisions.created).To(gomega.BeEmpty())
		})

		ginkgo.It("should not persist anything in simulate mode", func() {
			row := map[string]string{"id": orderID.String(), "billing_email": "new@example.com"}

			err := maintenance.UpdateBillingEmail(ctx, row, Options{Simulate: true})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(store.orders[orderID].BillingEmail).To(gomega.Equal("old@example.com"))
			gomega.Expect(revisions.created).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject malformed emails", func() {
			row := map[string]string{"id": orderID.String(), "billing_email": "not-an-email"}

			err := maintenance.UpdateBillingEmail(ctx, row, Options{})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(store.updated).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject rows with an unparseable id", func() {
			row := map[string]string{"id": "not-a-uuid", "billing_email": "new@example.com"}

			err := maintenance.UpdateBillingEmail(ctx, row, Options{})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should fail rows referencing unknown orders", func() {
			row := map[string]string{"id": uuid.NewString(), "billing_email": "new@example.com"}

			err := maintenance.UpdateBillingEmail(ctx, row, Options{})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("CancelOrder", func() {
		ginkgo.It("should cancel a cancellable order and record a revision", func() {
			row := map[string]string{"id": orderID.String()}

			err := maintenance.CancelOrder(ctx, row, Options{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(store.orders[orderID].Status).To(gomega.Equal(ordermodel.StatusCancelled))
			gomega.Expect(revisions.created).To(gomega.HaveLen(1))
		})

		ginkgo.It("should refuse to cancel a paid order", func() {
			store.orders[orderID].Status = ordermodel.StatusPaid
			row := map[string]string{"id": orderID.String()}

			err := maintenance.CancelOrder(ctx, row, Options{})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(store.orders[orderID].Status).To(gomega.Equal(ordermodel.StatusPaid))
		})

		ginkgo.It("should leave the order untouched in simulate mode", func() {
			row := map[string]string{"id": orderID.String()}

			err := maintenance.CancelOrder(ctx, row, Options{Simulate: true})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(store.orders[orderID].Status).To(gomega.Equal(ordermodel.StatusDraft))
		})
	})
})
