package order

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/orderhub/order-management/internal"
	"github.com/orderhub/order-management/internal/audit"
	auditmodel "github.com/orderhub/order-management/internal/core/datamodel/audit"
	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
)

func TestOrderService(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Order Module Suite")
}

type mockOrderRepo struct {
	orders    map[uuid.UUID]*ordermodel.Order
	createErr error
	updateErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[uuid.UUID]*ordermodel.Order{}}
}

func (m *mockOrderRepo) Create(order *ordermodel.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(id uuid.UUID) (*ordermodel.Order, error) {
	if order, ok := m.orders[id]; ok {
		return order, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockOrderRepo) GetByReference(reference string) (*ordermodel.Order, error) {
	for _, order := range m.orders {
		if order.Reference == reference {
			return order, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockOrderRepo) List(limit, offset int) ([]*ordermodel.Order, error) {
	var out []*ordermodel.Order
	for _, order := range m.orders {
		out = append(out, order)
	}
	return out, nil
}

func (m *mockOrderRepo) Update(order *ordermodel.Order) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.orders[order.ID] = order
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

var _ = ginkgo.Describe("OrderService", func() {
	var (
		repo      *mockOrderRepo
		revisions *mockRevisionRepo
		service   *Service
	)

	noopLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ginkgo.BeforeEach(func() {
		repo = newMockOrderRepo()
		revisions = &mockRevisionRepo{}
		service = NewService(repo, audit.NewService(revisions, audit.NewSchema(), noopLogger), noopLogger)
	})

	ginkgo.Describe("CreateOrder", func() {
		ginkgo.It("should create a draft order and record a revision", func() {
			dto := CreateOrderDTO{
				BillingEmail: "billing@example.com",
				TotalCost:    150000,
			}

			order, err := service.CreateOrder(dto, "tester")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(order.Status).To(gomega.Equal(ordermodel.StatusDraft))
			gomega.Expect(order.Reference).To(gomega.HavePrefix("ORD-"))
			gomega.Expect(repo.orders).To(gomega.HaveKey(order.ID))
			gomega.Expect(revisions.created).To(gomega.HaveLen(1))
			gomega.Expect(revisions.created[0].CreatedBy).To(gomega.Equal("tester"))
		})

		ginkgo.It("should keep an explicitly supplied reference", func() {
			dto := CreateOrderDTO{Reference: "ORD-CUSTOM1", TotalCost: 100}

			order, err := service.CreateOrder(dto, "tester")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(order.Reference).To(gomega.Equal("ORD-CUSTOM1"))
		})

		ginkgo.It("should reject a non-positive total cost", func() {
			dto := CreateOrderDTO{TotalCost: 0}

			_, err := service.CreateOrder(dto, "tester")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.orders).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("AcceptQuote", func() {
		var orderID uuid.UUID

		ginkgo.BeforeEach(func() {
			orderID = uuid.New()
			repo.orders[orderID] = &ordermodel.Order{
				ID:        orderID,
				Reference: "ORD-TEST1",
				Status:    ordermodel.StatusDraft,
				TotalCost: 100,
			}
		})

		ginkgo.It("should move a draft order to quote accepted", func() {
			order, err := service.AcceptQuote(orderID, "tester")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(order.Status).To(gomega.Equal(ordermodel.StatusQuoteAccepted))
			gomega.Expect(order.CanBePaid()).To(gomega.BeTrue())
			gomega.Expect(revisions.created).To(gomega.HaveLen(1))
		})

		ginkgo.It("should refuse a paid order", func() {
			repo.orders[orderID].Status = ordermodel.StatusPaid

			_, err := service.AcceptQuote(orderID, "tester")

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidOrderStatus))
		})

		ginkgo.It("should return not found for unknown orders", func() {
			_, err := service.AcceptQuote(uuid.New(), "tester")

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrOrderNotFound))
		})
	})

	ginkgo.Describe("CancelOrder", func() {
		var orderID uuid.UUID

		ginkgo.BeforeEach(func() {
			orderID = uuid.New()
			repo.orders[orderID] = &ordermodel.Order{
				ID:        orderID,
				Reference: "ORD-TEST1",
				Status:    ordermodel.StatusQuoteAccepted,
				TotalCost: 100,
			}
		})

		ginkgo.It("should cancel a cancellable order", func() {
			order, err := service.CancelOrder(orderID, "tester")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(order.Status).To(gomega.Equal(ordermodel.StatusCancelled))
		})

		ginkgo.It("should refuse to cancel a paid order", func() {
			repo.orders[orderID].Status = ordermodel.StatusPaid

			_, err := service.CancelOrder(orderID, "tester")

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidOrderStatus))
		})
	})
})
