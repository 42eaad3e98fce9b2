package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	errors "github.com/orderhub/order-management/internal"
	ordermodel "github.com/orderhub/order-management/internal/core/datamodel/order"
	paymentmodel "github.com/orderhub/order-management/internal/core/datamodel/payment"
	paymentpkg "github.com/orderhub/order-management/internal/payment"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) paymentpkg.RepositoryAPI {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) CreateSession(session *paymentmodel.PaymentGatewaySession) error {
	return r.db.Create(session).Error
}

func (r *PaymentRepository) GetSession(id uuid.UUID) (*paymentmodel.PaymentGatewaySession, error) {
	var session paymentmodel.PaymentGatewaySession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *PaymentRepository) ListSessionsByOrderID(orderID uuid.UUID) ([]*paymentmodel.PaymentGatewaySession, error) {
	var sessions []*paymentmodel.PaymentGatewaySession
	err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *PaymentRepository) ListInProgressSessions(olderThan time.Time, limit int) ([]*paymentmodel.PaymentGatewaySession, error) {
	var sessions []*paymentmodel.PaymentGatewaySession
	err := r.db.
		Where("status IN ?", paymentmodel.InProgressSessionStatuses).
		Where("created_at < ?", olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// UpdateSessionStatus moves a session to the given status only if it is
// still in progress. A session that has already reached a terminal state
// is final; attempting to move it again returns ErrSessionFinished.
func (r *PaymentRepository) UpdateSessionStatus(id uuid.UUID, status string) error {
	result := r.db.Model(&paymentmodel.PaymentGatewaySession{}).
		Where("id = ? AND status IN ?", id, paymentmodel.InProgressSessionStatuses).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrSessionFinished
	}
	return nil
}

// CompleteSuccess runs the success transition in one transaction: the
// session moves to success (guarded against concurrent completion), the
// owning order is marked paid, and exactly one Payment row is written. A
// failure at any step rolls back every other step.
func (r *PaymentRepository) CompleteSuccess(sessionID uuid.UUID, payment *paymentmodel.Payment, receivedOn time.Time) (*ordermodel.Order, error) {
	var order ordermodel.Order

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&paymentmodel.PaymentGatewaySession{}).
			Where("id = ? AND status IN ?", sessionID, paymentmodel.InProgressSessionStatuses).
			Updates(map[string]interface{}{
				"status":     paymentmodel.SessionStatusSuccess,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.ErrSessionFinished
		}

		if err := tx.First(&order, "id = ?", payment.OrderID).Error; err != nil {
			return err
		}
		if err := order.MarkAsPaid(receivedOn); err != nil {
			return err
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *PaymentRepository) ListPaymentsByOrderID(orderID uuid.UUID) ([]*paymentmodel.Payment, error) {
	var payments []*paymentmodel.Payment
	err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&payments).Error
	return payments, err
}
