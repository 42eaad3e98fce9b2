package govukpay

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	errors "github.com/orderhub/order-management/internal"
)

func TestGOVUKPayClient(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "GOVUK Pay Client Suite")
}

var _ = ginkgo.Describe("Client", func() {
	var (
		server *httptest.Server
		client *Client
		ctx    context.Context
	)

	noopLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newClient := func(handler http.HandlerFunc) *Client {
		server = httptest.NewServer(handler)
		return NewClient(Config{
			BaseURL:        server.URL,
			APIKey:         "test-api-key",
			RequestTimeout: 5 * time.Second,
		}, noopLogger)
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	ginkgo.Describe("CreatePayment", func() {
		ginkgo.It("should post the payment and decode the created payment", func() {
			var gotPath, gotAuth string
			client = newClient(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.Method + " " + r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"payment_id":"gw-99","state":{"status":"created","finished":false},"amount":150000}`))
			})

			payment, err := client.CreatePayment(ctx, CreatePaymentRequest{
				Amount:    150000,
				Reference: "ORD-ABC123",
				ReturnURL: "https://example.com/return",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(gotPath).To(gomega.Equal("POST /v1/payments"))
			gomega.Expect(gotAuth).To(gomega.Equal("Bearer test-api-key"))
			gomega.Expect(payment.PaymentID).To(gomega.Equal("gw-99"))
			gomega.Expect(payment.Amount).To(gomega.Equal(int64(150000)))
		})

		ginkgo.It("should wrap non-201 responses as gateway errors", func() {
			client = newClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
			})

			_, err := client.CreatePayment(ctx, CreatePaymentRequest{Amount: 100})

			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(errors.ErrCodeGatewayFailure))
		})
	})

	ginkgo.Describe("GetPayment", func() {
		ginkgo.It("should fetch and decode the payment", func() {
			client = newClient(func(w http.ResponseWriter, r *http.Request) {
				gomega.Expect(r.URL.Path).To(gomega.Equal("/v1/payments/gw-1"))
				w.Write([]byte(`{
					"payment_id": "gw-1",
					"state": {"status": "success", "finished": true},
					"amount": 150000,
					"email": "payer@example.com",
					"created_date": "2024-03-01T13:45:00Z",
					"card_details": {
						"cardholder_name": "John Doe",
						"card_brand": "Visa",
						"billing_address": {"line1": "1 High Street", "city": "London", "postcode": "SW1A 1AA", "country": "GB"}
					}
				}`))
			})

			payment, err := client.GetPayment(ctx, "gw-1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(payment.State.Status).To(gomega.Equal("success"))
			gomega.Expect(payment.State.Finished).To(gomega.BeTrue())
			gomega.Expect(payment.CardDetails.BillingAddress.City).To(gomega.Equal("London"))
		})

		ginkgo.It("should wrap non-200 responses as gateway errors", func() {
			client = newClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})

			_, err := client.GetPayment(ctx, "gw-missing")

			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(errors.ErrCodeGatewayFailure))
		})

		ginkgo.It("should wrap malformed bodies as gateway errors", func() {
			client = newClient(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{broken`))
			})

			_, err := client.GetPayment(ctx, "gw-1")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("CancelPayment", func() {
		ginkgo.It("should accept a 204 acknowledgement", func() {
			client = newClient(func(w http.ResponseWriter, r *http.Request) {
				gomega.Expect(r.Method).To(gomega.Equal(http.MethodPost))
				gomega.Expect(r.URL.Path).To(gomega.Equal("/v1/payments/gw-1/cancel"))
				w.WriteHeader(http.StatusNoContent)
			})

			gomega.Expect(client.CancelPayment(ctx, "gw-1")).To(gomega.Succeed())
		})

		ginkgo.It("should wrap any other status as a gateway error", func() {
			client = newClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
			})

			err := client.CancelPayment(ctx, "gw-1")

			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(errors.ErrCodeGatewayFailure))
		})
	})

	ginkgo.Describe("ReceivedOn", func() {
		ginkgo.It("should return the UTC date part of created_date", func() {
			payment := &Payment{CreatedDate: "2024-03-01T23:59:59+01:00"}

			received, err := payment.ReceivedOn()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(received).To(gomega.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
		})

		ginkgo.It("should reject unparseable timestamps", func() {
			payment := &Payment{CreatedDate: "yesterday"}

			_, err := payment.ReceivedOn()

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
