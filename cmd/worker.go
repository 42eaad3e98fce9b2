package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orderhub/order-management/internal/core/events"
	"github.com/orderhub/order-management/internal/govukpay"
	"github.com/orderhub/order-management/internal/payment"
	paymentpg "github.com/orderhub/order-management/internal/payment/postgres"
	orderpg "github.com/orderhub/order-management/internal/order/postgres"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the payment session refresh worker",
	Long: `Start the background worker that periodically re-queries GOV.UK Pay
for sessions still in progress and applies the authoritative state locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		startRefreshWorker()
	},
}

var (
	workerPollInterval time.Duration
	workerRefreshDelay time.Duration
	workerBatchSize    int
)

func init() {
	workerCmd.Flags().DurationVar(&workerPollInterval, "poll-interval", 0, "How often to poll for stale sessions (overrides config)")
	workerCmd.Flags().DurationVar(&workerRefreshDelay, "refresh-delay", 0, "Minimum session age before refreshing (overrides config)")
	workerCmd.Flags().IntVar(&workerBatchSize, "batch-size", 0, "Maximum sessions refreshed per tick (overrides config)")
}

func startRefreshWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	pollInterval := getDurationFlag(workerPollInterval, deps.Config.Worker.PollInterval)
	refreshDelay := getDurationFlag(workerRefreshDelay, deps.Config.Worker.RefreshDelay)
	batchSize := getIntFlag(workerBatchSize, deps.Config.Worker.BatchSize)

	gatewayClient := govukpay.NewClient(govukpay.Config{
		BaseURL:        deps.Config.GOVUKPay.BaseURL,
		APIKey:         deps.Config.GOVUKPay.APIKey,
		RequestTimeout: deps.Config.GOVUKPay.RequestTimeout,
	}, lg)

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(events.EventTypePaymentCompleted, func(ctx context.Context, event events.Event) error {
		lg.Info("payment completed",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	paymentRepo := paymentpg.NewPaymentRepository(deps.GormDB)
	orderRepo := orderpg.NewOrderRepository(deps.GormDB)
	paymentService := payment.NewService(paymentRepo, orderRepo, gatewayClient, eventBus, lg)

	lg.Info("refresh worker starting",
		"poll_interval", pollInterval,
		"refresh_delay", refreshDelay,
		"batch_size", batchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigChan:
			lg.Info("received signal, shutting down refresh worker", "signal", sig)
			cancel()
			if err := deps.DB.Close(); err != nil {
				lg.Error("database close error", "error", err)
			}
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-refreshDelay)
			refreshed, failed := paymentService.RefreshInProgress(ctx, cutoff, batchSize)
			if refreshed > 0 || failed > 0 {
				lg.Info("refresh tick finished", "refreshed", refreshed, "failed", failed)
			}
		}
	}
}

func getDurationFlag(flagValue, configValue time.Duration) time.Duration {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}
