package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orderhub/order-management/internal/audit"
	auditpg "github.com/orderhub/order-management/internal/audit/postgres"
	"github.com/orderhub/order-management/internal/dbmaintenance"
	orderpg "github.com/orderhub/order-management/internal/order/postgres"
	"github.com/orderhub/order-management/internal/reference"
	referencepg "github.com/orderhub/order-management/internal/reference/postgres"
	"github.com/orderhub/order-management/internal/storage"
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run one-off data maintenance tasks from CSV files",
	Long: `Run a data maintenance task against a CSV file held in object
storage. Each row is applied independently; a failing row is logged and
skipped, and a tally of succeeded and failed rows is printed at the end.`,
}

var simulate bool

var updateBillingEmailCmd = &cobra.Command{
	Use:   "update-order-billing-email <bucket> <key>",
	Short: "Update order billing emails from a CSV of id,billing_email rows",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runMaintenance(args[0], args[1], func(m *dbmaintenance.OrderMaintenance) dbmaintenance.ProcessFunc {
			return m.UpdateBillingEmail
		})
	},
}

var cancelOrdersCmd = &cobra.Command{
	Use:   "cancel-orders <bucket> <key>",
	Short: "Cancel orders listed in a CSV of id rows",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runMaintenance(args[0], args[1], func(m *dbmaintenance.OrderMaintenance) dbmaintenance.ProcessFunc {
			return m.CancelOrder
		})
	},
}

func init() {
	maintenanceCmd.PersistentFlags().BoolVar(&simulate, "simulate", false, "Validate and log every row without persisting changes")

	maintenanceCmd.AddCommand(updateBillingEmailCmd)
	maintenanceCmd.AddCommand(cancelOrdersCmd)
}

func runMaintenance(bucket, key string, pick func(*dbmaintenance.OrderMaintenance) dbmaintenance.ProcessFunc) {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	ctx := context.Background()

	store, err := storage.FromConfig(ctx, deps.Config.Storage)
	if err != nil {
		lg.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	refService := reference.NewService(referencepg.NewReferenceRepository(deps.GormDB), lg)
	auditService := audit.NewService(
		auditpg.NewRevisionRepository(deps.GormDB),
		audit.OrderSchema(refService),
		lg,
	)

	maintenance := dbmaintenance.NewOrderMaintenance(
		orderpg.NewOrderRepository(deps.GormDB),
		auditService,
		lg,
	)

	runner := dbmaintenance.NewRunner(store, lg)

	result, err := runner.Run(ctx, bucket, key, pick(maintenance), dbmaintenance.Options{Simulate: simulate})
	if err != nil {
		lg.Error("maintenance run aborted", "bucket", bucket, "key", key, "error", err)
		os.Exit(1)
	}

	fmt.Printf("succeeded: %d, failed: %d\n", result.Succeeded, result.Failed)
}
