package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/config"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	storeDriver string
	metricsAddr string

	// Replaced in tests
	stdin io.Reader = os.Stdin

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "far",
	Short: "FAR provider desk - manage claimed donations",
	Long: `far is the provider side of FAR (Food Aid Redistribution).

It lists the orders receivers have claimed from your donations, verifies
handoffs with the receiver's one-time code, and cancels orders you can no
longer fulfil.

Run without arguments to start the interactive desk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if storeDriver != "" {
			loaded.Store.Driver = strings.ToLower(storeDriver)
		}
		if metricsAddr != "" {
			loaded.Metrics.Addr = metricsAddr
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		if f := cfg.Logging.File; f != "" {
			if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		if err := logging.Initialize(logging.Options{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			File:       cfg.Logging.File,
			Disabled:   cfg.Logging.Disabled,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Zap()
		logger.Debug("configuration loaded",
			zap.String("command", cmd.Name()),
			zap.String("driver", cfg.Store.Driver))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: runDesk,
}

var deskCmd = &cobra.Command{
	Use:   "desk",
	Short: "Start the interactive provider desk",
	RunE:  runDesk,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List active orders",
	Long: `Lists claimed orders still waiting for handoff.

Example:
  far orders --query nasi`,
	Args: cobra.NoArgs,
	RunE: runOrders,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed and cancelled orders",
	Long: `Lists finished orders. --category narrows the list after the text search:
  all       every finished order
  rated     orders the receiver rated
  reported  orders with a report`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [order-id]",
	Short: "Verify a handoff with the receiver's code",
	Long: `Asks for the receiver's verification code, confirms it, and marks the
order completed. Pass --code to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [order-id]",
	Short: "Cancel an active order",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

var contactCmd = &cobra.Command{
	Use:   "contact [order-id]",
	Short: "Print a WhatsApp link to the receiver or courier of an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runContact,
}

var trailCmd = &cobra.Command{
	Use:   "trail [order-id]",
	Short: "Show the status changes recorded for an order",
	Long: `Prints every status transition the store recorded for an order, oldest
first. Only the sqlite and postgres stores keep a status log.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrail,
}

var seedCmd = &cobra.Command{
	Use:   "seed [claims.yaml]",
	Short: "Load claim fixtures into the configured store",
	Long: `Reads a YAML file with a top-level "claims" list and writes every claim
into the configured store. Claims with an existing id are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join(".far", "config.yaml"), "Config file")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Store driver override (memory, sqlite, postgres, file)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	ordersCmd.Flags().StringVarP(&ordersQuery, "query", "q", "", "Filter by food or receiver name")
	historyCmd.Flags().StringVarP(&historyQuery, "query", "q", "", "Filter by food or receiver name")
	historyCmd.Flags().StringVar(&historyCategory, "category", "all", "History category: all, rated, reported")
	verifyCmd.Flags().StringVar(&verifyCode, "code", "", "Verification code (prompted when empty)")
	cancelCmd.Flags().BoolVarP(&cancelYes, "yes", "y", false, "Skip the confirmation prompt")
	contactCmd.Flags().BoolVar(&contactCourier, "courier", false, "Contact the courier instead of the receiver")
	contactCmd.Flags().BoolVar(&contactOpen, "open", false, "Open the link in the browser")
	for _, c := range []*cobra.Command{rootCmd, deskCmd} {
		c.Flags().StringVar(&deskView, "view", "stock", "Section the desk opens on: stock, orders, history")
	}

	rootCmd.AddCommand(deskCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(trailCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// workflowOptions builds the workflow template shared by the desk and the
// one-shot commands.
func workflowOptions(s claims.Store, notifier workflow.Notifier, rec workflow.Recorder) workflow.Options {
	return workflow.Options{
		MinCodeLength: cfg.Workflow.MinCodeLength,
		Confirmer:     workflow.DelayConfirmer{Delay: cfg.Workflow.GetVerifyDelay()},
		Notifier:      notifier,
		Sink:          workflow.StoreSink{Store: s},
		Recorder:      rec,
		Audit:         logging.AuditWithSession(uuid.NewString()),
	}
}
