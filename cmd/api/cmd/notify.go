package cmd

import (
	"os/signal"
	"syscall"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/notify"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/mailer"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/config"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/events"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the host arrival notifier",
	Long: `notify consumes visit check-in events from NATS and emails the host
that their visitor has arrived. Several instances share one queue group.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := applyTimeZone(cfg.App.TimeZone); err != nil {
			return err
		}

		bus, err := events.NewNATSEventBus(cfg.NATS.URL, "visitor-notify")
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			return err
		}
		defer bus.Close()

		mail, err := mailer.New(cfg.Email, cfg.App.Name)
		if err != nil {
			return err
		}
		if err := notify.NewArrivalNotifier(mail).Start(bus, cfg.NATS.NotifyQueue); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("Arrival notifier started", "queue", cfg.NATS.NotifyQueue, "provider", cfg.Email.Provider)
		<-ctx.Done()
		logger.Info("Shutting down arrival notifier...")
		return nil
	},
}
