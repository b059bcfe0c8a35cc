package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mentions/internal/bootstrap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index current and log changes",
	Long: `Watch the vault and apply every document change to the mention index,
logging each update to stderr until interrupted.

Example:
  mentions-cli watch --verbose`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		logger := bootstrap.NewLogger(os.Stderr, verbose)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := rt.Watch(ctx)
		if err != nil {
			return err
		}

		logger.Info("watching vault", slog.String("vault", rt.VaultPath))

		for event := range w.Events() {
			if err := rt.Service.HandleEvent(ctx, event); err != nil {
				logger.Warn("document event failed",
					slog.String("kind", event.Kind.String()),
					slog.String("path", event.Path),
					slog.Any("error", err))
				continue
			}

			stats := rt.Service.Stats()
			attrs := []any{
				slog.String("kind", event.Kind.String()),
				slog.String("path", event.Path),
				slog.Int("links", stats.Links),
				slog.Int("paths", stats.Paths),
			}
			if event.OldPath != "" {
				attrs = append(attrs, slog.String("old_path", event.OldPath))
			}
			logger.Info("index updated", attrs...)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
