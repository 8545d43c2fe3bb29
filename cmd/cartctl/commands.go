package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cartwidget/internal/config"
	infraRepo "cartwidget/internal/infra/repository"
	"cartwidget/internal/logger"
	repo "cartwidget/internal/repository"
	"cartwidget/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// 各コマンドで使うストア
type env struct {
	storage repo.StorageRepository
	log     *slog.Logger
	close   func() error
}

func openEnv(stderr io.Writer) (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StorageDriver == config.StorageDriverMemory {
		return nil, errors.New("cartctl needs STORAGE_DRIVER=postgres")
	}

	log := logger.New(logger.Options{
		Service: "cartctl",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
		Output:  stderr,
	})

	storage, closeFn, err := infraRepo.OpenStorage(cfg)
	if err != nil {
		return nil, err
	}
	return &env{storage: storage, log: log, close: closeFn}, nil
}

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions that have a persisted cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			return listSessions(cmd.Context(), e.storage, cmd.OutOrStdout())
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the persisted cart of a session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			return showCart(cmd.Context(), e.storage, args[0], e.log, cmd.OutOrStdout())
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Remove the persisted cart of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			return clearCart(cmd.Context(), e.storage, args[0], e.log, cmd.OutOrStdout())
		},
	}
}

func listSessions(ctx context.Context, storage repo.StorageRepository, out io.Writer) error {
	ids, err := storage.ListSessions(ctx, usecase.CartStorageKey)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

func showCart(ctx context.Context, storage repo.StorageRepository, sessionID string, log *slog.Logger, out io.Writer) error {
	lines := usecase.NewCartPersistence(storage, sessionID, log).Load(ctx)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(lines)
}

func clearCart(ctx context.Context, storage repo.StorageRepository, sessionID string, log *slog.Logger, out io.Writer) error {
	if err := usecase.NewCartPersistence(storage, sessionID, log).Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "cleared %s\n", sessionID)
	return nil
}
