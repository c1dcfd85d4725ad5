// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/linuxfoundation/lfx-v2-geocatalog/pkg/log"

	"github.com/joho/godotenv"
)

func init() {
	// a missing .env is fine; the environment wins over it
	_ = godotenv.Load()

	// structured logs go to stderr so command output stays parseable
	logging.InitStructureLogConfig(logging.ConfigFromEnv())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.ErrorContext(ctx, "command failed", "error", err)
		cancel()
		os.Exit(1)
	}
}
