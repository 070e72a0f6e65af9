package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ellavondegurechaff/slotbot/slotbot"
	"github.com/ellavondegurechaff/slotbot/slotbot/commands"
	"github.com/ellavondegurechaff/slotbot/slotbot/handlers"
	"github.com/ellavondegurechaff/slotbot/slotbot/logger"
	"github.com/ellavondegurechaff/slotbot/slotbot/web"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	slog.Info("Starting slot bot",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	// A missing .env is fine; hosted deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := slotbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	b := slotbot.New(*cfg, version, commit)

	h := handler.New()
	h.Command("/createslot", handlers.WrapWithLogging("createslot", commands.CreateSlotHandler(b)))
	h.Command("/editslot", handlers.WrapWithLogging("editslot", commands.EditSlotHandler(b)))
	h.Command("/slotinfo", handlers.WrapWithLogging("slotinfo", commands.SlotInfoHandler(b)))
	h.Command("/transferslot", handlers.WrapWithLogging("transferslot", commands.TransferSlotHandler(b)))
	h.Command("/deleteslot", handlers.WrapWithLogging("deleteslot", commands.DeleteSlotHandler(b)))
	h.Command("/slots", handlers.WrapWithLogging("slots", commands.ListSlotsHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	g, gctx := errgroup.WithContext(context.Background())

	keepAlive := web.NewKeepAlive(cfg.Server.Addr)
	g.Go(keepAlive.Start)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Slot bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-s:
	case <-gctx.Done():
	}
	slog.Info("Shutting down slot bot...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := keepAlive.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down keep-alive endpoint", slog.Any("error", err))
	}
	b.Slots.Shutdown()

	if err := g.Wait(); err != nil {
		slog.Error("Keep-alive server failed", slog.Any("error", err))
	}
}
