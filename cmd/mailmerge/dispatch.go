package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mailmerge/pkg/merge"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
	"github.com/dmitrymomot/mailmerge/pkg/sidecar"
	"github.com/dmitrymomot/mailmerge/pkg/transport"
	"github.com/dmitrymomot/mailmerge/pkg/transport/gmail"
	"github.com/dmitrymomot/mailmerge/pkg/transport/resend"
	"github.com/dmitrymomot/mailmerge/pkg/transport/smtp"
)

func cmdRegenerate(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("regenerate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	dir, err := directoryArg(fs)
	if err != nil {
		return err
	}

	backend := sidecar.New(dir, nil, log)
	return merge.NewRerenderer(backend, buildRegistry(), log).Run(context.Background())
}

func cmdSend(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configFile := fs.String("config", defaultConfigFile, "config file with transport credentials")
	onlySend := fs.Int("only-send", 0, "stop after N successful sends (0 = no cap)")
	delayFlag := fs.Duration("delay", 0, "pause between sends; overrides config when set")
	yes := fs.Bool("yes", false, "skip the confirmation prompt (headless runs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dir, err := directoryArg(fs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	sender, err := buildSender(cfg)
	if err != nil {
		return err
	}
	delay, err := resolveDelay(*delayFlag, cfg)
	if err != nil {
		return err
	}

	return runDispatch(dir, merge.SendDelivery(sender), merge.DispatchOptions{
		SleepBetween: delay,
		OnlySend:     *onlySend,
		AutoConfirm:  *yes,
	}, log)
}

func cmdUploadDrafts(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("upload-drafts", flag.ExitOnError)
	configFile := fs.String("config", defaultConfigFile, "config file with transport credentials")
	onlySend := fs.Int("only-send", 0, "stop after N successful uploads (0 = no cap)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt (headless runs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dir, err := directoryArg(fs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	uploader, err := gmail.New(context.Background(), cfg.Gmail)
	if err != nil {
		return err
	}

	return runDispatch(dir, merge.DraftDelivery(uploader), merge.DispatchOptions{
		OnlySend:    *onlySend,
		AutoConfirm: *yes,
	}, log)
}

func runDispatch(dir string, delivery merge.Delivery, opts merge.DispatchOptions, log *slog.Logger) error {
	backend := sidecar.New(dir, nil, log)
	dispatcher := merge.NewDispatcher(backend, buildRegistry(), prompt.NewConsole(), delivery, opts, log)

	summary, err := dispatcher.Run(context.Background())
	if errors.Is(err, merge.ErrAborted) {
		log.Info("aborted, nothing delivered")
		return nil
	}
	if err != nil {
		return err
	}
	if len(summary.Failures) > 0 {
		return fmt.Errorf("%d of %d deliveries failed", len(summary.Failures), summary.Pending)
	}
	return nil
}

func buildSender(cfg *config) (transport.Sender, error) {
	switch cfg.Transport {
	case "", "smtp":
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp transport selected but no host configured")
		}
		return smtp.New(cfg.SMTP), nil
	case "resend":
		if cfg.Resend.APIKey == "" {
			return nil, fmt.Errorf("resend transport selected but no API key configured")
		}
		return resend.New(cfg.Resend), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func resolveDelay(flagValue time.Duration, cfg *config) (time.Duration, error) {
	if flagValue > 0 {
		return flagValue, nil
	}
	return cfg.delay()
}

func directoryArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one directory argument, got %d", fs.NArg())
	}
	return fs.Arg(0), nil
}
