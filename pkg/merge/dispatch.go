package merge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
	"github.com/dmitrymomot/mailmerge/pkg/transport"
)

// Delivery binds a dispatch run to one transport flavour: immediate send or
// mailbox-draft upload. The sentinel phrase is what the operator must type
// at the confirmation gate.
type Delivery struct {
	Verb     string // "send" or "upload"
	Sentinel string
	Deliver  func(ctx context.Context, email *transport.Email) error
}

// SendDelivery dispatches through an immediate sender.
func SendDelivery(sender transport.Sender) Delivery {
	return Delivery{
		Verb:     "send",
		Sentinel: "Yes, send emails",
		Deliver:  sender.Send,
	}
}

// DraftDelivery dispatches by uploading mailbox drafts.
func DraftDelivery(uploader transport.DraftUploader) Delivery {
	return Delivery{
		Verb:     "upload",
		Sentinel: "Yes, upload drafts",
		Deliver:  uploader.UploadDraft,
	}
}

// DispatchOptions tune a dispatch run.
type DispatchOptions struct {
	// SleepBetween pauses between deliveries to respect transport rate
	// limits. Zero disables the pause.
	SleepBetween time.Duration
	// OnlySend, when positive, stops after that many successful deliveries.
	OnlySend int
	// AutoConfirm bypasses the confirmation gate for headless runs.
	AutoConfirm bool
}

// Failure records one job whose delivery failed.
type Failure struct {
	Job string
	Err error
}

// Summary is the end-of-run report of a dispatch.
type Summary struct {
	Pending  int
	Sent     int
	Failures []Failure
}

// Dispatcher runs the dispatch stage: load every not-yet-dispatched job,
// resolve its final HTML, gate on operator confirmation, then deliver
// sequentially.
type Dispatcher struct {
	backend  StorageBackend
	registry *engine.Registry
	prompter prompt.Prompter
	delivery Delivery
	opts     DispatchOptions
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(backend StorageBackend, registry *engine.Registry, prompter prompt.Prompter, delivery Delivery, opts DispatchOptions, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNope()
	}
	return &Dispatcher{
		backend:  backend,
		registry: registry,
		prompter: prompter,
		delivery: delivery,
		opts:     opts,
		log:      logger.Component(log, "dispatch"),
	}
}

type pendingEmail struct {
	result *Result
	html   string
}

// Run executes the stage. Returns ErrAborted when the operator declines the
// confirmation gate. Per-job delivery failures are logged, collected into
// the Summary and never block the rest of the batch.
func (d *Dispatcher) Run(ctx context.Context) (*Summary, error) {
	pending, err := d.collect(ctx)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Pending: len(pending)}
	if len(pending) == 0 {
		d.log.Info("nothing to dispatch")
		return summary, nil
	}

	if !d.opts.AutoConfirm {
		message := fmt.Sprintf(
			"You are about to %s %d emails.\nThis action is IRREVERSIBLE once a transport accepts a message.\nCheck every preview before continuing.",
			d.delivery.Verb, len(pending),
		)
		ok, err := d.prompter.Confirm(message, d.delivery.Sentinel)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	for i, p := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		email, err := d.buildEmail(p)
		if err != nil {
			d.log.Error("delivery failed", slog.String("job", p.result.Name), slog.String("reason", err.Error()))
			summary.Failures = append(summary.Failures, Failure{Job: p.result.Name, Err: err})
			continue
		}

		d.log.Info(fmt.Sprintf("(%d/%d) delivering", i+1, len(pending)),
			slog.String("job", p.result.Name),
			slog.Any("to", email.To),
			slog.String("subject", email.Subject))
		if err := d.delivery.Deliver(ctx, email); err != nil {
			d.log.Error("delivery failed", slog.String("job", p.result.Name), slog.String("reason", err.Error()))
			summary.Failures = append(summary.Failures, Failure{Job: p.result.Name, Err: err})
			continue
		}
		summary.Sent++

		// Runs immediately after the transport accepts, so a crash leaves
		// at most one job sent-but-not-relocated.
		if err := d.backend.PostSendAction(ctx, p.result); err != nil {
			d.log.Error("job delivered but not marked as sent: reconcile manually before re-running",
				slog.String("job", p.result.Name), slog.String("reason", err.Error()))
		}

		if d.opts.OnlySend > 0 && summary.Sent >= d.opts.OnlySend {
			d.log.Info("send cap reached", slog.Int("cap", d.opts.OnlySend))
			break
		}
		if d.opts.SleepBetween > 0 && i < len(pending)-1 {
			time.Sleep(d.opts.SleepBetween)
		}
	}

	d.log.Info("dispatch finished",
		slog.Int("sent", summary.Sent),
		slog.Int("failed", len(summary.Failures)))
	for _, f := range summary.Failures {
		d.log.Warn("failed job", slog.String("job", f.Job), slog.String("reason", f.Err.Error()))
	}
	return summary, nil
}

// collect loads every pending job and resolves its final HTML up front, so
// the operator confirms an exact count.
func (d *Dispatcher) collect(ctx context.Context) ([]pendingEmail, error) {
	var pending []pendingEmail
	for result, err := range d.backend.LoadResults(ctx) {
		if err != nil {
			return nil, err
		}

		eng, err := d.registry.New(result.Engine.Name, result.Engine.Options, d.log)
		if err != nil {
			d.log.Warn("skipping job", slog.String("job", result.Name), slog.String("reason", err.Error()))
			continue
		}
		if err := eng.LoadTemplate(); err != nil {
			d.log.Warn("skipping job", slog.String("job", result.Name), slog.String("reason", err.Error()))
			continue
		}
		html, err := eng.HTMLToSend(result.Previews, result.Record)
		if err != nil {
			d.log.Warn("skipping job", slog.String("job", result.Name), slog.String("reason", err.Error()))
			continue
		}
		pending = append(pending, pendingEmail{result: result, html: html})
	}
	return pending, nil
}

func (d *Dispatcher) buildEmail(p pendingEmail) (*transport.Email, error) {
	attachments, err := transport.LoadAttachments(p.result.AttachmentPaths)
	if err != nil {
		return nil, err
	}
	return &transport.Email{
		To:          p.result.Email.To,
		CC:          p.result.Email.CC,
		BCC:         p.result.Email.BCC,
		Subject:     p.result.Email.Subject,
		HTML:        p.html,
		Attachments: attachments,
	}, nil
}
