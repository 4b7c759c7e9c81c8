package webhooks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coreybb/checkin/config"
	"github.com/coreybb/checkin/datastore"
	"github.com/coreybb/checkin/delivery"
	"github.com/coreybb/checkin/ingestion"
	"github.com/coreybb/checkin/models"
	"github.com/coreybb/checkin/webutil"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	formFieldBody = "Body"
	formFieldFrom = "From"

	statusUp  = "up"
	statusOK  = "OK"
	statusErr = "ERR"

	msgInvalidSignature = "Invalid signature"
)

// WhatsAppHandler turns inbound WhatsApp messages into check-in records and
// answers the sender through the relay.
type WhatsAppHandler struct {
	cfg    config.Config
	store  datastore.RecordStore
	sender delivery.MessageSender
	now    func() time.Time
}

// NewWhatsAppHandler builds the handler from the process-wide configuration.
// store and sender may be nil when their configuration is missing; POSTs are
// then rejected before any outbound call.
func NewWhatsAppHandler(cfg config.Config, store datastore.RecordStore, sender delivery.MessageSender) *WhatsAppHandler {
	return &WhatsAppHandler{
		cfg:    cfg,
		store:  store,
		sender: sender,
		now:    time.Now,
	}
}

// HandleWebhook answers every request the relay or a browser sends to the webhook path.
// After the configuration and signature guards, a POST is always answered
// with 200 so the relay does not retry and duplicate side effects.
func (h *WhatsAppHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodPost {
		return h.handleNonPost(w, r)
	}

	if missing := h.cfg.Missing(); missing != "" {
		return webutil.ErrInternalServer(missing)
	}
	if h.store == nil || h.sender == nil {
		return webutil.ErrInternalServer("Webhook collaborators not initialised")
	}

	form, err := webutil.ReadForm(w, r)
	if err != nil {
		log.Printf("WARN (WhatsAppHandler): %v (request %s)", err, middleware.GetReqID(r.Context()))
	}

	if h.cfg.ValidateSignature {
		sig := r.Header.Get(webutil.HeaderTwilioSignature)
		if !webutil.ValidateSignature(h.cfg.TwilioAuthToken, sig, h.cfg.WebhookURL, form) {
			return webutil.ErrForbidden(msgInvalidSignature)
		}
	}

	text := strings.TrimSpace(form[formFieldBody])
	from := form[formFieldFrom]
	date := ingestion.Today(h.now(), h.cfg.Location)

	entry, err := h.process(r.Context(), text, date)
	if err != nil {
		log.Printf("ERROR (WhatsAppHandler): handler error for %s: %v", from, err)
		h.reply(r.Context(), from, errorReply(err))
		webutil.RespondWithText(w, http.StatusOK, statusErr)
		return nil
	}

	log.Printf("INFO (WhatsAppHandler): %s check-in saved for %s from %s", entry.Type, date, from)
	h.reply(r.Context(), from, successReply(entry.Type, date))
	webutil.RespondWithText(w, http.StatusOK, statusOK)
	return nil
}

// process parses text and appends the resulting record to the store.
func (h *WhatsAppHandler) process(ctx context.Context, text, date string) (models.Entry, error) {
	entry, err := ingestion.Parse(text)
	if err != nil {
		return entry, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.OutboundTimeout)
	defer cancel()

	if err := h.store.Insert(ctx, entry.Record(date, models.SourceWhatsApp)); err != nil {
		return entry, fmt.Errorf("failed to save %s check-in: %w", entry.Type, err)
	}
	return entry, nil
}

// reply sends body to the sender. Failures are logged only.
func (h *WhatsAppHandler) reply(ctx context.Context, to, body string) {
	if to == "" {
		log.Printf("WARN (WhatsAppHandler): No %s field in webhook, skipping reply", formFieldFrom)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.OutboundTimeout)
	defer cancel()

	if err := h.sender.Send(ctx, h.cfg.TwilioNumber, to, body); err != nil {
		log.Printf("ERROR (WhatsAppHandler): Failed to send reply to %s via %s: %v", to, h.sender.Type(), err)
	}
}

func (h *WhatsAppHandler) handleNonPost(w http.ResponseWriter, r *http.Request) error {
	if r.URL.Query().Get("diag") == "1" {
		webutil.RespondWithJSON(w, http.StatusOK, h.diagnose(r.Context()))
		return nil
	}
	if h.cfg.RejectNonPost {
		w.Header().Set("Allow", http.MethodPost)
		return webutil.ErrMethodNotAllowed("")
	}
	webutil.RespondWithText(w, http.StatusOK, statusUp)
	return nil
}

func successReply(entryType models.EntryType, date string) string {
	return fmt.Sprintf("%s check-in saved for %s. ✅", entryType, date)
}

func errorReply(err error) string {
	return fmt.Sprintf("Sorry, couldn't parse it. Use your standard format. Error: %s", replyReason(err))
}

// replyReason summarises err for the sender. Store responses and driver
// errors stay in the log.
func replyReason(err error) string {
	var statusErr *datastore.StatusError
	switch {
	case errors.Is(err, ingestion.ErrUnknownEntryType):
		return err.Error()
	case errors.As(err, &statusErr):
		return fmt.Sprintf("check-in not saved, data store returned status %d", statusErr.Code)
	case errors.Is(err, context.DeadlineExceeded):
		return "check-in not saved, data store timed out"
	default:
		return "check-in not saved, data store unavailable"
	}
}
