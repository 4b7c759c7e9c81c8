package webhooks

import (
	"context"

	"github.com/coreybb/checkin/config"
)

const msgMissingEnv = "Missing env"

// DiagnosticsReport shows which settings are present and whether each
// collaborator answers a read-only check. It never carries secret values.
type DiagnosticsReport struct {
	Status string         `json:"status"`
	Env    map[string]any `json:"env"`
	Store  CheckResult    `json:"store"`
	Relay  CheckResult    `json:"relay"`
}

type CheckResult struct {
	Backend string `json:"backend,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

func (h *WhatsAppHandler) diagnose(ctx context.Context) DiagnosticsReport {
	env := make(map[string]any)
	for key, present := range h.cfg.Presence() {
		env[key] = present
	}
	env[config.KeyTimezone] = h.cfg.Timezone
	env[config.KeyStoreBackend] = h.cfg.StoreBackend

	report := DiagnosticsReport{Status: "diag", Env: env}

	if h.store != nil {
		report.Store = h.check(ctx, h.store.Name(), h.store.Ping)
	} else {
		report.Store = CheckResult{Backend: h.cfg.StoreBackend, Error: msgMissingEnv}
	}

	if h.sender != nil {
		report.Relay = h.check(ctx, h.sender.Type(), h.sender.Ping)
	} else {
		report.Relay = CheckResult{Error: msgMissingEnv}
	}

	return report
}

func (h *WhatsAppHandler) check(ctx context.Context, backend string, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.OutboundTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		return CheckResult{Backend: backend, Error: err.Error()}
	}
	return CheckResult{Backend: backend, OK: true}
}
