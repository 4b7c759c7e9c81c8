package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	DefaultPort            = "8080"
	DefaultTableName       = "Daily Logs"
	DefaultTimezone        = "Europe/London"
	DefaultAirtableAPIURL  = "https://api.airtable.com"
	DefaultTwilioAPIURL    = "https://api.twilio.com"
	DefaultOutboundTimeout = 5 * time.Second

	StoreBackendAirtable = "airtable"
	StoreBackendPostgres = "postgres"
)

// Environment keys. Viper maps each key to the identically named variable.
const (
	KeyPort               = "PORT"
	KeyAirtableAPIKey     = "AIRTABLE_API_KEY"
	KeyAirtableBaseID     = "AIRTABLE_BASE_ID"
	KeyAirtableTableName  = "AIRTABLE_TABLE_NAME"
	KeyAirtableAPIURL     = "AIRTABLE_API_URL"
	KeyStoreBackend       = "STORE_BACKEND"
	KeyDBConnectionString = "DB_CONNECTION_STRING"
	KeyTwilioAccountSID   = "TWILIO_ACCOUNT_SID"
	KeyTwilioAuthToken    = "TWILIO_AUTH_TOKEN"
	KeyTwilioNumber       = "TWILIO_WHATSAPP_NUMBER"
	KeyTwilioAPIURL       = "TWILIO_API_URL"
	KeyTimezone           = "TIMEZONE"
	KeyTwilioValidate     = "TWILIO_VALIDATE"
	KeyTwilioWebhookURL   = "TWILIO_WEBHOOK_URL"
	KeyRejectNonPost      = "REJECT_NON_POST"
	KeyOutboundTimeout    = "OUTBOUND_TIMEOUT"
)

// Config is the process-wide configuration. It is built once at startup and
// passed explicitly to everything that needs it.
type Config struct {
	Port string

	StoreBackend       string
	AirtableAPIKey     string
	AirtableBaseID     string
	AirtableTableName  string
	AirtableAPIURL     string
	DBConnectionString string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioNumber     string
	TwilioAPIURL     string

	// ValidateSignature enables the X-Twilio-Signature check against WebhookURL.
	ValidateSignature bool
	WebhookURL        string

	// RejectNonPost answers non-POST requests with 405 instead of the 200 liveness body.
	RejectNonPost bool

	Timezone        string
	Location        *time.Location
	OutboundTimeout time.Duration
}

// Load reads configuration from the environment and an optional config.yaml
// in configPath. An unknown time zone is the only load-time error; missing
// credentials are reported per request by Missing.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AutomaticEnv()

	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyAirtableTableName, DefaultTableName)
	v.SetDefault(KeyAirtableAPIURL, DefaultAirtableAPIURL)
	v.SetDefault(KeyStoreBackend, StoreBackendAirtable)
	v.SetDefault(KeyTwilioAPIURL, DefaultTwilioAPIURL)
	v.SetDefault(KeyTimezone, DefaultTimezone)
	v.SetDefault(KeyTwilioValidate, false)
	v.SetDefault(KeyRejectNonPost, false)
	v.SetDefault(KeyOutboundTimeout, DefaultOutboundTimeout)

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			log.Printf("INFO: No config.yaml loaded from %s, using defaults and env vars: %v", configPath, err)
		} else {
			log.Printf("INFO: Loaded %s", v.ConfigFileUsed())
		}
	}

	cfg := Config{
		Port:               v.GetString(KeyPort),
		StoreBackend:       strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreBackend))),
		AirtableAPIKey:     v.GetString(KeyAirtableAPIKey),
		AirtableBaseID:     v.GetString(KeyAirtableBaseID),
		AirtableTableName:  v.GetString(KeyAirtableTableName),
		AirtableAPIURL:     strings.TrimRight(v.GetString(KeyAirtableAPIURL), "/"),
		DBConnectionString: v.GetString(KeyDBConnectionString),
		TwilioAccountSID:   v.GetString(KeyTwilioAccountSID),
		TwilioAuthToken:    v.GetString(KeyTwilioAuthToken),
		TwilioNumber:       v.GetString(KeyTwilioNumber),
		TwilioAPIURL:       strings.TrimRight(v.GetString(KeyTwilioAPIURL), "/"),
		ValidateSignature:  v.GetBool(KeyTwilioValidate),
		WebhookURL:         v.GetString(KeyTwilioWebhookURL),
		RejectNonPost:      v.GetBool(KeyRejectNonPost),
		Timezone:           v.GetString(KeyTimezone),
		OutboundTimeout:    v.GetDuration(KeyOutboundTimeout),
	}

	if cfg.AirtableTableName == "" {
		cfg.AirtableTableName = DefaultTableName
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.OutboundTimeout <= 0 {
		cfg.OutboundTimeout = DefaultOutboundTimeout
	}
	switch cfg.StoreBackend {
	case StoreBackendAirtable, StoreBackendPostgres:
	default:
		return cfg, fmt.Errorf("unsupported %s %q", KeyStoreBackend, cfg.StoreBackend)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("invalid %s %q: %w", KeyTimezone, cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.ValidateSignature && cfg.WebhookURL == "" {
		log.Printf("WARN: %s is enabled but %s is not set. Webhook POSTs will be rejected.", KeyTwilioValidate, KeyTwilioWebhookURL)
	}

	return cfg, nil
}

// Missing names the first subsystem whose required settings are absent, or
// returns "" when the webhook can run.
func (c Config) Missing() string {
	switch {
	case c.StoreBackend == StoreBackendPostgres && c.DBConnectionString == "":
		return "Postgres env vars missing"
	case c.StoreBackend != StoreBackendPostgres && (c.AirtableAPIKey == "" || c.AirtableBaseID == ""):
		return "Airtable env vars missing"
	case c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioNumber == "":
		return "Twilio env vars missing"
	case c.ValidateSignature && c.WebhookURL == "":
		return "Twilio webhook URL missing"
	default:
		return ""
	}
}

// Presence reports which settings are set without exposing their values.
func (c Config) Presence() map[string]bool {
	return map[string]bool{
		KeyAirtableAPIKey:     c.AirtableAPIKey != "",
		KeyAirtableBaseID:     c.AirtableBaseID != "",
		KeyAirtableTableName:  c.AirtableTableName != "",
		KeyDBConnectionString: c.DBConnectionString != "",
		KeyTwilioAccountSID:   c.TwilioAccountSID != "",
		KeyTwilioAuthToken:    c.TwilioAuthToken != "",
		KeyTwilioNumber:       c.TwilioNumber != "",
		KeyTwilioWebhookURL:   c.WebhookURL != "",
	}
}
