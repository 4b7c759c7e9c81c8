package delivery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// DefaultTwilioAPIURL is the host the Twilio SDK addresses.
const DefaultTwilioAPIURL = "https://api.twilio.com"

// TwilioProvider sends WhatsApp messages through the Twilio Messages API.
type TwilioProvider struct {
	accountSID string
	client     *twilio.RestClient
}

// NewTwilioProvider creates a provider for the given account. Requests go to
// baseURL when it differs from DefaultTwilioAPIURL, which lets a local mock
// stand in for the API. A nil httpClient falls back to http.DefaultClient.
func NewTwilioProvider(baseURL, accountSID, authToken string, httpClient *http.Client) (*TwilioProvider, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL != "" && baseURL != DefaultTwilioAPIURL {
		target, err := url.Parse(baseURL)
		if err != nil || target.Host == "" {
			return nil, fmt.Errorf("invalid Twilio API URL %q", baseURL)
		}
		rewritten := *httpClient
		rewritten.Transport = &hostRewriter{target: target, next: transportOf(httpClient)}
		httpClient = &rewritten
	}

	base := &client.Client{
		Credentials: client.NewCredentials(accountSID, authToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(accountSID)

	return &TwilioProvider{
		accountSID: accountSID,
		client:     twilio.NewRestClientWithParams(twilio.ClientParams{Client: base}),
	}, nil
}

func (p *TwilioProvider) Type() string { return "twilio" }

// Send creates one outbound message. The SDK takes no context, so ctx is only
// checked up front; the HTTP client's timeout bounds the call itself.
func (p *TwilioProvider) Send(ctx context.Context, from, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetPathAccountSid(p.accountSID)
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	if _, err := p.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("Twilio send failed: %w", err)
	}
	return nil
}

// Ping fetches the account resource, which is read-only.
func (p *TwilioProvider) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.client.Api.FetchAccount(p.accountSID); err != nil {
		return fmt.Errorf("Twilio account lookup failed: %w", err)
	}
	return nil
}

// hostRewriter sends every request to target's scheme and host, keeping the
// path the SDK built.
type hostRewriter struct {
	target *url.URL
	next   http.RoundTripper
}

func (h *hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = h.target.Scheme
	out.URL.Host = h.target.Host
	out.Host = h.target.Host
	return h.next.RoundTrip(out)
}

func transportOf(c *http.Client) http.RoundTripper {
	if c.Transport != nil {
		return c.Transport
	}
	return http.DefaultTransport
}
