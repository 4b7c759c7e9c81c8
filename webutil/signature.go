package webutil

import (
	"github.com/twilio/twilio-go/client"
)

// HeaderTwilioSignature carries the relay's request signature.
const HeaderTwilioSignature = "X-Twilio-Signature"

// ValidateSignature reports whether signature matches the HMAC-SHA1 the relay
// computes over url and the posted form params with authToken. The url is
// accepted with or without the scheme's default port. An empty signature
// never validates.
func ValidateSignature(authToken, signature, url string, params map[string]string) bool {
	if signature == "" {
		return false
	}
	validator := client.NewRequestValidator(authToken)
	return validator.Validate(url, params, signature)
}
