// Package wompi implements the signed contract shared with the Wompi payment
// gateway: purchase references, checkout integrity signatures and webhook
// event checksum validation.
package wompi

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"rifadesk/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Currency is the only currency the gateway contract uses.
const Currency = "COP"

// Client holds the gateway credentials. It is built from configuration and
// passed to whoever needs it; there is no process-wide instance.
type Client struct {
	cfg    config.WompiConfig
	logger *logrus.Logger
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg config.WompiConfig, logger *logrus.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// PublicKey returns the key the storefront embeds in the checkout redirect.
func (c *Client) PublicKey() string { return c.cfg.PublicKey }

// RedirectURL joins the configured redirect base with a path.
func (c *Client) RedirectURL(path string) string {
	return strings.TrimRight(c.cfg.RedirectBaseURL, "/") + path
}

// GeneratePurchaseReference mints an opaque correlation id: the first 16 hex
// characters of md5(uuid4).
func (c *Client) GeneratePurchaseReference() string {
	sum := md5.Sum([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])[:16]
}

// IntegritySignature signs a checkout: sha256 over
// reference + amount_in_cents + currency + integrity key.
func (c *Client) IntegritySignature(reference string, amountInCents int64) string {
	payload := fmt.Sprintf("%s%d%s%s", reference, amountInCents, Currency, c.cfg.IntegrityKey)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Signature is the checksum envelope of a webhook event.
type Signature struct {
	Checksum   string   `json:"checksum"`
	Properties []string `json:"properties"`
}

// Event is a webhook delivery. Data stays loosely typed because the checksum
// covers gateway-chosen dot paths into it. Decode request bodies with
// json.Number so numeric values stringify exactly as sent.
type Event struct {
	Event     string                 `json:"event"`
	Data      map[string]interface{} `json:"data"`
	Signature Signature              `json:"signature"`
	Timestamp interface{}            `json:"timestamp"`
}

// NestedValue walks a dot path ("transaction.amount_in_cents") through nested
// objects. It returns nil when any segment is missing or not an object.
func NestedValue(data map[string]interface{}, keyPath string) interface{} {
	var current interface{} = data
	for _, key := range strings.Split(keyPath, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

// formatValue renders a property value the way the gateway concatenates it:
// numbers without an exponent or trailing zeros, everything else as-is.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case json.Number:
		return val.String()
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// ValidateSignature recomputes the event checksum: the named properties'
// values looked up inside data, then the timestamp, then the events key, all
// concatenated and sha256-hexed. Any missing field fails validation.
func (c *Client) ValidateSignature(ev *Event) bool {
	if ev.Signature.Checksum == "" || len(ev.Signature.Properties) == 0 || ev.Timestamp == nil {
		c.logger.Warn("webhook event is missing required fields for signature validation")
		return false
	}

	var concat strings.Builder
	for _, property := range ev.Signature.Properties {
		value := NestedValue(ev.Data, property)
		if value == nil {
			c.logger.WithField("property", property).Warn("signature property not found in event data")
			return false
		}
		concat.WriteString(formatValue(value))
	}
	concat.WriteString(formatValue(ev.Timestamp))
	concat.WriteString(c.cfg.EventsKey)

	sum := sha256.Sum256([]byte(concat.String()))
	computed := hex.EncodeToString(sum[:])
	if computed != ev.Signature.Checksum {
		c.logger.WithFields(logrus.Fields{
			"expected": ev.Signature.Checksum,
			"computed": computed,
		}).Warn("webhook checksum validation failed")
		return false
	}
	return true
}
