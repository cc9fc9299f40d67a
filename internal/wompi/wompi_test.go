package wompi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"testing"

	"rifadesk/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(config.WompiConfig{
		PublicKey:       "pub_test_key",
		EventsKey:       "test_events_key",
		IntegrityKey:    "test_integrity_key",
		RedirectBaseURL: "https://rifas.example.com/",
	}, logger)
}

func TestGeneratePurchaseReference(t *testing.T) {
	c := testClient()
	ref := c.GeneratePurchaseReference()
	require.Len(t, ref, 16)
	_, err := hex.DecodeString(ref)
	assert.NoError(t, err, "reference must be hex")
	assert.NotEqual(t, ref, c.GeneratePurchaseReference())
}

func TestIntegritySignature(t *testing.T) {
	c := testClient()
	sum := sha256.Sum256([]byte("abc123" + "300000" + "COP" + "test_integrity_key"))
	assert.Equal(t, hex.EncodeToString(sum[:]), c.IntegritySignature("abc123", 300000))
}

func TestRedirectURL(t *testing.T) {
	c := testClient()
	assert.Equal(t, "https://rifas.example.com/lottery/1/payment_gateway", c.RedirectURL("/lottery/1/payment_gateway"))
}

func TestNestedValue(t *testing.T) {
	data := map[string]interface{}{
		"transaction": map[string]interface{}{
			"id":              "tx-1",
			"amount_in_cents": json.Number("300000"),
		},
	}
	assert.Equal(t, "tx-1", NestedValue(data, "transaction.id"))
	assert.Equal(t, json.Number("300000"), NestedValue(data, "transaction.amount_in_cents"))
	assert.Nil(t, NestedValue(data, "transaction.missing"))
	assert.Nil(t, NestedValue(data, "transaction.id.deeper"))
}

func signedEvent(eventsKey string) *Event {
	ev := &Event{
		Event: "transaction.updated",
		Data: map[string]interface{}{
			"transaction": map[string]interface{}{
				"id":              "tx-1",
				"status":          "APPROVED",
				"amount_in_cents": json.Number("300000"),
			},
		},
		Signature: Signature{
			Properties: []string{"transaction.id", "transaction.status", "transaction.amount_in_cents"},
		},
		Timestamp: json.Number("1755000000"),
	}
	sum := sha256.Sum256([]byte("tx-1" + "APPROVED" + "300000" + "1755000000" + eventsKey))
	ev.Signature.Checksum = hex.EncodeToString(sum[:])
	return ev
}

func TestValidateSignature(t *testing.T) {
	c := testClient()
	assert.True(t, c.ValidateSignature(signedEvent("test_events_key")))
}

func TestValidateSignatureTamperedData(t *testing.T) {
	c := testClient()
	ev := signedEvent("test_events_key")
	ev.Data["transaction"].(map[string]interface{})["amount_in_cents"] = json.Number("1")
	assert.False(t, c.ValidateSignature(ev))
}

func TestValidateSignatureWrongKey(t *testing.T) {
	c := testClient()
	assert.False(t, c.ValidateSignature(signedEvent("somebody_elses_key")))
}

func TestValidateSignatureMissingFields(t *testing.T) {
	c := testClient()

	ev := signedEvent("test_events_key")
	ev.Timestamp = nil
	assert.False(t, c.ValidateSignature(ev))

	ev = signedEvent("test_events_key")
	ev.Signature.Properties = append(ev.Signature.Properties, "transaction.finalized_at")
	assert.False(t, c.ValidateSignature(ev), "missing property value fails validation")

	ev = signedEvent("test_events_key")
	ev.Signature.Checksum = ""
	assert.False(t, c.ValidateSignature(ev))
}
