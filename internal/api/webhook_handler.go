package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"rifadesk/internal/model"
	"rifadesk/internal/repository"
	"rifadesk/internal/service"
	"rifadesk/internal/wompi"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WebhookHandler receives payment gateway event deliveries. Apart from
// non-POST requests and undecodable bodies, every delivery is answered with
// 200 and a message so the gateway does not retry on domain-level outcomes.
type WebhookHandler struct {
	paymentService *service.PaymentService
	gatewayRepo    repository.GatewayRepository
	gateway        *wompi.Client
	logger         *logrus.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(db *gorm.DB, logger *logrus.Logger, gateway *wompi.Client) *WebhookHandler {
	payments := repository.NewPaymentRepository(db)
	clients := repository.NewClientRepository(db)
	return &WebhookHandler{
		paymentService: service.NewPaymentService(payments, clients, logger),
		gatewayRepo:    repository.NewGatewayRepository(db),
		gateway:        gateway,
		logger:         logger,
	}
}

// transactionKeys are the fields a transaction.updated payload must carry
// before it can be processed.
var transactionKeys = []string{"id", "status", "reference", "finalized_at", "payment_method", "amount_in_cents"}

// Handle is the gateway webhook endpoint. Registered with router.Any so the
// method check stays in one place.
// ANY /webhooks/wompi
func (h *WebhookHandler) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.logger.WithField("method", c.Request.Method).Warn("webhook received a non-POST request")
		c.String(http.StatusBadRequest, "Only POST requests are allowed.")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	// json.Number keeps numeric values stringifying exactly as sent, which
	// the checksum concatenation depends on.
	var ev wompi.Event
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&ev); err != nil {
		h.logger.WithError(err).Error("webhook body is not valid JSON")
		c.String(http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	audit := &model.GatewayEvent{
		EventType:  ev.Event,
		Payload:    body,
		ReceivedAt: time.Now(),
	}
	message := h.processEvent(c, &ev, audit)
	audit.Outcome = message
	if err := h.gatewayRepo.CreateGatewayEvent(c.Request.Context(), audit); err != nil {
		h.logger.WithError(err).Error("failed to record gateway event")
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// processEvent dispatches on the event type and returns the response message.
func (h *WebhookHandler) processEvent(c *gin.Context, ev *wompi.Event, audit *model.GatewayEvent) string {
	if ev.Event != "transaction.updated" {
		return "No valid event found"
	}
	return h.transactionUpdated(c, ev, audit)
}

// transactionUpdated validates the signature, then splits an APPROVED
// transaction's amount across the clients sharing its purchase reference.
func (h *WebhookHandler) transactionUpdated(c *gin.Context, ev *wompi.Event, audit *model.GatewayEvent) string {
	if !h.gateway.ValidateSignature(ev) {
		h.logger.Error("transaction update event failed due to invalid signature")
		return "ERROR: Could not validate signature"
	}
	audit.SignatureValid = true

	txData, ok := wompi.NestedValue(ev.Data, "transaction").(map[string]interface{})
	if !ok {
		h.logger.Error("incomplete transaction data")
		return "ERROR: Incomplete transaction data"
	}
	for _, key := range transactionKeys {
		if _, present := txData[key]; !present {
			h.logger.Error("incomplete transaction data")
			return "ERROR: Incomplete transaction data"
		}
	}

	transactionID, _ := txData["id"].(string)
	status, _ := txData["status"].(string)
	reference, _ := txData["reference"].(string)
	audit.TransactionID = transactionID
	audit.Reference = reference
	audit.Status = status

	if status != "APPROVED" {
		return "Transaction declined"
	}

	cents, err := parseAmountInCents(txData["amount_in_cents"])
	if err != nil {
		h.logger.WithError(err).Error("incomplete transaction data")
		return "ERROR: Incomplete transaction data"
	}
	method := paymentMethodType(txData["payment_method"])
	finalizedAt := parseFinalizedAt(txData["finalized_at"])

	_, err = h.paymentService.SplitGatewayPayment(c.Request.Context(), reference, cents, transactionID, method, finalizedAt)
	if errors.Is(err, service.ErrNoClientsForSplit) {
		return "No clients found for the given purchase reference"
	}
	if err != nil {
		h.logger.WithError(err).Error("failed to split gateway payment")
		return "An unexpected error occurred"
	}
	return "Transaction updated successfully"
}

func parseAmountInCents(v interface{}) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, errors.New("amount_in_cents is not numeric")
	}
	return n.Int64()
}

// paymentMethodType digs the method name out of the payment_method object.
func paymentMethodType(v interface{}) string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	t, _ := m["type"].(string)
	return t
}

// parseFinalizedAt parses the gateway's RFC3339 timestamp, falling back to
// the delivery time when it is missing or malformed.
func parseFinalizedAt(v interface{}) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}
