package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"connectify/config"
	"connectify/models"
	"connectify/services/booking"
	"connectify/utils"
)

const (
	payrexxBaseURL     = "https://api.payrexx.com/v1.0"
	payrexxCallTimeout = 15 * time.Second

	// Payrexx gateways carry no metadata, so the fulfillment context is
	// parked in Redis under the reference id until the webhook arrives.
	pendingKeyPrefix = "payrexx:pending:"
	pendingTTL       = 24 * time.Hour
)

// PayrexxService creates hosted payment gateways on a Payrexx instance and
// resolves their webhooks back to fulfillment requests.
type PayrexxService interface {
	CreateGateway(ctx context.Context, req models.CreateGatewayRequest) (models.CreateGatewayResponse, error)
	ResolveWebhook(ctx context.Context, payload []byte) (*models.FulfillmentRequest, error)
}

// DefaultPayrexxService talks to the Payrexx REST API directly; there is no
// official Go SDK. Requests are form-encoded and signed with HMAC-SHA256
// over the encoded parameters, per the Payrexx API reference.
type DefaultPayrexxService struct {
	HTTPClient *http.Client
}

func NewDefaultPayrexxService() PayrexxService {
	return &DefaultPayrexxService{
		HTTPClient: &http.Client{Timeout: payrexxCallTimeout},
	}
}

type payrexxAPIResponse struct {
	Status string `json:"status"`
	Data []struct {
		Link string `json:"link"`
	} `json:"data"`
	Message string `json:"message"`
}

type payrexxWebhookPayload struct {
	Transaction *struct {
		ID          int64  `json:"id"`
		Status      string `json:"status"`
		ReferenceID string `json:"referenceId"`
	} `json:"transaction"`
	EventType string `json:"type"`
}

// CreateGateway opens a hosted payment page for the requested slot and
// parks the fulfillment context in Redis keyed by the generated reference
// id.
func (s *DefaultPayrexxService) CreateGateway(ctx context.Context, req models.CreateGatewayRequest) (models.CreateGatewayResponse, error) {
	logger := utils.GetLogger()
	cfg := config.AppConfig

	ff := models.FulfillmentRequest{
		Kind:        models.FulfillmentKindCalendarBooking,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Summary:     req.Summary,
		Description: req.Description,
		ReferenceID: fmt.Sprintf("connectify-%s", uuid.New().String()),
	}

	tier, err := tierForRange(req.StartTime, req.EndTime)
	if err != nil {
		return models.CreateGatewayResponse{}, err
	}
	currency := strings.ToUpper(tier.Currency)
	if currency == "" {
		currency = strings.ToUpper(cfg.DefaultCurrency)
	}

	params := url.Values{}
	params.Set("amount", strconv.FormatInt(tier.UnitAmount, 10))
	params.Set("currency", currency)
	params.Set("purpose", tier.ProductName)
	params.Set("referenceId", ff.ReferenceID)
	params.Set("successRedirectUrl", cfg.PayrexxSuccessURL)
	params.Set("failedRedirectUrl", cfg.PayrexxFailedURL)
	params.Set("cancelRedirectUrl", cfg.PayrexxCancelURL)
	if req.UserEmail != "" {
		params.Set("fields[email][value]", req.UserEmail)
	}

	// Encode() sorts keys, and the signature is computed over the encoded
	// string before the signature parameter itself is appended.
	signature := signPayrexx(params.Encode(), cfg.PayrexxAPISecret)
	params.Set("ApiSignature", signature)

	endpoint := fmt.Sprintf("%s/Gateway/?instance=%s", payrexxBaseURL, url.QueryEscape(cfg.PayrexxInstance))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return models.CreateGatewayResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(httpReq)
	if err != nil {
		return models.CreateGatewayResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.CreateGatewayResponse{}, err
	}

	var apiResp payrexxAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.CreateGatewayResponse{}, &ProviderAPIError{
			Provider: "payrexx",
			Status:   resp.Status,
			Message:  string(body),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || apiResp.Status != "success" {
		return models.CreateGatewayResponse{}, &ProviderAPIError{
			Provider: "payrexx",
			Status:   apiResp.Status,
			Message:  apiResp.Message,
		}
	}
	if len(apiResp.Data) == 0 || apiResp.Data[0].Link == "" {
		return models.CreateGatewayResponse{}, &ProviderAPIError{
			Provider: "payrexx",
			Status:   apiResp.Status,
			Message:  "response missing gateway link",
		}
	}

	if err := s.storePending(ctx, ff); err != nil {
		logger.Error("failed to park fulfillment context", zap.Error(err))
		return models.CreateGatewayResponse{}, err
	}

	logger.Info("created payrexx gateway", zap.String("referenceID", ff.ReferenceID))
	return models.CreateGatewayResponse{URL: apiResp.Data[0].Link, ReferenceID: ff.ReferenceID}, nil
}

// ResolveWebhook maps a transaction webhook to the parked fulfillment
// request. Non-confirmed statuses and unknown reference ids yield
// (nil, nil): acknowledged, nothing to fulfil.
func (s *DefaultPayrexxService) ResolveWebhook(ctx context.Context, payload []byte) (*models.FulfillmentRequest, error) {
	logger := utils.GetLogger()

	var wh payrexxWebhookPayload
	if err := json.Unmarshal(payload, &wh); err != nil {
		return nil, fmt.Errorf("malformed payrexx webhook payload: %w", err)
	}
	if wh.Transaction == nil {
		logger.Warn("payrexx webhook without transaction data")
		return nil, nil
	}
	if wh.Transaction.Status != "confirmed" {
		logger.Info("ignoring payrexx transaction status",
			zap.String("status", wh.Transaction.Status),
			zap.String("referenceID", wh.Transaction.ReferenceID))
		return nil, nil
	}
	if wh.Transaction.ReferenceID == "" {
		logger.Warn("confirmed payrexx transaction without reference id",
			zap.Int64("transactionID", wh.Transaction.ID))
		return nil, nil
	}

	ff, err := s.loadPending(ctx, wh.Transaction.ReferenceID)
	if err != nil {
		return nil, err
	}
	if ff == nil {
		// Context expired or this instance never created the gateway; the
		// fulfillment endpoint can still be invoked manually from the audit
		// trail.
		logger.Warn("no pending context for confirmed payment",
			zap.String("referenceID", wh.Transaction.ReferenceID))
		return nil, nil
	}
	return ff, nil
}

func (s *DefaultPayrexxService) storePending(ctx context.Context, ff models.FulfillmentRequest) error {
	data, err := json.Marshal(ff)
	if err != nil {
		return err
	}
	return utils.GetCacheClient().Set(ctx, pendingKeyPrefix+ff.ReferenceID, data, pendingTTL).Err()
}

func (s *DefaultPayrexxService) loadPending(ctx context.Context, referenceID string) (*models.FulfillmentRequest, error) {
	data, err := utils.GetCacheClient().Get(ctx, pendingKeyPrefix+referenceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ff models.FulfillmentRequest
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, err
	}
	return &ff, nil
}

func signPayrexx(queryString, apiSecret string) string {
	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(queryString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// tierForRange prices a start/end pair by its duration.
func tierForRange(startTime, endTime string) (models.PriceTier, error) {
	start, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		return models.PriceTier{}, booking.NewValidationError("invalid start_time: %v", err)
	}
	end, err := time.Parse(time.RFC3339, endTime)
	if err != nil {
		return models.PriceTier{}, booking.NewValidationError("invalid end_time: %v", err)
	}
	if !end.After(start) {
		return models.PriceTier{}, booking.NewValidationError("end time must be after start time")
	}
	return booking.MatchPriceTier(config.AppConfig.PriceTiers, int(end.Sub(start)/time.Minute))
}
