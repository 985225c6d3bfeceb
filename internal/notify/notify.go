package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

const gatewayTimeout = 10 * time.Second

// Gateway pushes created orders to the staff notification endpoint so the
// shop phone sees new orders even if the customer abandons the WhatsApp tab.
// All sends are best-effort; OrderCreated is intended to run in a goroutine.
type Gateway struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGateway creates a notification gateway client. A nil return means
// notifications are disabled (no URL configured).
func NewGateway(cfg config.NotifyConfig, logger *zap.Logger) *Gateway {
	if cfg.BaseURL == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		baseURL:    cfg.BaseURL,
		secret:     cfg.Secret,
		httpClient: &http.Client{Timeout: gatewayTimeout},
		logger:     logger,
	}
}

// OrderCreated sends the order summary. Never returns an error; failures are
// logged and dropped.
func (g *Gateway) OrderCreated(order *domain.Order) {
	if g == nil || order == nil {
		return
	}

	payload := map[string]interface{}{
		"event":          "order_created",
		"order_id":       order.ID.String(),
		"code":           order.Code,
		"customer_name":  order.CustomerName,
		"customer_phone": order.CustomerPhone,
		"order_type":     order.OrderType,
		"total":          order.Total.StringFixed(2),
		"message":        order.Message,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		g.logger.Warn("Notify: failed to marshal order payload", zap.Error(err))
		return
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		g.logger.Warn("Notify: failed to create request", zap.String("url", g.baseURL), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if g.secret != "" {
		req.Header.Set("Authorization", "Bearer "+g.secret)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("Notify: order notification request failed", zap.String("url", g.baseURL), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("Notify: order notification returned non-2xx",
			zap.String("url", g.baseURL), zap.Int("status", resp.StatusCode))
		return
	}
	g.logger.Info("Notify: order notification sent", zap.String("code", order.Code), zap.Int("status", resp.StatusCode))
}
