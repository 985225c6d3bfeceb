package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/pricing"
)

// Client calls the destination-catalog service with a service key.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a destination-catalog HTTP client.
func NewClient(baseURL, serviceKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// destinationNode is the upstream destination shape. Cost arrives as a string
// or a number depending on the source, so it goes through the normalizer.
type destinationNode struct {
	Name         string             `json:"name"`
	Cost         *pricing.FlexValue `json:"cost"`
	ShippingMode string             `json:"shipping_mode"`
}

type destinationsResponse struct {
	Data []destinationNode `json:"data"`
}

// FetchDestinations retrieves the destination list. Returns an error when the
// service is unreachable or misconfigured; the caller decides the fallback.
func (c *Client) FetchDestinations(ctx context.Context) ([]*domain.Destination, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog client not configured: base URL required")
	}
	u, err := url.Parse(c.baseURL + "/v1/destinations")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Destination catalog request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog returned %d: %s", resp.StatusCode, string(body))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseDestinations(raw, c.logger)
}

// ParseDestinations converts the upstream payload into domain destinations.
// Nodes without a name are dropped; unknown shipping modes default to ground.
func ParseDestinations(raw []byte, logger *zap.Logger) ([]*domain.Destination, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var resp destinationsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	normalizer := pricing.NewNormalizer(logger)
	out := make([]*domain.Destination, 0, len(resp.Data))
	for _, node := range resp.Data {
		name := strings.TrimSpace(node.Name)
		if name == "" {
			continue
		}
		mode := domain.ShippingMode(strings.ToLower(strings.TrimSpace(node.ShippingMode)))
		if !mode.IsValid() {
			mode = domain.ShippingModeGround
		}
		out = append(out, &domain.Destination{
			ID:           DestinationID(name),
			Name:         name,
			Cost:         normalizer.Normalize("destination:"+name, pricing.RawPrice{Price: node.Cost}),
			ShippingMode: mode,
			IsActive:     true,
		})
	}
	return out, nil
}

// DestinationID derives a stable ID from the destination name so repeated
// syncs and the hardcoded fallback agree on identity.
func DestinationID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ferrejmg/destinations/"+strings.ToLower(strings.TrimSpace(name))))
}
