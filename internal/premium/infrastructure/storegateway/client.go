package storegateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/novaplan/premium/internal/premium/domain"
)

// GatewayConfig configures the HTTP billing gateway client.
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Gateway implements the Store boundary against the billing gateway's REST
// API, with live purchase events delivered over the AMQP feed.
type Gateway struct {
	baseURL string
	apiKey  string
	http    *http.Client
	feed    *EventFeed
	logger  *slog.Logger
}

// NewGateway creates the client. The feed may be nil when no event broker
// is configured; listener registration then fails and the reconciler runs
// on restore passes alone.
func NewGateway(cfg GatewayConfig, feed *EventFeed) *Gateway {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    cfg.HTTPClient,
		feed:    feed,
		logger:  cfg.Logger,
	}
}

// Connect verifies the gateway is reachable and starts the event feed.
func (g *Gateway) Connect(ctx context.Context) error {
	if err := g.do(ctx, http.MethodGet, "/v1/health", nil, nil); err != nil {
		return fmt.Errorf("gateway health check: %w", err)
	}
	if g.feed != nil {
		if err := g.feed.Start(ctx); err != nil {
			return fmt.Errorf("start event feed: %w", err)
		}
	}
	return nil
}

// Disconnect stops the event feed. The HTTP client is stateless.
func (g *Gateway) Disconnect() error {
	if g.feed != nil {
		return g.feed.Close()
	}
	return nil
}

type gatewayProduct struct {
	ID           string `json:"id"`
	PriceMicros  int64  `json:"price_micros"`
	DisplayPrice string `json:"display_price"`
	Platform     string `json:"platform"`
	Offers       []struct {
		BasePlanID string `json:"base_plan_id"`
		Token      string `json:"token"`
	} `json:"offers"`
}

// FetchCatalog queries product definitions for the given ids.
func (g *Gateway) FetchCatalog(ctx context.Context, ids []string, kind domain.ProductKind) ([]domain.Product, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("kind", string(kind))

	var raw []gatewayProduct
	if err := g.do(ctx, http.MethodGet, "/v1/products?"+query.Encode(), nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(raw))
	for _, p := range raw {
		offers := make([]domain.OfferDetail, 0, len(p.Offers))
		for _, o := range p.Offers {
			offers = append(offers, domain.OfferDetail{BasePlanID: o.BasePlanID, Token: o.Token})
		}
		products = append(products, domain.Product{
			ID:           p.ID,
			PriceMicros:  p.PriceMicros,
			DisplayPrice: p.DisplayPrice,
			Platform:     p.Platform,
			Offers:       offers,
		})
	}
	return products, nil
}

type gatewayPurchase struct {
	ProductID    string `json:"product_id"`
	Acknowledged bool   `json:"acknowledged"`
	AutoRenewing bool   `json:"auto_renewing"`
	Token        string `json:"token"`
}

// FetchExistingPurchases queries the purchases currently owned by the
// account.
func (g *Gateway) FetchExistingPurchases(ctx context.Context) ([]domain.Purchase, error) {
	var raw []gatewayPurchase
	if err := g.do(ctx, http.MethodGet, "/v1/purchases", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}
	purchases := make([]domain.Purchase, 0, len(raw))
	for _, p := range raw {
		purchases = append(purchases, domain.Purchase{
			ProductID:    p.ProductID,
			Acknowledged: p.Acknowledged,
			AutoRenewing: p.AutoRenewing,
			Token:        p.Token,
		})
	}
	return purchases, nil
}

// RequestPurchase starts a purchase. Completion arrives later on the event
// feed.
func (g *Gateway) RequestPurchase(ctx context.Context, req domain.PurchaseRequest) error {
	body := map[string]string{
		"product_id":            req.ProductID,
		"kind":                  string(req.Kind),
		"offer_token":           req.OfferToken,
		"obfuscated_account_id": req.ObfuscatedAccountID,
	}
	if err := g.do(ctx, http.MethodPost, "/v1/purchases", body, nil); err != nil {
		return fmt.Errorf("request purchase: %w", err)
	}
	return nil
}

// FinalizePurchase acknowledges (or consumes) the purchase.
func (g *Gateway) FinalizePurchase(ctx context.Context, p domain.Purchase, consumable bool) error {
	body := map[string]any{
		"token":      p.Token,
		"consumable": consumable,
	}
	if err := g.do(ctx, http.MethodPost, "/v1/purchases/acknowledge", body, nil); err != nil {
		return fmt.Errorf("finalize purchase: %w", err)
	}
	return nil
}

// OnPurchaseUpdated registers a live purchase handler on the event feed.
func (g *Gateway) OnPurchaseUpdated(handler func(ctx context.Context, p domain.Purchase)) (domain.Subscription, error) {
	if g.feed == nil {
		return nil, fmt.Errorf("no event feed configured")
	}
	return g.feed.OnPurchaseUpdated(handler)
}

// OnPurchaseError registers a purchase error handler on the event feed.
func (g *Gateway) OnPurchaseError(handler func(ctx context.Context, e domain.PurchaseError)) (domain.Subscription, error) {
	if g.feed == nil {
		return nil, fmt.Errorf("no event feed configured")
	}
	return g.feed.OnPurchaseError(handler)
}

func (g *Gateway) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

var _ domain.Store = (*Gateway)(nil)
