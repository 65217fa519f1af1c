// Package remote is the promoter agent's HTTP client for the sales service.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/config"
	authdto "github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/auth"
	bonusdto "github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/bonus"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/dto/sale/response"
	"github.com/LavaJover/shvark-sales-sync/internal/delivery/http/mappers"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"resty.dev/v3"
)

const (
	salesPath        = "/api/v1/sales"
	schemesPath      = "/api/v1/bonus-schemes"
	motivationsPath  = "/api/v1/motivations"
	telegramAuthPath = "/api/v1/auth/telegram"
)

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

func NewClient(cfg config.SalesService, sessionToken string) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	return &Client{
		http:  httpClient,
		token: sessionToken,
	}
}

// HTTP exposes the underlying client so the reachability prober shares its
// base URL and timeouts.
func (c *Client) HTTP() *resty.Client {
	return c.http
}

func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) SetSessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) sessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.sessionToken(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// Insert submits one sale. The service answers 201 for a new sale and 200 when
// it already holds one with the same client UUID; both count as stored.
func (c *Client) Insert(ctx context.Context, sale *domain.PendingSale) error {
	var created response.CreateSaleResponse
	res, err := c.request(ctx).
		SetBody(mappers.ToCreateSaleRequest(sale)).
		SetResult(&created).
		Post(salesPath)
	if err != nil {
		return fmt.Errorf("failed to submit sale %s: %w", sale.ID, err)
	}
	switch res.StatusCode() {
	case http.StatusCreated, http.StatusOK:
		return nil
	}
	return statusError(res)
}

func (c *Client) FetchSchemes(ctx context.Context) ([]*domain.BonusScheme, error) {
	var body bonusdto.BonusSchemesResponse
	res, err := c.request(ctx).SetResult(&body).Get(schemesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bonus schemes: %w", err)
	}
	if res.IsError() {
		return nil, statusError(res)
	}
	schemes := make([]*domain.BonusScheme, 0, len(body.Schemes))
	for _, s := range body.Schemes {
		schemes = append(schemes, mappers.ToDomainBonusScheme(s))
	}
	return schemes, nil
}

func (c *Client) FetchMotivations(ctx context.Context) ([]*domain.Motivation, error) {
	var body bonusdto.MotivationsResponse
	res, err := c.request(ctx).SetResult(&body).Get(motivationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch motivations: %w", err)
	}
	if res.IsError() {
		return nil, statusError(res)
	}
	motivations := make([]*domain.Motivation, 0, len(body.Motivations))
	for _, m := range body.Motivations {
		motivations = append(motivations, mappers.ToDomainMotivation(m))
	}
	return motivations, nil
}

// Authenticate exchanges Telegram init data for a session token and uses it
// for every later request.
func (c *Client) Authenticate(ctx context.Context, initData string) (*authdto.TelegramAuthResponse, error) {
	var body authdto.TelegramAuthResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(authdto.TelegramAuthRequest{InitData: initData}).
		SetResult(&body).
		Post(telegramAuthPath)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if res.IsError() {
		return nil, statusError(res)
	}
	c.SetSessionToken(body.Token)
	return &body, nil
}

// Login is Authenticate reduced to the identity the agent keeps.
func (c *Client) Login(ctx context.Context, initData string) (*domain.AgentIdentity, error) {
	res, err := c.Authenticate(ctx, initData)
	if err != nil {
		return nil, err
	}
	return &domain.AgentIdentity{
		PromoterID:   res.PromoterID,
		SessionToken: res.Token,
		LoggedInAt:   time.Now().UTC(),
	}, nil
}

func statusError(res *resty.Response) error {
	msg := strings.TrimSpace(res.String())
	switch {
	case res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", domain.ErrUnauthorized, res.StatusCode(), msg)
	case res.StatusCode() >= 400 && res.StatusCode() < 500:
		return fmt.Errorf("%w: status %d: %s", domain.ErrRemoteRejected, res.StatusCode(), msg)
	default:
		return fmt.Errorf("sales service returned status %d: %s", res.StatusCode(), msg)
	}
}
