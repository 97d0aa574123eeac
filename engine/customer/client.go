// Package customer looks up subscriber records from the backend customer
// API. The core only consumes the resulting CustomerContext snapshot.
package customer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/telassist/telassist/engine/core"
)

// ErrNotFound is returned when no customer matches the phone number.
var ErrNotFound = errors.New("customer not found")

// Config holds customer API connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is an HTTP client for the customer-data service.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the configured backend.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetHeader("X-API-Key", cfg.APIKey)
	}
	return &Client{http: httpClient}
}

// lookupResponse is the backend's documented envelope for customer lookups.
// The service commits to this one shape; the client does not guess among
// alternative wrappings.
type lookupResponse struct {
	Customer struct {
		FullName          string `json:"full_name"`
		PreferredLanguage string `json:"preferred_language"`
		Phone             string `json:"phone"`
		IsNewCustomer     bool   `json:"is_new_customer"`
	} `json:"customer"`
	Subscription *struct {
		SubscriptionID string `json:"subscription_id"`
		BalanceID      string `json:"balance_id"`
		Package        *struct {
			Name          string  `json:"package_name"`
			DataAllowance string  `json:"data_allowance"`
			ValidityDays  int     `json:"validity_days"`
			PriceTRY      float64 `json:"price_try"`
		} `json:"package"`
		BalanceTRY *float64 `json:"balance_try"`
	} `json:"subscription"`
}

// LookupByPhone resolves a caller identifier to a customer snapshot.
// Channel prefixes like "whatsapp:" are stripped before the lookup.
func (c *Client) LookupByPhone(ctx context.Context, phone string) (*core.CustomerContext, error) {
	normalized := core.NormalizePhone(phone)

	var body lookupResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("phone", normalized).
		SetResult(&body).
		Get("/api/v1/customers/lookup")
	if err != nil {
		return nil, fmt.Errorf("customer lookup request failed: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		// fall through to decode below
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, core.NewError(
			fmt.Errorf("customer lookup returned status %d", resp.StatusCode()),
			"CUSTOMER_LOOKUP_FAILED",
			map[string]any{"status": resp.StatusCode()},
		)
	}

	cust := &core.CustomerContext{
		Name:          body.Customer.FullName,
		Language:      body.Customer.PreferredLanguage,
		Phone:         normalized,
		IsNewCustomer: body.Customer.IsNewCustomer,
	}
	if sub := body.Subscription; sub != nil {
		cust.SubscriptionID = sub.SubscriptionID
		cust.BalanceID = sub.BalanceID
		cust.BalanceTRY = sub.BalanceTRY
		if pkg := sub.Package; pkg != nil {
			cust.Package = &core.PackageInfo{
				Name:          pkg.Name,
				DataAllowance: pkg.DataAllowance,
				DaysRemaining: pkg.ValidityDays,
				PriceTRY:      pkg.PriceTRY,
			}
		}
	}
	return cust, nil
}
