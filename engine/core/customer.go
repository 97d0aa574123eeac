package core

import (
	"fmt"
	"strings"
)

// PackageInfo describes the subscriber's active package, when known.
type PackageInfo struct {
	Name          string  `json:"name"`
	DataAllowance string  `json:"data_allowance,omitempty"`
	DaysRemaining int     `json:"days_remaining,omitempty"`
	PriceTRY      float64 `json:"price_try,omitempty"`
}

// CustomerContext is a read-only snapshot of who is talking and their
// account state. It is produced by the customer-data service and passed
// through to providers; the core never persists it.
type CustomerContext struct {
	Name           string       `json:"name"`
	Language       string       `json:"language"`
	Phone          string       `json:"phone"`
	Package        *PackageInfo `json:"package,omitempty"`
	BalanceTRY     *float64     `json:"balance_try,omitempty"`
	IsNewCustomer  bool         `json:"is_new_customer"`
	SubscriptionID string       `json:"subscription_id,omitempty"`
	BalanceID      string       `json:"balance_id,omitempty"`
}

// DisplayName returns the customer's name or a neutral default for
// unidentified callers.
func (c *CustomerContext) DisplayName() string {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return "Valued Customer"
	}
	return c.Name
}

// PreferredLanguage returns the customer's language or English as default.
func (c *CustomerContext) PreferredLanguage() string {
	if c == nil || strings.TrimSpace(c.Language) == "" {
		return "English"
	}
	return c.Language
}

// PackageSummary renders the package as a single prompt-friendly line.
func (c *CustomerContext) PackageSummary() string {
	if c == nil || c.Package == nil {
		return "Unknown"
	}
	p := c.Package
	parts := []string{p.Name}
	if p.DataAllowance != "" {
		parts = append(parts, p.DataAllowance)
	}
	if p.DaysRemaining > 0 {
		parts = append(parts, fmt.Sprintf("%d days remaining", p.DaysRemaining))
	}
	if p.PriceTRY > 0 {
		parts = append(parts, fmt.Sprintf("paid %.2f TRY", p.PriceTRY))
	}
	return strings.Join(parts, ", ")
}

// NormalizePhone strips channel prefixes and whitespace from a caller
// identifier so lookups are stable across voice and chat.
func NormalizePhone(raw string) string {
	phone := strings.TrimPrefix(raw, "whatsapp:")
	phone = strings.ReplaceAll(phone, " ", "")
	return strings.TrimSpace(phone)
}
