package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/telassist/telassist/engine/core"
)

func TestDirectSystemPrompt(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("Should fall back to neutral defaults for anonymous callers", func(t *testing.T) {
		prompt := directSystemPrompt(policy, nil)
		assert.Contains(t, prompt, "Valued Customer")
		assert.Contains(t, prompt, "English")
		assert.Contains(t, prompt, "Unknown")
		assert.NotContains(t, prompt, "Phone:")
	})

	t.Run("Should carry the safety policy numbers", func(t *testing.T) {
		prompt := directSystemPrompt(policy, nil)
		assert.Contains(t, prompt, policy.EmergencyNumber)
		assert.Contains(t, prompt, "between 150 and 1200 TRY")
	})

	t.Run("Should render the customer snapshot", func(t *testing.T) {
		balance := 12.0
		cust := &core.CustomerContext{
			Name:          "Fatma Kaya",
			Language:      "Turkish",
			Phone:         "+905550001122",
			BalanceTRY:    &balance,
			IsNewCustomer: true,
			Package:       &core.PackageInfo{Name: "Platinum", DataAllowance: "50GB", DaysRemaining: 12},
		}
		prompt := directSystemPrompt(policy, cust)
		assert.Contains(t, prompt, "Fatma Kaya")
		assert.Contains(t, prompt, "Turkish")
		assert.Contains(t, prompt, "+905550001122")
		assert.Contains(t, prompt, "Platinum, 50GB, 12 days remaining")
		assert.Contains(t, prompt, "12.00 TRY")
		assert.Contains(t, prompt, "new customer")
	})
}

func TestToolSystemPrompt(t *testing.T) {
	t.Run("Should bind the brand and the tool-usage contract", func(t *testing.T) {
		prompt := toolSystemPrompt(DefaultPolicy())
		assert.Contains(t, prompt, "Turkcell")
		assert.Contains(t, prompt, "call a matching tool")
		assert.Contains(t, prompt, "112")
	})
}

func TestCustomerContextPrompt(t *testing.T) {
	t.Run("Should be empty without a customer", func(t *testing.T) {
		assert.Empty(t, customerContextPrompt(nil))
	})

	t.Run("Should include the identifiers tools need", func(t *testing.T) {
		cust := &core.CustomerContext{
			Name:           "Ali Veli",
			SubscriptionID: "SUB-7",
			BalanceID:      "BAL-7",
		}
		prompt := customerContextPrompt(cust)
		assert.Contains(t, prompt, "Ali Veli")
		assert.Contains(t, prompt, "SUB-7")
		assert.Contains(t, prompt, "BAL-7")
	})
}
