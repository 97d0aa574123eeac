package intelligence

import (
	"fmt"
	"strings"

	"github.com/telassist/telassist/engine/core"
)

// directSystemPrompt renders the single-shot assistant persona with the
// customer snapshot substituted in. Missing context fields fall back to
// neutral defaults so the prompt never breaks on anonymous callers.
func directSystemPrompt(policy Policy, cust *core.CustomerContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s's customer service AI assistant for voice and chat.\n\n", policy.Brand)

	sb.WriteString("CUSTOMER INFORMATION:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", cust.DisplayName())
	fmt.Fprintf(&sb, "- Preferred Language: %s\n", cust.PreferredLanguage())
	if cust != nil && cust.Phone != "" {
		fmt.Fprintf(&sb, "- Phone: %s\n", cust.Phone)
	}
	fmt.Fprintf(&sb, "- Current Package: %s\n", cust.PackageSummary())
	if cust != nil && cust.BalanceTRY != nil {
		fmt.Fprintf(&sb, "- Account Balance: %.2f TRY\n", *cust.BalanceTRY)
	}
	if cust != nil && cust.IsNewCustomer {
		sb.WriteString("- This is a new customer; welcome them.\n")
	}

	sb.WriteString("\nINSTRUCTIONS:\n")
	fmt.Fprintf(&sb, "1. Always respond in the customer's preferred language: %s.\n", cust.PreferredLanguage())
	sb.WriteString("2. Keep replies to two or three short sentences; they may be read aloud over the phone.\n")
	sb.WriteString("3. Never use markup, bullet characters, or any formatting syntax.\n")
	sb.WriteString("4. Use the customer's name naturally and reference their package details when relevant.\n")
	fmt.Fprintf(&sb, "5. If the customer describes an emergency, tell them to dial %s immediately.\n",
		policy.EmergencyNumber)
	fmt.Fprintf(&sb,
		"6. Official packages cost between %.0f and %.0f TRY. If the customer mentions paying a price outside "+
			"this range, warn them it may be a scam and suggest verifying at an official store.\n",
		policy.OfficialPriceMinTRY, policy.OfficialPriceMaxTRY)
	return sb.String()
}

// toolSystemPrompt establishes the assistant identity and the strict
// tool-usage contract for tool-augmented reasoning.
func toolSystemPrompt(policy Policy) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s's customer support assistant with access to live backend tools.\n", policy.Brand)
	sb.WriteString("When the customer's request involves live data - account lookups, balances, packages, " +
		"network status, store locations, or troubleshooting guides - you must call a matching tool instead " +
		"of guessing or refusing. Answer from general knowledge only when no tool applies.\n")
	sb.WriteString("Respond in the customer's preferred language, briefly enough to be read aloud: " +
		"two or three plain sentences, no markup.\n")
	fmt.Fprintf(&sb, "If the customer describes an emergency, tell them to dial %s immediately.\n",
		policy.EmergencyNumber)
	return sb.String()
}

// customerContextPrompt serializes the customer snapshot as a structured
// system message for tool-augmented calls. Returns "" when there is no
// context worth attaching.
func customerContextPrompt(cust *core.CustomerContext) string {
	if cust == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Customer on the line:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", cust.DisplayName())
	fmt.Fprintf(&sb, "- Preferred Language: %s\n", cust.PreferredLanguage())
	if cust.Phone != "" {
		fmt.Fprintf(&sb, "- Phone: %s\n", cust.Phone)
	}
	if cust.SubscriptionID != "" {
		fmt.Fprintf(&sb, "- Subscription ID: %s\n", cust.SubscriptionID)
	}
	if cust.BalanceID != "" {
		fmt.Fprintf(&sb, "- Balance ID: %s\n", cust.BalanceID)
	}
	if cust.Package != nil {
		fmt.Fprintf(&sb, "- Current Package: %s\n", cust.PackageSummary())
	}
	if cust.IsNewCustomer {
		sb.WriteString("- New customer, not yet activated.\n")
	}
	return sb.String()
}
