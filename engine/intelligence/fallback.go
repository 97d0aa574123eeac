package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/telassist/telassist/engine/core"
)

// SafeFallback is the terminal, always-succeeding responder. It performs
// no I/O and cannot fail; the orchestrator's total-response guarantee
// rests on it. The reply is a canned apology/redirect localized from the
// customer's language code when one is present.
type SafeFallback struct {
	policy Policy
}

// NewSafeFallback builds the fallback provider.
func NewSafeFallback(policy Policy) *SafeFallback {
	return &SafeFallback{policy: policy}
}

func (p *SafeFallback) Name() string { return ProviderSafeFallback }

var fallbackTemplates = map[string]string{
	"EN": "I'm sorry, our assistant is temporarily unavailable. Please try again in a few minutes or dial %s to reach a customer representative.",
	"TR": "Üzgünüm, asistanımız şu anda hizmet veremiyor. Lütfen birkaç dakika sonra tekrar deneyin veya müşteri temsilcisine ulaşmak için %s'yi arayın.",
	"AR": "عذراً، المساعد غير متاح مؤقتاً. يرجى المحاولة مرة أخرى بعد دقائق أو الاتصال بالرقم %s للتحدث مع ممثل خدمة العملاء.",
	"DE": "Entschuldigung, unser Assistent ist vorübergehend nicht verfügbar. Bitte versuchen Sie es in einigen Minuten erneut oder wählen Sie %s, um einen Kundenberater zu erreichen.",
	"RU": "Извините, наш ассистент временно недоступен. Пожалуйста, попробуйте снова через несколько минут или наберите %s, чтобы связаться с оператором.",
}

// Ask implements Provider and never returns an error.
func (p *SafeFallback) Ask(_ context.Context, _ core.History, cust *core.CustomerContext) (string, error) {
	lang := ""
	if cust != nil {
		lang = cust.Language
	}
	template, ok := fallbackTemplates[languageCode(lang)]
	if !ok {
		template = fallbackTemplates["EN"]
	}
	return fmt.Sprintf(template, p.policy.SupportLine), nil
}

// languageCode normalizes language names and ISO codes onto the small set
// of supported fallback locales.
func languageCode(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "tr", "turkish", "türkçe":
		return "TR"
	case "ar", "arabic":
		return "AR"
	case "de", "german", "deutsch":
		return "DE"
	case "ru", "russian":
		return "RU"
	default:
		return "EN"
	}
}
