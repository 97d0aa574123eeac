package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telassist/telassist/engine/core"
	"github.com/telassist/telassist/engine/store"
	"github.com/telassist/telassist/pkg/logger"
)

// endKeywords terminate a voice conversation when they appear in the
// caller's speech, across the supported languages.
var endKeywords = []string{
	"goodbye", "bye", "thank you", "thanks", "that's all",
	"hoşçakal", "teşekkürler", "شكرا", "وداعا",
}

func shouldEndCall(speech string) bool {
	lower := strings.ToLower(speech)
	for _, kw := range endKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func greetingFor(cust *core.CustomerContext) string {
	name := cust.DisplayName()
	switch cust.PreferredLanguage() {
	case "Turkish", "TR", "tr":
		return fmt.Sprintf("Merhaba %s! Ben yapay zeka asistanınızım. Size nasıl yardımcı olabilirim?", name)
	case "Arabic", "AR", "ar":
		return fmt.Sprintf("مرحبا %s! أنا مساعد الذكاء الاصطناعي. كيف يمكنني مساعدتك؟", name)
	default:
		return fmt.Sprintf("Hello %s! I'm your AI assistant. How can I help you today?", name)
	}
}

// lookupCustomer resolves the caller, degrading to a nil context when the
// customer service is unavailable or the caller is unknown.
func (s *Server) lookupCustomer(ctx context.Context, from string) *core.CustomerContext {
	if s.deps.Customers == nil || from == "" {
		return nil
	}
	cust, err := s.deps.Customers.LookupByPhone(ctx, from)
	if err != nil {
		s.deps.Log.Warn("customer lookup failed, continuing without context",
			"from", from, "error", err)
		return nil
	}
	return cust
}

// runTurn executes one conversational turn: load memory, append the user
// message, ask the orchestrator, persist the updated transcript, and log
// the interaction. It always returns a reply.
func (s *Server) runTurn(ctx context.Context, channel, from, userText string, cust *core.CustomerContext) string {
	key := core.NormalizePhone(from)
	ctx = logger.ContextWithLogger(ctx, s.deps.Log)

	history, err := s.deps.Sessions.Get(ctx, key)
	if err != nil {
		s.deps.Log.Warn("failed to load session, starting fresh", "key", key, "error", err)
		history = nil
	}

	turn := append(history.Clone(), core.UserMessage(userText))
	reply := s.deps.Orchestrator.Ask(ctx, turn, cust)

	updated := append(turn, core.AssistantMessage(reply)).Tail(s.cfg.MaxHistory)
	if err := s.deps.Sessions.Put(ctx, key, updated); err != nil {
		s.deps.Log.Warn("failed to persist session", "key", key, "error", err)
	}

	if s.deps.Interactions != nil {
		in := store.Interaction{
			CustomerID:     key,
			Channel:        channel,
			UserMessage:    userText,
			AssistantReply: reply,
			SessionID:      uuid.NewString(),
		}
		if cust != nil && cust.SubscriptionID != "" {
			in.CustomerID = cust.SubscriptionID
		}
		if err := s.deps.Interactions.Log(ctx, in); err != nil {
			s.deps.Log.Warn("failed to log interaction", "error", err)
		}
	}
	return reply
}

// handleChatMessage serves the WhatsApp/chat webhook.
func (s *Server) handleChatMessage(c *gin.Context) {
	from := c.PostForm("From")
	body := strings.TrimSpace(c.PostForm("Body"))
	if body == "" {
		c.XML(http.StatusOK, twimlMessagingResponse{
			Message: twimlMessage{Body: "Please send a message describing your issue."},
		})
		return
	}

	cust := s.lookupCustomer(c.Request.Context(), from)
	reply := s.runTurn(c.Request.Context(), "CHAT", from, body, cust)
	c.XML(http.StatusOK, twimlMessagingResponse{Message: twimlMessage{Body: reply}})
}

// handleVoiceIncoming greets the caller and gathers speech.
func (s *Server) handleVoiceIncoming(c *gin.Context) {
	from := c.PostForm("From")
	cust := s.lookupCustomer(c.Request.Context(), from)

	greeting := greetingFor(cust)
	voice := pollyVoiceFor(cust.PreferredLanguage())

	c.XML(http.StatusOK, twimlVoiceResponse{
		Gather: &twimlGather{
			Input:         "speech",
			Action:        "/voice/process",
			SpeechTimeout: "auto",
			Timeout:       5,
			Say:           &twimlSay{Voice: voice, Text: greeting},
		},
		Say: []twimlSay{{Voice: voice, Text: "I didn't hear anything. Please call again if you need help. Goodbye!"}},
	})
}

// handleVoiceProcess answers one spoken turn and either continues the
// conversation or hangs up on an end keyword.
func (s *Server) handleVoiceProcess(c *gin.Context) {
	from := c.PostForm("From")
	speech := strings.TrimSpace(c.PostForm("SpeechResult"))

	cust := s.lookupCustomer(c.Request.Context(), from)
	voice := pollyVoiceFor(cust.PreferredLanguage())

	if speech == "" {
		c.XML(http.StatusOK, twimlVoiceResponse{
			Say:    []twimlSay{{Voice: voice, Text: "I didn't hear your response. Goodbye!"}},
			Hangup: &twimlHangup{},
		})
		return
	}

	reply := s.runTurn(c.Request.Context(), "VOICE", from, speech, cust)

	if shouldEndCall(speech) {
		c.XML(http.StatusOK, twimlVoiceResponse{
			Say: []twimlSay{
				{Voice: voice, Text: reply},
				{Voice: voice, Text: "Thank you for calling. Goodbye!"},
			},
			Hangup: &twimlHangup{},
		})
		return
	}

	c.XML(http.StatusOK, twimlVoiceResponse{
		Gather: &twimlGather{
			Input:         "speech",
			Action:        "/voice/process",
			SpeechTimeout: "auto",
			Timeout:       5,
			Say:           &twimlSay{Voice: voice, Text: reply},
		},
		Say: []twimlSay{{Voice: voice, Text: "I didn't hear your response. Goodbye!"}},
	})
}
