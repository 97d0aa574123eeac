package server

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telassist/telassist/engine/core"
	"github.com/telassist/telassist/engine/intelligence"
	"github.com/telassist/telassist/engine/session"
	"github.com/telassist/telassist/engine/store"
	"github.com/telassist/telassist/pkg/logger"
)

// echoProvider replies deterministically and records the histories it saw.
type echoProvider struct {
	mu        sync.Mutex
	histories []core.History
}

func (p *echoProvider) Name() string { return intelligence.ProviderDirectModel }

func (p *echoProvider) Ask(_ context.Context, history core.History, _ *core.CustomerContext) (string, error) {
	p.mu.Lock()
	p.histories = append(p.histories, history.Clone())
	p.mu.Unlock()
	last := history[len(history)-1]
	return fmt.Sprintf("echo: %s", last.Content), nil
}

func (p *echoProvider) seen() []core.History {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.histories
}

type fakeCustomers struct {
	cust *core.CustomerContext
	err  error
}

func (f *fakeCustomers) LookupByPhone(context.Context, string) (*core.CustomerContext, error) {
	return f.cust, f.err
}

type recordingInteractions struct {
	mu   sync.Mutex
	rows []store.Interaction
}

func (r *recordingInteractions) Log(_ context.Context, in store.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, in)
	return nil
}

type testHarness struct {
	server       *Server
	provider     *echoProvider
	sessions     *session.MemoryStore
	interactions *recordingInteractions
}

func newHarness(t *testing.T, customers CustomerLookup) *testHarness {
	t.Helper()
	provider := &echoProvider{}
	orch := intelligence.New(intelligence.Config{
		Timeout:    time.Second,
		MaxRetries: 0,
		RetryDelay: time.Millisecond,
	}, provider, nil, intelligence.NewSafeFallback(intelligence.DefaultPolicy()))

	sessions := session.NewMemoryStore()
	interactions := &recordingInteractions{}
	srv := New(Config{MaxHistory: 6}, Dependencies{
		Orchestrator: orch,
		Customers:    customers,
		Sessions:     sessions,
		Interactions: interactions,
		Log:          logger.Nop(),
	})
	return &testHarness{server: srv, provider: provider, sessions: sessions, interactions: interactions}
}

func (h *testHarness) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeVoice(t *testing.T, rec *httptest.ResponseRecorder) twimlVoiceResponse {
	t.Helper()
	var resp twimlVoiceResponse
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleChatMessage(t *testing.T) {
	t.Run("Should reply through the orchestrator", func(t *testing.T) {
		h := newHarness(t, nil)

		rec := h.post(t, "/webhook", url.Values{
			"From": {"whatsapp:+905551234567"},
			"Body": {"my internet is slow"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp twimlMessagingResponse
		require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "echo: my internet is slow", resp.Message.Body)
	})

	t.Run("Should prompt for a message when the body is empty", func(t *testing.T) {
		h := newHarness(t, nil)

		rec := h.post(t, "/webhook", url.Values{"From": {"whatsapp:+905551234567"}})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp twimlMessagingResponse
		require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message.Body, "send a message")
		assert.Empty(t, h.provider.seen(), "no orchestrator call for an empty body")
	})

	t.Run("Should carry conversation memory across turns", func(t *testing.T) {
		h := newHarness(t, nil)
		form := func(body string) url.Values {
			return url.Values{"From": {"whatsapp:+905551234567"}, "Body": {body}}
		}

		h.post(t, "/webhook", form("first question"))
		h.post(t, "/webhook", form("second question"))

		seen := h.provider.seen()
		require.Len(t, seen, 2)
		assert.Len(t, seen[0], 1)
		require.Len(t, seen[1], 3, "second turn sees user, assistant, user")
		assert.Equal(t, "first question", seen[1][0].Content)
		assert.Equal(t, core.RoleAssistant, seen[1][1].Role)
		assert.Equal(t, "second question", seen[1][2].Content)
	})

	t.Run("Should cap stored history at the configured bound", func(t *testing.T) {
		h := newHarness(t, nil)
		for i := 0; i < 10; i++ {
			h.post(t, "/webhook", url.Values{
				"From": {"+905551234567"},
				"Body": {fmt.Sprintf("turn %d", i)},
			})
		}

		stored, err := h.sessions.Get(context.Background(), "+905551234567")
		require.NoError(t, err)
		assert.Len(t, stored, 6)
		assert.Equal(t, "echo: turn 9", stored[len(stored)-1].Content)
	})

	t.Run("Should log the interaction", func(t *testing.T) {
		cust := &core.CustomerContext{Name: "Ayşe", SubscriptionID: "SUB-42"}
		h := newHarness(t, &fakeCustomers{cust: cust})

		h.post(t, "/webhook", url.Values{"From": {"+905551234567"}, "Body": {"hello"}})

		require.Len(t, h.interactions.rows, 1)
		row := h.interactions.rows[0]
		assert.Equal(t, "CHAT", row.Channel)
		assert.Equal(t, "SUB-42", row.CustomerID)
		assert.Equal(t, "hello", row.UserMessage)
		assert.Equal(t, "echo: hello", row.AssistantReply)
		assert.NotEmpty(t, row.SessionID)
	})

	t.Run("Should keep answering when the customer lookup fails", func(t *testing.T) {
		h := newHarness(t, &fakeCustomers{err: errors.New("backend down")})

		rec := h.post(t, "/webhook", url.Values{"From": {"+905551234567"}, "Body": {"hello"}})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp twimlMessagingResponse
		require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "echo: hello", resp.Message.Body)
	})
}

func TestHandleVoiceIncoming(t *testing.T) {
	t.Run("Should greet a known customer in their language", func(t *testing.T) {
		cust := &core.CustomerContext{Name: "Ayşe Yılmaz", Language: "Turkish"}
		h := newHarness(t, &fakeCustomers{cust: cust})

		rec := h.post(t, "/voice/incoming", url.Values{"From": {"+905551234567"}})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeVoice(t, rec)
		require.NotNil(t, resp.Gather)
		assert.Equal(t, "speech", resp.Gather.Input)
		assert.Equal(t, "/voice/process", resp.Gather.Action)
		require.NotNil(t, resp.Gather.Say)
		assert.Equal(t, "Polly.Filiz", resp.Gather.Say.Voice)
		assert.Contains(t, resp.Gather.Say.Text, "Merhaba Ayşe Yılmaz")
	})

	t.Run("Should greet anonymous callers in English", func(t *testing.T) {
		h := newHarness(t, nil)

		rec := h.post(t, "/voice/incoming", url.Values{"From": {"+15550001111"}})

		resp := decodeVoice(t, rec)
		require.NotNil(t, resp.Gather)
		require.NotNil(t, resp.Gather.Say)
		assert.Equal(t, "Polly.Joanna", resp.Gather.Say.Voice)
		assert.Contains(t, resp.Gather.Say.Text, "Hello Valued Customer")
	})
}

func TestHandleVoiceProcess(t *testing.T) {
	t.Run("Should answer and keep gathering mid-conversation", func(t *testing.T) {
		h := newHarness(t, nil)

		rec := h.post(t, "/voice/process", url.Values{
			"From":         {"+905551234567"},
			"SpeechResult": {"how much data do I have"},
		})

		resp := decodeVoice(t, rec)
		require.NotNil(t, resp.Gather)
		require.NotNil(t, resp.Gather.Say)
		assert.Equal(t, "echo: how much data do I have", resp.Gather.Say.Text)
		assert.Nil(t, resp.Hangup)
	})

	t.Run("Should say the reply and hang up on an end keyword", func(t *testing.T) {
		h := newHarness(t, nil)

		rec := h.post(t, "/voice/process", url.Values{
			"From":         {"+905551234567"},
			"SpeechResult": {"that is everything, goodbye"},
		})

		resp := decodeVoice(t, rec)
		assert.Nil(t, resp.Gather)
		require.Len(t, resp.Say, 2)
		assert.Equal(t, "echo: that is everything, goodbye", resp.Say[0].Text)
		assert.Contains(t, resp.Say[1].Text, "Goodbye")
		assert.NotNil(t, resp.Hangup)
	})

	t.Run("Should hang up politely on empty speech", func(t *testing.T) {
		h := newHarness(t, nil)

		rec := h.post(t, "/voice/process", url.Values{"From": {"+905551234567"}})

		resp := decodeVoice(t, rec)
		assert.Nil(t, resp.Gather)
		assert.NotNil(t, resp.Hangup)
		assert.Empty(t, h.provider.seen())
	})

	t.Run("Should log voice turns under the VOICE channel", func(t *testing.T) {
		h := newHarness(t, nil)

		h.post(t, "/voice/process", url.Values{
			"From":         {"+905551234567"},
			"SpeechResult": {"check my balance"},
		})

		require.Len(t, h.interactions.rows, 1)
		assert.Equal(t, "VOICE", h.interactions.rows[0].Channel)
	})
}

func TestShouldEndCall(t *testing.T) {
	t.Run("Should detect end keywords across languages", func(t *testing.T) {
		assert.True(t, shouldEndCall("Goodbye now"))
		assert.True(t, shouldEndCall("teşekkürler"))
		assert.True(t, shouldEndCall("that's all I needed"))
		assert.False(t, shouldEndCall("my data ran out"))
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("Should report ok", func(t *testing.T) {
		h := newHarness(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h.server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})
}
