package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zaxpr/AIChat3D/internal/audio"
	"github.com/zaxpr/AIChat3D/internal/avatar"
	"github.com/zaxpr/AIChat3D/internal/bus"
	"github.com/zaxpr/AIChat3D/internal/chat"
	"github.com/zaxpr/AIChat3D/internal/llm"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	logger := zerolog.Nop()
	eventBus := bus.NewEventBus()
	history := chat.NewHistory(chat.DefaultHistoryConfig())
	player := audio.NewPlayer(logger)
	session := chat.NewSession(history, llm.Echo{}, nil, player, eventBus, logger)
	animator := avatar.New(nil, nil)

	srv := NewServer(":0", 60, session, animator, audio.Silence{}, eventBus, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesClient(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	frame := avatar.FrameOutput{State: avatar.StateIdle}
	payload, err := json.Marshal(ServerMessage{Type: MsgFrame, Frame: &frame})
	require.NoError(t, err)
	srv.hub.Broadcast(payload)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg ServerMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	require.Equal(t, MsgFrame, msg.Type)
	require.NotNil(t, msg.Frame)
	require.Equal(t, avatar.StateIdle, msg.Frame.State)
}

func TestTypingMessageUpdatesSignals(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgTyping, Typing: true}))
	require.Eventually(t, func() bool {
		return srv.session.Signals().UserTyping
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgTyping, Typing: false}))
	require.Eventually(t, func() bool {
		return !srv.session.Signals().UserTyping
	}, time.Second, 10*time.Millisecond)
}

func TestChatMessageRunsTurn(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgChat, Text: "hello"}))
	require.Eventually(t, func() bool {
		return srv.session.History().Count() == 1
	}, time.Second, 10*time.Millisecond)

	exchanges := srv.session.History().Exchanges()
	require.Equal(t, "hello", exchanges[0].UserText)
	require.NotEmpty(t, exchanges[0].AssistantText)
}

func TestResetClearsHistory(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	srv.session.History().Add("hi", "hello there")
	require.Equal(t, 1, srv.session.History().Count())

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgReset}))
	require.Eventually(t, func() bool {
		return srv.session.History().Count() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestReplyPushedOverSocket(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgChat, Text: "hello"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != MsgReply {
			continue
		}
		require.Equal(t, "You said: hello", msg.Reply)
		return
	}
}

func TestLateSendAfterDisconnectDoesNotPanic(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	srv.hub.mu.RLock()
	var c *client
	for _, cl := range srv.hub.clients {
		c = cl
	}
	srv.hub.mu.RUnlock()
	require.NotNil(t, c)

	// Disconnect while a turn is still in flight; the turn goroutine then
	// reports its failure against the removed client.
	conn.Close()
	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	require.NotPanics(t, func() {
		srv.sendError(c, "generate reply: context canceled")
		srv.hub.Broadcast([]byte(`{"type":"frame"}`))
	})
}

func TestDisconnectRemovesClient(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
