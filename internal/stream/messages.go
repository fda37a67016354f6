// Package stream serves the renderer clients: animation frames out over
// WebSocket, chat and typing control messages in.
package stream

import (
	"github.com/zaxpr/AIChat3D/internal/avatar"
	"github.com/zaxpr/AIChat3D/internal/chat"
)

// Inbound message types.
const (
	MsgChat   = "chat"
	MsgTyping = "typing"
	MsgReset  = "reset"
)

// Outbound message types.
const (
	MsgFrame      = "frame"
	MsgReply      = "reply"
	MsgTranscript = "transcript"
	MsgError      = "error"
)

// ClientMessage is a control message from a renderer client.
type ClientMessage struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Typing bool   `json:"typing,omitempty"`
}

// ServerMessage is an envelope pushed to renderer clients.
type ServerMessage struct {
	Type       string              `json:"type"`
	Frame      *avatar.FrameOutput `json:"frame,omitempty"`
	Reply      string              `json:"reply,omitempty"`
	Transcript []chat.Exchange     `json:"transcript,omitempty"`
	Error      string              `json:"error,omitempty"`
}
