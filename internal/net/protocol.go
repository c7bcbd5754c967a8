package net

import (
	"encoding/json"
	"fmt"
)

// Message types sent by clients.
const (
	TypePointer    = "pointer"
	TypeOffset     = "offset"
	TypeTool       = "tool"
	TypeColor      = "color"
	TypeWidth      = "width"
	TypeText       = "text"
	TypeCancelText = "cancel_text"
	TypeUndo       = "undo"
	TypeRedo       = "redo"
	TypeClear      = "clear"
	TypeResize     = "resize"
	TypeExport     = "export"
)

// Reply types sent by the server. Frames go out as binary PNG messages.
const (
	TypeState = "state"
	TypeError = "error"
)

// Message is one client request. Which fields matter depends on Type.
type Message struct {
	Type   string  `json:"type"`
	Phase  string  `json:"phase,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Tool   string  `json:"tool,omitempty"`
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Text   string  `json:"text,omitempty"`
	W      int     `json:"w,omitempty"`
	H      int     `json:"h,omitempty"`
	Format string  `json:"format,omitempty"`
}

// State describes the session after a request.
type State struct {
	Type        string  `json:"type"`
	Session     string  `json:"session"`
	Tool        string  `json:"tool"`
	Color       string  `json:"color"`
	Width       float64 `json:"width"`
	CanvasW     int     `json:"canvas_w"`
	CanvasH     int     `json:"canvas_h"`
	CanUndo     bool    `json:"can_undo"`
	CanRedo     bool    `json:"can_redo"`
	Drawing     bool    `json:"drawing"`
	PendingText bool    `json:"pending_text"`
	Revision    uint64  `json:"revision"`
}

// ErrorReply reports a rejected request. The session stays usable.
type ErrorReply struct {
	Type    string `json:"type"`
	Request string `json:"request"`
	Error   string `json:"error"`
}

// ExportReply carries an encoded image. Data is base64 in JSON.
type ExportReply struct {
	Type   string `json:"type"`
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// DecodeMessage parses a client request.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("net: decode message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("net: message without type")
	}
	return m, nil
}
