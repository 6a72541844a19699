package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/editor"
	"github.com/deckforge/deckforge/pkg/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The API is same-origin in production; tighten here if that changes.
	CheckOrigin: func(*http.Request) bool { return true },
}

// editorFrame is one client message on the editor channel.
type editorFrame struct {
	Type string `json:"type"`

	// pointer
	Pointer *editor.PointerEvent `json:"pointer,omitempty"`

	// key
	Key string `json:"key,omitempty"`

	// double_click / selection targets
	Index int `json:"index,omitempty"`

	// commit_text
	Content string `json:"content,omitempty"`

	// style
	FontSize float64 `json:"font_size,omitempty"`
	Color    string  `json:"color,omitempty"`

	// add_image
	Src  string `json:"src,omitempty"`
	Data []byte `json:"data,omitempty"`

	// slide selection
	Slide int `json:"slide,omitempty"`
}

// editorReply is the server's response to one frame.
type editorReply struct {
	Type      string     `json:"type"`
	Mode      string     `json:"mode,omitempty"`
	Deck      *deck.Deck `json:"deck,omitempty"`
	Error     string     `json:"error,omitempty"`
	ErrorCode string     `json:"error_code,omitempty"`
}

// handleEditor upgrades to a websocket and runs one editing session over
// it. Frames are handled sequentially in the read loop, so all editor
// mutation for a connection happens on one goroutine. The deck is saved
// back to the store when the connection closes and on every sync frame.
func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The editor works in reference canvas coordinates.
	ed := editor.New(d, 1920, 1080)
	defer s.persist(id, ed)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame editorFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			writeReply(conn, editorReply{Type: "error", Error: "malformed frame"})
			continue
		}
		writeReply(conn, s.applyFrame(r.Context(), id, ed, frame))
	}
}

func (s *Server) applyFrame(ctx context.Context, id string, ed *editor.Editor, frame editorFrame) editorReply {
	switch frame.Type {
	case "pointer":
		if frame.Pointer != nil {
			ed.HandlePointer(*frame.Pointer)
		}

	case "key":
		ed.HandleKey(editor.Key(strings.ToLower(frame.Key)))

	case "double_click":
		ed.DoubleClick(frame.Index)

	case "commit_text":
		ed.CommitTextEdit(frame.Content)

	case "add_text":
		ed.AddTextBlock()

	case "add_image":
		src := frame.Src
		if src == "" {
			uploaded, err := s.assets.Put(ctx, frame.Data, http.DetectContentType(frame.Data))
			if err != nil {
				return errorReply(err)
			}
			src = uploaded
		}
		if err := ed.AddImage(src, bytes.NewReader(frame.Data)); err != nil {
			return errorReply(err)
		}

	case "font_size":
		ed.ApplyFontSize(frame.FontSize)

	case "color":
		if err := errors.ValidateHexColor(frame.Color); err != nil {
			return errorReply(err)
		}
		ed.ApplyColor(frame.Color)

	case "bring_to_front":
		ed.BringToFront()

	case "select_slide":
		ed.SetActiveSlide(frame.Slide)

	case "sync":
		d, err := ed.Sync(ctx)
		if err != nil {
			return errorReply(err)
		}
		if err := s.store.Put(ctx, d); err != nil {
			return errorReply(err)
		}
		return editorReply{Type: "deck", Mode: string(ed.Mode()), Deck: &d}

	default:
		return editorReply{Type: "error", Error: "unknown frame type: " + frame.Type}
	}

	d := ed.Deck()
	return editorReply{Type: "deck", Mode: string(ed.Mode()), Deck: &d}
}

// persist writes the session's final deck state back to the store.
func (s *Server) persist(id string, ed *editor.Editor) {
	ctx := context.Background()
	d, err := ed.Sync(ctx)
	if err != nil {
		return
	}
	if err := s.store.Put(ctx, d); err != nil {
		s.logger.Error("deck save on disconnect failed", "deck", id, "error", err)
	}
}

func errorReply(err error) editorReply {
	return editorReply{
		Type:      "error",
		Error:     errors.UserMessage(err),
		ErrorCode: string(errors.GetCode(err)),
	}
}

func writeReply(conn *websocket.Conn, reply editorReply) {
	_ = conn.WriteJSON(reply)
}
