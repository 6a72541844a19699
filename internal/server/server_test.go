package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/deckstore"
	"github.com/deckforge/deckforge/pkg/editor"
	"github.com/deckforge/deckforge/pkg/export"
	"github.com/deckforge/deckforge/pkg/fonts"
	"github.com/deckforge/deckforge/pkg/generate"
	"github.com/deckforge/deckforge/pkg/render"
)

// solidLoader returns a fixed-color image for any reference.
type solidLoader struct{}

func (solidLoader) Image(context.Context, string) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 320, 180))
	for y := 0; y < 180; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 40, B: 120, A: 255})
		}
	}
	return img, nil
}

func testServer(t *testing.T, store deckstore.Store, gen *generate.Client) *httptest.Server {
	t.Helper()
	fc, err := fonts.Load()
	if err != nil {
		t.Fatalf("fonts.Load: %v", err)
	}
	loader := solidLoader{}
	renderer := render.New(loader, fc, render.WithSize(320, 180))
	engine := export.New(renderer, loader, fc)

	srv := httptest.NewServer(New(store, gen, engine).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func stubGenerator(t *testing.T) *generate.Client {
	t.Helper()
	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generate.Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"image_url": "https://cdn.example.com/" + req.Prompt + ".png",
		})
	}))
	t.Cleanup(gen.Close)
	return generate.NewClient(gen.URL, "")
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestDeckLifecycle(t *testing.T) {
	store := deckstore.NewMemoryStore()
	srv := testServer(t, store, stubGenerator(t))

	// Create with generation.
	resp := postJSON(t, srv.URL+"/api/decks", map[string]any{
		"title":   "demo",
		"prompts": []map[string]string{{"prompt": "intro"}, {"prompt": "closing"}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created deckResponse
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if len(created.Deck.Slides) != 2 {
		t.Fatalf("slides = %d", len(created.Deck.Slides))
	}
	id := created.Deck.ID

	// Fetch.
	getResp, err := http.Get(srv.URL + "/api/decks/" + id)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d", getResp.StatusCode)
	}

	// List.
	listResp, _ := http.Get(srv.URL + "/api/decks")
	var list map[string][]string
	_ = json.NewDecoder(listResp.Body).Decode(&list)
	listResp.Body.Close()
	if len(list["decks"]) != 1 || list["decks"][0] != id {
		t.Errorf("list = %v", list)
	}

	// Delete.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/decks/"+id, nil)
	delResp, _ := http.DefaultClient.Do(req)
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", delResp.StatusCode)
	}

	// Gone.
	goneResp, _ := http.Get(srv.URL + "/api/decks/" + id)
	goneResp.Body.Close()
	if goneResp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", goneResp.StatusCode)
	}
}

func TestCreateDeckInvalidTitle(t *testing.T) {
	srv := testServer(t, deckstore.NewMemoryStore(), nil)
	resp := postJSON(t, srv.URL+"/api/decks", map[string]any{"title": "../escape"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Code != "INVALID_INPUT" {
		t.Errorf("code = %s", body.Code)
	}
}

func seedDeck(t *testing.T, store deckstore.Store) deck.Deck {
	t.Helper()
	d := deck.New("export me")
	d = d.AppendSlide(deck.Slide{
		Number:    1,
		BaseImage: "bg1",
		TextBlocks: []deck.TextBlock{
			{Content: "Title", XPercent: 50, YPercent: 30, WidthPercent: 60, Size: deck.SizeLarge, Color: "#ffffff", Align: deck.AlignCenter},
		},
	})
	d = d.AppendSlide(deck.Slide{Number: 2, BaseImage: "bg2"})
	if err := store.Put(context.Background(), d); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return d
}

func TestExportEndpoints(t *testing.T) {
	store := deckstore.NewMemoryStore()
	d := seedDeck(t, store)
	srv := testServer(t, store, nil)

	tests := []struct {
		format      string
		contentType string
		magic       []byte
	}{
		{"pdf", "application/pdf", []byte("%PDF")},
		{"pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation", []byte("PK")},
		{"png", "application/zip", []byte("PK")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/decks/" + d.ID + "/export/" + tt.format)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %s, want %s", ct, tt.contentType)
			}
			if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "presentation.") {
				t.Errorf("Content-Disposition = %q, want a presentation.* filename", cd)
			}
			head := make([]byte, len(tt.magic))
			if _, err := io.ReadFull(resp.Body, head); err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !bytes.Equal(head, tt.magic) {
				t.Errorf("magic = %q, want %q", head, tt.magic)
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/decks/" + d.ID + "/export/docx")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}

func dialEditor(t *testing.T, srv *httptest.Server, deckID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/decks/" + deckID + "/editor"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial editor: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame editorFrame) editorReply {
	t.Helper()
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	var reply editorReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	return reply
}

func TestEditorChannel(t *testing.T) {
	store := deckstore.NewMemoryStore()
	d := seedDeck(t, store)
	srv := testServer(t, store, nil)
	conn := dialEditor(t, srv, d.ID)

	// Add a text block.
	reply := roundTrip(t, conn, editorFrame{Type: "add_text"})
	if reply.Type != "deck" || reply.Deck == nil {
		t.Fatalf("reply = %+v", reply)
	}
	if got := len(reply.Deck.Slides[0].TextBlocks); got != 2 {
		t.Fatalf("text blocks = %d, want 2", got)
	}

	// Drag it: down on the new block, move past the threshold, up.
	target := editor.Target{Kind: editor.TargetText, Index: 1}
	roundTrip(t, conn, editorFrame{Type: "pointer", Pointer: &editor.PointerEvent{
		Kind: editor.PointerDown, X: 960, Y: 540, Target: target,
	}})
	roundTrip(t, conn, editorFrame{Type: "pointer", Pointer: &editor.PointerEvent{
		Kind: editor.PointerMove, X: 1152, Y: 540, Target: target,
	}})
	reply = roundTrip(t, conn, editorFrame{Type: "pointer", Pointer: &editor.PointerEvent{
		Kind: editor.PointerUp,
	}})
	moved := reply.Deck.Slides[0].TextBlocks[1]
	if moved.XPercent <= 50 {
		t.Errorf("XPercent = %v, want > 50 after drag", moved.XPercent)
	}

	// Undo restores the pre-drag position.
	reply = roundTrip(t, conn, editorFrame{Type: "key", Key: "undo"})
	if got := reply.Deck.Slides[0].TextBlocks[1].XPercent; got != 50 {
		t.Errorf("XPercent after undo = %v, want 50", got)
	}

	// Sync persists to the store.
	reply = roundTrip(t, conn, editorFrame{Type: "sync"})
	if reply.Type != "deck" {
		t.Fatalf("sync reply = %+v", reply)
	}
	stored, err := store.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if len(stored.Slides[0].TextBlocks) != 2 {
		t.Errorf("synced deck not persisted: %d text blocks", len(stored.Slides[0].TextBlocks))
	}
}

func TestEditorChannelAddImage(t *testing.T) {
	store := deckstore.NewMemoryStore()
	d := seedDeck(t, store)
	srv := testServer(t, store, nil)
	conn := dialEditor(t, srv, d.ID)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	reply := roundTrip(t, conn, editorFrame{Type: "add_image", Data: buf.Bytes()})
	if reply.Type != "deck" {
		t.Fatalf("reply = %+v", reply)
	}
	blocks := reply.Deck.Slides[0].ImageBlocks
	if len(blocks) != 1 {
		t.Fatalf("image blocks = %d, want 1", len(blocks))
	}
	// No asset store configured, so the upload falls back to a data URL.
	if !strings.HasPrefix(blocks[0].Src, "data:image/png") {
		t.Errorf("src = %q, want data URL", blocks[0].Src)
	}
	if blocks[0].AspectRatio != 2 {
		t.Errorf("aspect ratio = %v, want 2", blocks[0].AspectRatio)
	}
}

func TestEditorChannelBringToFront(t *testing.T) {
	store := deckstore.NewMemoryStore()
	d := seedDeck(t, store)
	srv := testServer(t, store, nil)
	conn := dialEditor(t, srv, d.ID)

	// Append a second block, then select the original title and raise it.
	roundTrip(t, conn, editorFrame{Type: "add_text"})
	roundTrip(t, conn, editorFrame{Type: "pointer", Pointer: &editor.PointerEvent{
		Kind: editor.PointerDown, Target: editor.Target{Kind: editor.TargetText, Index: 0},
	}})
	roundTrip(t, conn, editorFrame{Type: "pointer", Pointer: &editor.PointerEvent{Kind: editor.PointerUp}})

	reply := roundTrip(t, conn, editorFrame{Type: "bring_to_front"})
	if reply.Type != "deck" {
		t.Fatalf("reply = %+v", reply)
	}
	blocks := reply.Deck.Slides[0].TextBlocks
	if len(blocks) != 2 || blocks[1].Content != "Title" {
		t.Errorf("topmost block = %q, want the raised title", blocks[len(blocks)-1].Content)
	}
}

func TestEditorChannelRejectsBadColor(t *testing.T) {
	store := deckstore.NewMemoryStore()
	d := seedDeck(t, store)
	srv := testServer(t, store, nil)
	conn := dialEditor(t, srv, d.ID)

	reply := roundTrip(t, conn, editorFrame{Type: "color", Color: "red"})
	if reply.Type != "error" || reply.ErrorCode != "INVALID_COLOR" {
		t.Errorf("reply = %+v", reply)
	}
}
