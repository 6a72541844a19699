package editor

import (
	"context"
	"image"
	"io"
	"math"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/deck/history"
	"github.com/deckforge/deckforge/pkg/errors"
)

// Mode is the editor's interaction state.
type Mode string

// Interaction states.
const (
	ModeIdle     Mode = "idle"
	ModeSelected Mode = "selected"
	ModeDragging Mode = "dragging"
	ModeResizing Mode = "resizing"
	ModeEditing  Mode = "editing"
)

// Defaults for newly created elements.
const (
	defaultBlockXPercent = 50.0
	defaultBlockYPercent = 50.0
	defaultTextWidth     = 40.0
	defaultImageWidth    = 30.0
	placeholderText      = "New text"
	defaultTextColor     = "#ffffff"
	minImageWidthPercent = 5.0
	maxImageWidthPercent = 100.0
)

// Editor owns the live deck, the history stack, and the selection state for
// one editing session. All methods must be called from a single goroutine.
type Editor struct {
	deck   deck.Deck
	hist   *history.Stack
	slide  int
	width  float64 // container width in pixels
	height float64 // container height in pixels

	overlayEdit bool

	textSel  map[int]bool
	imageSel map[int]bool

	mode        Mode
	gesture     *gesture
	editingText int // index of the text block in Editing mode, -1 otherwise
}

// gesture tracks an in-flight pointer interaction between down and up.
// Origins are captured at pointer-down so move deltas are always computed
// against the gesture's start snapshot, not the previous frame.
type gesture struct {
	kind   TargetKind
	startX float64
	startY float64
	active bool // drag threshold exceeded

	textOrigins  map[int][2]float64
	imageOrigins map[int][2]float64

	resizeIndex   int
	resizeOriginW float64
}

// New creates an editor over the given deck with the given container size
// in pixels. The history stack is seeded with the initial deck state.
func New(d deck.Deck, containerWidth, containerHeight float64) *Editor {
	return &Editor{
		deck:        d.Clone(),
		hist:        history.New(d),
		width:       containerWidth,
		height:      containerHeight,
		textSel:     map[int]bool{},
		imageSel:    map[int]bool{},
		mode:        ModeIdle,
		editingText: -1,
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Deck returns a copy of the current deck state.
func (e *Editor) Deck() deck.Deck { return e.deck.Clone() }

// Mode returns the current interaction state.
func (e *Editor) Mode() Mode { return e.mode }

// ActiveSlide returns the index of the slide being edited.
func (e *Editor) ActiveSlide() int { return e.slide }

// SetActiveSlide switches the slide being edited and clears selection.
func (e *Editor) SetActiveSlide(i int) {
	if i < 0 || i >= len(e.deck.Slides) {
		return
	}
	e.slide = i
	e.clearSelection()
	e.mode = ModeIdle
}

// OverlayEdit reports whether overlay-edit mode is active.
func (e *Editor) OverlayEdit() bool { return e.overlayEdit }

// SetOverlayEdit toggles overlay-edit mode, which switches the displayed
// background to the clean variant where one exists.
func (e *Editor) SetOverlayEdit(on bool) { e.overlayEdit = on }

// DisplaySource returns the background reference the editor should display
// for the active slide under the display-priority rule.
func (e *Editor) DisplaySource() string {
	s, ok := e.deck.Slide(e.slide)
	if !ok {
		return ""
	}
	return s.DisplayImage(e.overlayEdit)
}

// SelectedText returns the sorted indices of selected text blocks.
func (e *Editor) SelectedText() []int { return sortedKeys(e.textSel) }

// SelectedImages returns the sorted indices of selected image blocks.
func (e *Editor) SelectedImages() []int { return sortedKeys(e.imageSel) }

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// =============================================================================
// Pointer Handling
// =============================================================================

// HandlePointer feeds one raw pointer event through the state machine.
func (e *Editor) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp:
		e.pointerUp()
	}
}

func (e *Editor) pointerDown(ev PointerEvent) {
	target := e.validateTarget(ev.Target)
	e.editingText = -1

	switch target.Kind {
	case TargetCanvas:
		e.clearSelection()
		e.mode = ModeIdle
		e.gesture = nil

	case TargetText:
		if ev.Modifier {
			e.imageSel = map[int]bool{}
			if e.textSel[target.Index] {
				delete(e.textSel, target.Index)
			} else {
				e.textSel[target.Index] = true
			}
		} else if !e.textSel[target.Index] {
			e.textSel = map[int]bool{target.Index: true}
			e.imageSel = map[int]bool{}
		}
		if len(e.textSel) == 0 {
			e.mode = ModeIdle
			e.gesture = nil
			return
		}
		e.mode = ModeSelected
		e.beginGesture(TargetText, ev.X, ev.Y)

	case TargetImage:
		if ev.Modifier {
			e.textSel = map[int]bool{}
			if e.imageSel[target.Index] {
				delete(e.imageSel, target.Index)
			} else {
				e.imageSel[target.Index] = true
			}
		} else if !e.imageSel[target.Index] {
			e.imageSel = map[int]bool{target.Index: true}
			e.textSel = map[int]bool{}
		}
		if len(e.imageSel) == 0 {
			e.mode = ModeIdle
			e.gesture = nil
			return
		}
		e.mode = ModeSelected
		e.beginGesture(TargetImage, ev.X, ev.Y)

	case TargetHandle:
		e.imageSel = map[int]bool{target.Index: true}
		e.textSel = map[int]bool{}
		e.mode = ModeSelected
		g := &gesture{kind: TargetHandle, startX: ev.X, startY: ev.Y, resizeIndex: target.Index}
		if s, ok := e.deck.Slide(e.slide); ok {
			g.resizeOriginW = s.ImageBlocks[target.Index].WidthPercent
		}
		e.gesture = g
	}
}

// validateTarget degrades events aimed at blocks that no longer exist to
// canvas events.
func (e *Editor) validateTarget(t Target) Target {
	s, ok := e.deck.Slide(e.slide)
	if !ok {
		return Target{Kind: TargetCanvas}
	}
	switch t.Kind {
	case TargetText:
		if t.Index < 0 || t.Index >= len(s.TextBlocks) {
			return Target{Kind: TargetCanvas}
		}
	case TargetImage, TargetHandle:
		if t.Index < 0 || t.Index >= len(s.ImageBlocks) {
			return Target{Kind: TargetCanvas}
		}
	}
	return t
}

func (e *Editor) beginGesture(kind TargetKind, x, y float64) {
	g := &gesture{kind: kind, startX: x, startY: y}
	s, ok := e.deck.Slide(e.slide)
	if !ok {
		e.gesture = nil
		return
	}
	switch kind {
	case TargetText:
		g.textOrigins = map[int][2]float64{}
		for i := range e.textSel {
			if i < len(s.TextBlocks) {
				g.textOrigins[i] = [2]float64{s.TextBlocks[i].XPercent, s.TextBlocks[i].YPercent}
			}
		}
	case TargetImage:
		g.imageOrigins = map[int][2]float64{}
		for i := range e.imageSel {
			if i < len(s.ImageBlocks) {
				g.imageOrigins[i] = [2]float64{s.ImageBlocks[i].XPercent, s.ImageBlocks[i].YPercent}
			}
		}
	}
	e.gesture = g
}

func (e *Editor) pointerMove(ev PointerEvent) {
	g := e.gesture
	if g == nil || e.width <= 0 || e.height <= 0 {
		return
	}

	dx := ev.X - g.startX
	dy := ev.Y - g.startY

	if !g.active {
		if math.Hypot(dx, dy) < DragThreshold {
			return
		}
		g.active = true
		if g.kind == TargetHandle {
			e.mode = ModeResizing
		} else {
			e.mode = ModeDragging
		}
	}

	switch g.kind {
	case TargetHandle:
		// Horizontal delta only; height always derives from aspect ratio.
		w := clampWidth(g.resizeOriginW + dx/e.width*100)
		e.deck = e.deck.ResizeImageBlock(e.slide, g.resizeIndex, w)

	case TargetText:
		dxp := dx / e.width * 100
		dyp := dy / e.height * 100
		for i, origin := range g.textOrigins {
			e.deck = e.deck.MoveTextBlock(e.slide, i,
				clampPercent(origin[0]+dxp), clampPercent(origin[1]+dyp))
		}

	case TargetImage:
		dxp := dx / e.width * 100
		dyp := dy / e.height * 100
		for i, origin := range g.imageOrigins {
			e.deck = e.deck.MoveImageBlock(e.slide, i,
				clampPercent(origin[0]+dxp), clampPercent(origin[1]+dyp))
		}
	}
}

func (e *Editor) pointerUp() {
	if e.gesture != nil && e.gesture.active {
		e.commit()
		e.mode = ModeSelected
	}
	e.gesture = nil
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func clampWidth(v float64) float64 {
	return math.Min(maxImageWidthPercent, math.Max(minImageWidthPercent, v))
}

// =============================================================================
// Text Editing
// =============================================================================

// DoubleClick enters Editing mode on a text block: its content becomes
// directly mutable until CommitTextEdit is called.
func (e *Editor) DoubleClick(textIndex int) {
	s, ok := e.deck.Slide(e.slide)
	if !ok || textIndex < 0 || textIndex >= len(s.TextBlocks) {
		return
	}
	e.textSel = map[int]bool{textIndex: true}
	e.imageSel = map[int]bool{}
	e.editingText = textIndex
	e.mode = ModeEditing
}

// CommitTextEdit stores the edited content and leaves Editing mode. Called
// by the transport when the text field loses focus.
func (e *Editor) CommitTextEdit(content string) {
	if e.mode != ModeEditing || e.editingText < 0 {
		return
	}
	s, ok := e.deck.Slide(e.slide)
	if !ok || e.editingText >= len(s.TextBlocks) {
		e.mode = ModeIdle
		e.editingText = -1
		return
	}
	b := s.TextBlocks[e.editingText]
	if b.Content != content {
		b.Content = content
		e.deck = e.deck.ReplaceTextBlock(e.slide, e.editingText, b)
		e.commit()
	}
	e.editingText = -1
	e.mode = ModeSelected
}

// =============================================================================
// Keyboard
// =============================================================================

// HandleKey processes a keyboard command. Delete and Backspace remove the
// current selection unless a text field is being edited; Undo is global and
// always restores the previous snapshot and clears selection.
func (e *Editor) HandleKey(k Key) {
	switch k {
	case KeyUndo:
		e.Undo()

	case KeyDelete, KeyBackspace:
		if e.mode == ModeEditing {
			return
		}
		e.deleteSelection()
	}
}

// Undo restores the previous history snapshot and clears selection,
// regardless of the current element state.
func (e *Editor) Undo() {
	e.deck = e.hist.Undo()
	e.clearSelection()
	e.gesture = nil
	e.editingText = -1
	e.mode = ModeIdle
}

// deleteSelection removes every selected block of whichever kind is
// non-empty as a single history commit.
func (e *Editor) deleteSelection() {
	s, ok := e.deck.Slide(e.slide)
	if !ok {
		return
	}

	switch {
	case len(e.textSel) > 0:
		indices := sortedKeys(e.textSel)
		// Remove back to front so earlier indices stay valid.
		for i := len(indices) - 1; i >= 0; i-- {
			if indices[i] < len(s.TextBlocks) {
				e.deck = e.deck.RemoveTextBlock(e.slide, indices[i])
			}
		}
	case len(e.imageSel) > 0:
		indices := sortedKeys(e.imageSel)
		for i := len(indices) - 1; i >= 0; i-- {
			if indices[i] < len(s.ImageBlocks) {
				e.deck = e.deck.RemoveImageBlock(e.slide, indices[i])
			}
		}
	default:
		return
	}

	e.commit()
	e.clearSelection()
	e.mode = ModeIdle
}

// =============================================================================
// Batch Style Operations
// =============================================================================

// ApplyFontSize sets the custom font size (editor pixels) on every selected
// text block as a single history commit. Unselected blocks are untouched.
func (e *Editor) ApplyFontSize(px float64) {
	e.restyleSelection(func(b *deck.TextBlock) { b.CustomFontSize = px })
}

// ApplyColor sets the custom color on every selected text block as a single
// history commit.
func (e *Editor) ApplyColor(hex string) {
	e.restyleSelection(func(b *deck.TextBlock) { b.CustomColor = hex })
}

func (e *Editor) restyleSelection(fn func(*deck.TextBlock)) {
	s, ok := e.deck.Slide(e.slide)
	if !ok || len(e.textSel) == 0 {
		return
	}
	changed := false
	for _, i := range sortedKeys(e.textSel) {
		if i >= len(s.TextBlocks) {
			continue
		}
		b := s.TextBlocks[i]
		fn(&b)
		e.deck = e.deck.ReplaceTextBlock(e.slide, i, b)
		changed = true
	}
	if changed {
		e.commit()
	}
}

// BringToFront raises every selected block of whichever kind is non-empty
// to the top of its slide's z-order as a single history commit. Relative
// order among the raised blocks is preserved, and the selection follows
// them to their new indices.
func (e *Editor) BringToFront() {
	s, ok := e.deck.Slide(e.slide)
	if !ok {
		return
	}

	switch {
	case len(e.textSel) > 0:
		indices := sortedKeys(e.textSel)
		// Raise in ascending order; each move shifts the remaining
		// selected indices down by one.
		for n, i := range indices {
			e.deck = e.deck.BringTextBlockToFront(e.slide, i-n)
		}
		e.textSel = map[int]bool{}
		for n := range indices {
			e.textSel[len(s.TextBlocks)-len(indices)+n] = true
		}
	case len(e.imageSel) > 0:
		indices := sortedKeys(e.imageSel)
		for n, i := range indices {
			e.deck = e.deck.BringImageBlockToFront(e.slide, i-n)
		}
		e.imageSel = map[int]bool{}
		for n := range indices {
			e.imageSel[len(s.ImageBlocks)-len(indices)+n] = true
		}
	default:
		return
	}

	e.commit()
	e.mode = ModeSelected
}

// =============================================================================
// Element Creation
// =============================================================================

// AddTextBlock inserts a text block with placeholder content at the default
// position, appended topmost, as a single history commit. The new block
// becomes the selection.
func (e *Editor) AddTextBlock() {
	s, ok := e.deck.Slide(e.slide)
	if !ok {
		return
	}
	e.deck = e.deck.AppendTextBlock(e.slide, deck.TextBlock{
		Content:      placeholderText,
		XPercent:     defaultBlockXPercent,
		YPercent:     defaultBlockYPercent,
		WidthPercent: defaultTextWidth,
		Size:         deck.SizeMedium,
		Color:        defaultTextColor,
		Align:        deck.AlignCenter,
	})
	e.commit()
	e.textSel = map[int]bool{len(s.TextBlocks): true}
	e.imageSel = map[int]bool{}
	e.mode = ModeSelected
}

// AddImage decodes the source to learn its pixel dimensions, then inserts
// an image block at the default position as exactly one history commit.
// The decode completes before the element exists, so a failed decode adds
// nothing. The new block becomes the selection.
func (e *Editor) AddImage(src string, r io.Reader) error {
	s, ok := e.deck.Slide(e.slide)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no slide at index %d", e.slide)
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode image %q", src)
	}

	b := deck.NewImageBlock(src, cfg.Width, cfg.Height)
	b.XPercent = defaultBlockXPercent
	b.YPercent = defaultBlockYPercent
	b.WidthPercent = defaultImageWidth

	e.deck = e.deck.AppendImageBlock(e.slide, b)
	e.commit()
	e.imageSel = map[int]bool{len(s.ImageBlocks): true}
	e.textSel = map[int]bool{}
	e.mode = ModeSelected
	return nil
}

// DroppedImage pairs a source name with its binary content for drag-and-drop.
type DroppedImage struct {
	Src    string
	Reader io.Reader
}

// AddImages processes dropped files sequentially, each equivalent to a
// single AddImage call. The first failure stops processing and is returned.
func (e *Editor) AddImages(files []DroppedImage) error {
	for _, f := range files {
		if err := e.AddImage(f.Src, f.Reader); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Commit and Sync
// =============================================================================

func (e *Editor) commit() {
	e.hist.Record(e.deck)
}

func (e *Editor) clearSelection() {
	e.textSel = map[int]bool{}
	e.imageSel = map[int]bool{}
}

// Sync flushes any in-flight gesture to history and returns the current
// deck snapshot. Exporters must await this before reading slide data so a
// drag in progress is never silently dropped from the output.
func (e *Editor) Sync(ctx context.Context) (deck.Deck, error) {
	if err := ctx.Err(); err != nil {
		return deck.Deck{}, err
	}
	if e.gesture != nil && e.gesture.active {
		e.commit()
		e.mode = ModeSelected
		e.gesture = nil
	}
	return e.deck.Clone(), nil
}
