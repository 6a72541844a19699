package deck

import "github.com/google/uuid"

// Deck is an ordered collection of slides plus identity metadata.
// All structural operations are copy-on-write: they return a new Deck and
// leave the receiver untouched, so callers can snapshot freely.
type Deck struct {
	ID     string  `json:"id" bson:"_id"`
	Title  string  `json:"title,omitempty" bson:"title,omitempty"`
	Slides []Slide `json:"slides" bson:"slides"`
}

// New creates an empty deck with a fresh identifier.
func New(title string) Deck {
	return Deck{ID: uuid.NewString(), Title: title}
}

// Clone returns a deep copy of the deck.
func (d Deck) Clone() Deck {
	out := d
	if d.Slides != nil {
		out.Slides = make([]Slide, len(d.Slides))
		for i, s := range d.Slides {
			out.Slides[i] = s.Clone()
		}
	}
	return out
}

// Slide returns the slide at index i and whether the index is valid.
func (d Deck) Slide(i int) (Slide, bool) {
	if i < 0 || i >= len(d.Slides) {
		return Slide{}, false
	}
	return d.Slides[i], true
}

// AppendSlide adds a slide to the end of the deck. The slide's Number is
// assigned from its position if unset.
func (d Deck) AppendSlide(s Slide) Deck {
	out := d.Clone()
	if s.Number == 0 {
		s.Number = len(out.Slides) + 1
	}
	out.Slides = append(out.Slides, s.Clone())
	return out
}

// update clones the deck and applies fn to the slide at index i.
// Out-of-range indexes return the deck unchanged: selection state and model
// state are updated in separate steps, so a stale index must degrade to a
// no-op instead of panicking.
func (d Deck) update(i int, fn func(*Slide)) Deck {
	if i < 0 || i >= len(d.Slides) {
		return d
	}
	out := d.Clone()
	fn(&out.Slides[i])
	return out
}

// =============================================================================
// Text Block Operations
// =============================================================================

// AppendTextBlock appends b to the slide's text blocks (topmost z-order).
func (d Deck) AppendTextBlock(slide int, b TextBlock) Deck {
	return d.update(slide, func(s *Slide) {
		s.TextBlocks = append(s.TextBlocks, b)
	})
}

// ReplaceTextBlock replaces the text block at index i.
func (d Deck) ReplaceTextBlock(slide, i int, b TextBlock) Deck {
	return d.update(slide, func(s *Slide) {
		if i >= 0 && i < len(s.TextBlocks) {
			s.TextBlocks[i] = b
		}
	})
}

// RemoveTextBlock deletes the text block at index i.
func (d Deck) RemoveTextBlock(slide, i int) Deck {
	return d.update(slide, func(s *Slide) {
		if i >= 0 && i < len(s.TextBlocks) {
			s.TextBlocks = append(s.TextBlocks[:i], s.TextBlocks[i+1:]...)
		}
	})
}

// MoveTextBlock repositions the text block's center. Coordinates must
// already be clamped to [0,100].
func (d Deck) MoveTextBlock(slide, i int, xPercent, yPercent float64) Deck {
	return d.update(slide, func(s *Slide) {
		if i >= 0 && i < len(s.TextBlocks) {
			s.TextBlocks[i].XPercent = xPercent
			s.TextBlocks[i].YPercent = yPercent
		}
	})
}

// BringTextBlockToFront moves the text block at index i to the end of its
// slice, making it topmost.
func (d Deck) BringTextBlockToFront(slide, i int) Deck {
	return d.update(slide, func(s *Slide) {
		if i < 0 || i >= len(s.TextBlocks) {
			return
		}
		b := s.TextBlocks[i]
		s.TextBlocks = append(append(s.TextBlocks[:i], s.TextBlocks[i+1:]...), b)
	})
}

// =============================================================================
// Image Block Operations
// =============================================================================

// AppendImageBlock appends b to the slide's image blocks (topmost z-order).
func (d Deck) AppendImageBlock(slide int, b ImageBlock) Deck {
	return d.update(slide, func(s *Slide) {
		s.ImageBlocks = append(s.ImageBlocks, b)
	})
}

// ReplaceImageBlock replaces the image block at index i.
func (d Deck) ReplaceImageBlock(slide, i int, b ImageBlock) Deck {
	return d.update(slide, func(s *Slide) {
		if i >= 0 && i < len(s.ImageBlocks) {
			s.ImageBlocks[i] = b
		}
	})
}

// RemoveImageBlock deletes the image block at index i.
func (d Deck) RemoveImageBlock(slide, i int) Deck {
	return d.update(slide, func(s *Slide) {
		if i >= 0 && i < len(s.ImageBlocks) {
			s.ImageBlocks = append(s.ImageBlocks[:i], s.ImageBlocks[i+1:]...)
		}
	})
}

// MoveImageBlock repositions the image block's center. Coordinates must
// already be clamped to [0,100].
func (d Deck) MoveImageBlock(slide, i int, xPercent, yPercent float64) Deck {
	return d.update(slide, func(s *Slide) {
		if i >= 0 && i < len(s.ImageBlocks) {
			s.ImageBlocks[i].XPercent = xPercent
			s.ImageBlocks[i].YPercent = yPercent
		}
	})
}

// ResizeImageBlock sets the image block's width. The width must already be
// clamped to [5,100]; height is always derived from the aspect ratio.
func (d Deck) ResizeImageBlock(slide, i int, widthPercent float64) Deck {
	return d.update(slide, func(s *Slide) {
		if i >= 0 && i < len(s.ImageBlocks) {
			s.ImageBlocks[i].WidthPercent = widthPercent
		}
	})
}

// BringImageBlockToFront moves the image block at index i to the end of its
// slice, making it topmost.
func (d Deck) BringImageBlockToFront(slide, i int) Deck {
	return d.update(slide, func(s *Slide) {
		if i < 0 || i >= len(s.ImageBlocks) {
			return
		}
		b := s.ImageBlocks[i]
		s.ImageBlocks = append(append(s.ImageBlocks[:i], s.ImageBlocks[i+1:]...), b)
	})
}
