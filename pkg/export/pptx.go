package export

import (
	"bytes"
	"context"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/render"
)

// Package geometry. PowerPoint positions shapes in EMU; the default 16:9
// slide is 10 by 5.625 inches.
const (
	emuPerInch  = 914400
	emuPerPoint = 12700

	pptxSlideWidth  = 10.0 * emuPerInch
	pptxSlideHeight = 5.625 * emuPerInch
)

// buildPPTX renders the deck as an editable package: the background fills
// each slide as a picture, and every text and image block becomes its own
// shape that stays movable and editable after export.
func (e *Engine) buildPPTX(ctx context.Context, d *deck.Deck) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = d.Title
	p.GetDocumentProperties().Creator = "Deckforge"

	for i, s := range d.Slides {
		slide := p.GetActiveSlide()
		if i > 0 {
			slide = p.CreateSlide()
		}

		if err := e.addPPTXBackground(ctx, slide, s); err != nil {
			return nil, err
		}
		if err := e.addPPTXImageBlocks(ctx, slide, s); err != nil {
			return nil, err
		}
		addPPTXTextBlocks(slide, s)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "create pptx writer")
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "write pptx")
	}
	return buf.Bytes(), nil
}

func (e *Engine) addPPTXBackground(ctx context.Context, slide *ppt.Slide, s deck.Slide) error {
	ref := s.DisplayImage(true)
	if ref == "" {
		return errors.New(errors.ErrCodeInvalidInput, "slide %d has no background image", s.Number)
	}

	img, err := e.loader.Image(ctx, ref)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecodeFailed, err, "background for slide %d", s.Number)
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		return err
	}

	// Letterbox the background within the slide.
	b := img.Bounds()
	scale := float64(pptxSlideWidth) / float64(b.Dx())
	if alt := float64(pptxSlideHeight) / float64(b.Dy()); alt < scale {
		scale = alt
	}
	w := int64(float64(b.Dx()) * scale)
	h := int64(float64(b.Dy()) * scale)

	shape := slide.CreateDrawingShape()
	shape.SetImageData(data, "image/png")
	shape.SetOffsetX((int64(pptxSlideWidth) - w) / 2).SetOffsetY((int64(pptxSlideHeight) - h) / 2)
	shape.SetWidth(w).SetHeight(h)
	return nil
}

func (e *Engine) addPPTXImageBlocks(ctx context.Context, slide *ppt.Slide, s deck.Slide) error {
	for _, b := range s.ImageBlocks {
		img, err := e.loader.Image(ctx, b.Src)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDecodeFailed, err, "image block %s", b.ID)
		}
		data, err := render.EncodePNG(img)
		if err != nil {
			return err
		}

		w := deck.BlockWidth(b.WidthPercent, pptxSlideWidth)
		h := deck.ImageHeight(b, pptxSlideWidth)
		x, y := deck.TopLeft(b.XPercent, b.YPercent, w, h, pptxSlideWidth, pptxSlideHeight)

		shape := slide.CreateDrawingShape()
		shape.SetImageData(data, "image/png")
		shape.SetOffsetX(int64(x)).SetOffsetY(int64(y))
		shape.SetWidth(int64(w)).SetHeight(int64(h))
	}
	return nil
}

func addPPTXTextBlocks(slide *ppt.Slide, s deck.Slide) {
	for _, t := range s.TextBlocks {
		size := t.FontPoints()
		lines := t.Lines()

		// Box height is estimated from the line count; PowerPoint re-flows
		// text inside the shape, so only the anchor placement matters.
		boxW := deck.BlockWidth(t.WidthPercent, pptxSlideWidth)
		boxH := float64(len(lines)) * size * deck.LineHeightFactor * emuPerPoint
		x, y := deck.TopLeft(t.XPercent, t.YPercent, boxW, boxH, pptxSlideWidth, pptxSlideHeight)

		shape := slide.CreateRichTextShape()
		shape.SetOffsetX(int64(x)).SetOffsetY(int64(y))
		shape.SetWidth(int64(boxW)).SetHeight(int64(boxH))

		color := ppt.NewColor(argbHex(t.EffectiveColor()))
		for i, line := range lines {
			if i > 0 {
				shape.CreateParagraph()
			}
			run := shape.CreateTextRun(line)
			if t.Bold() {
				run.GetFont().SetSize(int(size + 0.5)).SetBold(true).SetColor(color)
			} else {
				run.GetFont().SetSize(int(size + 0.5)).SetColor(color)
			}
			applyPPTXAlignment(shape.GetActiveParagraph(), t.Align)
		}
	}
}

func applyPPTXAlignment(p *ppt.Paragraph, align deck.Alignment) {
	switch align {
	case deck.AlignLeft:
		p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalLeft))
	case deck.AlignRight:
		p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalRight))
	default:
		p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
	}
}
