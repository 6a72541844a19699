package export

import (
	"bytes"
	"context"

	"github.com/signintech/gopdf"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/fonts"
	"github.com/deckforge/deckforge/pkg/render"
)

// Document page geometry. Pages are 16:9 landscape, measured in points.
const (
	pdfPageWidth  = 960.0
	pdfPageHeight = 540.0
)

// The bold cut is registered as its own family so selection never depends
// on style flags carried in the TTF.
const pdfBoldFamily = fonts.Family + "-Bold"

// buildPDF renders the deck as a paginated document: one page per slide,
// backgrounds and image blocks embedded as images, text drawn as real
// selectable text at document point sizes.
func (e *Engine) buildPDF(ctx context.Context, d *deck.Deck) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: pdfPageWidth, H: pdfPageHeight}})

	if err := pdf.AddTTFFontData(fonts.Family, e.fonts.RegularTTF()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "embed font")
	}
	if err := pdf.AddTTFFontData(pdfBoldFamily, e.fonts.BoldTTF()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "embed bold font")
	}

	for _, s := range d.Slides {
		pdf.AddPage()
		if err := e.addPDFBackground(ctx, &pdf, s); err != nil {
			return nil, err
		}
		if err := e.addPDFImageBlocks(ctx, &pdf, s); err != nil {
			return nil, err
		}
		if err := addPDFTextBlocks(&pdf, s); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "write pdf")
	}
	return buf.Bytes(), nil
}

func (e *Engine) addPDFBackground(ctx context.Context, pdf *gopdf.GoPdf, s deck.Slide) error {
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
	holder, err := gopdf.ImageHolderByBytes(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "embed background for slide %d", s.Number)
	}

	// Letterbox: preserve the source aspect ratio, centered on the page.
	b := img.Bounds()
	scale := pdfPageWidth / float64(b.Dx())
	if alt := pdfPageHeight / float64(b.Dy()); alt < scale {
		scale = alt
	}
	w := float64(b.Dx()) * scale
	h := float64(b.Dy()) * scale
	x := (pdfPageWidth - w) / 2
	y := (pdfPageHeight - h) / 2

	return pdf.ImageByHolder(holder, x, y, &gopdf.Rect{W: w, H: h})
}

func (e *Engine) addPDFImageBlocks(ctx context.Context, pdf *gopdf.GoPdf, s deck.Slide) error {
	for _, b := range s.ImageBlocks {
		img, err := e.loader.Image(ctx, b.Src)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDecodeFailed, err, "image block %s", b.ID)
		}
		data, err := render.EncodePNG(img)
		if err != nil {
			return err
		}
		holder, err := gopdf.ImageHolderByBytes(data)
		if err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, err, "embed image block %s", b.ID)
		}

		w := deck.BlockWidth(b.WidthPercent, pdfPageWidth)
		h := deck.ImageHeight(b, pdfPageWidth)
		x, y := deck.TopLeft(b.XPercent, b.YPercent, w, h, pdfPageWidth, pdfPageHeight)
		if err := pdf.ImageByHolder(holder, x, y, &gopdf.Rect{W: w, H: h}); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, err, "place image block %s", b.ID)
		}
	}
	return nil
}

func addPDFTextBlocks(pdf *gopdf.GoPdf, s deck.Slide) error {
	for _, t := range s.TextBlocks {
		size := t.FontPoints()
		family := fonts.Family
		if t.Bold() {
			family = pdfBoldFamily
		}
		if err := pdf.SetFont(family, "", size); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, err, "set font for slide %d", s.Number)
		}
		r, g, b := parseHexRGB(t.EffectiveColor())
		pdf.SetTextColor(r, g, b)

		center := deck.AnchorX(t.XPercent, pdfPageWidth)
		half := deck.BlockWidth(t.WidthPercent, pdfPageWidth) / 2
		anchorY := deck.AnchorY(t.YPercent, pdfPageHeight)

		lines := t.Lines()
		offsets := deck.LineOffsets(len(lines), size*deck.LineHeightFactor)

		for i, line := range lines {
			width, err := pdf.MeasureTextWidth(line)
			if err != nil {
				return errors.Wrap(errors.ErrCodeExportFailed, err, "measure text on slide %d", s.Number)
			}

			var x float64
			switch t.Align {
			case deck.AlignLeft:
				x = center - half
			case deck.AlignRight:
				x = center + half - width
			default:
				x = center - width/2
			}

			pdf.SetX(x)
			pdf.SetY(anchorY + offsets[i] - size/2)
			if err := pdf.Cell(nil, line); err != nil {
				return errors.Wrap(errors.ErrCodeExportFailed, err, "draw text on slide %d", s.Number)
			}
		}
	}
	return nil
}
