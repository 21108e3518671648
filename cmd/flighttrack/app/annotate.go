package app

import (
	"fmt"
	"image"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"

	"github.com/GiovanniGrieco/joy/internal/flightlog"
)

const (
	dpi       float64 = 72
	titleSize float64 = 18
	labelSize float64 = 13
)

type Annotator struct {
	context *freetype.Context
}

func NewAnnotator(fontPath string) (*Annotator, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetSrc(image.White)
	context.SetHinting(font.HintingFull)

	return &Annotator{context: context}, nil
}

// Annotate draws the session title and per-lane channel labels onto the
// rendered track.
func (a *Annotator) Annotate(img *image.RGBA, session *flightlog.Session, records []flightlog.Record) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	start := records[0].Timestamp
	end := records[len(records)-1].Timestamp

	title := fmt.Sprintf("session %d - %s (%s)", session.ID, session.DeviceName, session.Mapping)
	info := fmt.Sprintf("%s, %s commands over %s",
		start.Format("2006-01-02 15:04:05"),
		humanize.Comma(int64(len(records))),
		humanize.RelTime(start, end, "", ""))

	a.context.SetFontSize(titleSize)
	if _, err := a.context.DrawString(title, freetype.Pt(marginSide, 28)); err != nil {
		return fmt.Errorf("drawing title: %w", err)
	}

	a.context.SetFontSize(labelSize)
	if _, err := a.context.DrawString(info, freetype.Pt(marginSide, 50)); err != nil {
		return fmt.Errorf("drawing info: %w", err)
	}

	for lane, ch := range channels {
		pt := freetype.Pt(6, laneTop(lane)+laneHeight/2)
		if _, err := a.context.DrawString(ch.label, pt); err != nil {
			return fmt.Errorf("drawing label %s: %w", ch.label, err)
		}
	}

	return nil
}
