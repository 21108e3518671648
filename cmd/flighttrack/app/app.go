package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/GiovanniGrieco/joy/internal/flightlog"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := flightlog.New(config.DBPath)
	defer store.Close()

	session, err := store.Session(ctx, config.SessionID)
	if err != nil {
		return err
	}

	records, err := store.Commands(ctx, session.ID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("session %d has no recorded commands", session.ID)
	}

	logger.Info("rendering flight track",
		slog.Int64("session", session.ID),
		slog.String("device", session.DeviceName),
		slog.Int("commands", len(records)))

	img := render(records, config.Width)

	if config.FontPath != "" {
		annotator, err := NewAnnotator(config.FontPath)
		if err != nil {
			return err
		}
		if err = annotator.Annotate(img, session, records); err != nil {
			return err
		}
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	switch config.Format {
	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(out, img)
	}
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}

	logger.Info("flight track written", slog.String("file", config.OutputFile))
	return nil
}
