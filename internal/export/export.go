package export

import (
	"github.com/rs/zerolog"

	"sales-analytics/internal/scene"
	"sales-analytics/pkg/geometry"
)

// WriteScene replays sc under t onto a w x h surface and writes it to path.
func WriteScene(path string, sc *scene.Scene, t geometry.AffineTransform, w, h int, log zerolog.Logger) error {
	surf := NewSurface(w, h, log)
	defer surf.Close()

	sc.Replay(surf, t)
	if err := surf.Write(path); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("commands", sc.Len()).Int("width", w).Int("height", h).Msg("scene exported")
	return nil
}
