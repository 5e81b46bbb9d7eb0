package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/eqreplay/internal/chart"
)

// FileSurface writes each mount as a standalone file under Dir:
// figures become SVG documents, replay markup becomes a minimal HTML
// page. Re-rendering a mount overwrites its file.
type FileSurface struct {
	Dir    string
	Width  int
	Height int
}

func (s FileSurface) size() (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	return w, h
}

func (s FileSurface) ReplaceFigure(mount string, fig chart.Figure) error {
	w, h := s.size()
	path := filepath.Join(s.Dir, mount+".svg")
	return os.WriteFile(path, []byte(FigureToSVG(fig, w, h)), 0644)
}

func (s FileSurface) ReplaceMarkup(mount, markup string) error {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html><body style="background:%s">%s</body></html>
`, svgBackground, markup)
	path := filepath.Join(s.Dir, mount+".html")
	return os.WriteFile(path, []byte(page), 0644)
}
