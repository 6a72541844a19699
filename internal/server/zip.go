package server

import (
	"archive/zip"
	"net/http"
	"os"
	"path/filepath"
)

// serveZip streams the given files as a single zip download. Used for the
// raster target, which produces one PNG per slide.
func (s *Server) serveZip(w http.ResponseWriter, paths []string) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="presentation.zip"`)

	zw := zip.NewWriter(w)
	defer zw.Close()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			// Headers are already sent; all we can do is stop the stream.
			s.logger.Error("zip entry read failed", "path", path, "error", err)
			return
		}
		f, err := zw.Create(filepath.Base(path))
		if err != nil {
			s.logger.Error("zip entry create failed", "path", path, "error", err)
			return
		}
		if _, err := f.Write(data); err != nil {
			s.logger.Error("zip entry write failed", "path", path, "error", err)
			return
		}
	}
}
