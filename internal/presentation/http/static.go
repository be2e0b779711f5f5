package http

import (
	"embed"
	"io/fs"
	stdhttp "net/http"
	"os"

	"github.com/rotisserie/eris"
)

//go:embed static
var staticFiles embed.FS

func newStaticAssetHandler() (stdhttp.Handler, error) {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, eris.Wrap(err, "preparing static assets filesystem")
	}

	return stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.FS(assets))), nil
}

func (s *Server) registerStaticRoute() {
	handler, err := newStaticAssetHandler()
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("registering static assets handler failed")
		}
		return
	}

	s.mux.Handle("GET /static/", handler)
	s.mux.Handle("HEAD /static/", handler)
}

// registerMediaRoute serves uploaded files and generated thumbnails from
// MediaRoot. Without a media root the files are expected on a separate host.
func (s *Server) registerMediaRoute() {
	if s.mediaRoot == "" {
		return
	}

	if info, err := os.Stat(s.mediaRoot); err != nil || !info.IsDir() {
		if s.logger != nil {
			s.logger.WithField("media_root", s.mediaRoot).Warn("media root is not a directory; media will not be served")
		}
		return
	}

	handler := stdhttp.StripPrefix("/media/", stdhttp.FileServer(stdhttp.Dir(s.mediaRoot)))
	s.mux.Handle("GET /media/", handler)
	s.mux.Handle("HEAD /media/", handler)
}
