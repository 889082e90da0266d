// Package browse serves a directory of exported PNGs over HTTP so a run's
// output can be eyeballed without leaving the terminal for a file manager.
package browse

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

// Entry describes one exported PNG in the manifest.
type Entry struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Size  int64  `json:"size"`
}

type Server struct {
	dir string
}

func NewServer(dir string) *Server {
	return &Server{dir: dir}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/", s.handleIndex)
	e.GET("/images/:name", s.handleImage)
	e.GET("/api/manifest", s.handleManifest)
}

// Manifest lists the exported PNGs in the served directory, sorted by name.
func (s *Server) Manifest() ([]Entry, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(ents))
	for _, ent := range ents {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".png") {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{
			Name:  ent.Name(),
			Label: labelFromName(ent.Name()),
			Size:  info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// labelFromName recovers the label from an exported filename of the form
// [_random]_label_seq.png.
func labelFromName(name string) string {
	base := strings.TrimSuffix(name, ".png")
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}

func (s *Server) handleManifest(c *echo.Context) error {
	entries, err := s.Manifest()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(http.StatusOK)
	_, err = res.Write(b)
	return err
}

func (s *Server) handleIndex(c *echo.Context) error {
	entries, err := s.Manifest()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html><title>mnistpng</title><h1>Exported images</h1><ul>\n")
	for _, ent := range entries {
		fmt.Fprintf(&sb, `<li><a href="/images/%s">%s</a> (label %s, %d bytes)</li>`+"\n",
			ent.Name, ent.Name, ent.Label, ent.Size)
	}
	sb.WriteString("</ul>\n")

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	res.WriteHeader(http.StatusOK)
	_, err = res.Write([]byte(sb.String()))
	return err
}

func (s *Server) handleImage(c *echo.Context) error {
	name := c.Param("name")
	// The served directory is flat; anything that is not a bare .png name is
	// either a traversal attempt or a miss.
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".png") {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	http.ServeFile(c.Response(), c.Request(), path)
	return nil
}
