package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/internal/watcher"
	"github.com/toastate/ironsmith/pkg/builder"
)

//go:embed livereload.html
var liveReloadScript []byte

const liveReloadPath = "/__internal/livereload"

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		w.WriteHeader(500)
	},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Factory returns a fresh Builder for every rebuild, so files removed from
// the source tree do not linger in the working collection.
type Factory func() (*builder.Builder, error)

type Server struct {
	buildDir     string
	watchDirs    []string
	port         string
	override404  string
	reloadBroker *Broker
	newBuilder   Factory
}

func NewServer(newBuilder Factory, port string, override404 string) (*Server, error) {
	b, err := newBuilder()
	if err != nil {
		return nil, err
	}

	s := &Server{
		buildDir:     b.BuildPath(),
		port:         port,
		override404:  override404,
		reloadBroker: newBroker(),
		newBuilder:   newBuilder,
	}
	if b.LoadSource {
		s.watchDirs = append(s.watchDirs, b.SourcePath())
	}
	if b.LoadAssets {
		s.watchDirs = append(s.watchDirs, b.AssetsPath())
	}
	return s, nil
}

func (s *Server) TriggerReload() {
	s.reloadBroker.Publish()
}

// rebuild always empties the build directory so files removed from the
// sources stop being served.
func (s *Server) rebuild(ctx context.Context) error {
	b, err := s.newBuilder()
	if err != nil {
		return err
	}
	b.Clean = true
	buildStart := time.Now()
	_, err = b.Build(ctx)
	if err != nil {
		tlogger.Error("msg", "Build failed", "err", err)
		return err
	}
	tlogger.Info("msg", "Build finished", "path", s.buildDir, "duration", time.Since(buildStart))
	return nil
}

// Start optionally builds and watches the input trees, then serves the build
// directory until ctx is done.
func (s *Server) Start(ctx context.Context, withBuilder bool) error {
	if withBuilder {
		if err := s.rebuild(ctx); err != nil {
			return err
		}

		changes, err := watcher.StartWatcher(ctx, s.watchDirs...)
		if err != nil {
			return err
		}
		updates := watcher.Debounce(changes, 500*time.Millisecond)

		go func() {
			for range updates {
				if err := s.rebuild(ctx); err != nil {
					continue
				}
				s.TriggerReload()
			}
		}()
	}

	srv := &http.Server{Addr: ":" + s.port, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	// We use println here so the address can be copied or opened directly from the terminal
	fmt.Println("Listening on http://localhost:" + s.port)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(liveReloadPath, s.livereloadHandler)
	r.PathPrefix("/").HandlerFunc(s.fileServer(s.buildDir, s.override404))
	return r
}

// resolve maps a URL path onto a file in dir, trying the path itself, then
// path.html, then path/index.html.
func resolve(dir, upath string) (string, error) {
	const indexPage = "index.html"

	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+upath)))
	candidates := []string{fullName, fullName + ".html", filepath.Join(fullName, indexPage)}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		if !info.IsDir() {
			return c, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *Server) fileServer(dir string, override404 string) func(http.ResponseWriter, *http.Request) {
	if override404 != "" && !strings.HasPrefix(override404, "/") {
		override404 = "/" + override404
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		fullName, err := resolve(dir, r.URL.Path)
		if errors.Is(err, os.ErrNotExist) && override404 != "" {
			status = http.StatusNotFound
			fullName, err = resolve(dir, override404)
		}
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				w.WriteHeader(404)
				w.Write([]byte("404 page not found"))
				return
			}
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file: " + err.Error()))
			return
		}

		content, err := os.Open(fullName)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file"))
			return
		}
		defer content.Close()

		ctype := mime.TypeByExtension(filepath.Ext(fullName))
		if ctype == "" {
			// read a chunk to decide between utf-8 text and binary
			var buf [512]byte
			n, _ := io.ReadFull(content, buf[:])
			ctype = http.DetectContentType(buf[:n])
			_, err := content.Seek(0, io.SeekStart) // rewind to output whole file
			if err != nil {
				w.WriteHeader(500)
				w.Write([]byte("Internal error: can't seek file: " + err.Error()))
				return
			}
		}
		w.Header().Set("Content-Type", ctype)
		w.WriteHeader(status)
		io.Copy(w, content)
		if strings.HasPrefix(ctype, "text/html") {
			_, err = w.Write(liveReloadScript)
			if err != nil {
				tlogger.Error("msg", "could not live reload", "error", err)
			}
		}
	}
}

func (s *Server) livereloadHandler(w http.ResponseWriter, r *http.Request) {
	tlogger.Debug("msg", "WS Established")

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()

	waitCh := s.reloadBroker.Subscribe()
	defer s.reloadBroker.Unsubscribe(waitCh)

	select {
	case <-waitCh:
	case <-r.Context().Done():
		return
	}
	err = c.WriteMessage(websocket.TextMessage, []byte("reload"))
	if err != nil {
		tlogger.Warn("msg", "Reload socket error", "error", err)
	}
}
