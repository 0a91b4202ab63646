package server

import (
	"bytes"
	"database/sql"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"
)

type Server struct {
	DB         *sql.DB
	Pages      *cache.Pages // nil disables page caching
	MediaDir   string
	StaticDir  string
	CookieName string
	SessionTTL time.Duration

	tmpl    map[string]*template.Template
	handler http.Handler
}

func New(db *sql.DB, templateDir, staticDir, mediaDir string, pages *cache.Pages) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pagesGlob, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pagesGlob {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}

	s := &Server{
		DB:         db,
		Pages:      pages,
		MediaDir:   mediaDir,
		StaticDir:  staticDir,
		CookieName: "session_id",
		SessionTTL: 24 * time.Hour,
		tmpl:       templates,
	}
	s.handler = s.withRecover(logRequests(s.routes()))
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", s.cached(s.handleFeed))
	// the follow/unfollow patterns are POST-scoped so they stay disjoint
	// from the GET group pattern; otherwise the mux would reject the
	// overlapping wildcards
	mux.HandleFunc("GET /group/{slug}/{$}", s.cached(s.handleGroup))
	mux.HandleFunc("/follow/{$}", s.requireAuth(s.handleFollowFeed))
	mux.HandleFunc("/new/{$}", s.requireAuth(s.handleNewPost))

	mux.HandleFunc("/auth/signup/{$}", s.handleSignup)
	mux.HandleFunc("/auth/login/{$}", s.handleLogin)
	mux.HandleFunc("/auth/logout/{$}", s.handleLogout)

	mux.HandleFunc("/{username}/{$}", s.handleProfile)
	mux.HandleFunc("POST /{username}/follow/{$}", s.requireAuth(s.handleFollow))
	mux.HandleFunc("POST /{username}/unfollow/{$}", s.requireAuth(s.handleUnfollow))
	mux.HandleFunc("/{username}/{post_id}/{$}", s.handlePost)
	mux.HandleFunc("/{username}/{post_id}/edit/{$}", s.requireAuth(s.handleEditPost))
	mux.HandleFunc("/{username}/{post_id}/comment/{$}", s.requireAuth(s.handleComment))

	// static and media files go through the fallback: a /static/ subtree
	// pattern would collide with the single-segment username wildcard
	mux.HandleFunc("/", s.fallback)
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// render buffers the template so a late failure cannot leave a half-written
// page, then writes it out under the given status.
func (s *Server) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// fallback serves asset files and 404s everything else the routes miss.
func (s *Server) fallback(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/static/"):
		http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))).ServeHTTP(w, r)
	case strings.HasPrefix(r.URL.Path, "/media/"):
		http.StripPrefix("/media/", http.FileServer(http.Dir(s.MediaDir))).ServeHTTP(w, r)
	default:
		s.notFound(w, r)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "404", map[string]any{
		"Path": r.URL.Path,
		"User": s.currentUser(r),
	})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	log.Printf("server error: %v", err)
	s.render(w, http.StatusInternalServerError, "500", map[string]any{})
}

// requireAuth redirects anonymous requests to the login page, carrying the
// original path in next so login can return the user there. Nothing is
// mutated on the anonymous path.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/auth/login/?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

func (s *Server) currentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return nil
	}
	sess, err := models.GetSession(s.DB, cookie.Value)
	if err != nil || sess.RevokedAt != nil || sess.ExpiresAt.Before(time.Now()) {
		return nil
	}
	user, err := models.GetUserByID(s.DB, sess.UserID)
	if err != nil {
		return nil
	}
	return user
}

// cached serves GETs through the page cache when one is configured.
func (s *Server) cached(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Pages == nil || r.Method != http.MethodGet {
			next(w, r)
			return
		}
		key := cache.Key(r.URL.Path, r.URL.RawQuery)
		if e, ok := s.Pages.Get(key); ok {
			w.Header().Set("Content-Type", e.ContentType)
			w.WriteHeader(e.Status)
			w.Write(e.Body)
			return
		}
		rec := &pageRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if rec.status == http.StatusOK {
			s.Pages.Set(key, cache.Entry{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.buf.Bytes(),
			})
		}
	}
}

// pageRecorder tees the response body so a successful render can be cached.
type pageRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func (r *pageRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *pageRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v (%s %s)", rec, r.Method, r.URL.Path)
				s.render(w, http.StatusInternalServerError, "500", map[string]any{})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// pageNumber reads ?page=N; anything unusable is page one.
func pageNumber(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if n < 1 {
		return 1
	}
	return n
}
