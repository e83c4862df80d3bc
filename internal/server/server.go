package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"barangay/internal/auth"
	"barangay/internal/requests"
	"barangay/internal/storage"
	"barangay/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

const (
	birthDateLayout = "2006-01-02"
	storeTimeout    = 5 * time.Second
)

//go:embed templates static
var uiFS embed.FS
var decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return time.Time{}, nil
		}
		return time.Parse(birthDateLayout, strings.TrimSpace(vals[0]))
	}, time.Time{})
	return d
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	requests  *requests.Service
	files     *storage.Service
	auth      *auth.Service
	tokens    *auth.Tokens
	templates *template.Template

	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	requestService *requests.Service,
	files *storage.Service,
	authService *auth.Service,
	tokens *auth.Tokens,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.MaxAge(config.SessionMaxAgeSec)

	s := &Service{
		logger:   logger,
		config:   config,
		requests: requestService,
		files:    files,
		auth:     authService,
		tokens:   tokens,
		cookie:   cookie,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	if err := s.buildRouter(mux); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler without a listener.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) error {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)
	r.Use(s.LoadSession)

	// unmatched paths skip the mux middleware
	r.NotFound = s.StripTrailingSlash(s.LoadSession(http.HandlerFunc(s.notFound)))

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/request/:slug", s.handleGetRequestForm, http.MethodGet)
	r.HandleFunc("/request/:slug", s.handlePostRequestForm, http.MethodPost)
	r.HandleFunc("/request/:slug/verify", s.handlePostVerify, http.MethodPost)

	r.HandleFunc("/track", s.handleTrack, http.MethodGet)

	r.HandleFunc("/admin/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/admin/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/admin/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAdmin)

		r.HandleFunc("/admin", s.handleAdminIndex, http.MethodGet)
		r.HandleFunc("/admin/dashboard", s.handleDashboard, http.MethodGet)
		r.HandleFunc("/admin/requests/:id", s.handleRequestDetail, http.MethodGet)
		r.HandleFunc("/admin/requests/:id/approve", s.handleApprove, http.MethodPost)
		r.HandleFunc("/admin/requests/:id/reject", s.handleReject, http.MethodPost)
		r.HandleFunc("/admin/files/:fileID", s.handleFileDownload, http.MethodGet)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)

	return nil
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefOr": func(s *string, defaultVal string) string {
			if s == nil || *s == "" {
				return defaultVal
			}
			return *s
		},
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				if v.IsZero() {
					return ""
				}
				return v.Format("Jan 2, 2006")
			case *time.Time:
				if v == nil || v.IsZero() {
					return ""
				}
				return v.Format("Jan 2, 2006")
			}
			return ""
		},
		"datetime": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("Jan 2, 2006 3:04 PM")
			case *time.Time:
				if v == nil {
					return ""
				}
				return v.Format("Jan 2, 2006 3:04 PM")
			}
			return ""
		},
		"maritalStatuses": func() []types.MaritalStatus {
			return types.MaritalStatuses
		},
		"title": func(v any) string {
			s := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) adminFromContext(ctx context.Context) (*types.AdminSession, bool) {
	session, ok := ctx.Value(contextKeyAdmin).(*types.AdminSession)
	return session, ok && session != nil
}
