package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/leafscan/leafscan/internal/api/handler"
	"github.com/leafscan/leafscan/internal/classifier"
	"github.com/leafscan/leafscan/internal/config"
	"github.com/leafscan/leafscan/internal/database"
	"github.com/leafscan/leafscan/web"
)

type Server struct {
	cfg        *config.Config
	ginEngine  *gin.Engine
	db         database.DB
	classifier classifier.Predictor
}

func New(cfg *config.Config, db database.DB, svc classifier.Predictor, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if svc == nil {
		return nil, fmt.Errorf("classifier is required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if debug {
		engine.Use(gin.Logger())
	}
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	s := &Server{
		cfg:        cfg,
		ginEngine:  engine,
		db:         db,
		classifier: svc,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions("leafscan_session", store))
}

func (s *Server) setupRoutes() {
	s.setupSession()

	h := handler.New(s.db, s.classifier, s.cfg.UploadDir)

	s.ginEngine.GET("/", h.Landing)
	s.ginEngine.GET("/login", h.LoginForm)
	s.ginEngine.POST("/login", h.Login)
	s.ginEngine.GET("/register", h.RegisterForm)
	s.ginEngine.POST("/register", h.Register)
	s.ginEngine.GET("/logout", h.Logout)

	protected := s.ginEngine.Group("/")
	protected.Use(h.RequireAuth())

	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/input", h.Input)
	protected.POST("/predict", h.Predict)
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler exposes the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}
