package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/leafscan/leafscan/internal/classifier"
	"github.com/leafscan/leafscan/internal/database"
)

const (
	// sessionUserKey is the single session field: the logged-in user's id.
	// Its absence means the request is anonymous.
	sessionUserKey = "user_id"
	// userContextKey carries the materialized user through the gin context.
	userContextKey = "user"
)

type Handler struct {
	db         database.DB
	classifier classifier.Predictor
	uploadDir  string
}

func New(db database.DB, svc classifier.Predictor, uploadDir string) *Handler {
	return &Handler{
		db:         db,
		classifier: svc,
		uploadDir:  uploadDir,
	}
}

// RequireAuth gates protected routes on session presence. Anonymous requests
// are redirected to the landing page with a message; the original action is
// dropped, there is no post-login resumption.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionUserKey).(uint)
		if !ok {
			flash(c, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		user, err := h.db.GetUserByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			// Stale session pointing at a user that no longer resolves.
			session.Delete(sessionUserKey)
			if err := session.Save(); err != nil {
				log.Error("failed to save session", "error", err)
			}
			flash(c, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
	}
}

// flash queues a user-visible message for the next rendered page.
func flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		log.Error("failed to save session flash", "error", err)
	}
}

// takeFlashes pops all queued flash messages.
func takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Error("failed to save session after reading flashes", "error", err)
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

func currentUser(c *gin.Context) *database.User {
	return c.MustGet(userContextKey).(*database.User)
}
