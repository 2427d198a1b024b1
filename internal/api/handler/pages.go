package handler

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/leafscan/leafscan/internal/database"
	"github.com/mergestat/timediff"
	"github.com/samber/lo"
)

// Landing always renders the landing page, regardless of session state.
func (h *Handler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Flashes": takeFlashes(c),
	})
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": takeFlashes(c),
	})
}

// Login validates credentials with an exact match on email and password.
// A mismatch redirects back to the login form with a message.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.db.GetUserByEmailAndPassword(c.Request.Context(), email, password)
	if err != nil {
		flash(c, "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if user == nil {
		flash(c, "Invalid credentials. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	session.AddFlash("Login successful!")
	if err := session.Save(); err != nil {
		log.Error("failed to save session", "error", err)
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Flashes": takeFlashes(c),
	})
}

// Register creates a new account unless one already exists for the email.
// The duplicate check is the only uniqueness enforcement; the store itself
// accepts duplicate emails.
func (h *Handler) Register(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")

	existing, err := h.db.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		flash(c, "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if existing != nil {
		flash(c, "User already exists with this email. Please log in.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if _, err := h.db.CreateUser(c.Request.Context(), name, email, password); err != nil {
		flash(c, "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	flash(c, "Registration successful! Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

type reportRow struct {
	ImageName string
	Label     string
	CreatedAt string
	TimeAgo   string
}

// Dashboard renders the user's prediction history in insertion order.
func (h *Handler) Dashboard(c *gin.Context) {
	user := currentUser(c)

	reports, err := h.db.GetReportsByUser(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to load reports", "user", user.ID, "error", err)
		reports = nil
	}

	rows := lo.Map(reports, func(r database.Report, _ int) reportRow {
		return reportRow{
			ImageName: r.ImageName,
			Label:     r.Label,
			CreatedAt: r.CreatedAt.Format(time.DateTime),
			TimeAgo:   timediff.TimeDiff(r.CreatedAt),
		}
	})

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Flashes": takeFlashes(c),
		"Name":    user.Name,
		"Reports": rows,
	})
}

// Logout clears the session unconditionally.
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.AddFlash("You have been logged out.")
	if err := session.Save(); err != nil {
		log.Error("failed to save session", "error", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// Input renders the upload form.
func (h *Handler) Input(c *gin.Context) {
	c.HTML(http.StatusOK, "input.html", gin.H{
		"Flashes": takeFlashes(c),
	})
}
