package handler

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// secureFilename reduces a client-supplied filename to a safe basename.
// Path separators are stripped and anything outside [A-Za-z0-9._-] collapses
// to an underscore. Returns "" if nothing usable remains.
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}

// Predict accepts a multipart upload (field "file"), stores it in the upload
// directory, runs the classifier on the saved path and records a report.
// Same-named uploads overwrite each other; the last write wins.
func (h *Handler) Predict(c *gin.Context) {
	user := currentUser(c)

	file, err := c.FormFile("file")
	if err != nil || file.Filename == "" {
		flash(c, "No file selected.")
		c.Redirect(http.StatusFound, "/input")
		return
	}

	name := secureFilename(file.Filename)
	if name == "" {
		flash(c, "No file selected.")
		c.Redirect(http.StatusFound, "/input")
		return
	}

	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Error("failed to save upload", "file", name, "error", err)
		flash(c, "Failed to save the uploaded file. Please try again.")
		c.Redirect(http.StatusFound, "/input")
		return
	}
	log.Debug("upload saved", "file", name, "size", humanize.Bytes(uint64(file.Size)))

	label, err := h.classifier.Predict(dst)
	if err != nil {
		// Corrupt or unreadable image: surface as a failed prediction
		// instead of a server error.
		log.Warn("prediction failed", "file", name, "error", err)
		flash(c, "Could not analyze that image. Please upload a valid leaf photo.")
		c.Redirect(http.StatusFound, "/input")
		return
	}

	if _, err := h.db.CreateReport(c.Request.Context(), user.ID, name, label.String(), time.Now()); err != nil {
		flash(c, "Prediction succeeded but saving the report failed.")
		c.Redirect(http.StatusFound, "/input")
		return
	}

	flash(c, "Prediction: "+label.String())
	c.HTML(http.StatusOK, "input.html", gin.H{
		"Flashes":    takeFlashes(c),
		"Prediction": label.String(),
	})
}
