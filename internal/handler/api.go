package handler

import (
	"bytes"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nastrosite/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps(), goldmarkhtml.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	projects *service.ProjectService
	auth     *service.AuthService
	contacts *service.ContactService
	storage  *service.StorageService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, projects *service.ProjectService, auth *service.AuthService, contacts *service.ContactService, storage *service.StorageService) *API {
	return &API{
		db:       gdb,
		projects: projects,
		auth:     auth,
		contacts: contacts,
		storage:  storage,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Contacts exposes the contact service so callers can swap its transport.
func (a *API) Contacts() *service.ContactService {
	return a.contacts
}

// renderHTML attaches the payload every template expects before rendering.
func (a *API) renderHTML(c *gin.Context, status int, name string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	if _, exists := payload["path"]; !exists {
		payload["path"] = c.Request.URL.Path
	}

	c.HTML(status, name, payload)
}

// renderMarkdown converts trusted-author markdown into sanitized HTML.
func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
