package router

import (
	"html/template"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/nastrosite/internal/config"
	"github.com/nastrosite/internal/handler"
)

const sessionName = "nastro_session"

// SetupRouter configures the Gin engine and the route table around an
// already-constructed handler set.
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions(sessionName, store))

	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})
	if matches, err := filepath.Glob(cfg.TemplateGlob); err == nil && len(matches) > 0 {
		r.LoadHTMLGlob(cfg.TemplateGlob)
	}

	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}
	if cfg.UploadURLPath != "" && cfg.UploadDir != "" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}

	// Public pages
	r.GET("/", api.ShowHome)
	r.GET("/sobre", api.ShowAbout)
	r.GET("/projetos", api.ShowProjects)
	r.GET("/projeto/:id", api.ShowProjectDetail)
	r.GET("/contato", api.ShowContactForm)
	r.POST("/contato", api.SubmitContact)
	r.GET("/obrigado", api.ShowThankYou)

	// Authentication
	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)

	// Admin console, admin role required throughout
	admin := r.Group("/admin")
	admin.Use(api.AuthRequired(), api.AdminRequired())
	{
		admin.GET("", api.ShowAdmin)

		adminAPI := admin.Group("/api")
		{
			adminAPI.GET("/projects", api.ListProjects)
			adminAPI.GET("/projects/:id", api.GetProject)
			adminAPI.POST("/projects", api.CreateProject)
			adminAPI.POST("/projects/:id", api.UpdateProject)
			adminAPI.PUT("/projects/:id", api.UpdateProject)
			adminAPI.DELETE("/projects/:id", api.DeleteProject)
			adminAPI.DELETE("/projects/:id/images/:imageId", api.DeleteProjectImage)
			adminAPI.POST("/upload", api.UploadImage)
		}
	}

	r.NoRoute(api.NotFound)

	return r
}
