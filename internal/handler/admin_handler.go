package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/nastrosite/internal/db"
	"github.com/nastrosite/internal/service"
)

const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"
)

// ShowLoginPage renders the admin login page.
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Área do Administrador",
	})
}

// Login handles the email/password sign-in form.
func (a *API) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := a.auth.SignIn(email, password)
	if err != nil {
		message := "E-mail ou senha incorretos."
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, service.ErrEmailNotAllowed):
			message = "Este e-mail não tem permissão de administrador."
			status = http.StatusForbidden
		case errors.Is(err, service.ErrInvalidCredentials):
		default:
			message = "Não foi possível entrar. Tente novamente."
			status = http.StatusInternalServerError
		}
		a.renderHTML(c, status, "login.html", gin.H{
			"title": "Área do Administrador",
			"error": message,
			"email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyEmail, user.Email)
	if err := session.Save(); err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Área do Administrador",
			"error": "Não foi possível iniciar a sessão. Tente novamente.",
			"email": email,
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// Logout clears the session and returns to the login page.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}

// ShowAdmin renders the CRUD console with the project list and form.
func (a *API) ShowAdmin(c *gin.Context) {
	session := sessions.Default(c)
	email, _ := session.Get(sessionKeyEmail).(string)

	projects, err := a.projects.ListAll()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "admin.html", gin.H{
			"title":    "Painel Administrativo",
			"email":    email,
			"error":    "Erro ao carregar projetos.",
			"projects": []db.Project{},
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "admin.html", gin.H{
		"title":    "Painel Administrativo",
		"email":    email,
		"projects": projects,
	})
}

// AuthRequired redirects requests without a signed-in session to the login
// page.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionKeyUserID) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired verifies the signed-in user holds the admin role. Role
// lookup failures count as not admin.
func (a *API) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionKeyUserID).(uint)
		if !ok || !a.auth.IsAdmin(userID) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
