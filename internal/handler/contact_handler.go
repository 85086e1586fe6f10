package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nastrosite/internal/service"
	"github.com/rs/zerolog/log"
)

// ShowContactForm renders the contact page.
func (a *API) ShowContactForm(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "contact.html", gin.H{
		"title": "Entre em Contato",
	})
}

// SubmitContact validates the form and relays it to the spreadsheet
// webhook. Validation failures re-render the form with the submitted values;
// nothing is sent in that case.
func (a *API) SubmitContact(c *gin.Context) {
	input := service.ContactInput{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Phone:   c.PostForm("phone"),
		Message: c.PostForm("message"),
	}

	if fieldErrors := a.contacts.Validate(input); len(fieldErrors) > 0 {
		a.renderHTML(c, http.StatusBadRequest, "contact.html", gin.H{
			"title":       "Entre em Contato",
			"fieldErrors": fieldErrors,
			"form":        input,
		})
		return
	}

	if err := a.contacts.Send(c.Request.Context(), input); err != nil {
		log.Error().Err(err).Msg("contact relay failed")
		message := "Houve um problema ao enviar sua mensagem. Tente novamente."
		if errors.Is(err, service.ErrContactWebhookMissing) {
			message = "O formulário de contato está indisponível no momento."
		}
		a.renderHTML(c, http.StatusBadGateway, "contact.html", gin.H{
			"title": "Entre em Contato",
			"error": message,
			"form":  input,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/obrigado")
}
