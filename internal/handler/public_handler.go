package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nastrosite/internal/db"
	"github.com/nastrosite/internal/service"
)

const featuredHomeLimit = 4

// carouselSlide is one image of the project detail carousel. The main image
// always occupies the first slide.
type carouselSlide struct {
	ImageURL string
	Width    int
	Height   int
}

// ShowHome renders the home page with up to four featured projects.
func (a *API) ShowHome(c *gin.Context) {
	projects, err := a.projects.ListFeatured(featuredHomeLimit)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title":    "Nastro Arquitetura",
			"error":    "Erro ao carregar projetos.",
			"projects": []db.Project{},
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":    "Nastro Arquitetura",
		"projects": projects,
	})
}

// ShowAbout renders the studio presentation page.
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title": "Sobre Nós",
	})
}

// ShowProjects renders the full portfolio listing, newest first.
func (a *API) ShowProjects(c *gin.Context) {
	projects, err := a.projects.ListAll()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "projects.html", gin.H{
			"title": "Nossos Projetos",
			"error": "Erro ao carregar projetos.",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "projects.html", gin.H{
		"title":    "Nossos Projetos",
		"projects": projects,
	})
}

// ShowProjectDetail renders one project with its carousel. Unknown ids get
// the dedicated not-found view with a link back to the listing.
func (a *API) ShowProjectDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderProjectNotFound(c)
		return
	}

	detail, err := a.projects.GetDetail(id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			a.renderProjectNotFound(c)
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "project_detail.html", gin.H{
			"title": "Projeto",
			"error": "Erro ao carregar projeto.",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "project_detail.html", gin.H{
		"title":       detail.Project.Title,
		"project":     detail.Project,
		"slides":      buildCarousel(detail),
		"description": renderMarkdown(detail.Project.Description),
	})
}

// ShowThankYou renders the post-contact confirmation page.
func (a *API) ShowThankYou(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "thank_you.html", gin.H{
		"title": "Obrigado por Entrar em Contato!",
	})
}

// NotFound renders the catch-all 404 page.
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
		"title": "Página não encontrada",
	})
}

func (a *API) renderProjectNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "project_not_found.html", gin.H{
		"title": "Projeto não encontrado",
	})
}

func buildCarousel(detail *service.ProjectDetail) []carouselSlide {
	slides := make([]carouselSlide, 0, len(detail.Images)+1)
	slides = append(slides, carouselSlide{
		ImageURL: detail.Project.ImageURL,
		Width:    detail.Project.ImageWidth,
		Height:   detail.Project.ImageHeight,
	})
	for _, img := range detail.Images {
		slides = append(slides, slideFromImage(img))
	}
	return slides
}

func slideFromImage(img db.ProjectImage) carouselSlide {
	return carouselSlide{
		ImageURL: img.ImageURL,
		Width:    img.ImageWidth,
		Height:   img.ImageHeight,
	}
}
