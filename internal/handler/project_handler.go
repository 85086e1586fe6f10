package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nastrosite/internal/service"
	"github.com/rs/zerolog/log"
)

// ListProjects returns every project for the admin console, newest first.
func (a *API) ListProjects(c *gin.Context) {
	projects, err := a.projects.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Erro ao carregar projetos.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns one project with its gallery images.
func (a *API) GetProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de projeto inválido.")
		return
	}

	detail, err := a.projects.GetDetail(id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "Projeto não encontrado.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Erro ao carregar projeto.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": detail.Project, "images": detail.Images})
}

// CreateProject handles the multipart create form: main image upload, row
// insert, then gallery uploads. A failure after the first upload triggers a
// best-effort cleanup of everything written so far.
func (a *API) CreateProject(c *gin.Context) {
	input := projectInputFromForm(c)

	mainFile, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Selecione uma imagem para o projeto.")
		return
	}

	galleryFiles := galleryFilesFromForm(c)

	var storedURLs []string
	cleanup := func() {
		for _, url := range storedURLs {
			if err := a.storage.Remove(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("failed to clean up uploaded image")
			}
		}
	}

	stored, err := a.storage.Save(mainFile)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	storedURLs = append(storedURLs, stored.URL)

	input.ImageURL = stored.URL
	input.ImageWidth = stored.Width
	input.ImageHeight = stored.Height

	project, err := a.projects.Create(input)
	if err != nil {
		cleanup()
		respondProjectError(c, err, "Erro ao salvar projeto.")
		return
	}

	if len(galleryFiles) > 0 {
		galleryInputs := make([]service.GalleryImageInput, 0, len(galleryFiles))
		for _, file := range galleryFiles {
			img, err := a.storage.Save(file)
			if err != nil {
				cleanup()
				a.rollbackProject(project.ID)
				respondUploadError(c, err)
				return
			}
			storedURLs = append(storedURLs, img.URL)
			galleryInputs = append(galleryInputs, service.GalleryImageInput{
				ImageURL:    img.URL,
				ImageWidth:  img.Width,
				ImageHeight: img.Height,
			})
		}

		if _, err := a.projects.AppendGalleryImages(project.ID, galleryInputs); err != nil {
			cleanup()
			a.rollbackProject(project.ID)
			respondError(c, http.StatusInternalServerError, "Erro ao salvar as imagens da galeria.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Projeto criado!", "project": project})
}

// UpdateProject handles the multipart edit form. Without a new main image
// file the existing image_url is preserved; gallery files are appended after
// the current highest display order.
func (a *API) UpdateProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de projeto inválido.")
		return
	}

	existing, err := a.projects.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "Projeto não encontrado.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Erro ao carregar projeto.")
		return
	}

	input := projectInputFromForm(c)
	input.ImageURL = existing.ImageURL
	input.ImageWidth = existing.ImageWidth
	input.ImageHeight = existing.ImageHeight

	var storedURLs []string
	cleanup := func() {
		for _, url := range storedURLs {
			if err := a.storage.Remove(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("failed to clean up uploaded image")
			}
		}
	}

	replacedURL := ""
	if mainFile, err := c.FormFile("image"); err == nil {
		stored, err := a.storage.Save(mainFile)
		if err != nil {
			respondUploadError(c, err)
			return
		}
		storedURLs = append(storedURLs, stored.URL)
		replacedURL = existing.ImageURL
		input.ImageURL = stored.URL
		input.ImageWidth = stored.Width
		input.ImageHeight = stored.Height
	}

	galleryFiles := galleryFilesFromForm(c)
	galleryInputs := make([]service.GalleryImageInput, 0, len(galleryFiles))
	for _, file := range galleryFiles {
		img, err := a.storage.Save(file)
		if err != nil {
			cleanup()
			respondUploadError(c, err)
			return
		}
		storedURLs = append(storedURLs, img.URL)
		galleryInputs = append(galleryInputs, service.GalleryImageInput{
			ImageURL:    img.URL,
			ImageWidth:  img.Width,
			ImageHeight: img.Height,
		})
	}

	project, err := a.projects.Update(id, input)
	if err != nil {
		cleanup()
		respondProjectError(c, err, "Erro ao salvar projeto.")
		return
	}

	if len(galleryInputs) > 0 {
		if _, err := a.projects.AppendGalleryImages(project.ID, galleryInputs); err != nil {
			cleanup()
			respondError(c, http.StatusInternalServerError, "Erro ao salvar as imagens da galeria.")
			return
		}
	}

	if replacedURL != "" {
		if err := a.storage.Remove(replacedURL); err != nil {
			log.Warn().Err(err).Str("url", replacedURL).Msg("failed to remove replaced image")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Projeto atualizado!", "project": project})
}

// DeleteProject removes a project, its gallery rows and the stored files.
func (a *API) DeleteProject(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de projeto inválido.")
		return
	}

	detail, err := a.projects.GetDetail(id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "Projeto não encontrado.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Erro ao carregar projeto.")
		return
	}

	if err := a.projects.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "Erro ao excluir projeto.")
		return
	}

	urls := []string{detail.Project.ImageURL}
	for _, img := range detail.Images {
		urls = append(urls, img.ImageURL)
	}
	for _, url := range urls {
		if err := a.storage.Remove(url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to remove stored image")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Projeto excluído!"})
}

// DeleteProjectImage removes one gallery image and its stored file.
func (a *API) DeleteProjectImage(c *gin.Context) {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de projeto inválido.")
		return
	}
	imageID, err := parseUintParam(c, "imageId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de imagem inválido.")
		return
	}

	image, err := a.projects.RemoveGalleryImage(projectID, imageID)
	if err != nil {
		if errors.Is(err, service.ErrProjectImageNotFound) {
			respondError(c, http.StatusNotFound, "Imagem não encontrada.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Erro ao excluir imagem.")
		return
	}

	if err := a.storage.Remove(image.ImageURL); err != nil {
		log.Warn().Err(err).Str("url", image.ImageURL).Msg("failed to remove stored image")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Imagem removida."})
}

func (a *API) rollbackProject(id uint) {
	if err := a.projects.Delete(id); err != nil {
		log.Warn().Err(err).Uint("project_id", id).Msg("failed to roll back project insert")
	}
}

func projectInputFromForm(c *gin.Context) service.ProjectInput {
	featured := c.PostForm("featured")
	return service.ProjectInput{
		Title:       c.PostForm("title"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Featured:    featured == "on" || featured == "true" || featured == "1",
	}
}

func galleryFilesFromForm(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["gallery"]
}

func respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotAnImage) {
		respondError(c, http.StatusBadRequest, "Apenas arquivos de imagem são permitidos.")
		return
	}
	respondError(c, http.StatusInternalServerError, "Erro ao enviar a imagem.")
}

func respondProjectError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondError(c, http.StatusNotFound, "Projeto não encontrado.")
	case errors.Is(err, service.ErrProjectTitleMissing):
		respondError(c, http.StatusBadRequest, "Informe o título do projeto.")
	case errors.Is(err, service.ErrProjectImageMissing):
		respondError(c, http.StatusBadRequest, "Selecione uma imagem para o projeto.")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
