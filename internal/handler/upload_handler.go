package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadImage stores a single image posted by the admin description editor
// and returns its public URL.
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhuma imagem enviada.", "success": 0})
		return
	}

	stored, err := a.storage.Save(file)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"data": gin.H{
			"url":    stored.URL,
			"width":  stored.Width,
			"height": stored.Height,
		},
	})
}
