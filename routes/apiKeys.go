package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func listApiKeys(c *gin.Context) {
	keys, err := models.GetAPIKeys(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, keys)
}

func createApiKey(c *gin.Context) {
	var input models.NewAPIKey
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	created, err := models.CreateAPIKey(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, created)
}

func getApiKey(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	key, err := models.GetAPIKey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, key)
}

func updateApiKey(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewAPIKey
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	key, err := models.UpdateAPIKey(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, key)
}

func deleteApiKey(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	key, err := models.DeleteAPIKey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, key)
}

func regenerateApiKey(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	created, err := models.RegenerateAPIKey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, created)
}

func toggleApiKeyStatus(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	key, err := models.ToggleAPIKeyStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, key)
}
