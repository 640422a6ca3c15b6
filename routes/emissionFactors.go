package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func listEmissionFactors(c *gin.Context) {
	factors, err := models.GetEmissionFactors(c.Request.Context(), queryString(c, "category"), queryInt(c, "scope"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, factors)
}

func createEmissionFactor(c *gin.Context) {
	var input models.NewEmissionFactor
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	factor, err := models.CreateEmissionFactor(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, factor)
}

func getEmissionFactor(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	factor, err := models.GetEmissionFactor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, factor)
}

func deleteEmissionFactor(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	factor, err := models.DeleteEmissionFactor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, factor)
}

func listEmissionFactorCategories(c *gin.Context) {
	categories, err := models.GetEmissionFactorCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, categories)
}

func listEmissionFactorSubCategories(c *gin.Context) {
	subCategories, err := models.GetEmissionFactorSubCategories(c.Request.Context(), queryString(c, "category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, subCategories)
}

func listFactorRevisions(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	revisions, err := models.GetRevisionHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, revisions)
}

func createFactorRevision(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewEmissionFactorRevision
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	revision, err := models.CreateEmissionFactorRevision(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, revision)
}

func getFactorRevision(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	revision, err := models.GetEmissionFactorRevision(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, revision)
}

func activateFactorRevision(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	revision, err := models.ActivateEmissionFactorRevision(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, revision)
}

func deleteFactorRevision(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	revision, err := models.DeleteEmissionFactorRevision(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, revision)
}
