package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func listTargets(c *gin.Context) {
	var status *models.TargetStatus
	if raw := c.Query("status"); raw != "" {
		s := models.TargetStatus(raw)
		status = &s
	}
	targets, err := models.GetESGTargets(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, targets)
}

func createTarget(c *gin.Context) {
	var input models.NewESGTarget
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	target, err := models.CreateESGTarget(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, target)
}

func getTarget(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	target, err := models.GetESGTarget(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, target)
}

func updateTarget(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewESGTarget
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	target, err := models.UpdateESGTarget(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, target)
}

func deleteTarget(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	target, err := models.DeleteESGTarget(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, target)
}

func targetStats(c *gin.Context) {
	stats, err := models.GetTargetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
