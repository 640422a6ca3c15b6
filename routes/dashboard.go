package routes

import (
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func dashboardOverview(c *gin.Context) {
	year := queryIntDefault(c, "year", time.Now().Year())
	overview, err := reports.GetDashboardOverview(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, overview)
}

func emissionsTrend(c *gin.Context) {
	years := queryIntDefault(c, "years", 5)
	trend, err := reports.GetEmissionsTrend(c.Request.Context(), years)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, trend)
}

func intensityMetrics(c *gin.Context) {
	year := queryIntDefault(c, "year", time.Now().Year())
	metrics, err := reports.GetIntensityMetrics(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, metrics)
}

func targetsProgress(c *gin.Context) {
	progress, err := reports.GetTargetsProgress(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, progress)
}
