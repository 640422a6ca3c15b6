package routes

import (
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func measurementFilterFromQuery(c *gin.Context) *models.MeasurementFilter {
	filter := models.MeasurementFilter{
		Category: queryString(c, "category"),
		Location: queryString(c, "location"),
		Year:     queryInt(c, "year"),
		Month:    queryInt(c, "month"),
		Page:     queryIntDefault(c, "page", 1),
		PerPage:  queryIntDefault(c, "per_page", 0),
	}
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.EndDate = &t
		}
	}
	return &filter
}

func listMeasurements(c *gin.Context) {
	page, err := models.GetMeasurements(c.Request.Context(), measurementFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

func createMeasurement(c *gin.Context) {
	var input models.NewMeasurement
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	measurement, err := models.CreateMeasurement(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, measurement)
}

func getMeasurement(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	measurement, err := models.GetMeasurement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, measurement)
}

func updateMeasurement(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewMeasurement
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	measurement, err := models.UpdateMeasurement(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, measurement)
}

func deleteMeasurement(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	measurement, err := models.DeleteMeasurement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, measurement)
}

func measurementSummary(c *gin.Context) {
	summary, err := models.GetMeasurementSummary(c.Request.Context(), queryInt(c, "year"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

func recalculateEmissions(c *gin.Context) {
	result, err := models.RecalculateAllEmissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
