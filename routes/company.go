package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func getCompany(c *gin.Context) {
	company, err := models.GetCompany(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, company)
}

func updateCompany(c *gin.Context) {
	var input models.NewCompany
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	company, err := models.UpdateCompany(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, company)
}

func companyStats(c *gin.Context) {
	stats, err := models.GetCompanyStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
