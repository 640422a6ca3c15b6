package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func listSuppliers(c *gin.Context) {
	var status *models.SupplierStatus
	if raw := c.Query("status"); raw != "" {
		s := models.SupplierStatus(raw)
		status = &s
	}
	var priority *models.PriorityLevel
	if raw := c.Query("priority"); raw != "" {
		p := models.PriorityLevel(raw)
		priority = &p
	}
	suppliers, err := models.GetSuppliers(c.Request.Context(), status, priority)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, suppliers)
}

func createSupplier(c *gin.Context) {
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	supplier, err := models.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, supplier)
}

func getSupplier(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	supplier, err := models.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

func updateSupplier(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	supplier, err := models.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

func deleteSupplier(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	supplier, err := models.DeleteSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

func listSupplierESGStandards(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	standards, err := models.GetSupplierESGStandards(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, standards)
}

func createSupplierESGStandard(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewSupplierESGStandard
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	standard, err := models.CreateSupplierESGStandard(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, standard)
}

func updateSupplierESGStandard(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewSupplierESGStandard
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	standard, err := models.UpdateSupplierESGStandard(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, standard)
}

func deleteSupplierESGStandard(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	standard, err := models.DeleteSupplierESGStandard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, standard)
}

func supplierAssessmentMatrix(c *gin.Context) {
	matrix, err := models.GetSupplierAssessmentMatrix(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, matrix)
}

func supplierESGOptions(c *gin.Context) {
	respondOK(c, models.GetSupplierESGOptions())
}

func bulkUpdateAssessments(c *gin.Context) {
	var input struct {
		Updates []*models.BulkAssessmentUpdate `json:"updates" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	updated, err := models.BulkUpdateAssessments(c.Request.Context(), input.Updates)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": updated})
}
