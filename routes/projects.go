package routes

import (
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func listProjects(c *gin.Context) {
	var status *models.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ProjectStatus(raw)
		status = &s
	}
	projects, err := models.GetProjects(c.Request.Context(), queryInt(c, "year"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, projects)
}

func createProject(c *gin.Context) {
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	project, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, project)
}

func getProject(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	project, err := models.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

func updateProject(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	project, err := models.UpdateProject(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

func deleteProject(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	project, err := models.DeleteProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

func listProjectActivities(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	activities, err := models.GetProjectActivities(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, activities)
}

func createProjectActivity(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewProjectActivity
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	activity, err := models.CreateProjectActivity(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, activity)
}

func updateProjectActivity(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewProjectActivity
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	activity, err := models.UpdateProjectActivity(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, activity)
}

func deleteProjectActivity(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	activity, err := models.DeleteProjectActivity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, activity)
}

func projectStatistics(c *gin.Context) {
	stats, err := models.GetProjectStatistics(c.Request.Context(), queryInt(c, "year"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

func projectEmissionCategories(c *gin.Context) {
	categories, err := models.GetProjectEmissionCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, categories)
}

func bulkUpdateProjectStatus(c *gin.Context) {
	var input struct {
		Ids    []int                `json:"ids" binding:"required,min=1"`
		Status models.ProjectStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	updated, err := models.BulkUpdateProjectStatus(c.Request.Context(), input.Ids, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": updated})
}

func exportProjects(c *gin.Context) {
	year := queryIntDefault(c, "year", time.Now().Year())

	if c.DefaultQuery("format", "xlsx") == "csv" {
		data, err := reports.ExportProjectsCSV(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="projects.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	f, err := reports.ExportProjectsExcel(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="projects.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
