package routes

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/esg_backend/middlewares"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Every endpoint answers with the same envelope:
// {"success": true, "data": ...} or {"success": false, "error": ...}.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	var body interface{} = err.Error()

	switch e := err.(type) {
	case validator.ValidationErrors:
		body = utils.ProcessValidationErrors(e)
	default:
		if err == utils.ErrorRecordNotFound {
			status = http.StatusNotFound
		}
	}
	c.JSON(status, gin.H{"success": false, "error": body})
}

func parseIdParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryIntDefault(c *gin.Context, name string, def int) int {
	if v := queryInt(c, name); v != nil {
		return *v
	}
	return def
}

func queryFloatDefault(c *gin.Context, name string, def float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func queryString(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// RegisterRoutes wires every API endpoint under /api. The /settings alias
// block re-exposes company, user, role and API key management under
// settings permissions for older clients.
func RegisterRoutes(r *gin.Engine) {

	api := r.Group("/api")

	// unauthenticated
	api.POST("/auth/login", login)

	perm := middlewares.RequirePermissions

	// emission factors + revisions
	factors := api.Group("/emission-factors")
	{
		factors.GET("", perm("emission_factors.read"), listEmissionFactors)
		factors.POST("", perm("emission_factors.write"), createEmissionFactor)
		factors.GET("/categories", perm("emission_factors.read"), listEmissionFactorCategories)
		factors.GET("/sub-categories", perm("emission_factors.read"), listEmissionFactorSubCategories)
		factors.GET("/:id", perm("emission_factors.read"), getEmissionFactor)
		factors.DELETE("/:id", perm("emission_factors.delete"), deleteEmissionFactor)
		factors.GET("/:id/revisions", perm("emission_factors.read"), listFactorRevisions)
		factors.POST("/:id/revisions", perm("emission_factors.write"), createFactorRevision)
	}
	revisions := api.Group("/emission-factor-revisions")
	{
		revisions.GET("/:id", perm("emission_factors.read"), getFactorRevision)
		revisions.POST("/:id/activate", perm("emission_factors.write"), activateFactorRevision)
		revisions.DELETE("/:id", perm("emission_factors.delete"), deleteFactorRevision)
	}

	// measurements
	measurements := api.Group("/measurements")
	{
		measurements.GET("", perm("measurements.read"), listMeasurements)
		measurements.POST("", perm("measurements.write"), createMeasurement)
		measurements.GET("/summary", perm("measurements.read"), measurementSummary)
		measurements.POST("/recalculate", perm("measurements.write"), recalculateEmissions)
		measurements.GET("/:id", perm("measurements.read"), getMeasurement)
		measurements.PUT("/:id", perm("measurements.write"), updateMeasurement)
		measurements.DELETE("/:id", perm("measurements.delete"), deleteMeasurement)
	}

	// suppliers + ESG standards
	suppliers := api.Group("/suppliers")
	{
		suppliers.GET("", perm("suppliers.read"), listSuppliers)
		suppliers.POST("", perm("suppliers.write"), createSupplier)
		suppliers.GET("/assessment-matrix", perm("suppliers.read"), supplierAssessmentMatrix)
		suppliers.GET("/esg-options", perm("suppliers.read"), supplierESGOptions)
		suppliers.POST("/bulk-assessments", perm("suppliers.write"), bulkUpdateAssessments)
		suppliers.GET("/:id", perm("suppliers.read"), getSupplier)
		suppliers.PUT("/:id", perm("suppliers.write"), updateSupplier)
		suppliers.DELETE("/:id", perm("suppliers.delete"), deleteSupplier)
		suppliers.GET("/:id/esg-standards", perm("suppliers.read"), listSupplierESGStandards)
		suppliers.POST("/:id/esg-standards", perm("suppliers.write"), createSupplierESGStandard)
	}
	standards := api.Group("/esg-standards")
	{
		standards.PUT("/:id", perm("suppliers.write"), updateSupplierESGStandard)
		standards.DELETE("/:id", perm("suppliers.delete"), deleteSupplierESGStandard)
	}

	// targets
	targets := api.Group("/targets")
	{
		targets.GET("", perm("targets.read"), listTargets)
		targets.POST("", perm("targets.write"), createTarget)
		targets.GET("/stats", perm("targets.read"), targetStats)
		targets.GET("/:id", perm("targets.read"), getTarget)
		targets.PUT("/:id", perm("targets.write"), updateTarget)
		targets.DELETE("/:id", perm("targets.delete"), deleteTarget)
	}

	// assets
	assets := api.Group("/assets")
	{
		assets.GET("", perm("assets.read"), listAssets)
		assets.POST("", perm("assets.write"), createAsset)
		assets.GET("/types", perm("assets.read"), listAssetTypes)
		assets.GET("/summary", perm("assets.read"), assetFleetSummary)
		assets.GET("/maintenance-schedule", perm("assets.read"), assetMaintenanceSchedule)
		assets.GET("/energy-analysis", perm("assets.read"), assetEnergyAnalysis)
		assets.GET("/carbon-analysis", perm("assets.read"), assetCarbonAnalysis)
		assets.GET("/:id", perm("assets.read"), getAsset)
		assets.PUT("/:id", perm("assets.write"), updateAsset)
		assets.DELETE("/:id", perm("assets.delete"), deleteAsset)
	}

	// asset comparisons
	comparisons := api.Group("/asset-comparisons")
	{
		comparisons.GET("", perm("assets.read"), listAssetComparisons)
		comparisons.POST("", perm("assets.write"), createAssetComparison)
		comparisons.GET("/:id", perm("assets.read"), getAssetComparison)
		comparisons.PUT("/:id", perm("assets.write"), updateAssetComparison)
		comparisons.DELETE("/:id", perm("assets.delete"), deleteAssetComparison)
		comparisons.GET("/:id/analysis", perm("assets.read"), assetComparisonAnalysis)
		comparisons.POST("/:id/proposals", perm("assets.write"), createComparisonProposal)
	}
	proposals := api.Group("/comparison-proposals")
	{
		proposals.DELETE("/:id", perm("assets.delete"), deleteComparisonProposal)
	}

	// projects + activities
	projects := api.Group("/projects")
	{
		projects.GET("", perm("projects.read"), listProjects)
		projects.POST("", perm("projects.write"), createProject)
		projects.GET("/statistics", perm("projects.read"), projectStatistics)
		projects.GET("/emission-categories", perm("projects.read"), projectEmissionCategories)
		projects.POST("/bulk-status", perm("projects.write"), bulkUpdateProjectStatus)
		projects.GET("/export", perm("projects.read"), exportProjects)
		projects.GET("/:id", perm("projects.read"), getProject)
		projects.PUT("/:id", perm("projects.write"), updateProject)
		projects.DELETE("/:id", perm("projects.delete"), deleteProject)
		projects.GET("/:id/activities", perm("projects.read"), listProjectActivities)
		projects.POST("/:id/activities", perm("projects.write"), createProjectActivity)
	}
	activities := api.Group("/activities")
	{
		activities.PUT("/:id", perm("projects.write"), updateProjectActivity)
		activities.DELETE("/:id", perm("projects.delete"), deleteProjectActivity)
	}

	// company
	company := api.Group("/company")
	{
		company.GET("", perm("settings.read"), getCompany)
		company.PUT("", perm("settings.write"), updateCompany)
		company.GET("/stats", perm("settings.read"), companyStats)
	}

	// dashboard
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/overview", perm("dashboard.read"), dashboardOverview)
		dashboard.GET("/emissions-trend", perm("dashboard.read"), emissionsTrend)
		dashboard.GET("/intensity-metrics", perm("dashboard.read"), intensityMetrics)
		dashboard.GET("/targets-progress", perm("dashboard.read"), targetsProgress)
	}

	// reports
	reportsGroup := api.Group("/reports")
	{
		reportsGroup.GET("/emissions", perm("reports.read"), emissionsReport)
		reportsGroup.GET("/targets", perm("reports.read"), targetsReport)
		reportsGroup.GET("/projects", perm("reports.read"), projectsReport)
		reportsGroup.GET("/suppliers", perm("reports.read"), suppliersReport)
		reportsGroup.GET("/comprehensive", perm("reports.read"), comprehensiveReport)
		reportsGroup.GET("/measurements/export", perm("reports.read"), exportMeasurements)
		reportsGroup.GET("/suppliers/export", perm("reports.read"), exportSuppliers)
	}

	// auth + current user
	auth := api.Group("/auth")
	{
		auth.GET("/me", currentUser)
		auth.PUT("/profile", updateProfile)
		auth.PUT("/password", changePassword)
	}

	// user management (admin)
	users := api.Group("/users")
	{
		users.GET("", perm("settings.read"), listUsers)
		users.POST("", perm("settings.write"), createUser)
		users.GET("/:id", perm("settings.read"), getUser)
		users.PUT("/:id", perm("settings.write"), updateUser)
		users.DELETE("/:id", perm("settings.delete"), deleteUser)
		users.POST("/:id/toggle-status", perm("settings.write"), toggleUserStatus)
	}

	// roles
	roles := api.Group("/roles")
	{
		roles.GET("", perm("settings.read"), listRoles)
		roles.POST("", perm("settings.write"), createRole)
		roles.GET("/:id", perm("settings.read"), getRole)
		roles.PUT("/:id", perm("settings.write"), updateRole)
		roles.DELETE("/:id", perm("settings.delete"), deleteRole)
		roles.GET("/:id/permissions", perm("settings.read"), getRolePermissions)
		roles.PUT("/:id/permissions", perm("settings.write"), updateRolePermissions)
	}

	// API keys
	apiKeys := api.Group("/api-keys")
	{
		apiKeys.GET("", perm("settings.read"), listApiKeys)
		apiKeys.POST("", perm("settings.write"), createApiKey)
		apiKeys.GET("/:id", perm("settings.read"), getApiKey)
		apiKeys.PUT("/:id", perm("settings.write"), updateApiKey)
		apiKeys.DELETE("/:id", perm("settings.delete"), deleteApiKey)
		apiKeys.POST("/:id/regenerate", perm("settings.write"), regenerateApiKey)
		apiKeys.POST("/:id/toggle-status", perm("settings.write"), toggleApiKeyStatus)
	}

	// settings aliases, same handlers under settings permissions
	settings := api.Group("/settings")
	{
		settings.GET("/company", perm("settings.read"), getCompany)
		settings.PUT("/company", perm("settings.write"), updateCompany)
		settings.GET("/users", perm("settings.read"), listUsers)
		settings.POST("/users", perm("settings.write"), createUser)
		settings.GET("/roles", perm("settings.read"), listRoles)
		settings.GET("/api-keys", perm("settings.read"), listApiKeys)
	}
}
