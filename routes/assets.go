package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func listAssets(c *gin.Context) {
	var status *models.AssetStatus
	if raw := c.Query("status"); raw != "" {
		s := models.AssetStatus(raw)
		status = &s
	}
	assets, err := models.GetAssets(c.Request.Context(), queryString(c, "type"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, assets)
}

func createAsset(c *gin.Context) {
	var input models.NewAsset
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	asset, err := models.CreateAsset(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, asset)
}

func getAsset(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	asset, err := models.GetAsset(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, asset)
}

func updateAsset(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewAsset
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	asset, err := models.UpdateAsset(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, asset)
}

func deleteAsset(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	asset, err := models.DeleteAsset(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, asset)
}

func listAssetTypes(c *gin.Context) {
	types, err := models.GetAssetTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, types)
}

func assetFleetSummary(c *gin.Context) {
	summary, err := models.GetAssetFleetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

func assetMaintenanceSchedule(c *gin.Context) {
	schedule, err := models.GetAssetMaintenanceSchedule(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, schedule)
}

func assetEnergyAnalysis(c *gin.Context) {
	analysis, err := models.GetAssetEnergyAnalysis(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, analysis)
}

func assetCarbonAnalysis(c *gin.Context) {
	analysis, err := models.GetAssetCarbonAnalysis(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, analysis)
}

func listAssetComparisons(c *gin.Context) {
	comparisons, err := models.GetAssetComparisons(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, comparisons)
}

func createAssetComparison(c *gin.Context) {
	var input models.NewAssetComparison
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	comparison, err := models.CreateAssetComparison(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, comparison)
}

func getAssetComparison(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	comparison, err := models.GetAssetComparison(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, comparison)
}

func updateAssetComparison(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewAssetComparison
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	comparison, err := models.UpdateAssetComparison(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, comparison)
}

func deleteAssetComparison(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	comparison, err := models.DeleteAssetComparison(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, comparison)
}

func assetComparisonAnalysis(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	costPerKwh := queryFloatDefault(c, "energy_cost_per_kwh", 0.15)
	analysis, err := models.GetAssetComparisonAnalysis(c.Request.Context(), id, costPerKwh)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, analysis)
}

func createComparisonProposal(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewAssetComparisonProposal
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	proposal, err := models.CreateAssetComparisonProposal(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, proposal)
}

func deleteComparisonProposal(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	proposal, err := models.DeleteAssetComparisonProposal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, proposal)
}
