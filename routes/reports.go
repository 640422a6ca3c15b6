package routes

import (
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/models/reports"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func reportYear(c *gin.Context) int {
	return queryIntDefault(c, "year", time.Now().Year())
}

func emissionsReport(c *gin.Context) {
	report, err := reports.GetEmissionsReport(c.Request.Context(), reportYear(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

func targetsReport(c *gin.Context) {
	report, err := reports.GetTargetsReport(c.Request.Context(), reportYear(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

func projectsReport(c *gin.Context) {
	report, err := reports.GetProjectsReport(c.Request.Context(), reportYear(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

func suppliersReport(c *gin.Context) {
	report, err := reports.GetSuppliersReport(c.Request.Context(), reportYear(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

func comprehensiveReport(c *gin.Context) {
	report, err := reports.GetComprehensiveReport(c.Request.Context(), reportYear(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}

func exportMeasurements(c *gin.Context) {
	year := reportYear(c)

	if c.DefaultQuery("format", "xlsx") == "csv" {
		data, err := reports.ExportMeasurementsCSV(c.Request.Context(), year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="measurements.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	f, err := reports.ExportMeasurementsExcel(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	writeWorkbook(c, f, "measurements.xlsx")
}

func exportSuppliers(c *gin.Context) {
	if c.DefaultQuery("format", "xlsx") == "csv" {
		data, err := reports.ExportSuppliersCSV(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="suppliers.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	f, err := reports.ExportSuppliersExcel(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	writeWorkbook(c, f, "suppliers.xlsx")
}
