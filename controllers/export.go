package controllers

import (
	"errors"
	"net/http"

	"research-achievement-api/services"

	"github.com/gin-gonic/gin"
)

// ExportAchievements streams the filtered result set as a CSV download.
// It accepts the same query params as the list endpoint.
func ExportAchievements(c *gin.Context) {
	query, err := parseAchievementQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filename, content, err := exportSvc().CSV(query)
	if err != nil {
		if errors.Is(err, services.ErrNothingToExport) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No achievements match the current filters"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export achievements"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}
