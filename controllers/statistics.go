package controllers

import (
	"log"
	"net/http"

	"research-achievement-api/models"
	"research-achievement-api/services"

	"github.com/gin-gonic/gin"
)

// GetStatistics returns site-wide counts plus the caller's own total.
// Dashboard widgets prefer zeroes over an error page, so failures degrade.
func GetStatistics(c *gin.Context) {
	stats, err := statisticsSvc().Overall(c.GetString("userID"))
	if err != nil {
		log.Printf("statistics: overall query failed: %v", err)
		stats = &services.SiteStatistics{
			CategoryStats: map[models.Category]int64{},
			MonthlyStats:  []services.MonthCount{},
		}
	}
	c.JSON(http.StatusOK, stats)
}

// GetUserStatistics returns the caller's personal achievement statistics.
func GetUserStatistics(c *gin.Context) {
	primaryOnly := c.Query("only_first_or_corresponding") == "true"

	stats, err := statisticsSvc().ForUser(c.GetString("userID"), primaryOnly)
	if err != nil {
		log.Printf("statistics: user query failed: %v", err)
		stats = &services.UserStatistics{
			CategoryStats:      map[models.Category]int64{},
			RecentAchievements: []models.Achievement{},
			MonthlyTrend:       []services.MonthCount{},
		}
	}
	c.JSON(http.StatusOK, stats)
}
