package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListAuthors returns every distinct author name for filter dropdowns.
// A storage failure degrades to an empty list so the browse page still loads.
func ListAuthors(c *gin.Context) {
	names, err := achievementSvc().AuthorNames()
	if err != nil {
		log.Printf("authors: failed to list names: %v", err)
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"authors": names})
}
