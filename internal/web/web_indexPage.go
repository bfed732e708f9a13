package web

import (
	"github.com/gin-gonic/gin"

	"github.com/hjkuiper/zoldermarkt/internal/models"
)

// IndexPageData represents data for the index page
type IndexPageData struct {
	TemplateData
	RecentListings []*models.Listing
}

// indexPage handles the landing page ("/")
func (s *WebServer) indexPage(c *gin.Context) {
	recent, err := s.DB.GetRecentListings(10)
	if err != nil {
		// The page is still useful without the recent listings block
		recent = nil
	}

	data := IndexPageData{
		TemplateData:   s.getBaseTemplateData(c, "Zoldermarkt"),
		RecentListings: recent,
	}

	s.renderTemplate(c, "index.html", data)
}
