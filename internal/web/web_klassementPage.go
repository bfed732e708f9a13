package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hjkuiper/zoldermarkt/internal/models"
)

// KlassementPageData represents data for the klassement (standings) page
type KlassementPageData struct {
	TemplateData
	Standings []*models.SellerStanding
}

// klassementPage handles the seller standings page ("/klassement")
func (s *WebServer) klassementPage(c *gin.Context) {
	standings, err := s.DB.GetSellerStandings()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	data := KlassementPageData{
		TemplateData: s.getBaseTemplateData(c, "Klassement"),
		Standings:    standings,
	}

	s.renderTemplate(c, "klassement.html", data)
}
