// Package web provides the HTTP server and web interface for zoldermarkt
package web

import (
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/hjkuiper/zoldermarkt/internal/config"
)

// TemplateData represents common template data
type TemplateData struct {
	Title        template.HTML
	Port         int
	AppVersion   string
	UserCount    int
	ListingCount int
	SoldCount    int
}

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	data := TemplateData{
		Title:      template.HTML(title),
		Port:       s.GetPort(),
		AppVersion: config.AppVersion,
	}

	if userCount, err := s.DB.CountUsers(); err == nil {
		data.UserCount = userCount
	}
	if total, sold, err := s.DB.CountListings(); err == nil {
		data.ListingCount = total
		data.SoldCount = sold
	}

	return data
}

// templatePath resolves a template name against the configured template directory
func (s *WebServer) templatePath(templateName string) string {
	return filepath.Join(s.Config.TemplateDir, templateName)
}

// renderTemplate renders a page template wrapped in the base template
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// Load templates individually to avoid engine setup issues
	tmpl, err := template.ParseFiles(s.templatePath("base.html"), s.templatePath(templateName))
	if err != nil {
		log.Printf("Error loading template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Header("Content-Type", "text/html")
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
	}
}

// renderError renders an error page
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	errorData := struct {
		TemplateData
		Error      string
		StatusCode int
	}{
		TemplateData: s.getBaseTemplateData(c, "Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	log.Printf("[ERROR]:internal/web: Error %d: %s - %s", statusCode, message, errstring)

	tmpl, err := template.ParseFiles(s.templatePath("base.html"), s.templatePath("error.html"))
	if err != nil {
		log.Printf("Error loading error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
		return
	}
	c.Header("Content-Type", "text/html")
	c.Status(statusCode)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", errorData); err != nil {
		log.Printf("Error rendering error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
	}
}
