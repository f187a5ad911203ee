package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"visitlog/internal/models"
	"visitlog/internal/services"

	"github.com/gin-gonic/gin"
)

type VisitHandler struct {
	visitService *services.VisitService
}

func NewVisitHandler(visitService *services.VisitService) *VisitHandler {
	return &VisitHandler{visitService: visitService}
}

// ListVisits renders the visit list for the authenticated user
func (h *VisitHandler) ListVisits(c *gin.Context) {
	user := currentUser(c)

	visits, err := h.visitService.GetVisits(user.ID)
	if err != nil {
		log.Printf("Failed to list visits: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load visits."})
		return
	}

	c.HTML(http.StatusOK, "visits.html", gin.H{"User": user, "Visits": visits})
}

// ShowCreateVisit renders the new-visit form with the company list
func (h *VisitHandler) ShowCreateVisit(c *gin.Context) {
	user := currentUser(c)

	companies, err := h.visitService.GetCompanies()
	if err != nil {
		log.Printf("Failed to list companies: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load companies."})
		return
	}

	c.HTML(http.StatusOK, "create-visit.html", gin.H{
		"User":         user,
		"Companies":    companies,
		"ErrorMessage": "",
	})
}

// RegisterVisit records a submitted visit and renders the visit list
func (h *VisitHandler) RegisterVisit(c *gin.Context) {
	user := currentUser(c)

	date, err := time.Parse("2006-01-02", c.PostForm("visit_date"))
	if err != nil {
		h.renderVisitForm(c, user, "Invalid visit date.")
		return
	}

	companyID, err := strconv.ParseUint(c.PostForm("company"), 10, 32)
	if err != nil {
		h.renderVisitForm(c, user, "Invalid company.")
		return
	}

	report := c.PostForm("report")

	if _, err := h.visitService.CreateVisit(user.ID, uint(companyID), date, report); err != nil {
		if errors.Is(err, services.ErrCompanyNotFound) {
			h.renderVisitForm(c, user, "Invalid company.")
			return
		}
		log.Printf("Failed to create visit: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not save the visit."})
		return
	}

	visits, err := h.visitService.GetVisits(user.ID)
	if err != nil {
		log.Printf("Failed to list visits: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load visits."})
		return
	}

	c.HTML(http.StatusOK, "visits.html", gin.H{"User": user, "Visits": visits})
}

func (h *VisitHandler) renderVisitForm(c *gin.Context, user *models.User, errorMessage string) {
	companies, err := h.visitService.GetCompanies()
	if err != nil {
		log.Printf("Failed to list companies: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load companies."})
		return
	}

	c.HTML(http.StatusBadRequest, "create-visit.html", gin.H{
		"User":         user,
		"Companies":    companies,
		"ErrorMessage": errorMessage,
	})
}

// currentUser returns the user resolved by the session middleware. The
// middleware fails closed, so the value is always present on gated
// routes.
func currentUser(c *gin.Context) *models.User {
	user, _ := c.Get("user")
	return user.(*models.User)
}
