package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unilinkng/backend/internal/careerai"
	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/repositories"
)

// CareerHandler handles career roadmap HTTP requests
type CareerHandler struct {
	generator         *careerai.Generator
	roadmapRepository repositories.RoadmapRepository
	profileRepository repositories.ProfileRepository
}

// NewCareerHandler creates a new CareerHandler
func NewCareerHandler(
	generator *careerai.Generator,
	roadmapRepo repositories.RoadmapRepository,
	profileRepo repositories.ProfileRepository,
) *CareerHandler {
	return &CareerHandler{
		generator:         generator,
		roadmapRepository: roadmapRepo,
		profileRepository: profileRepo,
	}
}

// RegisterCareerRoutes registers career advisor routes
func (h *CareerHandler) RegisterCareerRoutes(g *echo.Group) {
	g.POST("/career/roadmap", h.GenerateRoadmap)
	g.GET("/career/roadmap", h.GetLatestRoadmap)
}

// GenerateRoadmap produces a career roadmap for the caller. Inputs
// default to the caller's student payload when the body omits them.
func (h *CareerHandler) GenerateRoadmap(c echo.Context) error {
	requester, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req models.GenerateRoadmapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if requester.Student != nil {
		if req.Department == "" {
			req.Department = requester.Student.Department
		}
		if req.Courses == nil {
			req.Courses = requester.Student.Courses
		}
		if req.Skills == nil {
			req.Skills = requester.Student.Skills
		}
	}
	if req.Department == "" {
		req.Department = "General"
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content, generated, err := h.generator.GenerateRoadmap(
		c.Request().Context(), req.Courses, req.Skills, req.Department)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway,
			"Sorry, I couldn't generate a roadmap at the moment. Please try again later.")
	}

	roadmap := &models.Roadmap{
		ProfileID:  requester.ID,
		Department: req.Department,
		Courses:    req.Courses,
		Skills:     req.Skills,
		Content:    content,
		Generated:  generated,
	}
	if h.roadmapRepository != nil {
		if err := h.roadmapRepository.SaveRoadmap(c.Request().Context(), roadmap); err != nil {
			// The roadmap is still served; persistence is best-effort
			c.Logger().Warnf("failed to persist roadmap for %s: %v", requester.ID, err)
		}
	}

	return c.JSON(http.StatusOK, roadmap)
}

// GetLatestRoadmap returns the caller's most recent roadmap
func (h *CareerHandler) GetLatestRoadmap(c echo.Context) error {
	requester, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	if h.roadmapRepository == nil {
		return echo.NewHTTPError(http.StatusNotFound, "No roadmap yet")
	}

	roadmap, err := h.roadmapRepository.GetLatestByProfileID(c.Request().Context(), requester.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "No roadmap yet")
	}
	return c.JSON(http.StatusOK, roadmap)
}
