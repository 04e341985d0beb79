package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(
	profileRepo repositories.ProfileRepository,
	notifRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *ProfileHandler {
	return &ProfileHandler{
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
	}
}

// RegisterProfileRoutes registers profile routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.POST("/profiles", h.CreateProfile)
	g.GET("/profiles/me", h.GetOwnProfile)
	g.GET("/profiles/:id", h.GetProfile)
	g.PUT("/profiles/me", h.UpdateOwnProfile)
	g.PUT("/profiles/:id/verification", h.UpdateVerification)
}

// CreateProfile completes sign-up: the authenticated uid gets a profile
// header plus the variant payload selected by the discriminator
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	uid, ok := c.Get("firebaseUID").(string)
	if !ok || uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if _, err := h.profileRepository.GetProfileByFirebaseUID(uid); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Profile already exists")
	}

	var req models.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile := &models.Profile{
		Name:        req.Name,
		Email:       req.Email,
		AvatarURL:   req.AvatarURL,
		AccountType: models.AccountType(req.AccountType),
		Bio:         req.Bio,
		FirebaseUID: uid,
	}
	switch profile.AccountType {
	case models.AccountTypeStudent:
		profile.Student = &models.StudentProfile{
			University: req.University,
			Department: req.Department,
			Level:      req.Level,
			Courses:    req.Courses,
			Skills:     req.Skills,
			Badges:     req.Badges,
		}
	case models.AccountTypeOrganization:
		profile.Organization = &models.OrganizationProfile{
			Industry: req.Industry,
			Website:  req.Website,
			Location: req.Location,
			Size:     req.Size,
		}
	}

	if err := h.profileRepository.CreateProfile(profile); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "Email already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, profile)
}

// GetOwnProfile returns the caller's full profile
func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	profile, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfile returns any profile by id
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	if _, err := currentProfile(c, h.profileRepository); err != nil {
		return err
	}

	profile, err := h.profileRepository.GetProfileByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateOwnProfile edits the caller's own header and variant payload.
// Only the owner may mutate a profile; verification has its own path.
func (h *ProfileHandler) UpdateOwnProfile(c echo.Context) error {
	profile, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if len(updates) > 0 {
		if err := h.profileRepository.UpdateProfile(profile.ID, updates); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	switch profile.AccountType {
	case models.AccountTypeStudent:
		payload := profile.Student
		if payload == nil {
			payload = &models.StudentProfile{ProfileID: profile.ID}
		}
		if req.University != "" {
			payload.University = req.University
		}
		if req.Department != "" {
			payload.Department = req.Department
		}
		if req.Level != "" {
			payload.Level = req.Level
		}
		if req.Courses != nil {
			payload.Courses = req.Courses
		}
		if req.Skills != nil {
			payload.Skills = req.Skills
		}
		if req.Badges != nil {
			payload.Badges = req.Badges
		}
		payload.ProfileID = profile.ID
		if err := h.profileRepository.UpsertStudentPayload(payload); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	case models.AccountTypeOrganization:
		payload := profile.Organization
		if payload == nil {
			payload = &models.OrganizationProfile{ProfileID: profile.ID}
		}
		if req.Industry != "" {
			payload.Industry = req.Industry
		}
		if req.Website != "" {
			payload.Website = req.Website
		}
		if req.Location != "" {
			payload.Location = req.Location
		}
		if req.Size != "" {
			payload.Size = req.Size
		}
		payload.ProfileID = profile.ID
		if err := h.profileRepository.UpsertOrganizationPayload(payload); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	updated, err := h.profileRepository.GetProfileByID(profile.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateVerification is the admin override for the verification flag.
// Newly verified users get a congratulation system notification.
func (h *ProfileHandler) UpdateVerification(c echo.Context) error {
	admin, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	if !isAdmin(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}
	targetID := c.Param("id")

	var req models.UpdateVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.profileRepository.SetVerified(targetID, *req.IsVerified); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if *req.IsVerified && targetID != admin.ID {
		notification := &models.Notification{
			RecipientID: targetID,
			ActorID:     admin.ID,
			Type:        models.NotificationTypeSystem,
			Content:     "Congratulations! Your account has been verified by an admin.",
			ActorData:   models.ActorSnapshot{Name: admin.Name, AvatarURL: admin.AvatarURL},
		}
		if err := h.notificationRepository.CreateNotification(notification); err == nil {
			h.hub.Publish("notifications", realtime.EventInsert, recordOf(notification))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"id": targetID, "is_verified": *req.IsVerified})
}

// isAdmin reports whether the verified token carried the admin claim
func isAdmin(c echo.Context) bool {
	claims, ok := c.Get("firebaseClaims").(map[string]any)
	if !ok {
		return false
	}
	admin, _ := claims["admin"].(bool)
	return admin
}
