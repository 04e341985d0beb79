package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/repositories"
)

// currentProfile resolves the authenticated caller's profile from the
// firebase uid the auth middleware stored in the context. Mutations are
// guarded here: with no session there is no dispatch.
func currentProfile(c echo.Context, profiles repositories.ProfileRepository) (*models.Profile, error) {
	uid, ok := c.Get("firebaseUID").(string)
	if !ok || uid == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	profile, err := profiles.GetProfileByFirebaseUID(uid)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user has no profile")
	}
	return profile, nil
}

// isDuplicateKey reports whether the error is a uniqueness conflict
// (second like, second application, second connection request)
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// recordOf flattens a model into the realtime event payload shape
func recordOf(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil
	}
	return record
}
