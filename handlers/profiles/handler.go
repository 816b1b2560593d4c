package profiles

import (
	"errors"
	"net/http"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Browse provider profiles
// @Description List provider listings, optionally filtered by city, online and verified flags
// @Tags profiles
// @Produce json
// @Param city query string false "Filter by city"
// @Param online query boolean false "Only profiles currently online"
// @Param verified query boolean false "Only verified profiles"
// @Success 200 {object} map[string]interface{} "profiles: list of profiles"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /profiles [get]
func ListProfiles(c *gin.Context) {
	query := db.DB.Model(&models.Profile{})

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if c.Query("online") == "true" {
		query = query.Where("is_online = ?", true)
	}
	if c.Query("verified") == "true" {
		query = query.Where("is_verified = ?", true)
	}

	var profiles []models.Profile
	if err := query.Order("updated_at DESC").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving profiles: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// @Summary Get a provider profile
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.Profile "Profile"
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /profiles/{id} [get]
func GetProfile(c *gin.Context) {
	var profile models.Profile
	if err := db.DB.Where("id = ?", c.Param("id")).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Update my listing
// @Description Update the authenticated provider's own profile fields
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Profile "Updated profile"
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not a provider"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /profiles/me [patch]
func UpdateMyProfile(c *gin.Context) {
	user, profile, ok := currentProviderProfile(c)
	if !ok {
		return
	}

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	changes := map[string]interface{}{}
	if update.DisplayName != nil {
		changes["display_name"] = *update.DisplayName
	}
	if update.Bio != nil {
		changes["bio"] = *update.Bio
	}
	if update.City != nil {
		changes["city"] = *update.City
	}
	if update.HourlyRate != nil {
		changes["hourly_rate"] = *update.HourlyRate
	}

	if len(changes) > 0 {
		if err := db.DB.Model(profile).Updates(changes).Error; err != nil {
			utils.LogErrorWithUser(user.ID, err, "Error updating profile")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Toggle my availability
// @Description Flip the isOnline / callsEnabled flags on the authenticated provider's profile. Only the owner can change them.
// @Tags profiles
// @Accept json
// @Produce json
// @Param availability body models.ProfileAvailabilityUpdate true "Availability flags"
// @Security BearerAuth
// @Success 200 {object} models.Profile "Updated profile"
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not a provider"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /profiles/me/availability [patch]
func UpdateAvailability(c *gin.Context) {
	user, profile, ok := currentProviderProfile(c)
	if !ok {
		return
	}

	var update models.ProfileAvailabilityUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	changes := map[string]interface{}{}
	if update.IsOnline != nil {
		changes["is_online"] = *update.IsOnline
	}
	if update.CallsEnabled != nil {
		changes["calls_enabled"] = *update.CallsEnabled
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No availability flag provided"})
		return
	}

	if err := db.DB.Model(profile).Updates(changes).Error; err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error updating availability")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating availability"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// currentProviderProfile loads the acting user and their profile, writing
// the error response when the user is not a provider or has no listing.
func currentProviderProfile(c *gin.Context) (*models.User, *models.Profile, bool) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return nil, nil, false
	}

	if user.Role != models.ProviderRole {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only providers have a listing"})
		return nil, nil, false
	}

	var profile models.Profile
	if err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving profile"})
		}
		return nil, nil, false
	}

	return user, &profile, true
}
