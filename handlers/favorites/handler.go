package favorites

import (
	"errors"
	"net/http"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Bookmark a profile
// @Description Add a provider profile to the authenticated client's favorites. Re-posting an existing favorite is not an error.
// @Tags favorites
// @Accept json
// @Produce json
// @Param favorite body models.FavoriteCreate true "Profile to bookmark"
// @Security BearerAuth
// @Success 200 {object} models.Favorite "Existing favorite"
// @Success 201 {object} models.Favorite "Created favorite"
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /favorites [post]
func CreateFavorite(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var favoriteCreate models.FavoriteCreate
	if err := c.ShouldBindJSON(&favoriteCreate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var profile models.Profile
	if err := db.DB.Where("id = ?", favoriteCreate.ProfileID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying profile"})
		}
		return
	}

	var existing models.Favorite
	if err := db.DB.Where("client_id = ? AND profile_id = ?", user.ID, profile.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	favorite := models.Favorite{
		ClientID:  user.ID,
		ProfileID: profile.ID,
	}
	if result := db.DB.Create(&favorite); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating favorite"})
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// @Summary List my favorites
// @Description List the authenticated client's bookmarked profiles
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "favorites: list"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /favorites [get]
func ListFavorites(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	var favorites []models.Favorite
	if err := db.DB.Where("client_id = ?", user.ID).
		Order("created_at DESC").Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving favorites"})
		return
	}

	type FavoriteView struct {
		models.Favorite
		Profile *models.Profile `json:"profile,omitempty"`
	}

	views := make([]FavoriteView, 0, len(favorites))
	for _, favorite := range favorites {
		view := FavoriteView{Favorite: favorite}
		var profile models.Profile
		if err := db.DB.Where("id = ?", favorite.ProfileID).First(&profile).Error; err == nil {
			view.Profile = &profile
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"favorites": views})
}

// @Summary Remove a favorite
// @Tags favorites
// @Produce json
// @Param profileId path string true "Profile ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Favorite removed"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Favorite not found"
// @Failure 500 {object} map[string]string "error: Server error"
// @Router /favorites/{profileId} [delete]
func DeleteFavorite(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	result := db.DB.Where("client_id = ? AND profile_id = ?", user.ID, c.Param("profileId")).
		Delete(&models.Favorite{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing favorite"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
