package media

import (
	"net/http"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/identity"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Upload a chat attachment
// @Description Upload a file to the media host and return its URL and resource kind. The returned URL goes into a MEDIA or VOICE message payload; raw bytes are never stored by the API.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Security BearerAuth
// @Success 200 {object} utils.MediaUpload "Hosted media"
// @Failure 400 {object} map[string]string "error: Invalid file"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Upload error"
// @Router /media [post]
func UploadMedia(c *gin.Context) {
	user, ok := identity.CurrentUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file: " + err.Error()})
		return
	}

	upload, err := utils.UploadMedia(file)
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error uploading media")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading media"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Media uploaded")
	c.JSON(http.StatusOK, upload)
}
