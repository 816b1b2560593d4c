package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var cld *cloudinary.Cloudinary

// MediaUpload is what the upload collaborator hands back: the hosted URL
// and the kind of resource Cloudinary detected (image, video, raw).
type MediaUpload struct {
	URL          string `json:"url"`
	ResourceKind string `json:"resourceKind"`
}

func InitCloudinary() error {
	var err error

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return fmt.Errorf("cloudinary environment variables are not set")
	}

	cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return fmt.Errorf("error initializing cloudinary: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err = cld.Admin.Ping(ctx); err != nil {
		return fmt.Errorf("error verifying cloudinary connection: %v", err)
	}

	return nil
}

func boolPointer(b bool) *bool {
	return &b
}

var validMediaExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp",
	".mp4", ".webm", ".mov",
	".mp3", ".ogg", ".wav", ".m4a",
}

func isValidMediaType(filename string) bool {
	lowerFilename := strings.ToLower(filename)
	for _, ext := range validMediaExtensions {
		if strings.HasSuffix(lowerFilename, ext) {
			return true
		}
	}
	return false
}

// UploadMedia uploads a chat attachment to Cloudinary and returns its URL
// together with the detected resource kind. Only the URL is ever persisted.
func UploadMedia(file *multipart.FileHeader) (*MediaUpload, error) {
	if !isValidMediaType(file.Filename) {
		return nil, fmt.Errorf("unsupported media format")
	}

	// 25MB cap, voice notes and short clips included
	if file.Size > 25*1024*1024 {
		return nil, fmt.Errorf("file too large, maximum 25MB allowed")
	}

	if cld == nil {
		if err := InitCloudinary(); err != nil {
			return nil, err
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publicID := fmt.Sprintf("chat_media_%d", time.Now().Unix())

	result, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         "chat_media",
		PublicID:       publicID,
		UseFilename:    boolPointer(true),
		UniqueFilename: boolPointer(true),
		Overwrite:      boolPointer(false),
		ResourceType:   "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading to cloudinary: %v", err)
	}

	return &MediaUpload{
		URL:          result.SecureURL,
		ResourceKind: result.ResourceType,
	}, nil
}
