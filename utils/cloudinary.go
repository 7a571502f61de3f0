package utils

import (
	"fmt"

	"trinhnail/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary returns a client built from CLOUDINARY_URL, or nil when unset.
func Cloudinary() (*cloudinary.Cloudinary, error) {
	if config.AppConfig.CloudinaryURL == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(config.AppConfig.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return cld, nil
}
