package media

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageHost stores an encoded image and returns a public URL for it.
type ImageHost interface {
	Upload(ctx context.Context, dataURI, name string) (string, error)
}

const contentFolder = "site-content"

// CloudinaryHost uploads images to a Cloudinary folder, one asset per content key.
type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryHost(cld *cloudinary.Cloudinary) *CloudinaryHost {
	return &CloudinaryHost{cld: cld}
}

// Upload stores dataURI under name, replacing the previous asset.
func (h *CloudinaryHost) Upload(ctx context.Context, dataURI, name string) (string, error) {
	result, err := h.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:    contentFolder,
		PublicID:  name,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("CloudinaryHost: failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("CloudinaryHost: upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("CloudinaryHost: no URL returned")
	}
	return result.SecureURL, nil
}
