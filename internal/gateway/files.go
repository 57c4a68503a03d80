package gateway

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryFiles stores forum photos and avatars. Buckets become folders
// under root.
type CloudinaryFiles struct {
	cld  *cloudinary.Cloudinary
	root string
}

func NewCloudinaryFiles(cloudName, apiKey, apiSecret, root string) (*CloudinaryFiles, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryFiles{cld: cld, root: root}, nil
}

// Upload stores data at folder/name, overwriting any previous upload with
// the same name, and returns the secure URL.
func (f *CloudinaryFiles) Upload(ctx context.Context, folder, name string, data []byte) (string, error) {
	dir, file := path.Split(path.Join(folder, name))
	publicID := strings.TrimSuffix(file, path.Ext(file))
	overwrite := true

	res, err := f.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       strings.TrimSuffix(path.Join(f.root, dir), "/"),
		PublicID:     publicID,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload to Cloudinary failed: %v", apperr.ErrRemote, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: upload to Cloudinary failed: %s", apperr.ErrRemote, res.Error.Message)
	}
	return res.SecureURL, nil
}
