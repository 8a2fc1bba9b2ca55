package blob

import (
	"context"
	"fmt"

	"pet-care-manager/internal/config"
	"pet-care-manager/internal/ports/blobstore"
)

// Open elige la implementación según config.Blob.Driver.
func Open(ctx context.Context, cfg config.Blob) (blobstore.Store, error) {
	switch cfg.Driver {
	case config.BlobFS, "":
		return NewFilesystem(cfg.FSRoot)
	case config.BlobS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	case config.BlobMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
