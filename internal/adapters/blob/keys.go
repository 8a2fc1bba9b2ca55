// Package blob implementa blobstore.Store sobre memoria, filesystem local y S3/MinIO.
package blob

import (
	"path"
	"strings"

	"pet-care-manager/internal/ports/blobstore"
)

// cleanKey rechaza keys vacías, absolutas o con "..".
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, `\`) {
		return "", blobstore.ErrInvalidKey
	}
	return path.Clean(key), nil
}
