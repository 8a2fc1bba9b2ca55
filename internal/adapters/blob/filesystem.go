package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"pet-care-manager/internal/ports/blobstore"
)

// Filesystem guarda cada blob como archivo bajo root, con un sidecar
// "<archivo>.meta" (JSON) para el content type.
type Filesystem struct {
	root string
}

type fsMeta struct {
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "./data/uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob fs root: %w", err)
	}
	return &Filesystem{root: root}, nil
}

func (s *Filesystem) Driver() blobstore.Driver { return blobstore.DriverFilesystem }

func (s *Filesystem) paths(key string) (string, string, string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", "", "", err
	}
	data := filepath.Join(s.root, filepath.FromSlash(k))
	return k, data, data + ".meta", nil
}

func (s *Filesystem) Put(_ context.Context, key string, r io.Reader, opts blobstore.PutOptions) (blobstore.Info, error) {
	k, dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return blobstore.Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return blobstore.Info{}, blobstore.ErrExists
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return blobstore.Info{}, err
	}

	// Se escribe a un temporal y se renombra para no dejar archivos a medias.
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return blobstore.Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	size, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return blobstore.Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return blobstore.Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return blobstore.Info{}, err
	}

	meta := fsMeta{ContentType: opts.ContentType, Size: size, CreatedAt: time.Now().UTC()}
	raw, err := json.Marshal(meta)
	if err != nil {
		return blobstore.Info{}, err
	}
	if err := os.WriteFile(metaPath, raw, 0o644); err != nil {
		return blobstore.Info{}, err
	}
	return blobstore.Info{Key: k, Size: size, ContentType: meta.ContentType, LastModified: meta.CreatedAt}, nil
}

func (s *Filesystem) Get(ctx context.Context, key string) (blobstore.Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return blobstore.Info{}, nil, err
	}
	_, dataPath, _, _ := s.paths(key)
	f, err := os.Open(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return blobstore.Info{}, nil, blobstore.ErrNotFound
	}
	if err != nil {
		return blobstore.Info{}, nil, err
	}
	return info, f, nil
}

func (s *Filesystem) Head(_ context.Context, key string) (blobstore.Info, error) {
	k, dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return blobstore.Info{}, err
	}
	st, err := os.Stat(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return blobstore.Info{}, blobstore.ErrNotFound
	}
	if err != nil {
		return blobstore.Info{}, err
	}

	info := blobstore.Info{Key: k, Size: st.Size(), LastModified: st.ModTime().UTC()}
	if raw, err := os.ReadFile(metaPath); err == nil {
		var m fsMeta
		if json.Unmarshal(raw, &m) == nil {
			info.ContentType = m.ContentType
		}
	}
	return info, nil
}

func (s *Filesystem) Delete(_ context.Context, key string) (bool, error) {
	_, dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}
