// Package blobstore define el puerto de almacenamiento de archivos adjuntos.
package blobstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifica la implementación concreta.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrExists     = errors.New("blob already exists")
	ErrInvalidKey = errors.New("invalid blob key")
)

type PutOptions struct {
	ContentType string
}

// Info describe un blob guardado.
type Info struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store es un subconjunto tipo S3: create-only, lectura por streaming y borrado.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
}
