package repository

import (
	"context"
	"mime/multipart"
)

// FileRepository is the upload sink: it stores one image per call and returns
// a stable retrieval URL.
type FileRepository interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}
