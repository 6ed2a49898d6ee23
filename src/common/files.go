package common

import (
	"context"
	"fmt"
	"io"
	"path"

	awslib "rcm/src/lib/aws"
	"rcm/src/services"
)

// S3FileStore stores request documents under <dir>/<userId>/<name> in the
// documents bucket.
type S3FileStore struct{}

func NewS3FileStore() *S3FileStore {
	return &S3FileStore{}
}

func (s *S3FileStore) Upload(ctx context.Context, name string, body io.Reader, dir string, userID uint) (*services.StoredFile, error) {
	key := path.Join(dir, fmt.Sprintf("%d", userID), name)
	url, err := awslib.S3UploadDocument(ctx, key, body)
	if err != nil {
		return nil, err
	}
	return &services.StoredFile{FileName: name, FileURL: *url}, nil
}
