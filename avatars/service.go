package avatars

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goliatone/go-errors"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ErrMissingFile is returned when the upload carries no file
var ErrMissingFile = errors.New("Missing file", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// Service turns an upload into a stored avatar reference
type Service struct {
	processor *Processor
	store     Store
}

// NewService returns a Service, a nil processor uses the default size
func NewService(store Store, processor *Processor) *Service {
	if processor == nil {
		processor = NewProcessor(DefaultSize)
	}
	return &Service{
		processor: processor,
		store:     store,
	}
}

// Upload resizes src and stores it under a name scoped by ownerID
func (s *Service) Upload(ctx context.Context, ownerID, filename string, src io.Reader) (string, error) {
	if src == nil || strings.TrimSpace(filename) == "" {
		return "", ErrMissingFile
	}

	data, contentType, err := s.processor.Process(src, filename)
	if err != nil {
		return "", err
	}

	return s.store.Put(ctx, ObjectName(ownerID, filename), data, contentType)
}

// ObjectName builds the stored file name for an upload
func ObjectName(ownerID, filename string) string {
	base := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	return ownerID + "_" + base
}
