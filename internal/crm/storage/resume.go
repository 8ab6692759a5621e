package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"code.sajari.com/docconv"
	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"go.uber.org/zap"
)

// MaxResumeSize is the largest résumé the system accepts.
const MaxResumeSize = 10 << 20 // 10 MB

const resumeContentType = "application/pdf"

// TextExtractor pulls plain text out of a résumé document.
type TextExtractor interface {
	Extract(r io.Reader) (string, error)
}

// DocconvExtractor extracts PDF text via docconv.
type DocconvExtractor struct{}

func (DocconvExtractor) Extract(r io.Reader) (string, error) {
	res, err := docconv.Convert(r, resumeContentType, true)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

// ResumeUpload is the outcome of a successful résumé upload.
type ResumeUpload struct {
	Key  string
	URL  string
	Text string
}

// ResumeService validates résumé uploads and hands them to the file
// store under a collision-resistant key. Text extraction is best-effort
// and never fails the upload.
type ResumeService struct {
	store     FileStore
	extractor TextExtractor
	logger    *zap.Logger
}

func NewResumeService(store FileStore, extractor TextExtractor, logger *zap.Logger) *ResumeService {
	return &ResumeService{
		store:     store,
		extractor: extractor,
		logger:    logger.Named("resume_service"),
	}
}

// Upload validates content type and size before any store I/O, then
// uploads the payload and returns its public URL.
func (s *ResumeService) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (*ResumeUpload, error) {
	if contentType != resumeContentType {
		return nil, fmt.Errorf("%w: only PDF files are accepted", e.ErrInvalidInput)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", e.ErrInvalidInput)
	}
	if size > MaxResumeSize {
		return nil, fmt.Errorf("%w: file exceeds the 10MB limit", e.ErrInvalidInput)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxResumeSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > MaxResumeSize {
		return nil, fmt.Errorf("%w: file exceeds the 10MB limit", e.ErrInvalidInput)
	}

	key := newResumeKey()
	url, err := s.store.Upload(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload resume: %w", err)
	}

	upload := &ResumeUpload{Key: key, URL: url}
	if s.extractor != nil {
		text, err := s.extractor.Extract(bytes.NewReader(data))
		if err != nil {
			s.logger.Warn("resume text extraction failed",
				zap.Error(err),
				zap.String("key", key),
			)
		} else {
			upload.Text = text
		}
	}
	return upload, nil
}

// Delete removes the blob behind a previously returned public URL.
func (s *ResumeService) Delete(ctx context.Context, fileURL string) error {
	key := KeyFromURL(fileURL)
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}

func newResumeKey() string {
	fragment := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s.pdf", time.Now().UnixMilli(), fragment)
}
