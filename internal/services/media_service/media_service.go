package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"devmart/internal/domain/models"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/lib/retry"
	"devmart/internal/lib/validate"
	"devmart/internal/repository"
	"devmart/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var allowedMimePrefixes = []string{"image/", "video/", "application/pdf"}

// PartialDeleteError means the object is gone but its record could not be
// removed. The record is flagged orphaned when possible; deleting it again
// completes the operation.
type PartialDeleteError struct {
	MediaID  string
	Orphaned bool
	Err      error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("media %s: object deleted but record remains (orphaned=%t): %v", e.MediaID, e.Orphaned, e.Err)
}

func (e *PartialDeleteError) Unwrap() error {
	return e.Err
}

type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Alt         string
	Folder      *string
	Width       *int
	Height      *int
}

type MediaService struct {
	log      *slog.Logger
	repo     repository.MediaRepository
	objects  storage.ObjectStore
	retry    *retry.Retrier
	validate *validator.Validate
	now      func() time.Time
}

func NewMediaService(log *slog.Logger, repo repository.MediaRepository, objects storage.ObjectStore, r *retry.Retrier, v *validator.Validate) *MediaService {
	return &MediaService{
		log:      log,
		repo:     repo,
		objects:  objects,
		retry:    r,
		validate: v,
		now:      time.Now,
	}
}

// Upload stores the object and then its record. When the record cannot be
// written the object is removed again.
func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*models.Media, error) {
	const op = "media_service.Upload"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", in.Filename),
	)

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(path.Ext(in.Filename)))
	}
	contentType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])

	if !allowedMime(contentType) {
		return nil, fmt.Errorf("%s: %w", op, validate.NewError("file", "unsupported file type"))
	}
	if err := validate.Struct(s.validate, models.MediaInput{Alt: in.Alt, Folder: in.Folder}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := s.objectKey(in.Filename, in.Folder)

	url, err := s.objects.Put(ctx, key, in.Body, contentType)
	if err != nil {
		log.Error("failed to store object", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	media, err := s.repo.Create(ctx, models.Media{
		URL:        url,
		StorageKey: key,
		Alt:        in.Alt,
		Folder:     in.Folder,
		MimeType:   contentType,
		Width:      in.Width,
		Height:     in.Height,
	})
	if err != nil {
		log.Error("failed to save media record, removing object", sl.Err(err))

		if delErr := s.deleteObject(ctx, key); delErr != nil {
			log.Error("failed to remove object after failed insert", slog.String("key", key), sl.Err(delErr))
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("media uploaded", slog.String("media_id", media.ID), slog.String("key", key))

	return media, nil
}

// Delete removes the object first and the record second. If the object
// cannot be removed nothing has changed. If the record cannot be removed it
// is marked orphaned and *PartialDeleteError is returned.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	const op = "media_service.Delete"

	log := s.log.With(
		slog.String("op", op),
		slog.String("media_id", id),
	)

	media, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if media == nil {
		return fmt.Errorf("%s: %w", op, &repository.Error{
			Op: "delete", Entity: "media", Kind: repository.KindNotFound, Err: storage.ErrNotFound,
		})
	}

	if err := s.deleteObject(ctx, media.StorageKey); err != nil {
		log.Error("failed to delete object", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		partial := &PartialDeleteError{MediaID: id, Err: err}

		if markErr := s.repo.MarkOrphaned(ctx, id); markErr != nil {
			log.Error("failed to mark media orphaned", sl.Err(markErr))
		} else {
			partial.Orphaned = true
		}

		log.Error("media partially deleted", sl.Err(err))

		return fmt.Errorf("%s: %w", op, partial)
	}

	log.Info("media deleted")

	return nil
}

func (s *MediaService) Get(ctx context.Context, id string) (*models.Media, error) {
	const op = "media_service.Get"

	media, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

func (s *MediaService) List(ctx context.Context, f models.MediaFilter) ([]models.Media, int, error) {
	const op = "media_service.List"

	items, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return items, total, nil
}

func (s *MediaService) Update(ctx context.Context, id string, in models.MediaInput) (*models.Media, error) {
	const op = "media_service.Update"

	media, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

func (s *MediaService) deleteObject(ctx context.Context, key string) error {
	return s.retry.Do(ctx, "media.object.delete", func(ctx context.Context) error {
		return s.objects.Delete(ctx, key)
	})
}

// objectKey is media/<folder>/<yyyy>/<mm>/<uuid><ext>.
func (s *MediaService) objectKey(filename string, folder *string) string {
	dir := "uploads"
	if folder != nil && *folder != "" {
		dir = sanitizeSegment(*folder)
	}

	now := s.now().UTC()

	return path.Join(
		"media",
		dir,
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", int(now.Month())),
		uuid.NewString()+strings.ToLower(path.Ext(filename)),
	)
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "uploads"
	}

	return out
}

func allowedMime(contentType string) bool {
	for _, p := range allowedMimePrefixes {
		if strings.HasPrefix(contentType, p) {
			return true
		}
	}

	return false
}

// IsPartialDelete reports whether err is a *PartialDeleteError.
func IsPartialDelete(err error) bool {
	var partial *PartialDeleteError
	return errors.As(err, &partial)
}
