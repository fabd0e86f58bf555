package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitbook/internal/model"
	"fitbook/internal/repository"
	"fitbook/internal/storage"
)

const notSet = "Not set"

// Profile is the account summary shown to the signed-in user.
type Profile struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	MemberSince time.Time      `json:"member_since"`
	Role        model.Role     `json:"role"`
	Trainer     *model.Trainer `json:"trainer,omitempty"`
}

// TrainerListResult is a page of the trainer directory.
type TrainerListResult struct {
	Items []model.Trainer `json:"data"`
	Total int             `json:"total"`
}

// PhotoUpload describes an uploaded trainer photo. The content type is
// detected from the bytes, not taken from the client.
type PhotoUpload struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// sniffLen is how much of an upload http.DetectContentType looks at.
const sniffLen = 512

// ProfileService serves profiles, the trainer directory and trainer photos.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	ListTrainers(ctx context.Context, limit, offset int) (*TrainerListResult, error)
	GetTrainer(ctx context.Context, id string) (*model.Trainer, error)
	// UploadTrainerPhoto replaces the caller's photo. The new object is removed again if the row update fails.
	UploadTrainerPhoto(ctx context.Context, userID string, photo PhotoUpload) (*model.Trainer, error)
	// TrainerPhoto opens the stored photo. The caller closes the reader.
	TrainerPhoto(ctx context.Context, trainerID string) (io.ReadCloser, storage.Object, error)
}

type profileService struct {
	users         repository.UserRepository
	trainers      repository.TrainerRepository
	store         storage.Storage
	presignExpiry time.Duration
	log           *zap.Logger
}

func NewProfileService(
	users repository.UserRepository,
	trainers repository.TrainerRepository,
	store storage.Storage,
	presignExpiry time.Duration,
	log *zap.Logger,
) ProfileService {
	return &profileService{
		users:         users,
		trainers:      trainers,
		store:         store,
		presignExpiry: presignExpiry,
		log:           log.With(zap.String("component", "profile")),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	role, t, err := resolveRole(ctx, s.trainers, u.ID)
	if err != nil {
		return nil, err
	}
	name := u.FullName
	if strings.TrimSpace(name) == "" {
		name = notSet
	}
	if t != nil {
		s.withPhotoURL(ctx, t)
	}
	return &Profile{
		Name:        name,
		Email:       u.Email,
		MemberSince: u.CreatedAt,
		Role:        role,
		Trainer:     t,
	}, nil
}

func (s *profileService) ListTrainers(ctx context.Context, limit, offset int) (*TrainerListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.trainers.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		s.withPhotoURL(ctx, &res.Items[i])
	}
	return &TrainerListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *profileService) GetTrainer(ctx context.Context, id string) (*model.Trainer, error) {
	t, err := s.trainers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.withPhotoURL(ctx, t)
	return t, nil
}

func (s *profileService) UploadTrainerPhoto(ctx context.Context, userID string, photo PhotoUpload) (*model.Trainer, error) {
	if photo.Reader == nil {
		return nil, invalid("file is required")
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(photo.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, invalid("file is empty")
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("file must be an image")
	}

	t, err := trainerFor(ctx, s.trainers, userID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(photo.Filename))
	key := path.Join("trainers", uuid.NewString()+ext)
	if _, err := s.store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), photo.Reader), storage.PutOptions{
		Size:        photo.Size,
		ContentType: contentType,
		Metadata:    map[string]string{"trainer-id": t.ID},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	previous, err := s.trainers.UpdatePhoto(ctx, t.ID, key)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// previous comes from the row lock, not from t, so racing uploads each delete what they replaced.
	if previous != "" && previous != key {
		if err := s.store.Delete(ctx, previous); err != nil {
			s.log.Warn("photo_cleanup_failed", zap.String("trainer_id", t.ID), zap.String("key", previous), zap.Error(err))
		}
	}

	t.PhotoPath = &key
	s.withPhotoURL(ctx, t)
	return t, nil
}

func (s *profileService) TrainerPhoto(ctx context.Context, trainerID string) (io.ReadCloser, storage.Object, error) {
	t, err := s.trainers.FindByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.Object{}, ErrNotFound
		}
		return nil, storage.Object{}, err
	}
	if t.PhotoPath == nil || *t.PhotoPath == "" {
		return nil, storage.Object{}, ErrNotFound
	}
	rc, obj, err := s.store.Get(ctx, *t.PhotoPath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.Object{}, ErrNotFound
		}
		return nil, storage.Object{}, err
	}
	return rc, obj, nil
}

// withPhotoURL fills PhotoURL when a photo exists. Presign failures leave it empty.
func (s *profileService) withPhotoURL(ctx context.Context, t *model.Trainer) {
	if t.PhotoPath == nil || *t.PhotoPath == "" {
		return
	}
	u, err := s.store.PresignGet(ctx, *t.PhotoPath, s.presignExpiry)
	if err != nil {
		s.log.Warn("photo_presign_failed", zap.String("trainer_id", t.ID), zap.Error(err))
		return
	}
	t.PhotoURL = u
}
