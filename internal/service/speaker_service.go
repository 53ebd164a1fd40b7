package service

import (
	"context"
	"errors"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/repository"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/google/uuid"
)

var ErrSpeakerNotFound = errors.New("speaker not found")

type SpeakerService interface {
	GetAll(ctx context.Context, filter model.SpeakerFilter) ([]*model.Speaker, *response.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.Speaker, error)
	Create(ctx context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error)
	Update(ctx context.Context, id string, req model.UpdateSpeakerRequest) (*model.Speaker, error)
	Delete(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (*model.Speaker, error)
}

type speakerService struct {
	repo      repository.SpeakerRepository
	eventRepo repository.EventRepository
	storage   *utils.StorageService
}

func NewSpeakerService(repo repository.SpeakerRepository, eventRepo repository.EventRepository, storage *utils.StorageService) SpeakerService {
	return &speakerService{repo: repo, eventRepo: eventRepo, storage: storage}
}

func (s *speakerService) GetAll(ctx context.Context, filter model.SpeakerFilter) ([]*model.Speaker, *response.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	speakers, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return speakers, paginate(filter.Page, filter.PerPage, total), nil
}

func (s *speakerService) GetByID(ctx context.Context, id string) (*model.Speaker, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSpeakerNotFound
	}

	speaker, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if speaker == nil {
		return nil, ErrSpeakerNotFound
	}

	return speaker, nil
}

func (s *speakerService) Create(ctx context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, ErrEventNotFound
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if utils.SanitizeString(req.FullName) == "" {
		return nil, errors.New("speaker name is required")
	}

	speaker := &model.Speaker{
		ID:       uuid.New(),
		EventID:  eventID,
		FullName: utils.SanitizeString(req.FullName),
		Title:    req.Title,
		Bio:      req.Bio,
		Email:    utils.NormalizeEmail(req.Email),
	}

	if err := s.repo.Create(ctx, speaker); err != nil {
		return nil, err
	}

	return speaker, nil
}

func (s *speakerService) Update(ctx context.Context, id string, req model.UpdateSpeakerRequest) (*model.Speaker, error) {
	speaker, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		speaker.FullName = utils.SanitizeString(req.FullName)
	}
	speaker.Title = req.Title
	speaker.Bio = req.Bio
	if req.Email != "" {
		speaker.Email = utils.NormalizeEmail(req.Email)
	}

	if err := s.repo.Update(ctx, speaker); err != nil {
		return nil, err
	}

	return speaker, nil
}

func (s *speakerService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	uid, _ := uuid.Parse(id)
	return s.repo.Delete(ctx, uid)
}

func (s *speakerService) UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (*model.Speaker, error) {
	speaker, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if speaker.PhotoURL != nil {
		s.storage.DeleteFile(ctx, *speaker.PhotoURL)
	}

	result, err := s.storage.UploadImage(ctx, "speakers/photos", data, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePhoto(ctx, speaker.ID, result.FileURL); err != nil {
		return nil, err
	}

	speaker.PhotoURL = &result.FileURL
	return speaker, nil
}
