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

var ErrSponsorNotFound = errors.New("sponsor not found")

var sponsorTiers = map[string]struct{}{
	"gold":   {},
	"silver": {},
	"bronze": {},
}

type SponsorService interface {
	GetAll(ctx context.Context, filter model.SponsorFilter) ([]*model.Sponsor, *response.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.Sponsor, error)
	Create(ctx context.Context, req model.CreateSponsorRequest) (*model.Sponsor, error)
	Update(ctx context.Context, id string, req model.UpdateSponsorRequest) (*model.Sponsor, error)
	Delete(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, id string, data []byte, contentType string) (*model.Sponsor, error)
}

type sponsorService struct {
	repo      repository.SponsorRepository
	eventRepo repository.EventRepository
	storage   *utils.StorageService
}

func NewSponsorService(repo repository.SponsorRepository, eventRepo repository.EventRepository, storage *utils.StorageService) SponsorService {
	return &sponsorService{repo: repo, eventRepo: eventRepo, storage: storage}
}

func (s *sponsorService) GetAll(ctx context.Context, filter model.SponsorFilter) ([]*model.Sponsor, *response.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	sponsors, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return sponsors, paginate(filter.Page, filter.PerPage, total), nil
}

func (s *sponsorService) GetByID(ctx context.Context, id string) (*model.Sponsor, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSponsorNotFound
	}

	sponsor, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if sponsor == nil {
		return nil, ErrSponsorNotFound
	}

	return sponsor, nil
}

func (s *sponsorService) Create(ctx context.Context, req model.CreateSponsorRequest) (*model.Sponsor, error) {
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

	if utils.SanitizeString(req.Name) == "" {
		return nil, errors.New("sponsor name is required")
	}

	tier := req.Tier
	if tier == "" {
		tier = "bronze"
	}
	if _, ok := sponsorTiers[tier]; !ok {
		return nil, errors.New("unknown sponsor tier, use gold, silver, or bronze")
	}

	sponsor := &model.Sponsor{
		ID:      uuid.New(),
		EventID: eventID,
		Name:    utils.SanitizeString(req.Name),
		Tier:    tier,
		Website: req.Website,
	}

	if err := s.repo.Create(ctx, sponsor); err != nil {
		return nil, err
	}

	return sponsor, nil
}

func (s *sponsorService) Update(ctx context.Context, id string, req model.UpdateSponsorRequest) (*model.Sponsor, error) {
	sponsor, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		sponsor.Name = utils.SanitizeString(req.Name)
	}
	if req.Tier != "" {
		if _, ok := sponsorTiers[req.Tier]; !ok {
			return nil, errors.New("unknown sponsor tier, use gold, silver, or bronze")
		}
		sponsor.Tier = req.Tier
	}
	sponsor.Website = req.Website

	if err := s.repo.Update(ctx, sponsor); err != nil {
		return nil, err
	}

	return sponsor, nil
}

func (s *sponsorService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	uid, _ := uuid.Parse(id)
	return s.repo.Delete(ctx, uid)
}

func (s *sponsorService) UploadLogo(ctx context.Context, id string, data []byte, contentType string) (*model.Sponsor, error) {
	sponsor, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sponsor.LogoURL != nil {
		s.storage.DeleteFile(ctx, *sponsor.LogoURL)
	}

	result, err := s.storage.UploadImage(ctx, "sponsors/logos", data, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLogo(ctx, sponsor.ID, result.FileURL); err != nil {
		return nil, err
	}

	sponsor.LogoURL = &result.FileURL
	return sponsor, nil
}
