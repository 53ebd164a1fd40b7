package service

import (
	"context"
	"errors"
	"time"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/repository"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrInvalidEventData = errors.New("invalid event data")
	ErrDuplicateEvent   = errors.New("an event with this title already exists")
)

type EventService interface {
	GetAll(ctx context.Context, tenantID uuid.UUID, filter model.EventFilter) ([]*model.Event, *response.Pagination, error)
	GetByID(ctx context.Context, id string) (*model.EventWithPricing, error)
	Create(ctx context.Context, tenantID uuid.UUID, req model.CreateEventRequest, createdBy string) (*model.EventWithPricing, error)
	Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.EventWithPricing, error)
	Delete(ctx context.Context, id string) error
	UploadBanner(ctx context.Context, id string, data []byte, contentType string) (*model.Event, error)
}

type eventService struct {
	repo    repository.EventRepository
	storage *utils.StorageService
}

func NewEventService(repo repository.EventRepository, storage *utils.StorageService) EventService {
	return &eventService{repo: repo, storage: storage}
}

func (s *eventService) GetAll(ctx context.Context, tenantID uuid.UUID, filter model.EventFilter) ([]*model.Event, *response.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	events, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, nil, err
	}

	return events, paginate(filter.Page, filter.PerPage, total), nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.EventWithPricing, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrEventNotFound
	}

	event, err := s.repo.FindByIDWithPricing(ctx, uid)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	return event, nil
}

func (s *eventService) Create(ctx context.Context, tenantID uuid.UUID, req model.CreateEventRequest, createdBy string) (*model.EventWithPricing, error) {
	if utils.SanitizeString(req.Title) == "" || req.Capacity < 0 {
		return nil, ErrInvalidEventData
	}

	event := &model.Event{
		ID:                   uuid.New(),
		TenantID:             tenantID,
		Title:                utils.SanitizeString(req.Title),
		Description:          req.Description,
		Venue:                req.Venue,
		Capacity:             req.Capacity,
		Currency:             req.Currency,
		BasePrice:            req.BasePrice,
		EarlyBirdPrice:       req.EarlyBirdPrice,
		EarlyBirdDeadline:    req.EarlyBirdDeadline,
		IsRegistrationOpen:   req.IsRegistrationOpen,
		RegistrationDeadline: req.RegistrationDeadline,
		IsPublished:          req.IsPublished,
		CMECredits:           req.CMECredits,
	}
	if event.Currency == "" {
		event.Currency = "USD"
	}

	if err := applyEventDates(event, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if createdByUID, err := uuid.Parse(createdBy); err == nil {
		event.CreatedBy = &createdByUID
	}

	tiers := buildPricingTiers(event.ID, req.PricingTiers)

	// Event row and pricing tiers commit or roll back together.
	if err := s.repo.Create(ctx, event, tiers); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEvent
		}
		return nil, err
	}

	return &model.EventWithPricing{Event: *event, PricingTiers: tiers}, nil
}

func (s *eventService) Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.EventWithPricing, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if utils.SanitizeString(req.Title) == "" || req.Capacity < 0 {
		return nil, ErrInvalidEventData
	}

	event := existing.Event
	event.Title = utils.SanitizeString(req.Title)
	event.Description = req.Description
	event.Venue = req.Venue
	event.Capacity = req.Capacity
	if req.Currency != "" {
		event.Currency = req.Currency
	}
	event.BasePrice = req.BasePrice
	event.EarlyBirdPrice = req.EarlyBirdPrice
	event.EarlyBirdDeadline = req.EarlyBirdDeadline
	event.IsRegistrationOpen = req.IsRegistrationOpen
	event.RegistrationDeadline = req.RegistrationDeadline
	event.IsPublished = req.IsPublished
	event.CMECredits = req.CMECredits

	if err := applyEventDates(&event, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	tiers := buildPricingTiers(event.ID, req.PricingTiers)

	// Tier replacement rides the same transaction as the event row.
	if err := s.repo.Update(ctx, &event, tiers); err != nil {
		return nil, err
	}

	return &model.EventWithPricing{Event: event, PricingTiers: tiers}, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	uid, _ := uuid.Parse(id)
	return s.repo.Delete(ctx, uid)
}

func (s *eventService) UploadBanner(ctx context.Context, id string, data []byte, contentType string) (*model.Event, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event := existing.Event

	if event.BannerURL != nil {
		s.storage.DeleteFile(ctx, *event.BannerURL)
	}

	result, err := s.storage.UploadImage(ctx, "events/banners", data, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBanner(ctx, event.ID, result.FileURL); err != nil {
		return nil, err
	}

	event.BannerURL = &result.FileURL
	return &event, nil
}

func applyEventDates(event *model.Event, startDate, endDate string) error {
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return errors.New("invalid start_date format, use YYYY-MM-DD")
		}
		event.StartDate = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return errors.New("invalid end_date format, use YYYY-MM-DD")
		}
		event.EndDate = &t
	}
	if event.StartDate != nil && event.EndDate != nil && event.EndDate.Before(*event.StartDate) {
		return errors.New("end_date cannot be before start_date")
	}
	return nil
}

func buildPricingTiers(eventID uuid.UUID, inputs []model.PricingTierInput) []model.PricingTier {
	tiers := make([]model.PricingTier, 0, len(inputs))
	for i, in := range inputs {
		tiers = append(tiers, model.PricingTier{
			ID:       uuid.New(),
			EventID:  eventID,
			Name:     in.Name,
			Price:    in.Price,
			Position: i,
		})
	}
	return tiers
}
