package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/meggysis/ejs-eventify/internal/models"
	"github.com/meggysis/ejs-eventify/internal/repositories"
)

// ErrEventInactive is returned when an event page is requested outside its
// active window.
var ErrEventInactive = errors.New("this event is not currently active")

// Banner is the seasonal banner shown on the home feed.
type Banner struct {
	Class       string `json:"class"`
	Text        string `json:"text"`
	Description string `json:"description"`
	ButtonText  string `json:"button_text"`
	TargetURL   string `json:"target_url"`
}

// defaultBanner is shown when no seasonal event is active.
var defaultBanner = Banner{
	Class:       "default",
	Text:        "Check out our exclusive deals!",
	Description: "Explore our wide range of products and enjoy great discounts.",
	ButtonText:  "Shop Now",
	TargetURL:   "/shop",
}

// EventService handles seasonal promotions.
type EventService struct {
	eventRepo   repositories.EventRepository
	listingRepo repositories.ListingRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repositories.EventRepository, listingRepo repositories.ListingRepository) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		listingRepo: listingRepo,
	}
}

// ActiveBanner returns the banner for the currently active event, or the
// default banner when none is active. When several events overlap, the first
// one wins.
func (s *EventService) ActiveBanner(now time.Time) (Banner, error) {
	active, err := s.eventRepo.GetActive(now)
	if err != nil {
		return Banner{}, fmt.Errorf("failed to load active events: %w", err)
	}
	if len(active) == 0 {
		return defaultBanner, nil
	}

	event := active[0]
	return Banner{
		Class:       toKebabCase(event.Name),
		Text:        event.Description,
		Description: event.Description,
		ButtonText:  event.ButtonText,
		TargetURL:   event.TargetURL,
	}, nil
}

// GetEventPage returns an event and its published listings. Unknown slugs
// fail with NotFoundError; events outside their window with ErrEventInactive.
func (s *EventService) GetEventPage(slug string, now time.Time) (*models.Event, []models.Listing, error) {
	event, err := s.eventRepo.GetBySlug(strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, &NotFoundError{Resource: "event", ID: slug}
		}
		return nil, nil, fmt.Errorf("failed to load event: %w", err)
	}

	if !event.Active(now) {
		return nil, nil, ErrEventInactive
	}

	listings, _, err := s.listingRepo.GetAll(repositories.ListingQuery{
		EventID:       event.ID,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load event listings: %w", err)
	}
	return event, listings, nil
}

// CreateEvent creates a new seasonal event.
func (s *EventService) CreateEvent(event *models.Event) error {
	if event.Slug == "" {
		event.Slug = toKebabCase(event.Name)
	}
	if err := s.eventRepo.Create(event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

var nonWordChars = regexp.MustCompile(`[^\w-]`)

// toKebabCase converts an event name to a kebab-case CSS class name.
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), "-")
	return nonWordChars.ReplaceAllString(s, "")
}
