package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/internal/utils"
	"github.com/viccabs/booking-service/pkg/geocode"
)

const (
	// MinQueryLength is the shortest query that triggers a lookup
	MinQueryLength = 3

	// MaxSuggestions caps the candidates shown to the customer
	MaxSuggestions = 5
)

// AddressLookup is the place-search provider behind the address service
type AddressLookup interface {
	Suggest(ctx context.Context, query string) ([]geocode.Suggestion, error)
	Retrieve(ctx context.Context, id string) (*geocode.Feature, error)
}

// AddressService turns free text into candidates and candidates into canonical addresses.
// Lookup failures never reach the caller.
type AddressService struct {
	lookup AddressLookup
	logger *logrus.Logger
}

// NewAddressService creates a new address service
func NewAddressService(lookup AddressLookup, logger *logrus.Logger) *AddressService {
	return &AddressService{
		lookup: lookup,
		logger: logger,
	}
}

// Suggest returns up to five candidates; short queries and failures yield an empty list
func (s *AddressService) Suggest(ctx context.Context, query string) []models.AddressCandidate {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []models.AddressCandidate{}
	}

	suggestions, err := s.lookup.Suggest(ctx, query)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"query": query,
			"error": err.Error(),
		}).Warn("Address suggestion lookup failed")
		return []models.AddressCandidate{}
	}

	candidates := make([]models.AddressCandidate, 0, min(len(suggestions), MaxSuggestions))
	for _, suggestion := range suggestions {
		if len(candidates) == MaxSuggestions {
			break
		}
		candidates = append(candidates, models.AddressCandidate{
			ID:             suggestion.MapboxID,
			Name:           suggestion.Name,
			FullAddress:    suggestion.FullAddress,
			PlaceFormatted: suggestion.PlaceFormatted,
		})
	}

	return candidates
}

// Resolve returns the canonical address for a selected candidate.
// When retrieval fails the candidate's own fields are used instead.
func (s *AddressService) Resolve(ctx context.Context, candidate models.AddressCandidate) string {
	address := candidate.DisplayAddress()

	if candidate.ID != "" {
		feature, err := s.lookup.Retrieve(ctx, candidate.ID)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"candidate_id": candidate.ID,
				"error":        err.Error(),
			}).Warn("Address retrieve failed, using suggestion fields")
		} else {
			retrieved := models.AddressCandidate{
				ID:             feature.Properties.MapboxID,
				Name:           feature.Properties.Name,
				FullAddress:    feature.Properties.FullAddress,
				PlaceFormatted: feature.Properties.PlaceFormatted,
			}
			if canonical := retrieved.DisplayAddress(); canonical != "" {
				address = canonical
			}
		}
	}

	return utils.NormalizeAirportAddress(address)
}
