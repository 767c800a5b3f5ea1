package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
)

var colorHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type HouseInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	ColorHex string `json:"color_hex"`
}

type HouseService interface {
	ListHouses(ctx context.Context) ([]*models.House, error)
	CreateHouse(ctx context.Context, input HouseInput) (*models.House, error)
}

type houseService struct {
	houseRepo repositories.HouseRepository
	logger    *slog.Logger
}

func NewHouseService(houseRepo repositories.HouseRepository, logger *slog.Logger) HouseService {
	return &houseService{houseRepo: houseRepo, logger: logger}
}

func (s *houseService) ListHouses(ctx context.Context) ([]*models.House, error) {
	houses, err := s.houseRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	return houses, nil
}

func (s *houseService) CreateHouse(ctx context.Context, input HouseInput) (*models.House, error) {
	house := &models.House{
		Name:     strings.TrimSpace(input.Name),
		Color:    strings.TrimSpace(input.Color),
		ColorHex: strings.TrimSpace(input.ColorHex),
	}
	verr := &ValidationError{}
	if house.Name == "" {
		verr.add("name", "is required")
	}
	if house.ColorHex != "" && !colorHexPattern.MatchString(house.ColorHex) {
		verr.add("color_hex", "must look like #RRGGBB")
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	if err := s.houseRepo.Create(ctx, nil, house); err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "house created", slog.Int("house_id", house.ID), slog.String("name", house.Name))
	return house, nil
}
