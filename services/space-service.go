package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
)

type SpaceInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Type        models.SpaceType `json:"type"`
	Capacity    *int             `json:"capacity"`
	Location    string           `json:"location"`
	Amenities   []string         `json:"amenities"`
}

type UpdateSpaceInput struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Type        *models.SpaceType  `json:"type"`
	Capacity    models.OptionalInt `json:"capacity"`
	Location    *string            `json:"location"`
	Amenities   []string           `json:"amenities"`
	IsActive    *bool              `json:"isActive"`
}

type SpaceService struct {
	spaces  SpaceStore
	resolve *resolver
}

func NewSpaceService(s Stores) *SpaceService {
	return &SpaceService{spaces: s.Spaces, resolve: newResolver(s)}
}

func (s *SpaceService) CreateSpace(ctx context.Context, caller *models.User, in SpaceInput) (*models.SpaceView, error) {
	space := &models.Space{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Capacity:    in.Capacity,
		Location:    strings.TrimSpace(in.Location),
		Amenities:   in.Amenities,
		IsActive:    true,
		CreatedBy:   caller.ID,
	}
	if space.Name == "" || space.Type == "" {
		return nil, invalid("name and type are required")
	}
	if err := validateSpace(space); err != nil {
		return nil, err
	}
	if err := s.spaces.Create(ctx, space); err != nil {
		return nil, internal("failed to create space", err)
	}
	logging.Logger.Infof("Event ID: SPACE_CREATED, Description: Space %s created by %s", space.ID.Hex(), caller.ID.Hex())
	return s.resolve.space(ctx, space)
}

func (s *SpaceService) ListSpaces(ctx context.Context) ([]models.SpaceView, error) {
	spaces, err := s.spaces.List(ctx)
	if err != nil {
		return nil, internal("failed to load spaces", err)
	}
	return s.resolve.spaces(ctx, spaces)
}

func (s *SpaceService) GetSpace(ctx context.Context, rawID string) (*models.SpaceView, error) {
	space, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.resolve.space(ctx, space)
}

func (s *SpaceService) UpdateSpace(ctx context.Context, rawID string, in UpdateSpaceInput) (*models.SpaceView, error) {
	space, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		space.Name = strings.TrimSpace(*in.Name)
		if space.Name == "" {
			return nil, invalid("name must not be empty")
		}
	}
	if in.Description != nil {
		space.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		space.Type = *in.Type
	}
	if in.Capacity.Set {
		space.Capacity = in.Capacity.Value
	}
	if in.Location != nil {
		space.Location = strings.TrimSpace(*in.Location)
	}
	if in.Amenities != nil {
		space.Amenities = in.Amenities
	}
	if in.IsActive != nil {
		space.IsActive = *in.IsActive
	}
	if err := validateSpace(space); err != nil {
		return nil, err
	}
	if space.Capacity != nil && *space.Capacity < len(space.Members) {
		return nil, invalid("capacity cannot be lower than the current number of members (%d)", len(space.Members))
	}
	if err := s.spaces.Update(ctx, space); err != nil {
		return nil, writeErr(err, "update", "space")
	}
	return s.resolve.space(ctx, space)
}

func (s *SpaceService) DeleteSpace(ctx context.Context, rawID string) error {
	space, err := s.load(ctx, rawID)
	if err != nil {
		return err
	}
	if err := s.spaces.Delete(ctx, space.ID); err != nil {
		return writeErr(err, "delete", "space")
	}
	return nil
}

func (s *SpaceService) JoinSpace(ctx context.Context, caller *models.User, rawID string) (*models.SpaceView, error) {
	space, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := joinMembers(ctx, s.spaces, "space", space.ID, caller.ID, space.HasMember(caller.ID), space.IsFull()); err != nil {
		return nil, err
	}
	return s.reload(ctx, space)
}

func (s *SpaceService) LeaveSpace(ctx context.Context, caller *models.User, rawID string) (*models.SpaceView, error) {
	space, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := leaveMembers(ctx, s.spaces, "space", space.ID, caller.ID, space.HasMember(caller.ID)); err != nil {
		return nil, err
	}
	return s.reload(ctx, space)
}

func (s *SpaceService) load(ctx context.Context, rawID string) (*models.Space, error) {
	id, err := parseID(rawID, "space id")
	if err != nil {
		return nil, err
	}
	space, err := s.spaces.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "space")
	}
	return space, nil
}

func (s *SpaceService) reload(ctx context.Context, space *models.Space) (*models.SpaceView, error) {
	return s.GetSpace(ctx, space.ID.Hex())
}

func validateSpace(sp *models.Space) error {
	if utf8.RuneCountInString(sp.Name) > models.MaxProjectNameLength {
		return invalid("name must not exceed %d characters", models.MaxProjectNameLength)
	}
	if utf8.RuneCountInString(sp.Description) > models.MaxProjectDescriptionLength {
		return invalid("description must not exceed %d characters", models.MaxProjectDescriptionLength)
	}
	if !sp.Type.Valid() {
		return invalid("invalid space type %q", sp.Type)
	}
	if !validCapacity(sp.Capacity) {
		return invalid("capacity must be between %d and %d", models.MinCapacity, models.MaxCapacity)
	}
	return nil
}
