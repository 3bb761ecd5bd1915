package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateLinkInput struct {
	GithubURL string `json:"githubUrl"`
}

type LinkService struct {
	links   LinkStore
	resolve *resolver
}

func NewLinkService(s Stores) *LinkService {
	return &LinkService{links: s.Links, resolve: newResolver(s)}
}

// CreateLink shares a repository URL; the creator is its first member.
func (s *LinkService) CreateLink(ctx context.Context, caller *models.User, in CreateLinkInput) (*models.RepositoryLinkView, error) {
	url := strings.TrimSpace(in.GithubURL)
	if url == "" {
		return nil, invalid("githubUrl is required")
	}
	if utf8.RuneCountInString(url) > models.MaxGithubURLLength {
		return nil, invalid("githubUrl must not exceed %d characters", models.MaxGithubURLLength)
	}
	link := &models.RepositoryLink{
		GithubURL: url,
		CreatedBy: caller.ID,
		Members:   []primitive.ObjectID{caller.ID},
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, internal("failed to create repository link", err)
	}
	views, err := s.resolve.links(ctx, []models.RepositoryLink{*link})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *LinkService) ListLinks(ctx context.Context) ([]models.RepositoryLinkView, error) {
	links, err := s.links.List(ctx)
	if err != nil {
		return nil, internal("failed to load repository links", err)
	}
	return s.resolve.links(ctx, links)
}
