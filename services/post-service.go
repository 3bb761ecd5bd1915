package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
)

type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CreateCommentInput struct {
	Content string `json:"content"`
}

type PostService struct {
	posts   PostStore
	resolve *resolver
}

func NewPostService(s Stores) *PostService {
	return &PostService{posts: s.Posts, resolve: newResolver(s)}
}

func (s *PostService) CreatePost(ctx context.Context, caller *models.User, in CreatePostInput) (*models.PostView, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, invalid("title and content are required")
	}
	if utf8.RuneCountInString(title) > models.MaxPostTitleLength {
		return nil, invalid("title must not exceed %d characters", models.MaxPostTitleLength)
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLength {
		return nil, invalid("content must not exceed %d characters", models.MaxPostContentLength)
	}
	post := &models.Post{Title: title, Content: content, CreatedBy: caller.ID}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, internal("failed to create post", err)
	}
	return s.resolve.post(ctx, post)
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, internal("failed to load posts", err)
	}
	return s.resolve.posts(ctx, posts)
}

// DeletePost is allowed for the post's author only.
func (s *PostService) DeletePost(ctx context.Context, caller *models.User, rawID string) error {
	post, err := s.load(ctx, rawID)
	if err != nil {
		return err
	}
	if err := Authorize(caller, ActionDelete, PostResource(post)); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return writeErr(err, "delete", "post")
	}
	logging.Logger.Infof("Event ID: POST_DELETED, Description: Post %s deleted by %s", post.ID.Hex(), caller.ID.Hex())
	return nil
}

// AddComment appends a comment and returns the updated post.
func (s *PostService) AddComment(ctx context.Context, caller *models.User, rawPostID string, in CreateCommentInput) (*models.PostView, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, invalid("content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentContentLength {
		return nil, invalid("content must not exceed %d characters", models.MaxCommentContentLength)
	}
	post, err := s.load(ctx, rawPostID)
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{Content: content, CreatedBy: caller.ID}
	if err := s.posts.AddComment(ctx, post.ID, comment); err != nil {
		return nil, writeErr(err, "add", "comment")
	}
	return s.reload(ctx, post)
}

// DeleteComment is allowed for the comment's author only.
func (s *PostService) DeleteComment(ctx context.Context, caller *models.User, rawPostID, rawCommentID string) (*models.PostView, error) {
	post, err := s.load(ctx, rawPostID)
	if err != nil {
		return nil, err
	}
	commentID, err := parseID(rawCommentID, "comment id")
	if err != nil {
		return nil, err
	}
	comment, ok := post.FindComment(commentID)
	if !ok {
		return nil, notFound("comment not found")
	}
	if err := Authorize(caller, ActionDelete, CommentResource(comment)); err != nil {
		return nil, err
	}
	if err := s.posts.RemoveComment(ctx, post.ID, commentID); err != nil {
		return nil, writeErr(err, "delete", "comment")
	}
	return s.reload(ctx, post)
}

func (s *PostService) load(ctx context.Context, rawID string) (*models.Post, error) {
	id, err := parseID(rawID, "post id")
	if err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "post")
	}
	return post, nil
}

func (s *PostService) reload(ctx context.Context, post *models.Post) (*models.PostView, error) {
	fresh, err := s.posts.FindByID(ctx, post.ID)
	if err != nil {
		return nil, lookupErr(err, "post")
	}
	return s.resolve.post(ctx, fresh)
}
