package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gopress-cms/helper"
	"gopress-cms/models"
	"gopress-cms/repositories"
	"gopress-cms/storage"
)

// MaxImageBytes is the hard limit on an uploaded image payload.
const MaxImageBytes = 5 * 1024 * 1024

type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest, image *models.ImageUpload) (*models.Post, error)
	GetPost(id uint) (*models.Post, error)
	GetPosts(params models.PostListParams) ([]models.Post, int64, error)
	SearchPosts(params models.SearchParams) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest, image *models.ImageUpload) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
}

type postService struct {
	postRepo   repositories.PostRepository
	tagRepo    repositories.TagRepository
	tagService TagService
	blobs      storage.BlobStore
	logger     *zap.Logger
}

func NewPostService(postRepo repositories.PostRepository, tagRepo repositories.TagRepository, tagService TagService, blobs storage.BlobStore, logger *zap.Logger) PostService {
	return &postService{
		postRepo:   postRepo,
		tagRepo:    tagRepo,
		tagService: tagService,
		blobs:      blobs,
		logger:     logger,
	}
}

// CreatePost validates, uploads the image, resolves tags and persists, in
// that order. The upload must succeed before anything is written; a failure
// after the upload leaves an orphan blob, which is tolerated.
func (s *postService) CreatePost(ctx context.Context, req models.CreatePostRequest, image *models.ImageUpload) (*models.Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, models.NewValidationError("missing title")
	}
	if len(req.Title) > 200 {
		return nil, models.NewValidationError("title exceeds 200 characters")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, models.NewValidationError("missing description")
	}
	if len(req.Description) > 5000 {
		return nil, models.NewValidationError("description exceeds 5000 characters")
	}
	if image == nil {
		return nil, models.NewValidationError("missing image")
	}
	if err := validateImage(image); err != nil {
		return nil, err
	}

	uploaded, err := s.blobs.Upload(ctx, image.Content, image.ContentType)
	if err != nil {
		return nil, &models.UpstreamError{Op: "image upload", Err: err}
	}

	tags, err := s.tagService.ResolveTags(ctx, helper.SplitCSV(req.Tags))
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    uploaded.URL,
		Tags:        tags,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, &models.UpstreamError{Op: "post create", Err: err}
	}

	return s.postRepo.GetByID(post.ID)
}

func (s *postService) GetPost(id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "post", ID: id}
		}
		return nil, &models.UpstreamError{Op: "post lookup", Err: err}
	}
	return post, nil
}

// GetPosts builds the listing: an optional tag-slug filter plus sort and
// pagination. Slugs that match no tag produce an empty result, not an error.
func (s *postService) GetPosts(params models.PostListParams) ([]models.Post, int64, error) {
	params.Normalize()

	var tagIDs []uint
	filterByTags := false
	if slugs := helper.SplitCSV(params.Tags); len(slugs) > 0 {
		filterByTags = true
		tags, err := s.tagRepo.GetBySlugs(slugs)
		if err != nil {
			return nil, 0, &models.UpstreamError{Op: "tag filter lookup", Err: err}
		}
		for _, tag := range tags {
			tagIDs = append(tagIDs, tag.ID)
		}
	}

	posts, total, err := s.postRepo.GetList(params, tagIDs, filterByTags)
	if err != nil {
		return nil, 0, &models.UpstreamError{Op: "post list", Err: err}
	}
	return posts, total, nil
}

func (s *postService) SearchPosts(params models.SearchParams) ([]models.Post, int64, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, 0, models.NewValidationError("missing query")
	}
	params.Normalize()

	posts, total, err := s.postRepo.Search(params.Query, params.Offset(), params.Limit)
	if err != nil {
		return nil, 0, &models.UpstreamError{Op: "post search", Err: err}
	}
	return posts, total, nil
}

// UpdatePost applies a partial update. Omitted fields keep their prior
// value; tags are replaced only when the raw input resolves to a non-empty
// list, so the tag list can never be cleared through this path. A new image
// is uploaded before the old blob is deleted, and a failed old-blob delete
// does not roll anything back.
func (s *postService) UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest, image *models.ImageUpload) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "post", ID: id}
		}
		return nil, &models.UpstreamError{Op: "post lookup", Err: err}
	}

	if strings.TrimSpace(req.Title) != "" {
		if len(req.Title) > 200 {
			return nil, models.NewValidationError("title exceeds 200 characters")
		}
		post.Title = req.Title
	}
	if strings.TrimSpace(req.Description) != "" {
		if len(req.Description) > 5000 {
			return nil, models.NewValidationError("description exceeds 5000 characters")
		}
		post.Description = req.Description
	}

	oldImageURL := ""
	if image != nil {
		if err := validateImage(image); err != nil {
			return nil, err
		}
		uploaded, err := s.blobs.Upload(ctx, image.Content, image.ContentType)
		if err != nil {
			return nil, &models.UpstreamError{Op: "image upload", Err: err}
		}
		oldImageURL = post.ImageURL
		post.ImageURL = uploaded.URL
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, &models.UpstreamError{Op: "post update", Err: err}
	}

	if names := helper.SplitCSV(req.Tags); len(names) > 0 {
		tags, err := s.tagService.ResolveTags(ctx, names)
		if err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			if err := s.postRepo.ReplaceTags(post, tags); err != nil {
				return nil, &models.UpstreamError{Op: "post tags update", Err: err}
			}
		}
	}

	if oldImageURL != "" {
		if err := s.blobs.Delete(ctx, oldImageURL); err != nil {
			s.logger.Warn("orphaned old image blob",
				zap.Uint("post_id", post.ID),
				zap.String("url", oldImageURL),
				zap.Error(err),
			)
		}
	}

	return s.postRepo.GetByID(post.ID)
}

// DeletePost removes the blob first and only then the record; a blob-store
// failure aborts the whole operation with the record intact.
func (s *postService) DeletePost(ctx context.Context, id uint) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NotFoundError{Resource: "post", ID: id}
		}
		return &models.UpstreamError{Op: "post lookup", Err: err}
	}

	if err := s.blobs.Delete(ctx, post.ImageURL); err != nil {
		return &models.UpstreamError{Op: "image delete", Err: err}
	}

	if err := s.postRepo.Delete(id); err != nil {
		return &models.UpstreamError{Op: "post delete", Err: err}
	}
	return nil
}

func validateImage(image *models.ImageUpload) error {
	if !strings.HasPrefix(image.ContentType, "image/") {
		return models.NewValidationError("file must be an image")
	}
	if image.Size > MaxImageBytes {
		return models.NewValidationError("image exceeds 5 MiB")
	}
	return nil
}
