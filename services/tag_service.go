package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gopress-cms/cache"
	"gopress-cms/helper"
	"gopress-cms/models"
	"gopress-cms/repositories"
)

type TagService interface {
	// ResolveTags turns raw tag names into tag records, creating any that do
	// not exist yet. Order is preserved and duplicate names yield duplicate
	// entries; names that are blank after trimming are skipped.
	ResolveTags(ctx context.Context, names []string) ([]models.Tag, error)
	CreateTag(req models.CreateTagRequest) (*models.Tag, error)
	GetTags() ([]models.Tag, error)
	RefreshUsageCounts() error
}

type tagService struct {
	tagRepo repositories.TagRepository
	cache   cache.TagCache
	logger  *zap.Logger
}

// NewTagService builds the tag service. tagCache may be nil, in which case
// every resolution goes straight to the store.
func NewTagService(tagRepo repositories.TagRepository, tagCache cache.TagCache, logger *zap.Logger) TagService {
	return &tagService{
		tagRepo: tagRepo,
		cache:   tagCache,
		logger:  logger,
	}
}

func (s *tagService) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	var tags []models.Tag

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tag, err := s.resolveOne(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

func (s *tagService) resolveOne(ctx context.Context, name string) (*models.Tag, error) {
	slug := helper.Slugify(name)

	if s.cache != nil {
		if tag, err := s.cache.GetTag(ctx, slug); err == nil && tag != nil {
			return tag, nil
		}
	}

	tag, err := s.tagRepo.GetBySlug(slug)
	if err == nil {
		s.cacheTag(ctx, tag)
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.UpstreamError{Op: "tag lookup", Err: err}
	}

	newTag := &models.Tag{Name: name, Slug: slug}
	if createErr := s.tagRepo.Create(newTag); createErr != nil {
		// A concurrent request may have created the same slug between our
		// lookup and insert. The loser re-resolves to the winner's record.
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			tag, err = s.tagRepo.GetBySlug(slug)
			if err != nil {
				return nil, &models.UpstreamError{Op: "tag re-resolve", Err: err}
			}
			s.cacheTag(ctx, tag)
			return tag, nil
		}
		return nil, &models.UpstreamError{Op: "tag create", Err: createErr}
	}

	s.cacheTag(ctx, newTag)
	return newTag, nil
}

func (s *tagService) cacheTag(ctx context.Context, tag *models.Tag) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetTag(ctx, tag); err != nil {
		s.logger.Warn("tag cache write failed", zap.String("slug", tag.Slug), zap.Error(err))
	}
}

func (s *tagService) CreateTag(req models.CreateTagRequest) (*models.Tag, error) {
	slug := helper.Slugify(strings.TrimSpace(req.Name))

	_, err := s.tagRepo.GetBySlug(slug)
	if err == nil {
		return nil, &models.ConflictError{Message: "tag already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.UpstreamError{Op: "tag lookup", Err: err}
	}

	tag := &models.Tag{Name: strings.TrimSpace(req.Name), Slug: slug}
	if err := s.tagRepo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &models.ConflictError{Message: "tag already exists"}
		}
		return nil, &models.UpstreamError{Op: "tag create", Err: err}
	}

	return tag, nil
}

func (s *tagService) GetTags() ([]models.Tag, error) {
	tags, err := s.tagRepo.GetAll()
	if err != nil {
		return nil, &models.UpstreamError{Op: "tag list", Err: err}
	}
	return tags, nil
}

// RefreshUsageCounts recomputes how many live posts reference each tag.
// Runs on a schedule rather than inline on every write.
func (s *tagService) RefreshUsageCounts() error {
	counts, err := s.tagRepo.CountPostsByTag()
	if err != nil {
		return err
	}

	tags, err := s.tagRepo.GetAll()
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	changed := false
	for i := range tags {
		count := counts[tags[i].ID]
		if tags[i].UsageCount != count {
			tags[i].UsageCount = count
			changed = true
		}
	}
	if !changed {
		return nil
	}

	return s.tagRepo.BulkUpdate(tags)
}
