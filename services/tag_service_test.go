package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gopress-cms/helper"
	"gopress-cms/models"
)

// fakeTagRepo is an in-memory TagRepository keyed by slug.
type fakeTagRepo struct {
	bySlug   map[string]*models.Tag
	nextID   uint
	raceOnce bool // next Create loses a slug race: the row appears but Create reports a duplicate
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{bySlug: make(map[string]*models.Tag), nextID: 1}
}

func (r *fakeTagRepo) Create(tag *models.Tag) error {
	if _, exists := r.bySlug[tag.Slug]; exists {
		return gorm.ErrDuplicatedKey
	}
	stored := *tag
	stored.ID = r.nextID
	r.nextID++
	r.bySlug[stored.Slug] = &stored
	if r.raceOnce {
		r.raceOnce = false
		return gorm.ErrDuplicatedKey
	}
	tag.ID = stored.ID
	return nil
}

func (r *fakeTagRepo) GetByID(id uint) (*models.Tag, error) {
	for _, tag := range r.bySlug {
		if tag.ID == id {
			copied := *tag
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTagRepo) GetBySlug(slug string) (*models.Tag, error) {
	tag, ok := r.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *tag
	return &copied, nil
}

func (r *fakeTagRepo) GetBySlugs(slugs []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, slug := range slugs {
		if tag, ok := r.bySlug[slug]; ok {
			tags = append(tags, *tag)
		}
	}
	return tags, nil
}

func (r *fakeTagRepo) GetAll() ([]models.Tag, error) {
	var tags []models.Tag
	for _, tag := range r.bySlug {
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (r *fakeTagRepo) BulkUpdate(tags []models.Tag) error {
	for _, tag := range tags {
		copied := tag
		r.bySlug[tag.Slug] = &copied
	}
	return nil
}

func (r *fakeTagRepo) CountPostsByTag() (map[uint]int, error) {
	return map[uint]int{}, nil
}

// fakeTagCache records hits and writes.
type fakeTagCache struct {
	entries map[string]*models.Tag
	hits    int
}

func newFakeTagCache() *fakeTagCache {
	return &fakeTagCache{entries: make(map[string]*models.Tag)}
}

func (c *fakeTagCache) GetTag(_ context.Context, slug string) (*models.Tag, error) {
	if tag, ok := c.entries[slug]; ok {
		c.hits++
		copied := *tag
		return &copied, nil
	}
	return nil, nil
}

func (c *fakeTagCache) SetTag(_ context.Context, tag *models.Tag) error {
	copied := *tag
	c.entries[tag.Slug] = &copied
	return nil
}

func newTestTagService(repo *fakeTagRepo) TagService {
	return NewTagService(repo, nil, zap.NewNop())
}

func TestResolveTagsCreatesThenReuses(t *testing.T) {
	repo := newFakeTagRepo()
	svc := newTestTagService(repo)
	ctx := context.Background()

	first, err := svc.ResolveTags(ctx, []string{"Golang"})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "golang", first[0].Slug)
	assert.Equal(t, "Golang", first[0].Name)

	second, err := svc.ResolveTags(ctx, []string{"Golang"})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID, "same name must resolve to the same tag")
	assert.Len(t, repo.bySlug, 1)
}

func TestResolveTagsPreservesOrderAndDuplicates(t *testing.T) {
	repo := newFakeTagRepo()
	svc := newTestTagService(repo)

	tags, err := svc.ResolveTags(context.Background(), helper.SplitCSV("Go, Web, Go"))
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "go", tags[0].Slug)
	assert.Equal(t, "web", tags[1].Slug)
	assert.Equal(t, "go", tags[2].Slug)
	assert.Equal(t, tags[0].ID, tags[2].ID, "duplicate names collapse to one tag record")
	assert.Len(t, repo.bySlug, 2)
}

func TestResolveTagsSkipsBlankNames(t *testing.T) {
	repo := newFakeTagRepo()
	svc := newTestTagService(repo)

	tags, err := svc.ResolveTags(context.Background(), []string{"  ", "Real"})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "real", tags[0].Slug)
}

func TestResolveTagsAbsentInputIsEmpty(t *testing.T) {
	svc := newTestTagService(newFakeTagRepo())

	tags, err := svc.ResolveTags(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestResolveTagsReconcilesCreateRace(t *testing.T) {
	repo := newFakeTagRepo()
	repo.raceOnce = true
	svc := newTestTagService(repo)

	tags, err := svc.ResolveTags(context.Background(), []string{"Contested"})
	require.NoError(t, err, "losing a slug race must not surface as an error")
	require.Len(t, tags, 1)
	assert.Equal(t, "contested", tags[0].Slug)
	assert.NotZero(t, tags[0].ID)
}

func TestResolveTagsUsesCache(t *testing.T) {
	repo := newFakeTagRepo()
	tagCache := newFakeTagCache()
	svc := NewTagService(repo, tagCache, zap.NewNop())
	ctx := context.Background()

	_, err := svc.ResolveTags(ctx, []string{"Cached"})
	require.NoError(t, err)
	assert.Zero(t, tagCache.hits)

	_, err = svc.ResolveTags(ctx, []string{"Cached"})
	require.NoError(t, err)
	assert.Equal(t, 1, tagCache.hits)
}

func TestCreateTagConflict(t *testing.T) {
	repo := newFakeTagRepo()
	svc := newTestTagService(repo)

	_, err := svc.CreateTag(models.CreateTagRequest{Name: "News"})
	require.NoError(t, err)

	_, err = svc.CreateTag(models.CreateTagRequest{Name: "NEWS"})
	var conflictErr *models.ConflictError
	require.True(t, errors.As(err, &conflictErr), "same slug must conflict, got %v", err)
}

func TestRefreshUsageCounts(t *testing.T) {
	repo := newFakeTagRepo()
	svc := newTestTagService(repo)

	tags, err := svc.ResolveTags(context.Background(), []string{"A", "B"})
	require.NoError(t, err)

	countingRepo := &countingTagRepo{fakeTagRepo: repo, counts: map[uint]int{tags[0].ID: 3}}
	svc = NewTagService(countingRepo, nil, zap.NewNop())

	require.NoError(t, svc.RefreshUsageCounts())

	refreshed, err := repo.GetBySlug("a")
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed.UsageCount)

	untouched, err := repo.GetBySlug("b")
	require.NoError(t, err)
	assert.Equal(t, 0, untouched.UsageCount)
}

type countingTagRepo struct {
	*fakeTagRepo
	counts map[uint]int
}

func (r *countingTagRepo) CountPostsByTag() (map[uint]int, error) {
	return r.counts, nil
}
