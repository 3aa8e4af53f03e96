package repositories

import (
	"fmt"

	"gopress-cms/models"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	GetList(params models.PostListParams, tagIDs []uint, filterByTags bool) ([]models.Post, int64, error)
	Search(query string, offset, limit int) ([]models.Post, int64, error)
	Update(post *models.Post) error
	ReplaceTags(post *models.Post, tags []models.Tag) error
	Delete(id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Tags").First(&post, id).Error
	return &post, err
}

// GetList applies the optional tag filter, counts under the same predicate
// and returns one page. The tag filter is an IN-subquery over the join table
// so a post matching several tags still appears once; an empty tagIDs set
// with filterByTags true matches nothing.
func (r *postRepository) GetList(params models.PostListParams, tagIDs []uint, filterByTags bool) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.Model(&models.Post{}).Preload("Tags")

	if filterByTags {
		sub := r.db.Table("post_tags").Select("post_id").Where("tag_id IN ?", tagIDs)
		query = query.Where("posts.id IN (?)", sub)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order(fmt.Sprintf("posts.%s %s", params.SortBy, params.SortOrder)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&posts).Error

	return posts, total, err
}

// Search matches query as a case-insensitive substring of title or
// description, newest first.
func (r *postRepository) Search(query string, offset, limit int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	like := "%" + query + "%"
	q := r.db.Model(&models.Post{}).Preload("Tags").
		Where("title ILIKE ? OR description ILIKE ?", like, like)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) Update(post *models.Post) error {
	return r.db.Omit("Tags").Save(post).Error
}

// ReplaceTags swaps the post's tag list wholesale.
func (r *postRepository) ReplaceTags(post *models.Post, tags []models.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(&tags)
}

func (r *postRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}
