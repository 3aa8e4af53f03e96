package repositories

import (
	"gopress-cms/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	Create(tag *models.Tag) error
	GetByID(id uint) (*models.Tag, error)
	GetBySlug(slug string) (*models.Tag, error)
	GetBySlugs(slugs []string) ([]models.Tag, error)
	GetAll() ([]models.Tag, error)
	BulkUpdate(tags []models.Tag) error
	CountPostsByTag() (map[uint]int, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.First(&tag, id).Error
	return &tag, err
}

func (r *tagRepository) GetBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("slug = ?", slug).First(&tag).Error
	return &tag, err
}

func (r *tagRepository) GetBySlugs(slugs []string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("slug IN ?", slugs).Find(&tags).Error
	return tags, err
}

func (r *tagRepository) GetAll() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("name asc").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) BulkUpdate(tags []models.Tag) error {
	return r.db.Save(&tags).Error
}

// CountPostsByTag aggregates how many live posts reference each tag.
func (r *tagRepository) CountPostsByTag() (map[uint]int, error) {
	var results []struct {
		TagID uint
		Count int
	}

	query := `
		SELECT
			pt.tag_id,
			COUNT(*) as count
		FROM post_tags pt
		JOIN posts p ON pt.post_id = p.id
		WHERE p.deleted_at IS NULL
		GROUP BY pt.tag_id
	`

	if err := r.db.Raw(query).Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	for _, result := range results {
		counts[result.TagID] = result.Count
	}

	return counts, nil
}
