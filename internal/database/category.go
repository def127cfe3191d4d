package database

import (
	"context"
	"strings"

	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureTaxonomy идемпотентно создаёт фиксированные категории и подкатегории
func (d *Database) EnsureTaxonomy(ctx context.Context) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range models.Taxonomy {
			category := models.Category{Name: entry.Name}
			err := tx.Where(models.Category{Name: entry.Name}).
				Attrs(models.Category{DisplayName: entry.DisplayName, Icon: entry.Icon}).
				FirstOrCreate(&category).Error
			if err != nil {
				return err
			}

			subs := make([]models.Subcategory, 0, len(entry.Subcategories))
			for _, name := range entry.Subcategories {
				subs = append(subs, models.Subcategory{
					CategoryID:  category.ID,
					Name:        name,
					DisplayName: strings.ToUpper(name[:1]) + name[1:],
				})
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "category_id"}, {Name: "name"}},
				DoNothing: true,
			}).Create(&subs).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Database) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := d.db.WithContext(ctx).Order("display_name").Find(&categories).Error
	return categories, err
}

// GetCategory возвращает категорию вместе с подкатегориями
func (d *Database) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category := models.Category{}
	err := d.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("display_name") }).
		First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (d *Database) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{}
	if err := d.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetSubcategories возвращает все подкатегории или только подкатегории одной категории
func (d *Database) GetSubcategories(ctx context.Context, categoryID *uint) ([]models.Subcategory, error) {
	var subs []models.Subcategory
	q := d.db.WithContext(ctx).Order("display_name")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Find(&subs).Error
	return subs, err
}

func (d *Database) GetSubcategory(ctx context.Context, id uint) (*models.Subcategory, error) {
	sub := models.Subcategory{}
	if err := d.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
