package models

import "time"

type CategoryName string

const (
	CategoryAnnouncement      CategoryName = "announcement"
	CategoryEvent             CategoryName = "event"
	CategoryTrafficAlert      CategoryName = "traffic_alert"
	CategoryLookingFor        CategoryName = "looking_for"
	CategoryRentalToLet       CategoryName = "rental_to_let"
	CategoryReviews           CategoryName = "reviews"
	CategoryRecommendations   CategoryName = "recommendations"
	CategoryNews              CategoryName = "news"
	CategoryCitizenReporter   CategoryName = "citizen_reporter"
	CategoryCommunityServices CategoryName = "community_services"
	CategoryHealthCapsule     CategoryName = "health_capsule"
	CategoryScienceKnowledge  CategoryName = "science_knowledge"
	CategoryArticle           CategoryName = "article"
	CategoryJobs              CategoryName = "jobs"
	CategoryHelp              CategoryName = "help"
	CategorySale              CategoryName = "sale"
	CategoryProperty          CategoryName = "property"
	CategoryRentalRequired    CategoryName = "rental_required"
	CategoryPromotion         CategoryName = "promotion"
	CategoryPage3             CategoryName = "page_3"
)

type Category struct {
	ID          uint         `gorm:"primaryKey"`
	Name        CategoryName `gorm:"size:40;uniqueIndex;not null"`
	DisplayName string       `gorm:"not null"`
	Icon        string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID"`
}

type Subcategory struct {
	ID          uint   `gorm:"primaryKey"`
	CategoryID  uint   `gorm:"not null;uniqueIndex:idx_subcategories_category_name"`
	Name        string `gorm:"not null;uniqueIndex:idx_subcategories_category_name"`
	DisplayName string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidCategoryName проверяет имя по фиксированной таксономии
func ValidCategoryName(name string) bool {
	for _, c := range Taxonomy {
		if string(c.Name) == name {
			return true
		}
	}
	return false
}
