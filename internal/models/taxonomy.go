package models

type TaxonomyEntry struct {
	Name          CategoryName
	DisplayName   string
	Icon          string
	Subcategories []string
}

var Taxonomy = []TaxonomyEntry{
	{CategoryAnnouncement, "Announcement", "bell", []string{"travel plan", "opening", "change of location"}},
	{CategoryEvent, "Event", "calendar", []string{
		"blood donation", "wellness/fitness", "medical camp", "environmental/community", "club",
		"restaurant", "office", "movie", "artist", "radio", "exhibition", "competition", "show",
		"sale", "workshop", "religious", "comedy",
	}},
	{CategoryTrafficAlert, "Traffic Alert", "alert-triangle", []string{"jam", "vehicle stuck", "route change", "wall of fame", "signal faulty"}},
	{CategoryLookingFor, "Looking For", "search", []string{"custom", "doctor", "professional", "boutique", "teacher"}},
	{CategoryRentalToLet, "Rental-To let", "home", []string{"residential", "commercial", "paying guest", "industrial"}},
	{CategoryReviews, "Reviews", "star", []string{"movies", "shows", "restaurants", "service", "products"}},
	{CategoryRecommendations, "Recommendations", "thumbs-up", []string{"general recommendations"}},
	{CategoryNews, "News", "newspaper", []string{"local news", "state news", "regional news", "national news", "international news", "breaking news"}},
	{CategoryCitizenReporter, "Citizen Reporter", "users", []string{"awareness", "event coverage", "illegal activity report", "accident", "complaint/grievances"}},
	{CategoryCommunityServices, "Community Services", "heart", []string{"blood", "plantation", "cleaning", "donations", "medical camp", "meet up for a cause"}},
	{CategoryHealthCapsule, "Health Capsule", "activity", []string{"general health"}},
	{CategoryScienceKnowledge, "Science & Knowledge", "book", []string{"general science"}},
	{CategoryArticle, "Article", "file-text", []string{
		"art", "causes", "comedy", "crafts", "dance", "drinks", "film", "fitness", "food", "games",
		"gardening", "health", "home", "literature", "music", "networking", "others", "party",
		"religion", "shopping", "sports", "theatre", "wellness",
	}},
	{CategoryJobs, "Jobs", "briefcase", []string{"job offer", "job wanted"}},
	{CategoryHelp, "Help", "help-circle", []string{"general help"}},
	{CategorySale, "Sale", "tag", []string{"four-wheelers", "two-wheelers", "furniture", "mobile phone", "electronics", "pets", "books", "others"}},
	{CategoryProperty, "Property", "home", []string{
		"for-sale residential", "for-sale commercial", "for-sale industrial",
		"to-buy residential", "to-buy commercial", "to-buy industrial",
	}},
	{CategoryRentalRequired, "Rental Required", "key", []string{"residential", "paying guests", "commercial", "industrial"}},
	{CategoryPromotion, "Promotion", "trending-up", []string{"general promotion"}},
	{CategoryPage3, "Page 3", "coffee", []string{"general entertainment"}},
}
