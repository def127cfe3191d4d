package dto

import "github.com/thereayou/noticeboard/internal/models"

type SubcategoryResponse struct {
	ID          uint   `json:"id"`
	CategoryID  uint   `json:"categoryId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type CategoryResponse struct {
	ID            uint                  `json:"id"`
	Name          models.CategoryName   `json:"name"`
	DisplayName   string                `json:"displayName"`
	Icon          string                `json:"icon"`
	Subcategories []SubcategoryResponse `json:"subcategories,omitempty"`
}

func NewSubcategoryResponse(s *models.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{ID: s.ID, CategoryID: s.CategoryID, Name: s.Name, DisplayName: s.DisplayName}
}

func NewSubcategoryList(subs []models.Subcategory) []SubcategoryResponse {
	out := make([]SubcategoryResponse, 0, len(subs))
	for i := range subs {
		out = append(out, NewSubcategoryResponse(&subs[i]))
	}
	return out
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	resp := CategoryResponse{ID: c.ID, Name: c.Name, DisplayName: c.DisplayName, Icon: c.Icon}
	if len(c.Subcategories) > 0 {
		resp.Subcategories = NewSubcategoryList(c.Subcategories)
	}
	return resp
}

func NewCategoryList(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}
