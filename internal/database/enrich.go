package database

import (
	"context"

	"github.com/thereayou/noticeboard/internal/models"
)

type postCount struct {
	PostID uint
	Count  int64
}

// enrich дополняет страницу объявлений счётчиками и флагами зрителя.
// Число запросов не зависит от размера страницы.
func (d *Database) enrich(ctx context.Context, posts []models.Post, viewerID *uint) ([]models.PostWithDetails, error) {
	out := make([]models.PostWithDetails, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	likes, err := d.countByPost(ctx, &models.Like{}, ids)
	if err != nil {
		return nil, err
	}
	comments, err := d.countByPost(ctx, &models.Comment{}, ids)
	if err != nil {
		return nil, err
	}

	var liked, saved, followed map[uint]bool
	if viewerID != nil {
		if liked, err = d.viewerRelations(ctx, &models.Like{}, *viewerID, ids); err != nil {
			return nil, err
		}
		if saved, err = d.viewerRelations(ctx, &models.SavedPost{}, *viewerID, ids); err != nil {
			return nil, err
		}
		if followed, err = d.viewerRelations(ctx, &models.FollowedPost{}, *viewerID, ids); err != nil {
			return nil, err
		}
	}

	for i := range posts {
		p := &posts[i]
		details := toDetails(p)
		details.LikeCount = likes[p.ID]
		details.CommentCount = comments[p.ID]
		if viewerID != nil {
			details.IsLiked = boolPtr(liked[p.ID])
			details.IsSaved = boolPtr(saved[p.ID])
			details.IsFollowed = boolPtr(followed[p.ID])
		}
		out = append(out, details)
	}
	return out, nil
}

func (d *Database) countByPost(ctx context.Context, model interface{}, ids []uint) (map[uint]int64, error) {
	var rows []postCount
	err := d.db.WithContext(ctx).Model(model).
		Select("post_id, count(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}

func (d *Database) viewerRelations(ctx context.Context, model interface{}, viewerID uint, ids []uint) (map[uint]bool, error) {
	var postIDs []uint
	err := d.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Pluck("post_id", &postIDs).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		set[id] = true
	}
	return set, nil
}

func toDetails(p *models.Post) models.PostWithDetails {
	metadata := p.Metadata.Data()
	if metadata == nil {
		metadata = models.Metadata{}
	}

	details := models.PostWithDetails{
		ID:              p.ID,
		UUID:            p.UUID,
		UserID:          p.UserID,
		Title:           p.Title,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		SubcategoryID:   p.SubcategoryID,
		Location:        p.Location,
		LocationDetails: p.LocationDetails,
		ImageURL:        p.ImageURL,
		Visibility:      p.Visibility,
		Metadata:        metadata,
		ViewCount:       p.ViewCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		User: models.PostAuthor{
			ID:           p.User.ID,
			UUID:         p.User.UUID,
			Name:         p.User.Name,
			Username:     p.User.Username,
			ProfileImage: p.User.ProfileImage,
		},
		Category: models.CategoryRef{
			ID:          p.Category.ID,
			Name:        string(p.Category.Name),
			DisplayName: p.Category.DisplayName,
		},
	}
	if p.Subcategory != nil {
		details.Subcategory = &models.CategoryRef{
			ID:          p.Subcategory.ID,
			Name:        p.Subcategory.Name,
			DisplayName: p.Subcategory.DisplayName,
		}
	}
	return details
}

func boolPtr(v bool) *bool {
	return &v
}
