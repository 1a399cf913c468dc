package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blog-api/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// List returns every post with its author, oldest first.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Order("id ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *PostRepository) FindByTitle(ctx context.Context, title string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *PostRepository) FindByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("find posts by author: %w", err)
	}
	return posts, nil
}

// Create inserts a post. A title already in use yields ErrDuplicate.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if _, err := r.FindByTitle(ctx, post.Title); err == nil {
		return ErrDuplicate
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", translate(err))
	}
	return nil
}

// Update overwrites the editable columns. The date is left untouched.
// MySQL reports changed rows rather than matched ones, so existence is
// checked explicitly instead of through RowsAffected.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Post
		if err := tx.Select("id").First(&current, post.ID).Error; err != nil {
			return translate(err)
		}

		var clash models.Post
		err := tx.Select("id").Where("title = ? AND id <> ?", post.Title, post.ID).First(&clash).Error
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check title: %w", err)
		}

		err = tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"title":     post.Title,
				"subtitle":  post.Subtitle,
				"body":      post.Body,
				"img_url":   post.ImgURL,
				"author_id": post.AuthorID,
			}).Error
		if err != nil {
			return fmt.Errorf("update post: %w", translate(err))
		}
		return nil
	})
}

// Delete removes a post together with its comments.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return translate(err)
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}
