package controllers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"blog-api/models"
	"blog-api/repositories"
	"blog-api/utils"
)

type CommentController struct {
	posts    *repositories.PostRepository
	comments *repositories.CommentRepository
	logger   *slog.Logger
}

func NewCommentController(db *gorm.DB, logger *slog.Logger) *CommentController {
	return &CommentController{
		posts:    repositories.NewPostRepository(db),
		comments: repositories.NewCommentRepository(db),
		logger:   logger,
	}
}

type CommentForm struct {
	Comment string `form:"comment" binding:"required"`
}

// CreateComment handles the comment box on a post page. Anonymous visitors
// get a notice and nothing is stored.
func (cc *CommentController) CreateComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := cc.posts.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendNotFound(c)
			return
		}
		_ = c.Error(err)
		return
	}

	user := utils.CurrentUser(c)
	if user == nil {
		utils.Flash(c, "Please log in to comment.")
		renderPostPage(c, cc.comments, post)
		return
	}

	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		for _, msg := range utils.ValidationMessages(err) {
			utils.Flash(c, msg)
		}
		renderPostPage(c, cc.comments, post)
		return
	}
	text := strings.TrimSpace(form.Comment)
	if text == "" {
		utils.Flash(c, "Comment is required.")
		renderPostPage(c, cc.comments, post)
		return
	}

	comment := models.Comment{
		Text:     text,
		AuthorID: user.ID,
		PostID:   post.ID,
	}
	if err := cc.comments.Create(c.Request.Context(), &comment); err != nil {
		_ = c.Error(err)
		return
	}

	cc.logger.Info("comment created", "request_id", utils.RequestID(c), "post_id", post.ID, "comment_id", comment.ID)
	renderPostPage(c, cc.comments, post)
}
