package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"blog-api/models"
	"blog-api/repositories"
	"blog-api/utils"
)

type PostController struct {
	posts    *repositories.PostRepository
	comments *repositories.CommentRepository
	users    *repositories.UserRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewPostController(db *gorm.DB, logger *slog.Logger) *PostController {
	return &PostController{
		posts:    repositories.NewPostRepository(db),
		comments: repositories.NewCommentRepository(db),
		users:    repositories.NewUserRepository(db),
		logger:   logger,
		now:      time.Now,
	}
}

type PostForm struct {
	Title    string `form:"title" binding:"required,max=250"`
	Subtitle string `form:"subtitle" binding:"required,max=250"`
	ImgURL   string `form:"img_url" binding:"required,url,max=500"`
	Body     string `form:"body" binding:"required"`
	AuthorID string `form:"author_id"`
}

// trim strips surrounding whitespace and reports fields left empty.
func (f *PostForm) trim() []string {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.ImgURL = strings.TrimSpace(f.ImgURL)
	f.AuthorID = strings.TrimSpace(f.AuthorID)

	var missing []string
	for _, field := range []struct{ label, value string }{
		{"Blog post title", f.Title},
		{"Subtitle", f.Subtitle},
		{"Blog image URL", f.ImgURL},
		{"Blog content", f.Body},
	} {
		if utils.Blank(field.value) {
			missing = append(missing, field.label+" is required.")
		}
	}
	return missing
}

func (pc *PostController) GetPosts(c *gin.Context) {
	posts, err := pc.posts.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Render(c, http.StatusOK, "index.html", gin.H{"Posts": posts})
}

func (pc *PostController) GetPost(c *gin.Context) {
	post, ok := pc.loadPost(c)
	if !ok {
		return
	}
	renderPostPage(c, pc.comments, post)
}

func (pc *PostController) NewPost(c *gin.Context) {
	pc.renderForm(c, PostForm{}, false, "/new-post")
}

func (pc *PostController) CreatePost(c *gin.Context) {
	form, ok := pc.bindForm(c)
	if !ok {
		pc.renderForm(c, form, false, "/new-post")
		return
	}

	post := models.Post{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Date:     pc.now().Format(models.DateLayout),
		Body:     form.Body,
		ImgURL:   form.ImgURL,
		AuthorID: utils.CurrentUser(c).ID,
	}

	if err := pc.posts.Create(c.Request.Context(), &post); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			utils.Flash(c, "A post with that title already exists.")
			pc.renderForm(c, form, false, "/new-post")
			return
		}
		_ = c.Error(err)
		return
	}

	pc.logger.Info("post created", "request_id", utils.RequestID(c), "post_id", post.ID)
	utils.Redirect(c, "/")
}

func (pc *PostController) EditPost(c *gin.Context) {
	post, ok := pc.loadPost(c)
	if !ok {
		return
	}

	form := PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
		AuthorID: strconv.FormatUint(uint64(post.AuthorID), 10),
	}
	pc.renderForm(c, form, true, editPath(post.ID))
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	post, ok := pc.loadPost(c)
	if !ok {
		return
	}

	form, ok := pc.bindForm(c)
	if !ok {
		pc.renderForm(c, form, true, editPath(post.ID))
		return
	}

	authorID, ok := pc.resolveAuthor(c, form.AuthorID, post.AuthorID)
	if !ok {
		pc.renderForm(c, form, true, editPath(post.ID))
		return
	}

	post.Title = form.Title
	post.Subtitle = form.Subtitle
	post.Body = form.Body
	post.ImgURL = form.ImgURL
	post.AuthorID = authorID

	if err := pc.posts.Update(c.Request.Context(), post); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			utils.Flash(c, "A post with that title already exists.")
			pc.renderForm(c, form, true, editPath(post.ID))
		case errors.Is(err, repositories.ErrNotFound):
			utils.SendNotFound(c)
		default:
			_ = c.Error(err)
		}
		return
	}

	pc.logger.Info("post updated", "request_id", utils.RequestID(c), "post_id", post.ID)
	utils.Redirect(c, fmt.Sprintf("/post/%d", post.ID))
}

func (pc *PostController) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := pc.posts.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendNotFound(c)
			return
		}
		_ = c.Error(err)
		return
	}

	pc.logger.Info("post deleted", "request_id", utils.RequestID(c), "post_id", id)
	utils.Redirect(c, "/")
}

// resolveAuthor maps the edit form's author field onto an existing user.
// A blank field keeps the current author.
func (pc *PostController) resolveAuthor(c *gin.Context, raw string, current uint) (uint, bool) {
	if raw == "" {
		return current, true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Flash(c, "Author must be the id of an existing user.")
		return 0, false
	}

	if _, err := pc.users.FindByID(c.Request.Context(), uint(id)); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			pc.logger.Warn("author lookup failed", "request_id", utils.RequestID(c), "error", err)
		}
		utils.Flash(c, "Author must be the id of an existing user.")
		return 0, false
	}
	return uint(id), true
}

func (pc *PostController) bindForm(c *gin.Context) (PostForm, bool) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		for _, msg := range utils.ValidationMessages(err) {
			utils.Flash(c, msg)
		}
		return form, false
	}
	if missing := form.trim(); len(missing) > 0 {
		for _, msg := range missing {
			utils.Flash(c, msg)
		}
		return form, false
	}
	return form, true
}

func (pc *PostController) renderForm(c *gin.Context, form PostForm, edit bool, action string) {
	title := "New Post"
	if edit {
		title = "Edit Post"
	}
	utils.Render(c, http.StatusOK, "make-post.html", gin.H{
		"Title":  title,
		"Form":   form,
		"Edit":   edit,
		"Action": action,
	})
}

func (pc *PostController) loadPost(c *gin.Context) (*models.Post, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	post, err := pc.posts.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendNotFound(c)
			return nil, false
		}
		_ = c.Error(err)
		return nil, false
	}
	return post, true
}

// renderPostPage shows a post with its own comments and an empty comment box.
func renderPostPage(c *gin.Context, comments *repositories.CommentRepository, post *models.Post) {
	list, err := comments.FindByPost(c.Request.Context(), post.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Render(c, http.StatusOK, "post.html", gin.H{
		"Title":       post.Title,
		"Post":        post,
		"Comments":    list,
		"CommentText": "",
	})
}

// parseID reads the :id route parameter; anything but a positive integer is a 404.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.SendNotFound(c)
		return 0, false
	}
	return uint(id), true
}

func editPath(id uint) string {
	return fmt.Sprintf("/edit-post/%d", id)
}
