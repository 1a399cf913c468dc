package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"blog-api/database"
	"blog-api/models"
	"blog-api/observability"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Initialize(":memory:", observability.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func createUser(t *testing.T, repo *UserRepository, email string) *models.User {
	user := &models.User{Email: email, Name: "Someone", Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newPost(title string, authorID uint) *models.Post {
	return &models.Post{
		Title:    title,
		Subtitle: "sub",
		Date:     "March 01, 2024",
		Body:     "<p>body</p>",
		ImgURL:   "https://example.com/a.jpg",
		AuthorID: authorID,
	}
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("admin id is not found on an empty table", func(t *testing.T) {
		_, err := repo.AdminID(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	first := createUser(t, repo, "  Admin@Example.com ")
	second := createUser(t, repo, "reader@example.com")

	t.Run("emails are stored normalized", func(t *testing.T) {
		assert.Equal(t, "admin@example.com", first.Email)

		found, err := repo.FindByEmail(ctx, "ADMIN@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Email: "admin@example.com", Name: "x", Password: "y"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("lowest id is the admin", func(t *testing.T) {
		id, err := repo.AdminID(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, id)
		assert.Less(t, id, second.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	admin := createUser(t, users, "admin@example.com")
	other := createUser(t, users, "other@example.com")

	hello := newPost("Hello World", admin.ID)
	require.NoError(t, posts.Create(ctx, hello))
	second := newPost("Second", admin.ID)
	require.NoError(t, posts.Create(ctx, second))

	t.Run("list is in insertion order with authors", func(t *testing.T) {
		list, err := posts.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Hello World", list[0].Title)
		assert.Equal(t, "Second", list[1].Title)
		assert.Equal(t, "admin@example.com", list[0].Author.Email)
	})

	t.Run("titles are unique", func(t *testing.T) {
		err := posts.Create(ctx, newPost("Hello World", admin.ID))
		assert.ErrorIs(t, err, ErrDuplicate)

		list, err := posts.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("find by author", func(t *testing.T) {
		list, err := posts.FindByAuthor(ctx, admin.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = posts.FindByAuthor(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("update keeps the date and changes the author", func(t *testing.T) {
		edited := *hello
		edited.Title = "Hello Again"
		edited.Date = "ignored"
		edited.AuthorID = other.ID
		require.NoError(t, posts.Update(ctx, &edited))

		found, err := posts.FindByID(ctx, hello.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hello Again", found.Title)
		assert.Equal(t, "March 01, 2024", found.Date)
		assert.Equal(t, other.ID, found.Author.ID)
	})

	t.Run("update to another post's title is rejected", func(t *testing.T) {
		edited := *hello
		edited.Title = "Second"
		assert.ErrorIs(t, posts.Update(ctx, &edited), ErrDuplicate)
	})

	t.Run("update of a missing post", func(t *testing.T) {
		assert.ErrorIs(t, posts.Update(ctx, newPost("Ghost", admin.ID)), ErrNotFound)
	})

	t.Run("resubmitting unchanged fields succeeds", func(t *testing.T) {
		current, err := posts.FindByID(ctx, hello.ID)
		require.NoError(t, err)
		require.NoError(t, posts.Update(ctx, current))
		require.NoError(t, posts.Update(ctx, current))
	})

	t.Run("delete cascades to comments and repeats as not found", func(t *testing.T) {
		require.NoError(t, comments.Create(ctx, &models.Comment{Text: "hi", AuthorID: other.ID, PostID: second.ID}))

		require.NoError(t, posts.Delete(ctx, second.ID))

		_, err := posts.FindByID(ctx, second.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		count, err := comments.CountByPost(ctx, second.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		assert.ErrorIs(t, posts.Delete(ctx, second.ID), ErrNotFound)
	})
}

func TestCommentRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "author@example.com")
	a := newPost("A", author.ID)
	b := newPost("B", author.ID)
	require.NoError(t, posts.Create(ctx, a))
	require.NoError(t, posts.Create(ctx, b))

	require.NoError(t, comments.Create(ctx, &models.Comment{Text: "first", AuthorID: author.ID, PostID: a.ID}))
	require.NoError(t, comments.Create(ctx, &models.Comment{Text: "second", AuthorID: author.ID, PostID: a.ID}))
	require.NoError(t, comments.Create(ctx, &models.Comment{Text: "elsewhere", AuthorID: author.ID, PostID: b.ID}))

	t.Run("comments are scoped to their post", func(t *testing.T) {
		list, err := comments.FindByPost(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "first", list[0].Text)
		assert.Equal(t, "author@example.com", list[0].Author.Email)

		count, err := comments.CountByPost(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("dangling references are rejected", func(t *testing.T) {
		err := comments.Create(ctx, &models.Comment{Text: "orphan", AuthorID: author.ID, PostID: 999})
		assert.Error(t, err)
	})
}

func TestPostRepository_ListPropagatesDriverErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `blog_posts`").WillReturnError(errors.New("connection reset"))

	_, err = NewPostRepository(db).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateWithoutChangesOnMySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	post := newPost("Same", 1)
	post.ID = 7

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `blog_posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT `id` FROM `blog_posts` WHERE .*title = \\? AND id <> \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// MySQL reports zero changed rows when every column already matches
	mock.ExpectExec("UPDATE `blog_posts` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, NewPostRepository(db).Update(context.Background(), post))
	assert.NoError(t, mock.ExpectationsWereMet())
}
