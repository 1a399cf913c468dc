package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"blog-api/models"
)

// Dialector picks the gorm driver from the shape of the connection string.
//
//	postgres://... or postgresql://...   postgres
//	sqlite://path, file:path, :memory:   sqlite
//	anything else                        mysql DSN
func Dialector(databaseURL string) (gorm.Dialector, error) {
	switch {
	case databaseURL == "":
		return nil, errors.New("empty database url")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), nil
	case strings.HasPrefix(databaseURL, "file:"), databaseURL == ":memory:":
		return sqlite.Open(databaseURL), nil
	default:
		return mysql.Open(databaseURL), nil
	}
}

// Initialize opens the database. gorm's own messages (errors, slow queries)
// are written through appLogger.
func Initialize(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(appLogger),
		// Unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		// One connection: pragmas are per connection and :memory: databases are too
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)

		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

func newGormLogger(appLogger *slog.Logger) logger.Interface {
	return logger.New(
		slog.NewLogLogger(appLogger.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			// lookups by email and title miss on every normal registration
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func Migrate(db *gorm.DB) error {
	// Order matters: comments reference users and blog_posts
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// SeedData fills an empty blog with demo posts written by the administrator.
// The administrator must register first so that the lowest id belongs to a real account.
func SeedData(db *gorm.DB, count int, logger *slog.Logger) error {
	var admin models.User
	if err := db.Order("id ASC").First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("no users yet: register the administrator account before seeding")
		}
		return fmt.Errorf("failed to load administrator: %w", err)
	}

	var postCount int64
	if err := db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}
	if postCount > 0 {
		logger.Info("database already has posts, skipping seed", "posts", postCount)
		return nil
	}

	faker := gofakeit.New(0)
	for i := 0; i < count; i++ {
		post := models.Post{
			Title:    fmt.Sprintf("%s %d", faker.Sentence(4), i+1),
			Subtitle: faker.Sentence(8),
			Date:     faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format(models.DateLayout),
			Body:     "<p>" + faker.Paragraph(3, 4, 12, "</p><p>") + "</p>",
			ImgURL:   fmt.Sprintf("https://picsum.photos/1200/600?random=%d", i+1),
			AuthorID: admin.ID,
		}
		if err := db.Create(&post).Error; err != nil {
			logger.Warn("could not create demo post", "title", post.Title, "error", err)
		}
	}

	logger.Info("database seeded with demo posts", "count", count, "author_id", admin.ID)
	return nil
}
