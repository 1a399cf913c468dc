package models

// DateLayout is how a post's creation date is displayed and stored.
const DateLayout = "January 02, 2006"

type Post struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"uniqueIndex;not null;size:250"`
	Subtitle string `json:"subtitle" gorm:"not null;size:250"`
	Date     string `json:"date" gorm:"not null;size:250"`
	Body     string `json:"body" gorm:"type:text;not null"`
	ImgURL   string `json:"img_url" gorm:"column:img_url;not null;size:500"`
	AuthorID uint   `json:"author_id" gorm:"not null;index"`

	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "blog_posts"
}
