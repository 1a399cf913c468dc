package models

type Comment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Text     string `json:"text" gorm:"type:text;not null"`
	AuthorID uint   `json:"author_id" gorm:"not null;index"`
	PostID   uint   `json:"post_id" gorm:"not null;index"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
	Post   Post `json:"-" gorm:"foreignKey:PostID"`
}
