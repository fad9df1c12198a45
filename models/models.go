package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username   string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email      string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string   `gorm:"not null" json:"-"`
	IsAdmin    bool     `gorm:"default:false" json:"isAdmin"`
	IsVerified bool     `gorm:"default:false" json:"isVerified"`
	Token      *string  `gorm:"type:text" json:"-"`
	PictureID  *uint    `json:"pictureId"`
	Picture    *Picture `gorm:"foreignKey:PictureID" json:"picture,omitempty"`
}

type Picture struct {
	gorm.Model
	PublicID string `gorm:"size:255;not null" json:"public_id"`
	URL      string `gorm:"size:512;not null" json:"url"`
}

type Post struct {
	gorm.Model
	Title      string      `gorm:"size:255;not null" json:"title"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	AuthorID   uint        `gorm:"index;not null" json:"authorId"`
	Author     *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	MediaFiles []MediaFile `gorm:"foreignKey:PostID" json:"mediaFiles"`
	Comments   []Comment   `gorm:"foreignKey:PostID" json:"comments"`
	Likes      []Like      `gorm:"foreignKey:PostID" json:"likes"`
	Shares     []Share     `gorm:"foreignKey:PostID" json:"shares"`
}

type MediaFile struct {
	gorm.Model
	URL      string `gorm:"size:512;not null" json:"url"`
	PublicID string `gorm:"size:255;not null" json:"public_id"`
	PostID   uint   `gorm:"index;not null" json:"postId"`
}

type Comment struct {
	gorm.Model
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"index;not null" json:"authorId"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PostID   uint   `gorm:"index;not null" json:"postId"`
}

// Like is a presence row: a (UserID, PostID) pair exists while the user
// likes the post. Uniqueness is enforced by the toggle handler, not the
// schema.
type Like struct {
	gorm.Model
	UserID uint `gorm:"index" json:"userId"`
	PostID uint `gorm:"index" json:"postId"`
}

// Share is append-only, one row per share event.
type Share struct {
	gorm.Model
	UserID uint `gorm:"index" json:"userId"`
	PostID uint `gorm:"index" json:"postId"`
}

// Admin is a marker row created when a user is promoted. The IsAdmin flag
// on User is what authorization checks read.
type Admin struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`
}
