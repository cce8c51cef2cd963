package models

import (
	"time"

	"github.com/siahsang/yatube/internal/filter"
)

type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	AuthorID  int64     `json:"-"`
	GroupID   *int64    `json:"-"`
	Image     *string   `json:"image"`
	Author    Author    `json:"author"`
	Group     *Group    `json:"group"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"-"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
}

// Follow is a directed edge: UserID receives AuthorID's posts in the following feed.
type Follow struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"userId"`
	AuthorID int64 `json:"authorId"`
}

type Profile struct {
	ID             int64  `json:"-"`
	Username       string `json:"username"`
	PostsCount     int64  `json:"postsCount"`
	FollowingCount int64  `json:"followingCount"`
	FollowersCount int64  `json:"followersCount"`
	Following      bool   `json:"following"`
}

// PostPage is one page of a feed.
type PostPage struct {
	Posts    []*Post         `json:"posts"`
	Metadata filter.Metadata `json:"metadata"`
}

type PostDetail struct {
	Post             *Post      `json:"post"`
	Comments         []*Comment `json:"comments"`
	AuthorPostsCount int64      `json:"authorPostsCount"`
}
