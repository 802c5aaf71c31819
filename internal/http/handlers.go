package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/blogicum/internal/blog"
	"github.com/sujalbistaa/blogicum/internal/media"
)

// --- Structs for request binding ---

// PostInput is the body of post create and edit requests. Absent
// fields keep their value on edit; a null categoryId or locationId
// clears the reference.
type PostInput struct {
	Title       *string         `json:"title" binding:"omitempty,max=256"`
	Text        *string         `json:"text"`
	Image       *string         `json:"image" binding:"omitempty,max=512"`
	PubDate     *time.Time      `json:"pubDate"`
	IsPublished *bool           `json:"isPublished"`
	CategoryID  blog.OptionalID `json:"categoryId"`
	LocationID  blog.OptionalID `json:"locationId"`
}

func (in PostInput) toBlog() blog.PostInput {
	return blog.PostInput{
		Title:       in.Title,
		Text:        in.Text,
		Image:       in.Image,
		PubDate:     in.PubDate,
		IsPublished: in.IsPublished,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
	}
}

// CommentInput only has text; author and post come from the request.
type CommentInput struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type ProfileInput struct {
	Username  *string `json:"username" binding:"omitempty,min=1,max=150"`
	FirstName *string `json:"firstName" binding:"omitempty,max=150"`
	LastName  *string `json:"lastName" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
}

// --- Handlers ---

type Env struct {
	Blog     *blog.Service
	Media    *media.Resolver
	LoginURL string
}

func (e *Env) GetIndex(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	viewer := viewerFrom(c)
	listing, err := e.Blog.ListIndex(c.Request.Context(), viewer, page)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listingResponse(listing, viewer, e.Media))
}

func (e *Env) GetCategory(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	viewer := viewerFrom(c)
	listing, err := e.Blog.ListCategory(c.Request.Context(), viewer, c.Param("slug"), page)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listingResponse(listing, viewer, e.Media))
}

func (e *Env) GetProfile(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	viewer := viewerFrom(c)
	listing, err := e.Blog.ListProfile(c.Request.Context(), viewer, c.Param("username"), page)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listingResponse(listing, viewer, e.Media))
}

func (e *Env) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := e.Blog.UpdateProfile(c.Request.Context(), viewerFrom(c), blog.ProfileInput{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	})
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (e *Env) GetPost(c *gin.Context) {
	postID, ok := idParam(c, "id", "post")
	if !ok {
		return
	}
	viewer := viewerFrom(c)
	detail, err := e.Blog.GetPost(c.Request.Context(), viewer, postID)
	if err != nil {
		e.fail(c, err)
		return
	}
	resp := PostDetailResponse{
		Post:     postResponse(&detail.Post, viewer, e.Media),
		Comments: make([]CommentResponse, 0, len(detail.Comments)),
	}
	for i := range detail.Comments {
		resp.Comments = append(resp.Comments, commentResponse(&detail.Comments[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (e *Env) CreatePost(c *gin.Context) {
	var input PostInput
	if !bindJSON(c, &input) {
		return
	}
	viewer := viewerFrom(c)
	post, err := e.Blog.CreatePost(c.Request.Context(), viewer, input.toBlog())
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, postResponse(post, viewer, e.Media))
}

func (e *Env) UpdatePost(c *gin.Context) {
	postID, ok := idParam(c, "id", "post")
	if !ok {
		return
	}
	var input PostInput
	if !bindJSON(c, &input) {
		return
	}
	viewer := viewerFrom(c)
	post, err := e.Blog.UpdatePost(c.Request.Context(), viewer, postID, input.toBlog())
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, postResponse(post, viewer, e.Media))
}

func (e *Env) DeletePost(c *gin.Context) {
	postID, ok := idParam(c, "id", "post")
	if !ok {
		return
	}
	if err := e.Blog.DeletePost(c.Request.Context(), viewerFrom(c), postID); err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (e *Env) CreateComment(c *gin.Context) {
	postID, ok := idParam(c, "id", "post")
	if !ok {
		return
	}
	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}
	comment, err := e.Blog.AddComment(c.Request.Context(), viewerFrom(c), postID, input.Text)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentResponse(comment))
}

func (e *Env) UpdateComment(c *gin.Context) {
	postID, ok := idParam(c, "id", "post")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "comment_id", "comment")
	if !ok {
		return
	}
	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}
	comment, err := e.Blog.UpdateComment(c.Request.Context(), viewerFrom(c), postID, commentID, input.Text)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, commentResponse(comment))
}

func (e *Env) DeleteComment(c *gin.Context) {
	postID, ok := idParam(c, "id", "post")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "comment_id", "comment")
	if !ok {
		return
	}
	if err := e.Blog.DeleteComment(c.Request.Context(), viewerFrom(c), postID, commentID); err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// --- Helpers ---

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return false
	}
	return true
}

func idParam(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return uint(id), true
}

func pageParam(c *gin.Context) (int, bool) {
	raw := c.Query("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return 0, false
	}
	return page, true
}
