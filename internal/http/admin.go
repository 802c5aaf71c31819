package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/blogicum/internal/blog"
)

type CategoryInput struct {
	Title       *string `json:"title" binding:"omitempty,max=256"`
	Description *string `json:"description"`
	Slug        *string `json:"slug" binding:"omitempty,max=64"`
	IsPublished *bool   `json:"isPublished"`
}

type LocationInput struct {
	Name        *string `json:"name" binding:"omitempty,max=256"`
	IsPublished *bool   `json:"isPublished"`
}

type ModerationInput struct {
	IsPublished *bool `json:"isPublished" binding:"required"`
}

func (in CategoryInput) toBlog() blog.CategoryInput {
	return blog.CategoryInput{Title: in.Title, Description: in.Description, Slug: in.Slug, IsPublished: in.IsPublished}
}

func (in LocationInput) toBlog() blog.LocationInput {
	return blog.LocationInput{Name: in.Name, IsPublished: in.IsPublished}
}

func (e *Env) AdminCreateCategory(c *gin.Context) {
	var input CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	category, err := e.Blog.CreateCategory(c.Request.Context(), input.toBlog())
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (e *Env) AdminUpdateCategory(c *gin.Context) {
	var input CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	category, err := e.Blog.UpdateCategory(c.Request.Context(), c.Param("slug"), input.toBlog())
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (e *Env) AdminDeleteCategory(c *gin.Context) {
	if err := e.Blog.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (e *Env) AdminCreateLocation(c *gin.Context) {
	var input LocationInput
	if !bindJSON(c, &input) {
		return
	}
	location, err := e.Blog.CreateLocation(c.Request.Context(), input.toBlog())
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (e *Env) AdminUpdateLocation(c *gin.Context) {
	locationID, ok := idParam(c, "id", "location")
	if !ok {
		return
	}
	var input LocationInput
	if !bindJSON(c, &input) {
		return
	}
	location, err := e.Blog.UpdateLocation(c.Request.Context(), locationID, input.toBlog())
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (e *Env) AdminDeleteLocation(c *gin.Context) {
	locationID, ok := idParam(c, "id", "location")
	if !ok {
		return
	}
	if err := e.Blog.DeleteLocation(c.Request.Context(), locationID); err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location deleted"})
}

func (e *Env) AdminModerateComment(c *gin.Context) {
	commentID, ok := idParam(c, "id", "comment")
	if !ok {
		return
	}
	var input ModerationInput
	if !bindJSON(c, &input) {
		return
	}
	comment, err := e.Blog.SetCommentPublished(c.Request.Context(), commentID, *input.IsPublished)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, commentResponse(comment))
}
