package handlers

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"gopress-cms/helper"
	"gopress-cms/models"
	"gopress-cms/services"
)

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost handles multipart POST /api/posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	req := models.CreatePostRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
	}

	image, err := readImageField(c)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), req, image)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendCreated(c, post)
}

// GetPosts handles GET /api/posts with pagination, sorting and an optional
// tag filter. Malformed paging input falls back to defaults.
func (h *PostHandler) GetPosts(c *gin.Context) {
	params := models.PostListParams{
		Page:      helper.QueryInt(c, "page", 1),
		Limit:     helper.QueryInt(c, "limit", 10),
		SortBy:    c.DefaultQuery("sortBy", "created_at"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
		Tags:      c.Query("tags"),
	}
	params.Normalize()

	posts, total, err := h.postService.GetPosts(params)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendList(c, posts, helper.Paginate(params.Page, params.Limit, total))
}

// SearchPosts handles GET /api/search?q=.
func (h *PostHandler) SearchPosts(c *gin.Context) {
	params := models.SearchParams{
		Query: c.Query("q"),
		Page:  helper.QueryInt(c, "page", 1),
		Limit: helper.QueryInt(c, "limit", 10),
	}
	params.Normalize()

	posts, total, err := h.postService.SearchPosts(params)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendList(c, posts, helper.Paginate(params.Page, params.Limit, total))
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(id)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendSuccess(c, post)
}

// UpdatePost handles multipart PUT /api/posts/:id.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	req := models.UpdatePostRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
	}

	image, err := readImageField(c)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), id, req, image)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendSuccess(c, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id); err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendMessage(c, "post deleted")
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		helper.SendBadRequest(c, "invalid post ID")
		return 0, false
	}
	return uint(id), true
}

// readImageField pulls the optional "image" multipart field. A request
// without the field yields nil without error; whether nil is acceptable is
// the service's call.
func readImageField(c *gin.Context) (*models.ImageUpload, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	return readImage(file)
}

func readImage(file *multipart.FileHeader) (*models.ImageUpload, error) {
	src, err := file.Open()
	if err != nil {
		return nil, models.NewValidationError("unreadable image payload")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, models.NewValidationError("unreadable image payload")
	}

	return &models.ImageUpload{
		Content:     content,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
	}, nil
}
