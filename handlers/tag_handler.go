package handlers

import (
	"github.com/gin-gonic/gin"

	"gopress-cms/helper"
	"gopress-cms/models"
	"gopress-cms/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req models.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequest(c, "name is required and at most 50 characters")
		return
	}

	tag, err := h.tagService.CreateTag(req)
	if err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendCreated(c, tag)
}

func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tagService.GetTags()
	if err != nil {
		helper.SendError(c, err)
		return
	}

	helper.SendSuccess(c, tags)
}
