package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/storage"
	"github.com/localnerve/orgportal/internal/utils"
)

// FileHandler serves stored uploads
type FileHandler struct {
	Store storage.Store
}

// Serve handles GET /storage/:category/:name
// @Summary Fetch a stored file
// @Tags Files
// @Produce octet-stream
// @Param category path string true "avatars, images or media"
// @Param name path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 404 {object} utils.Envelope
// @Router /storage/{category}/{name} [get]
func (h *FileHandler) Serve(c *fiber.Ctx) error {
	category, name := c.Params("category"), c.Params("name")
	if !storage.ValidCategory(category) || !storage.ValidName(name) {
		return utils.NotFoundResponse(c, "File not found")
	}

	obj, err := h.Store.Open(c.UserContext(), category, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.NotFoundResponse(c, "File not found")
		}
		return err
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	size := int(obj.Size)
	if size <= 0 {
		size = -1
	}
	// the body stream is closed once written
	return c.SendStream(obj.Body, size)
}
