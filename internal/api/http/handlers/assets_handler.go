package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velotaller/repair-service/internal/api/dto"
	"github.com/velotaller/repair-service/internal/assets"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// AssetsHandler accepts bike image uploads and hands back stored references.
type AssetsHandler struct {
	store assets.Store
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(store assets.Store) *AssetsHandler {
	return &AssetsHandler{store: store}
}

// UploadAsset POST /assets. The returned ref goes into the ticket's bike
// section; a failed upload leaves the draft untouched.
func (h *AssetsHandler) UploadAsset(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file required", nil)
	}

	src, err := file.Open()
	if err != nil {
		return apperrors.NewAssetError(err)
	}
	defer src.Close()

	ref, err := h.store.Save(c.UserContext(), file.Filename, src)
	if err != nil {
		return apperrors.NewAssetError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AssetResponse{Ref: ref}})
}
