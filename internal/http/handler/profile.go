package handler

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"fitbook/internal/http/middleware"
	"fitbook/internal/service"
)

// maxPhotoSize caps trainer photo uploads.
const maxPhotoSize = 5 << 20

// Profile godoc
// @Summary Signed-in user's profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.Profile
// @Failure 401 {object} errorPayload
// @Router /profile [get]
func Profile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Get(c.UserContext(), middleware.ClaimsFrom(c).UserID())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// ListTrainers godoc
// @Summary Trainer directory
// @Tags trainers
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.TrainerListResult
// @Failure 400 {object} errorPayload
// @Router /trainers [get]
func ListTrainers(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageQuery(c)
		if err != nil {
			return invalidPage(c, err)
		}
		res, err := svc.ListTrainers(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetTrainer godoc
// @Summary Trainer by id
// @Tags trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} model.Trainer
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /trainers/{id} [get]
func GetTrainer(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		tr, err := svc.GetTrainer(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tr)
	}
}

// TrainerPhoto godoc
// @Summary Download a trainer photo
// @Tags trainers
// @Produce image/jpeg,image/png
// @Param id path string true "Trainer ID"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /trainers/{id}/photo [get]
func TrainerPhoto(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		rc, obj, err := svc.TrainerPhoto(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		ct := obj.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		if !obj.LastModified.IsZero() {
			c.Set(fiber.HeaderLastModified, obj.LastModified.UTC().Format(http.TimeFormat))
		}
		size := -1
		if obj.Size > 0 {
			size = int(obj.Size)
		}
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, size)
	}
}

// UploadTrainerPhoto godoc
// @Summary Replace the signed-in trainer's photo
// @Tags trainers
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} model.Trainer
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /trainers/me/photo [put]
func UploadTrainerPhoto(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "photo file is required")
		}
		if fh.Size > maxPhotoSize {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				"photo must be at most "+strconv.Itoa(maxPhotoSize>>20)+" MB")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		// The part's Content-Type header is ignored; the service sniffs the bytes.
		tr, err := svc.UploadTrainerPhoto(c.UserContext(), middleware.ClaimsFrom(c).UserID(), service.PhotoUpload{
			Reader:   f,
			Filename: fh.Filename,
			Size:     fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tr)
	}
}
