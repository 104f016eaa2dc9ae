// services/profile_service.go
package services

import (
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"prize-trainer/middleware"
	"prize-trainer/storage"
	"prize-trainer/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxPictureBytes = 5 * 1024 * 1024

var divisions = map[string]bool{"": true, "junior": true, "senior": true, "master": true}

type ProfileService struct {
	Prefs   *storage.PreferenceStore
	Uploads utils.ObjectStore
}

func NewProfileService(prefs *storage.PreferenceStore, uploads utils.ObjectStore) *ProfileService {
	return &ProfileService{Prefs: prefs, Uploads: uploads}
}

func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	pref, err := s.Prefs.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(pref)
}

type profileRequest struct {
	DisplayName      *string `json:"display_name"`
	PlayerName       *string `json:"player_name"`
	PlayerID         *string `json:"player_id"`
	Birthdate        *string `json:"birthdate"` // YYYY-MM-DD
	Division         *string `json:"division"`
	ShareGameHistory *bool   `json:"share_game_history"`
}

func (s *ProfileService) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	upd := storage.ProfileUpdate{
		DisplayName:      req.DisplayName,
		PlayerName:       req.PlayerName,
		PlayerID:         req.PlayerID,
		ShareGameHistory: req.ShareGameHistory,
	}
	if req.Division != nil {
		d := strings.ToLower(strings.TrimSpace(*req.Division))
		if !divisions[d] {
			return badRequest(c, "division must be junior, senior or master")
		}
		upd.Division = &d
	}
	if req.Birthdate != nil {
		bd, err := time.Parse("2006-01-02", *req.Birthdate)
		if err != nil {
			return badRequest(c, "birthdate must be YYYY-MM-DD")
		}
		upd.Birthdate = &bd
	}

	pref, err := s.Prefs.Update(c.UserContext(), middleware.UserID(c), upd)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(pref)
}

func (s *ProfileService) CheckDisplayName(c *fiber.Ctx) error {
	ok, err := s.Prefs.DisplayNameAvailable(c.UserContext(), middleware.UserID(c), c.Query("name"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"available": ok})
}

// UploadPicture accepts a multipart "picture" field, crops it to a square
// avatar and stores it.
func (s *ProfileService) UploadPicture(c *fiber.Ctx) error {
	file, err := c.FormFile("picture")
	if err != nil {
		return badRequest(c, "picture is required")
	}
	if file.Size > maxPictureBytes {
		return badRequest(c, "picture too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxPictureBytes+1))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}

	avatar, err := utils.Avatar(data)
	if errors.Is(err, utils.ErrNotAnImage) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": "unsupported image",
			"cause": err.Error(),
		})
	}
	if err != nil {
		return errorResponse(c, err)
	}

	userID := middleware.UserID(c)
	key := "avatars/" + userID + "/" + uuid.NewString() + ".jpg"
	url, err := s.Uploads.Put(c.UserContext(), key, avatar, "image/jpeg")
	if err != nil {
		log.Printf("❌ [PROFILE] picture upload failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to store picture",
			"cause": err.Error(),
		})
	}

	pref, err := s.Prefs.SetProfilePicture(c.UserContext(), userID, url)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(pref)
}
