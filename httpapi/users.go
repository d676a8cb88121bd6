package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-contacts-auth"
	"github.com/goliatone/go-contacts-auth/avatars"
)

type usersHandler struct {
	sessions *auth.SessionManager
	avatars  *avatars.Service
}

func (h *usersHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.sessions.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (h *usersHandler) Verify(c *fiber.Ctx) error {
	if err := h.sessions.VerifyEmail(c.UserContext(), c.Params("verificationToken")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Verification successful"})
}

func (h *usersHandler) ResendVerification(c *fiber.Ctx) error {
	var req auth.ResendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.sessions.ResendVerification(c.UserContext(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Verification email sent"})
}

func (h *usersHandler) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.sessions.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *usersHandler) Logout(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Logout(c.UserContext(), user); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *usersHandler) Current(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	pub, err := h.sessions.Current(user)
	if err != nil {
		return err
	}
	return c.JSON(pub)
}

func (h *usersHandler) UpdateSubscription(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	var req auth.SubscriptionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	pub, err := h.sessions.UpdateSubscription(c.UserContext(), user, req)
	if err != nil {
		return err
	}
	return c.JSON(pub)
}

func (h *usersHandler) UpdateAvatar(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return avatars.ErrMissingFile
	}

	src, err := fh.Open()
	if err != nil {
		return avatars.ErrMissingFile
	}
	defer src.Close()

	path, err := h.avatars.Upload(c.UserContext(), user.ID.String(), fh.Filename, src)
	if err != nil {
		return err
	}

	avatarURL, err := h.sessions.UpdateAvatar(c.UserContext(), user, path)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"avatarURL": avatarURL})
}
