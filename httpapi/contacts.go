package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-contacts-auth/contacts"
)

type contactsHandler struct {
	service *contacts.Service
}

func (h *contactsHandler) List(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	var query contacts.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return ErrInvalidBody
	}

	page, err := h.service.List(c.UserContext(), user.ID, query)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *contactsHandler) Get(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	contact, err := h.service.Get(c.UserContext(), user.ID, c.Params("contactId"))
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *contactsHandler) Create(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	var input contacts.ContactInput
	if err := parseBody(c, &input); err != nil {
		return contacts.ErrMissingFields
	}

	contact, err := h.service.Create(c.UserContext(), user.ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

func (h *contactsHandler) Update(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	var input contacts.ContactInput
	if err := parseBody(c, &input); err != nil {
		return contacts.ErrMissingFields
	}

	contact, err := h.service.Update(c.UserContext(), user.ID, c.Params("contactId"), input)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *contactsHandler) SetFavorite(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	var input contacts.FavoriteInput
	if err := parseBody(c, &input); err != nil {
		return contacts.ErrMissingFavorite
	}

	contact, err := h.service.SetFavorite(c.UserContext(), user.ID, c.Params("contactId"), input)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *contactsHandler) Delete(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), user.ID, c.Params("contactId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "contact deleted"})
}
