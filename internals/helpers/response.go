package helper

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Error responses (standard shape)
=================================*/

// JsonError is the single error shape every handler returns: {"error": msg}.
func JsonError(c *fiber.Ctx, status int, message string) error {
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// JsonValidationError flattens validator.v10 field errors into one message.
func JsonValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email")
		case "min":
			parts = append(parts, fe.Field()+" must be at least "+fe.Param())
		case "max":
			parts = append(parts, fe.Field()+" must be at most "+fe.Param())
		case "gt":
			parts = append(parts, fe.Field()+" must be greater than "+fe.Param())
		case "gte":
			parts = append(parts, fe.Field()+" must be at least "+fe.Param())
		case "oneof":
			parts = append(parts, fe.Field()+" must be one of: "+fe.Param())
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return JsonError(c, fiber.StatusBadRequest, strings.Join(parts, "; "))
}

/* ===============================
   Paging resolver (query → page/limit/offset)
=================================*/

type Paging struct {
	Page   int
	Limit  int
	Offset int
}

// ResolvePaging reads ?page= & ?limit= and normalizes them.
func ResolvePaging(c *fiber.Ctx, defaultLimit, maxLimit int) Paging {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit", strconv.Itoa(defaultLimit))))
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	return Paging{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func BuildPagination(total int64, p Paging) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit)) // ceil
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
