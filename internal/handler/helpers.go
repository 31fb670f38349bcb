package handler

import (
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
)

func chain(middlewares []fiber.Handler, final fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(middlewares)+1)
	handlers = append(handlers, middlewares...)
	return append(handlers, final)
}

func lowerFirst(input string) string {
	runes := []rune(strings.TrimSpace(input))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
