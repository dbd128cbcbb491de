package helpers

import (
	"strconv"

	"github.com/google/uuid"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func ParseUUIDParam(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
