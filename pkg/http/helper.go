package http

import (
	"net/http"
	"strconv"

	"stopshot/pkg/config"
	apperrors "stopshot/pkg/errors"
	"stopshot/pkg/model"
	"stopshot/pkg/sanitizer"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate reads a required YYYY-MM-DD query parameter.
func ExtractDate(r *http.Request, name string) (model.Date, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return model.Date{}, apperrors.InvalidInput("missing " + name + " parameter")
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return d, nil
}

// ExtractInt reads a required integer query parameter.
func ExtractInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, apperrors.InvalidInput("missing " + name + " parameter")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return v, nil
}

// ExtractRoomType reads a required room type query parameter, upper-cased.
func ExtractRoomType(r *http.Request, name string) (model.RoomType, error) {
	s := sanitizer.NormalizeCode(r.URL.Query().Get(name))
	if s == "" {
		return "", apperrors.InvalidInput("missing " + name + " parameter")
	}
	return model.RoomType(s), nil
}
