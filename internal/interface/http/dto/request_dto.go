package dto

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/iftm/client-service/internal/domain"
)

// ParsePageRequest reads page, size, orderBy and direction from the query
// string. Missing values fall back to page 0, size 12, name ascending.
func ParsePageRequest(q url.Values) (domain.PageRequest, error) {
	req := domain.NewPageRequest(0, domain.DefaultPageSize)

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("page must be an integer")
		}
		req.Page = page
	}

	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("size must be an integer")
		}
		req.Size = size
	}

	if v := q.Get("orderBy"); v != "" {
		req.OrderBy = v
	}

	if v := q.Get("direction"); v != "" {
		req.Direction = strings.ToUpper(v)
	}

	return req, nil
}

// ParseMinIncome reads the required minIncome query parameter.
func ParseMinIncome(q url.Values) (float64, error) {
	v := q.Get("minIncome")
	if v == "" {
		return 0, errors.New("minIncome is required")
	}
	income, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New("minIncome must be a valid number")
	}
	return income, nil
}

func ParseClientID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}
