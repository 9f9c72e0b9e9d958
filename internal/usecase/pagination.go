package usecase

import "net/http"

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// 0 は既定値、範囲外は400
func normalizePage(page int, limit int) (int, int, error) {
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		return 0, 0, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return page, limit, nil
}
