package common

import (
	"net/http"
	"testing"
)

func TestGenerateTrxNo(t *testing.T) {
	trx := GenerateTrxNo()
	if len(trx) != 10 {
		t.Errorf("Expected length 10, got %d", len(trx))
	}

	validChars := "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for _, char := range trx {
		isValid := false
		for _, validChar := range validChars {
			if char == validChar {
				isValid = true
				break
			}
		}
		if !isValid {
			t.Errorf("Invalid character found: %c", char)
		}
	}
}

func TestPaginateResponse(t *testing.T) {
	total := int64(100)
	page := 1
	limit := 10
	data := []string{"item1", "item2"}

	res := PaginateResponse(data, total, page, limit, "")

	if res.CurrentPage != 1 {
		t.Errorf("Expected CurrentPage 1, got %d", res.CurrentPage)
	}
	if res.LastPage != 10 {
		t.Errorf("Expected LastPage 10, got %d", res.LastPage)
	}
	if res.NextPage != 2 {
		t.Errorf("Expected NextPage 2, got %d", res.NextPage)
	}
	if res.PrevPage != 0 {
		t.Errorf("Expected PrevPage 0, got %d", res.PrevPage)
	}
	if res.Count != 100 {
		t.Errorf("Expected Count 100, got %d", res.Count)
	}

	// Last page has no next.
	page = 10
	res = PaginateResponse(data, total, page, limit, "")
	if res.NextPage != 0 {
		t.Errorf("Expected NextPage 0 for last page, got %d", res.NextPage)
	}
}

func TestAppErrorHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewNotFoundError("missing"), http.StatusNotFound},
		{NewUnauthorizedError("nope"), http.StatusForbidden},
		{NewBusinessError("limit", nil), http.StatusBadRequest},
		{NewConflictError("again"), http.StatusConflict},
		{NewInternalError("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := c.err.HTTPStatus(); got != c.status {
			t.Errorf("%s: expected status %d, got %d", c.err.Code, c.status, got)
		}
	}
}

func TestAsAppError(t *testing.T) {
	business := NewBusinessError("daily limit reached", map[string]interface{}{"max": 2, "current": 2})
	if got := AsAppError(business); got != business {
		t.Errorf("Expected the original AppError back")
	}
	if got := AsAppError(http.ErrBodyNotAllowed); got.Code != CodeInternal {
		t.Errorf("Expected INTERNAL for foreign errors, got %s", got.Code)
	}
}
