package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestFromFiberError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"fiber error", fiber.NewError(fiber.StatusNotFound, "Activity not found"), http.StatusNotFound, "Activity not found"},
		{"gorm duplicate", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), http.StatusConflict, "duplicate data (unique violation)"},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, http.StatusConflict, "duplicate data (unique violation)"},
		{"pq foreign key", &pq.Error{Code: "23503"}, http.StatusBadRequest, "referenced record not found"},
		{"pgx check", &pgconn.PgError{Code: "23514"}, http.StatusBadRequest, "value rejected by constraint"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "record not found"},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()
			raw, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, raw)
			}
			var env struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("decode %s: %v", raw, err)
			}
			if env.Message != tt.message {
				t.Fatalf("message = %q, want %q", env.Message, tt.message)
			}
		})
	}
}
