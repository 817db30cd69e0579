package infra

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestExtractMarker(t *testing.T) {
	marker, body, err := extractMarker("\n--sql 756d24ef-1905-4a0f-a8c7-a720b460c1d2\nselect 1;\n")
	if err != nil {
		t.Fatalf("extractMarker error: %v", err)
	}
	if marker != "756d24ef-1905-4a0f-a8c7-a720b460c1d2" {
		t.Fatalf("unexpected marker %q", marker)
	}
	if body != "select 1;" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestExtractMarkerRejectsUnmarkedQuery(t *testing.T) {
	for _, q := range []string{"select 1;", "--sql not-a-uuid\nselect 1;", ""} {
		if _, _, err := extractMarker(q); err == nil {
			t.Fatalf("expected error for %q", q)
		}
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("load: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped ErrNoRows not detected")
	}
	if IsNoRows(errors.New("boom")) {
		t.Fatal("unexpected match")
	}
}
