package geoip

import (
	"errors"
	"testing"
)

func TestOpenEmptyPath(t *testing.T) {
	r, err := Open("  ")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil resolver, got %#v", r)
	}
}

func TestNilResolverIsUnavailable(t *testing.T) {
	var r *Resolver
	if _, err := r.CountryCode("8.8.8.8"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close on nil resolver: %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatal("expected error for missing database")
	}
}
