package db

import (
	"context"
	"testing"

	"coddog/internal/errors"
)

func TestSubmatchRejectsNarrowWindow(t *testing.T) {
	d := &DB{windowSize: 8}

	_, _, err := d.Submatch(context.Background(), SubmatchRequest{
		SymbolID:   1,
		UserWindow: 5,
		PageSize:   10,
	})
	if err == nil {
		t.Fatal("expected an error for a window below the database width")
	}
	if !errors.IsKind(err, errors.KindBadRequest) {
		t.Errorf("expected KindBadRequest, got %v", err)
	}
}

func TestSubmatchRejectsBadPaging(t *testing.T) {
	d := &DB{windowSize: 8}

	tests := []struct {
		name string
		req  SubmatchRequest
	}{
		{"zero page size", SubmatchRequest{UserWindow: 8, PageSize: 0}},
		{"negative page", SubmatchRequest{UserWindow: 8, PageSize: 10, Page: -1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := d.Submatch(context.Background(), test.req)
			if !errors.IsKind(err, errors.KindBadRequest) {
				t.Errorf("expected KindBadRequest, got %v", err)
			}
		})
	}
}
