package frame

import (
	"errors"
	"testing"
)

func TestWindowLen(t *testing.T) {
	tests := []struct {
		w    Window
		want int
	}{
		{w: Window{Min: 2, Max: 7}, want: 5},
		{w: Window{Min: 3, Max: 3}, want: 0},
		{w: Window{Min: 5, Max: 1}, want: 0},
	}
	for _, tt := range tests {
		if got := tt.w.Len(); got != tt.want {
			t.Fatalf("%s.Len() = %d, want %d", tt.w, got, tt.want)
		}
	}
}

func TestWindowMembership(t *testing.T) {
	w := Window{Min: 2, Max: 5}

	if !w.Contains(2) || w.Contains(5) {
		t.Fatal("Contains should be half-open")
	}
	if w.Interior(2) || !w.Interior(3) || w.Interior(5) {
		t.Fatal("Interior should exclude both bounds")
	}
}

func TestWindowEncloses(t *testing.T) {
	outer := Window{Min: 2, Max: 10}
	if !outer.Encloses(Window{Min: 4, Max: 6}) {
		t.Fatal("expected [4,6) inside [2,10)")
	}
	if outer.Encloses(Window{Min: 1, Max: 6}) {
		t.Fatal("expected [1,6) not inside [2,10)")
	}
}

func TestWindowValidate(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		ok   bool
	}{
		{name: "full", w: Full(10), ok: true},
		{name: "inner", w: Window{Min: 3, Max: 4}, ok: true},
		{name: "negative", w: Window{Min: -1, Max: 4}},
		{name: "past end", w: Window{Min: 3, Max: 11}},
		{name: "empty", w: Window{Min: 4, Max: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate(10)
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("Validate() = %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestWindowShift(t *testing.T) {
	if got := (Window{Min: 4, Max: 8}).Shift(-3); got != (Window{Min: 1, Max: 5}) {
		t.Fatalf("Shift = %s, want [1,5)", got)
	}
}
