package models

import "testing"

func TestSideOpposite(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want Side
	}{
		{
			name: "top faces bottom",
			side: SideTop,
			want: SideBottom,
		},
		{
			name: "bottom faces top",
			side: SideBottom,
			want: SideTop,
		},
		{
			name: "left faces right",
			side: SideLeft,
			want: SideRight,
		},
		{
			name: "right faces left",
			side: SideRight,
			want: SideLeft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.side.Opposite(); got != tt.want {
				t.Errorf("Side(%v).Opposite() = %v, want %v", tt.side, got, tt.want)
			}
		})
	}
}

func TestSideRoundTrip(t *testing.T) {
	for _, s := range Sides {
		parsed, ok := ParseSide(s.String())
		if !ok {
			t.Errorf("ParseSide(%q) not recognized", s.String())
		}
		if parsed != s {
			t.Errorf("ParseSide(%q) = %v, want %v", s.String(), parsed, s)
		}
	}

	if _, ok := ParseSide("diagonal"); ok {
		t.Error("ParseSide accepted an unknown side name")
	}
}

func TestSideIsHorizontal(t *testing.T) {
	tests := []struct {
		side Side
		want bool
	}{
		{SideTop, false},
		{SideBottom, false},
		{SideLeft, true},
		{SideRight, true},
	}

	for _, tt := range tests {
		if got := tt.side.IsHorizontal(); got != tt.want {
			t.Errorf("Side(%v).IsHorizontal() = %v, want %v", tt.side, got, tt.want)
		}
	}
}

func TestSocketShapeComplement(t *testing.T) {
	tests := []struct {
		name  string
		shape SocketShape
		want  SocketShape
	}{
		{
			name:  "tab mates with slot",
			shape: ShapeTab,
			want:  ShapeSlot,
		},
		{
			name:  "slot mates with tab",
			shape: ShapeSlot,
			want:  ShapeTab,
		},
		{
			name:  "flat mates with flat",
			shape: ShapeFlat,
			want:  ShapeFlat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.Complement(); got != tt.want {
				t.Errorf("SocketShape(%v).Complement() = %v, want %v", tt.shape, got, tt.want)
			}
			// The complement relation is symmetric.
			if back := tt.want.Complement(); back != tt.shape {
				t.Errorf("Complement of %v does not round-trip, got %v", tt.want, back)
			}
		})
	}
}

func TestPatternSide(t *testing.T) {
	p := Pattern{
		Top:    ShapeSlot,
		Bottom: ShapeTab,
		Left:   ShapeFlat,
		Right:  ShapeTab,
	}

	tests := []struct {
		side Side
		want SocketShape
	}{
		{SideTop, ShapeSlot},
		{SideBottom, ShapeTab},
		{SideLeft, ShapeFlat},
		{SideRight, ShapeTab},
	}

	for _, tt := range tests {
		if got := p.Side(tt.side); got != tt.want {
			t.Errorf("Pattern.Side(%v) = %v, want %v", tt.side, got, tt.want)
		}
	}
}
