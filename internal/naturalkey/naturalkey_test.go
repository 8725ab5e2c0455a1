package naturalkey

import (
	"errors"
	"testing"

	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
)

func TestBuildFieldKey(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		field   string
		want    string
		wantErr bool
	}{
		{name: "simple", model: "sale.order", field: "amount_total", want: "field::sale.order::amount_total"},
		{name: "lowercased and trimmed", model: "  Sale.Order ", field: " Amount_Total ", want: "field::sale.order::amount_total"},
		{name: "empty model", model: "", field: "amount_total", wantErr: true},
		{name: "empty field", model: "sale.order", field: "", wantErr: true},
		{name: "model with separator", model: "sale::order", field: "x", wantErr: true},
		{name: "field with dot", model: "sale.order", field: "amount.total", wantErr: true},
		{name: "model with space", model: "sale order", field: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFieldKey(tt.model, tt.field)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildFieldKey: %v", err)
			}
			if got != tt.want {
				t.Fatalf("want %q got %q", tt.want, got)
			}
		})
	}
}

func TestBuildFieldKeyStable(t *testing.T) {
	a, err := BuildFieldKey("res.partner", "name")
	if err != nil {
		t.Fatalf("BuildFieldKey: %v", err)
	}
	for i := 0; i < 100; i++ {
		b, err := BuildFieldKey("res.partner", "name")
		if err != nil || b != a {
			t.Fatalf("key not stable: %q vs %q (err=%v)", a, b, err)
		}
	}
}

func TestBuildViewCommonKey(t *testing.T) {
	got, err := BuildViewCommonKey("sale.action_orders", TargetAIPurpose)
	if err != nil {
		t.Fatalf("BuildViewCommonKey: %v", err)
	}
	if got != "view_common::sale.action_orders::ai_purpose" {
		t.Fatalf("unexpected key %q", got)
	}

	if _, err := BuildViewCommonKey("", TargetHelp); err == nil {
		t.Fatal("expected error for empty xmlid")
	}
	if _, err := BuildViewCommonKey("sale.action_orders", Target("summary")); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestSplitRoundTrip(t *testing.T) {
	nk, err := BuildFieldKey("sale.order", "amount_total")
	if err != nil {
		t.Fatalf("BuildFieldKey: %v", err)
	}
	model, field, err := SplitFieldKey(nk)
	if err != nil {
		t.Fatalf("SplitFieldKey: %v", err)
	}
	if model != "sale.order" || field != "amount_total" {
		t.Fatalf("round trip mismatch: %q %q", model, field)
	}

	vk, err := BuildViewCommonKey("sale.action_orders", TargetHelp)
	if err != nil {
		t.Fatalf("BuildViewCommonKey: %v", err)
	}
	xmlid, target, err := SplitViewCommonKey(vk)
	if err != nil {
		t.Fatalf("SplitViewCommonKey: %v", err)
	}
	if xmlid != "sale.action_orders" || target != TargetHelp {
		t.Fatalf("round trip mismatch: %q %q", xmlid, target)
	}

	if _, _, err := SplitFieldKey("view_common::a::b"); err == nil {
		t.Fatal("expected error splitting wrong entity")
	}
	if _, _, err := SplitViewCommonKey("view_common::a::bogus"); err == nil {
		t.Fatal("expected error for bogus target")
	}
}

func TestParseEntity(t *testing.T) {
	if e, err := ParseEntity("field"); err != nil || e != EntityField {
		t.Fatalf("ParseEntity(field): %v %v", e, err)
	}
	if e, err := ParseEntity("view_common"); err != nil || e != EntityViewCommon {
		t.Fatalf("ParseEntity(view_common): %v %v", e, err)
	}
	if _, err := ParseEntity("menu"); err == nil {
		t.Fatal("expected error for unknown entity")
	}
}
