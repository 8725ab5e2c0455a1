package services

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/devportal-backend/internal/repos/testutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

func newBootstrap(f *fixture, t *testing.T) BootstrapViewService {
	return NewBootstrapViewService(f.db, testutil.Logger(t), f.vcRepo, f.viewRepo)
}

func seedViewCommon(t *testing.T, f *fixture, xmlid, viewTypesJSON, primary string) *types.PortalViewCommon {
	t.Helper()
	vc := &types.PortalViewCommon{
		ActionXMLID:     xmlid,
		ModelTech:       "sale.order",
		ModelTable:      "sale_order",
		PrimaryViewType: primary,
	}
	if viewTypesJSON != "" {
		vc.ViewTypes = datatypes.JSON(viewTypesJSON)
	}
	if _, err := f.vcRepo.Upsert(context.Background(), nil, []*types.PortalViewCommon{vc}); err != nil {
		t.Fatalf("seed vc: %v", err)
	}
	return vc
}

func TestBootstrapCreatesSkeletonsAndPrimary(t *testing.T) {
	f := newFixture(t)
	svc := newBootstrap(f, t)
	ctx := context.Background()

	vc := seedViewCommon(t, f, "sale.action_orders", `["tree","form","kanban"]`, "list")

	res, err := svc.BootstrapByActionXMLIDs(ctx, BootstrapViewsInput{
		ActionXMLIDs:         []string{"sale.action_orders"},
		SetPrimaryFromCommon: true,
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if res.Created != 3 {
		t.Fatalf("result = %+v", res)
	}

	views, err := f.viewRepo.ListByCommon(ctx, nil, vc.ID)
	if err != nil {
		t.Fatalf("list views: %v", err)
	}
	byType := map[string]*types.PortalView{}
	for _, v := range views {
		byType[v.ViewType] = v
	}
	if len(byType) != 3 {
		t.Fatalf("views = %v", byType)
	}
	if _, ok := byType["tree"]; ok {
		t.Fatal("tree should alias to list")
	}
	if !byType["list"].IsPrimary {
		t.Fatal("list view not primary")
	}
	if byType["form"].IsPrimary || byType["kanban"].IsPrimary {
		t.Fatal("only one view may be primary")
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := newBootstrap(f, t)
	ctx := context.Background()

	vc := seedViewCommon(t, f, "sale.action_orders", `["list","form"]`, "")

	for i := 0; i < 2; i++ {
		if _, err := svc.BootstrapByActionXMLIDs(ctx, BootstrapViewsInput{
			ActionXMLIDs: []string{"sale.action_orders"},
		}); err != nil {
			t.Fatalf("bootstrap %d: %v", i, err)
		}
	}

	views, err := f.viewRepo.ListByCommon(ctx, nil, vc.ID)
	if err != nil {
		t.Fatalf("list views: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want upsert not duplicate", len(views))
	}
}

func TestBootstrapSkipsUnknownAndEmpty(t *testing.T) {
	f := newFixture(t)
	svc := newBootstrap(f, t)
	ctx := context.Background()

	seedViewCommon(t, f, "sale.action_empty", "", "")

	res, err := svc.BootstrapByActionXMLIDs(ctx, BootstrapViewsInput{
		ActionXMLIDs: []string{"sale.action_missing", "sale.action_empty"},
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if res.Created != 0 || res.Skipped != 2 {
		t.Fatalf("result = %+v", res)
	}
}
