package repos

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/repos/testutil"
	"github.com/yungbote/devportal-backend/internal/types"
)

func seedCommon(t *testing.T, gdb *gorm.DB, xmlid string) *types.PortalViewCommon {
	t.Helper()
	common := &types.PortalViewCommon{
		ActionXMLID: xmlid,
		ActionName:  "Quotations",
		ModelTech:   "sale.order",
	}
	if err := gdb.Create(common).Error; err != nil {
		t.Fatalf("seed common: %v", err)
	}
	return common
}

func TestPortalViewUpsertCollapses(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewPortalViewRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	common := seedCommon(t, gdb, "sale.action_quotations")

	for i := 0; i < 2; i++ {
		_, err := repo.Upsert(ctx, nil, []*types.PortalView{{
			CommonID: common.ID,
			ViewType: "list",
			Model:    "sale.order",
			Enabled:  true,
		}})
		if err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	views, err := repo.ListByCommon(ctx, nil, common.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want identical upserts to collapse to 1", len(views))
	}
}

func TestPortalViewSetPrimaryIsExclusive(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewPortalViewRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	common := seedCommon(t, gdb, "sale.action_orders")

	_, err := repo.Upsert(ctx, nil, []*types.PortalView{
		{CommonID: common.ID, ViewType: "form", Model: "sale.order", Enabled: true},
		{CommonID: common.ID, ViewType: "list", Model: "sale.order", Enabled: true},
		{CommonID: common.ID, ViewType: "kanban", Model: "sale.order", Enabled: true},
	})
	if err != nil {
		t.Fatalf("seed views: %v", err)
	}

	if err := repo.SetPrimary(ctx, nil, common.ID, "form"); err != nil {
		t.Fatalf("set primary form: %v", err)
	}
	if err := repo.SetPrimary(ctx, nil, common.ID, "list"); err != nil {
		t.Fatalf("set primary list: %v", err)
	}

	views, err := repo.ListByCommon(ctx, nil, common.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var primaries []string
	for _, v := range views {
		if v.IsPrimary {
			primaries = append(primaries, v.ViewType)
		}
	}
	if len(primaries) != 1 || primaries[0] != "list" {
		t.Fatalf("primaries = %v, want exactly [list]", primaries)
	}

	var updated types.PortalViewCommon
	if err := gdb.First(&updated, common.ID).Error; err != nil {
		t.Fatalf("reload common: %v", err)
	}
	if updated.PrimaryViewType != "list" {
		t.Fatalf("primary_view_type = %q, want list", updated.PrimaryViewType)
	}
}

func TestPortalViewSetPrimaryNormalizesAlias(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewPortalViewRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	common := seedCommon(t, gdb, "sale.action_orders_tree")

	_, err := repo.Upsert(ctx, nil, []*types.PortalView{
		{CommonID: common.ID, ViewType: "list", Model: "sale.order", Enabled: true},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Legacy callers still say "tree".
	if err := repo.SetPrimary(ctx, nil, common.ID, "tree"); err != nil {
		t.Fatalf("set primary tree: %v", err)
	}
	view, err := repo.GetByCommonAndType(ctx, nil, common.ID, "tree")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.IsPrimary || view.ViewType != "list" {
		t.Fatalf("view = %+v, want primary list view", view)
	}
}

func TestPortalViewSetPrimaryMissingView(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewPortalViewRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	common := seedCommon(t, gdb, "sale.action_missing")

	if err := repo.SetPrimary(ctx, nil, common.ID, "pivot"); err == nil {
		t.Fatal("SetPrimary on a missing view must fail")
	}
}
