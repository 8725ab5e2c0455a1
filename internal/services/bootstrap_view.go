package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/devportal-backend/internal/pkg/errors"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/types"
)

type BootstrapViewsInput struct {
	ActionXMLIDs         []string
	SetPrimaryFromCommon bool
}

type BootstrapViewsResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// BootstrapViewService materializes view skeleton rows from each action's
// declared view_types and optionally promotes the common's primary view.
type BootstrapViewService interface {
	BootstrapByActionXMLIDs(ctx context.Context, in BootstrapViewsInput) (*BootstrapViewsResult, error)
	SetPrimary(ctx context.Context, actionXMLID, viewType string) error
}

type bootstrapViewService struct {
	db       *gorm.DB
	log      *logger.Logger
	vcRepo   repos.PortalViewCommonRepo
	viewRepo repos.PortalViewRepo
}

func NewBootstrapViewService(db *gorm.DB, log *logger.Logger, vcRepo repos.PortalViewCommonRepo, viewRepo repos.PortalViewRepo) BootstrapViewService {
	serviceLog := log.With("service", "BootstrapViewService")
	return &bootstrapViewService{
		db:       db,
		log:      serviceLog,
		vcRepo:   vcRepo,
		viewRepo: viewRepo,
	}
}

func (s *bootstrapViewService) BootstrapByActionXMLIDs(ctx context.Context, in BootstrapViewsInput) (*BootstrapViewsResult, error) {
	res := &BootstrapViewsResult{}

	for _, xmlid := range in.ActionXMLIDs {
		vc, err := s.vcRepo.GetByXMLID(ctx, nil, xmlid)
		if err != nil {
			res.Skipped++
			continue
		}

		var declared []string
		if len(vc.ViewTypes) > 0 {
			if err := json.Unmarshal(vc.ViewTypes, &declared); err != nil {
				s.log.Warn("bootstrap skip: unreadable view_types", "action_xmlid", xmlid, "error", err)
				res.Skipped++
				continue
			}
		}
		viewTypes := types.SplitViewMode(strings.Join(declared, ","))
		if len(viewTypes) == 0 {
			res.Skipped++
			continue
		}

		skeletons := make([]*types.PortalView, 0, len(viewTypes))
		for _, vt := range viewTypes {
			skeletons = append(skeletons, &types.PortalView{
				CommonID: vc.ID,
				ViewType: vt,
				Model:    vc.ModelTech,
				Enabled:  true,
			})
		}
		if _, err := s.viewRepo.Upsert(ctx, nil, skeletons); err != nil {
			return nil, err
		}
		res.Created += len(skeletons)

		if in.SetPrimaryFromCommon {
			primary := types.NormalizeViewType(vc.PrimaryViewType)
			if primary != "" && contains(viewTypes, primary) {
				if err := s.viewRepo.SetPrimary(ctx, nil, vc.ID, primary); err != nil {
					return nil, err
				}
			}
		}
	}
	return res, nil
}

// SetPrimary promotes one view of an action to primary. The view skeleton
// must already exist.
func (s *bootstrapViewService) SetPrimary(ctx context.Context, actionXMLID, viewType string) error {
	vc, err := s.vcRepo.GetByXMLID(ctx, nil, strings.ToLower(strings.TrimSpace(actionXMLID)))
	if err != nil {
		return err
	}
	vt := types.NormalizeViewType(viewType)
	if vt == "" {
		return fmt.Errorf("unknown view type %q: %w", viewType, pkgerrors.ErrInvalidArgument)
	}
	if _, err := s.viewRepo.GetByCommonAndType(ctx, nil, vc.ID, vt); err != nil {
		return err
	}
	return s.viewRepo.SetPrimary(ctx, nil, vc.ID, vt)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
