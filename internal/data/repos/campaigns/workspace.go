package campaigns

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/moonshill-backend/internal/domain"
	"github.com/yungbote/moonshill-backend/internal/pkg/dbctx"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type WorkspaceRepo interface {
	Create(dbc dbctx.Context, w *types.Workspace) (*types.Workspace, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Workspace, error)
}

type workspaceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkspaceRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceRepo {
	return &workspaceRepo{
		db:  db,
		log: baseLog.With("repo", "WorkspaceRepo"),
	}
}

func (r *workspaceRepo) Create(dbc dbctx.Context, w *types.Workspace) (*types.Workspace, error) {
	if w == nil {
		return nil, errors.New("workspace is nil")
	}
	if err := dbc.Or(r.db).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *workspaceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Workspace, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var w types.Workspace
	if err := dbc.Or(r.db).Where("id = ?", id).Limit(1).Find(&w).Error; err != nil {
		return nil, err
	}
	if w.ID == uuid.Nil {
		return nil, nil
	}
	return &w, nil
}
