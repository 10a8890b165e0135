package projects

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, p *Project) error
	Get(ctx context.Context, tenant string, id ProjectID) (*Project, error)
	GetOwned(ctx context.Context, tenant, owner string, id ProjectID) (*Project, error)
	ListByOwner(ctx context.Context, tenant, owner string) ([]*Project, error)
	ListByApproval(ctx context.Context, tenant string, status ApprovalStatus) ([]*Project, error)
	ListAll(ctx context.Context, tenant string) ([]*Project, error)
	Delete(ctx context.Context, tenant, owner string, id ProjectID) error
	CountByApproval(ctx context.Context, tenant string) (pending, approved, rejected, total int64, err error)
}
