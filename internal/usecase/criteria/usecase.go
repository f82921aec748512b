package criteria

import (
	"context"
	"time"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/account"
	domain "dealmatch-backend/internal/domain/criteria"
	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/uow"
	"dealmatch-backend/internal/usecase/retry"
	"dealmatch-backend/pkg/id"

	"go.uber.org/zap"
)

type Usecase struct {
	repo  domain.Repository
	uow   uow.UnitOfWork
	retry retry.Policy
	log   *zap.Logger
	now   func() time.Time
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, policy retry.Policy, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, uow: tx, retry: policy, log: log, now: time.Now}
}

// Replace supersedes the lender's current criteria with a new version. The
// lender's account row is locked, so two replacements never leave two active rows.
func (u *Usecase) Replace(ctx context.Context, p access.Principal, in ReplaceCriteriaInput) (*CriteriaDTO, error) {
	if err := access.Require(p, account.RoleLender); err != nil {
		return nil, err
	}
	types := make([]deal.LoanType, 0, len(in.LoanTypes))
	for _, t := range in.LoanTypes {
		types = append(types, deal.LoanType(t))
	}
	next := domain.Criteria{
		LenderID:       p.AccountID,
		LoanTypes:      types,
		MinAmount:      in.MinAmount,
		MaxAmount:      in.MaxAmount,
		Regions:        append([]string(nil), in.Regions...),
		CreditScoreMin: in.CreditScoreMin,
		LTVMax:         in.LTVMax,
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return nil, err
	}

	var saved domain.Criteria
	err := u.retry.OnConflict(ctx, u.log, "criteria.replace", func() error {
		return u.uow.WithinAccountTx(ctx, p.AccountID, func(r uow.Repos, _ *account.Account) error {
			latest, err := r.Criteria.LatestVersion(ctx, p.AccountID)
			if err != nil {
				return err
			}
			now := u.now().UTC()
			if err := r.Criteria.SupersedeActive(ctx, p.AccountID, now); err != nil {
				return err
			}
			row := next
			row.ID = id.NewID32()
			row.Version = latest + 1
			row.CreatedAt = now
			if err := r.Criteria.Create(ctx, &row); err != nil {
				return err
			}
			saved = row
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("criteria replaced", zap.String("lender_id", p.AccountID), zap.Int("version", saved.Version))
	dto := toDTO(&saved)
	return &dto, nil
}

// Current returns the lender's active criteria or criteria.ErrNotFound.
func (u *Usecase) Current(ctx context.Context, p access.Principal) (*CriteriaDTO, error) {
	if err := access.Require(p, account.RoleLender); err != nil {
		return nil, err
	}
	c, err := u.repo.GetActiveByLender(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

func toDTO(c *domain.Criteria) CriteriaDTO {
	types := make([]string, 0, len(c.LoanTypes))
	for _, t := range c.LoanTypes {
		types = append(types, string(t))
	}
	regions := c.Regions
	if regions == nil {
		regions = []string{}
	}
	return CriteriaDTO{
		ID:             c.ID,
		LenderID:       c.LenderID,
		Version:        c.Version,
		LoanTypes:      types,
		MinAmount:      c.MinAmount,
		MaxAmount:      c.MaxAmount,
		Regions:        regions,
		CreditScoreMin: c.CreditScoreMin,
		LTVMax:         c.LTVMax,
		CreatedAt:      c.CreatedAt,
	}
}
