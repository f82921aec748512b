package interest

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/deal"
	domain "dealmatch-backend/internal/domain/interest"
	"dealmatch-backend/internal/domain/matching"
	"dealmatch-backend/internal/domain/uow"
	"dealmatch-backend/internal/usecase/retry"
	"dealmatch-backend/pkg/id"

	"go.uber.org/zap"
)

type Recorder interface {
	InterestSubmitted(outcome string)
}

type Usecase struct {
	repo    domain.Repository
	uow     uow.UnitOfWork
	retry   retry.Policy
	metrics Recorder
	log     *zap.Logger
	now     func() time.Time
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, policy retry.Policy, metrics Recorder, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, uow: tx, retry: policy, metrics: metrics, log: log, now: time.Now}
}

// Submit records the lender's interest in a deal, or updates it when the lender
// already registered one. Everything runs under the deal's row lock: the deal
// state and the lender's criteria are re-read there, so a deal closed or a
// criteria change committed earlier is always seen.
func (u *Usecase) Submit(ctx context.Context, p access.Principal, in SubmitInput) (*SubmitResult, error) {
	res, err := u.submit(ctx, p, in)
	u.metrics.InterestSubmitted(outcome(res, err))
	return res, err
}

func (u *Usecase) submit(ctx context.Context, p access.Principal, in SubmitInput) (*SubmitResult, error) {
	if err := access.Require(p, account.RoleLender); err != nil {
		return nil, err
	}
	typ := domain.Type(in.InterestType)
	// the deal amount is only known under the lock; check the rest up-front
	if err := domain.ValidateTerms(typ, in.Amount, math.Inf(1)); err != nil {
		return nil, err
	}
	message := strings.TrimSpace(in.Message)

	var res SubmitResult
	err := u.retry.OnConflict(ctx, u.log, "interest.submit", func() error {
		return u.uow.WithinDealTx(ctx, in.DealID, func(r uow.Repos, d *deal.Deal) error {
			if d.Closed() {
				return deal.ErrClosed
			}
			c, err := r.Criteria.GetActiveByLender(ctx, p.AccountID)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return err
			}
			if !matching.Eligible(d, c) {
				u.log.Info("interest rejected",
					zap.String("deal_id", d.ID),
					zap.String("lender_id", p.AccountID),
					zap.Any("failed_filters", matching.Check(d, c)))
				return apperr.ErrIneligible
			}
			if err := domain.ValidateTerms(typ, in.Amount, d.Amount); err != nil {
				return err
			}

			now := u.now().UTC()
			existing, err := r.Interests.GetByDealAndLender(ctx, d.ID, p.AccountID)
			switch {
			case errors.Is(err, apperr.ErrNotFound):
				i := &domain.Interest{
					ID:           id.NewID32(),
					DealID:       d.ID,
					LenderID:     p.AccountID,
					InterestType: typ,
					Amount:       in.Amount,
					Message:      message,
				}
				if err := r.Interests.Create(ctx, i); err != nil {
					return err
				}
				res = SubmitResult{Interest: toDTO(i), Created: true}
			case err != nil:
				return err
			default:
				existing.InterestType = typ
				existing.Amount = in.Amount
				existing.Message = message
				if err := r.Interests.Save(ctx, existing); err != nil {
					return err
				}
				res = SubmitResult{Interest: toDTO(existing)}
			}

			if d.MarkMatched(now) {
				if err := r.Deals.Save(ctx, d); err != nil {
					return err
				}
			}
			res.Interest.DealStatus = string(d.Status)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("interest recorded",
		zap.String("deal_id", in.DealID),
		zap.String("lender_id", p.AccountID),
		zap.String("interest_type", string(typ)),
		zap.Bool("created", res.Created))
	return &res, nil
}

// ListMine returns the lender's interests, most recently touched first.
func (u *Usecase) ListMine(ctx context.Context, p access.Principal) ([]InterestDTO, error) {
	if err := access.Require(p, account.RoleLender); err != nil {
		return nil, err
	}
	is, err := u.repo.ListByLender(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	out := make([]InterestDTO, 0, len(is))
	for i := range is {
		out = append(out, toDTO(&is[i]))
	}
	return out, nil
}

func outcome(res *SubmitResult, err error) string {
	switch {
	case err == nil && res.Created:
		return "created"
	case err == nil:
		return "updated"
	case errors.Is(err, apperr.ErrValidation):
		return "invalid"
	case errors.Is(err, apperr.ErrUnauthorized), errors.Is(err, apperr.ErrForbidden):
		return "denied"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrDealClosed):
		return "deal_closed"
	case errors.Is(err, apperr.ErrIneligible):
		return "ineligible"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	case errors.Is(err, apperr.ErrUnavailable):
		return "unavailable"
	}
	return "error"
}

func toDTO(i *domain.Interest) InterestDTO {
	return InterestDTO{
		ID:           i.ID,
		DealID:       i.DealID,
		LenderID:     i.LenderID,
		InterestType: string(i.InterestType),
		Amount:       i.Amount,
		Message:      i.Message,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
