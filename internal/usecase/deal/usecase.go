package deal

import (
	"context"
	"errors"
	"time"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/criteria"
	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/interest"
	"dealmatch-backend/internal/domain/matching"
	"dealmatch-backend/internal/domain/uow"
	"dealmatch-backend/pkg/id"

	"go.uber.org/zap"
)

type Recorder interface {
	DealCreated()
}

type Usecase struct {
	deals     deal.Repository
	criteria  criteria.Repository
	interests interest.Repository
	uow       uow.UnitOfWork
	metrics   Recorder
	log       *zap.Logger
	now       func() time.Time
}

func NewUsecase(
	deals deal.Repository,
	crit criteria.Repository,
	interests interest.Repository,
	tx uow.UnitOfWork,
	metrics Recorder,
	log *zap.Logger,
) *Usecase {
	return &Usecase{
		deals:     deals,
		criteria:  crit,
		interests: interests,
		uow:       tx,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Create stores a new open deal owned by the calling broker.
func (u *Usecase) Create(ctx context.Context, p access.Principal, in CreateDealInput) (*DealDTO, error) {
	if err := access.Require(p, account.RoleBroker); err != nil {
		return nil, err
	}
	now := u.now().UTC()
	d := &deal.Deal{
		ID:                  id.NewID32(),
		BrokerID:            p.AccountID,
		Title:               in.Title,
		LoanType:            deal.LoanType(in.LoanType),
		Amount:              in.Amount,
		Region:              in.Region,
		BorrowerCreditScore: in.BorrowerCreditScore,
		LTVRatio:            in.LTVRatio,
		PropertyType:        in.PropertyType,
		Description:         in.Description,
		Status:              deal.StatusOpen,
		StatusUpdatedAt:     now,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := u.deals.Create(ctx, d); err != nil {
		return nil, err
	}
	u.metrics.DealCreated()
	u.logMatches(ctx, d)

	dto := toDTO(d)
	if p.IsLender() {
		dto = dto.forLender(p.AccountID)
	}
	return &dto, nil
}

// logMatches records how many lenders the new deal would reach. It never fails
// the creation; the deal is already committed.
func (u *Usecase) logMatches(ctx context.Context, d *deal.Deal) {
	active, err := u.criteria.ListActive(ctx)
	if err != nil {
		u.log.Warn("matching lenders lookup failed", zap.String("deal_id", d.ID), zap.Error(err))
		return
	}
	lenders := matching.MatchingLenders(d, active)
	u.log.Info("deal created",
		zap.String("deal_id", d.ID),
		zap.String("broker_id", d.BrokerID),
		zap.String("loan_type", string(d.LoanType)),
		zap.Int("matching_lenders", len(lenders)))
}

// ListMine returns the broker's deals, newest first, with interest counts.
func (u *Usecase) ListMine(ctx context.Context, p access.Principal) ([]BrokerDealDTO, error) {
	if err := access.Require(p, account.RoleBroker); err != nil {
		return nil, err
	}
	ds, err := u.deals.ListByBroker(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ds))
	for _, d := range ds {
		ids = append(ids, d.ID)
	}
	counts, err := u.interests.CountByDeals(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]BrokerDealDTO, 0, len(ds))
	for i := range ds {
		out = append(out, BrokerDealDTO{DealDTO: toDTO(&ds[i]), InterestCount: counts[ds[i].ID]})
	}
	return out, nil
}

// Get returns the deal to its owner or to a lender whose current criteria
// accept it. Everyone else gets the same not-found as for a missing id.
func (u *Usecase) Get(ctx context.Context, p access.Principal, dealID string) (*DealDTO, error) {
	if err := access.RequireAny(p); err != nil {
		return nil, err
	}
	d, err := u.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	switch {
	case p.IsBroker():
		if err := access.BrokerOwns(p, d); err != nil {
			return nil, err
		}
	case p.IsLender():
		c, err := u.criteria.GetActiveByLender(ctx, p.AccountID)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, deal.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if err := access.LenderMayView(p, d, c); err != nil {
			return nil, err
		}
	}
	dto := toDTO(d)
	return &dto, nil
}

// Close moves the broker's deal to closed. Closing twice returns the deal unchanged.
func (u *Usecase) Close(ctx context.Context, p access.Principal, dealID string) (*DealDTO, error) {
	if err := access.Require(p, account.RoleBroker); err != nil {
		return nil, err
	}
	var out DealDTO
	err := u.uow.WithinDealTx(ctx, dealID, func(r uow.Repos, d *deal.Deal) error {
		if err := access.BrokerOwns(p, d); err != nil {
			return err
		}
		if d.Close(u.now().UTC()) {
			if err := r.Deals.Save(ctx, d); err != nil {
				return err
			}
			u.log.Info("deal closed", zap.String("deal_id", d.ID), zap.String("broker_id", d.BrokerID))
		}
		out = toDTO(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectLender records which interested lender the broker proceeds with. The
// lender must hold an interest in the deal; the deal status is unchanged.
func (u *Usecase) SelectLender(ctx context.Context, p access.Principal, dealID, lenderID string) (*DealDTO, error) {
	if err := access.Require(p, account.RoleBroker); err != nil {
		return nil, err
	}
	var out DealDTO
	err := u.uow.WithinDealTx(ctx, dealID, func(r uow.Repos, d *deal.Deal) error {
		if err := access.BrokerOwns(p, d); err != nil {
			return err
		}
		if d.Closed() {
			return deal.ErrClosed
		}
		if _, err := r.Interests.GetByDealAndLender(ctx, d.ID, lenderID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Invalid("lender_id", "has not registered interest in this deal")
			}
			return err
		}
		changed, err := d.SelectLender(lenderID)
		if err != nil {
			return err
		}
		if changed {
			if err := r.Deals.Save(ctx, d); err != nil {
				return err
			}
			u.log.Info("lender selected", zap.String("deal_id", d.ID), zap.String("lender_id", lenderID))
		}
		out = toDTO(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Interests lists who registered interest in the broker's deal, oldest first.
func (u *Usecase) Interests(ctx context.Context, p access.Principal, dealID string) ([]InterestDTO, error) {
	if err := access.Require(p, account.RoleBroker); err != nil {
		return nil, err
	}
	d, err := u.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if err := access.BrokerOwns(p, d); err != nil {
		return nil, err
	}
	is, err := u.interests.ListByDeal(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	out := make([]InterestDTO, 0, len(is))
	for _, i := range is {
		out = append(out, InterestDTO{
			ID:           i.ID,
			DealID:       i.DealID,
			LenderID:     i.LenderID,
			InterestType: string(i.InterestType),
			Amount:       i.Amount,
			Message:      i.Message,
			CreatedAt:    i.CreatedAt,
			UpdatedAt:    i.UpdatedAt,
		})
	}
	return out, nil
}

// Feed returns every non-closed deal that passes the lender's current
// criteria, newest first. A lender without criteria gets an empty feed.
func (u *Usecase) Feed(ctx context.Context, p access.Principal) ([]DealDTO, error) {
	if err := access.Require(p, account.RoleLender); err != nil {
		return nil, err
	}
	c, err := u.criteria.GetActiveByLender(ctx, p.AccountID)
	if errors.Is(err, apperr.ErrNotFound) {
		return []DealDTO{}, nil
	}
	if err != nil {
		return nil, err
	}
	active, err := u.deals.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	feed := matching.Feed(active, c)
	out := make([]DealDTO, 0, len(feed))
	for i := range feed {
		out = append(out, toDTO(&feed[i]).forLender(p.AccountID))
	}
	return out, nil
}

func toDTO(d *deal.Deal) DealDTO {
	return DealDTO{
		ID:                  d.ID,
		BrokerID:            d.BrokerID,
		Title:               d.Title,
		LoanType:            string(d.LoanType),
		Amount:              d.Amount,
		Region:              d.Region,
		BorrowerCreditScore: d.BorrowerCreditScore,
		LTVRatio:            d.LTVRatio,
		PropertyType:        d.PropertyType,
		Description:         d.Description,
		Status:              string(d.Status),
		SelectedLenderID:    d.SelectedLenderID,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}
