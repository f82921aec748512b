package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dealmatch-backend/internal/domain/access"
	domain "dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/uow"
	"dealmatch-backend/pkg/id"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

type TokenIssuer interface {
	Issue(accountID string, role domain.Role) (token string, expiresAt time.Time, err error)
}

type Usecase struct {
	repo   domain.Repository
	uow    uow.UnitOfWork
	tokens TokenIssuer
	log    *zap.Logger
	cost   int
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, tokens TokenIssuer, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, uow: tx, tokens: tokens, log: log, cost: bcrypt.DefaultCost, now: time.Now}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*AccountDTO, error) {
	a := &domain.Account{
		ID:          id.NewID32(),
		Role:        domain.Role(in.Role),
		Email:       domain.NormalizeEmail(in.Email),
		DisplayName: in.DisplayName,
	}
	ve := &apperr.ValidationError{}
	if err := a.Validate(); err != nil {
		errors.As(err, &ve)
	}
	if n := len(in.Password); n < minPasswordLen || n > maxPasswordLen {
		ve.Add("password", fmt.Sprintf("must be %d to %d bytes", minPasswordLen, maxPasswordLen))
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a.PasswordHash = string(hash)

	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	u.log.Info("account registered", zap.String("account_id", a.ID), zap.String("role", string(a.Role)))
	dto := toDTO(a)
	return &dto, nil
}

func (u *Usecase) Login(ctx context.Context, in LoginInput) (*SessionDTO, error) {
	a, err := u.repo.GetByEmail(ctx, domain.NormalizeEmail(in.Email))
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		// burn the same bcrypt time as a real check so unknown emails are not observable
		_ = bcrypt.CompareHashAndPassword(u.dummy(), []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := u.tokens.Issue(a.ID, a.Role)
	if err != nil {
		return nil, err
	}
	return &SessionDTO{Account: toDTO(a), Token: token, ExpiresAt: exp}, nil
}

func (u *Usecase) Profile(ctx context.Context, p access.Principal) (*AccountDTO, error) {
	if err := access.RequireAny(p); err != nil {
		return nil, err
	}
	a, err := u.repo.GetByID(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(a)
	return &dto, nil
}

// Deactivate soft-deletes the caller's account. A broker's unfinished deals are
// closed and a lender's criteria superseded in the same tx, so nothing stays
// matchable after the account is gone.
func (u *Usecase) Deactivate(ctx context.Context, p access.Principal) error {
	if err := access.RequireAny(p); err != nil {
		return err
	}
	now := u.now().UTC()
	var closed int64
	err := u.uow.WithinAccountTx(ctx, p.AccountID, func(r uow.Repos, a *domain.Account) error {
		switch a.Role {
		case domain.RoleBroker:
			n, err := r.Deals.CloseAllByBroker(ctx, a.ID, now)
			if err != nil {
				return err
			}
			closed = n
		case domain.RoleLender:
			if err := r.Criteria.SupersedeActive(ctx, a.ID, now); err != nil {
				return err
			}
		}
		return r.Accounts.Deactivate(ctx, a.ID)
	})
	if err != nil {
		return err
	}
	u.log.Info("account deactivated",
		zap.String("account_id", p.AccountID),
		zap.String("role", string(p.Role)),
		zap.Int64("deals_closed", closed))
	return nil
}

func (u *Usecase) dummy() []byte {
	u.dummyOnce.Do(func() {
		u.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dealmatch-dummy-password"), u.cost)
	})
	return u.dummyHash
}

func toDTO(a *domain.Account) AccountDTO {
	return AccountDTO{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
		CreatedAt:   a.CreatedAt,
	}
}
