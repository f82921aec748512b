package message

import (
	"context"
	"time"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/deal"
	domain "dealmatch-backend/internal/domain/message"
	"dealmatch-backend/pkg/id"

	"go.uber.org/zap"
)

// historyLimit caps how many of the latest messages a thread read returns.
const historyLimit = 100

// Usecase runs the message thread of a deal. Only the owner broker and the
// lender the broker selected take part; everyone else sees the deal as missing.
type Usecase struct {
	deals    deal.Repository
	messages domain.Repository
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(deals deal.Repository, messages domain.Repository, log *zap.Logger) *Usecase {
	return &Usecase{deals: deals, messages: messages, log: log, now: time.Now}
}

// Send appends to an open deal's thread. Closed deals keep their history
// readable but accept no new messages.
func (u *Usecase) Send(ctx context.Context, p access.Principal, in SendInput) (*MessageDTO, error) {
	if err := access.RequireAny(p); err != nil {
		return nil, err
	}
	m := &domain.Message{
		ID:         id.NewID32(),
		DealID:     in.DealID,
		SenderID:   p.AccountID,
		SenderRole: p.Role,
		Body:       in.Body,
		CreatedAt:  u.now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	d, err := u.thread(ctx, p, in.DealID)
	if err != nil {
		return nil, err
	}
	if d.Closed() {
		return nil, deal.ErrClosed
	}
	if err := u.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	u.log.Info("message sent",
		zap.String("deal_id", d.ID),
		zap.String("sender_id", p.AccountID),
		zap.String("sender_role", string(p.Role)),
	)
	dto := toDTO(m)
	return &dto, nil
}

// List returns the latest messages of the deal's thread, oldest first.
func (u *Usecase) List(ctx context.Context, p access.Principal, dealID string) ([]MessageDTO, error) {
	if err := access.RequireAny(p); err != nil {
		return nil, err
	}
	d, err := u.thread(ctx, p, dealID)
	if err != nil {
		return nil, err
	}
	ms, err := u.messages.ListByDeal(ctx, d.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	out := make([]MessageDTO, 0, len(ms))
	for i := range ms {
		out = append(out, toDTO(&ms[i]))
	}
	return out, nil
}

func (u *Usecase) thread(ctx context.Context, p access.Principal, dealID string) (*deal.Deal, error) {
	d, err := u.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if err := access.MayConverse(p, d); err != nil {
		return nil, err
	}
	return d, nil
}

func toDTO(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:         m.ID,
		DealID:     m.DealID,
		SenderID:   m.SenderID,
		SenderRole: string(m.SenderRole),
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}
