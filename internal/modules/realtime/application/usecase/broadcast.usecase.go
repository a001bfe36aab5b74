package usecase

import (
	"context"

	"smartWaiter/internal/modules/realtime/application/port"
	"smartWaiter/internal/modules/realtime/domain"
)

// BroadcastUseCase fans a message out to every configured destination in order.
type BroadcastUseCase struct {
	broadcasters []port.Broadcaster
}

func NewBroadcastUseCase(broadcasters ...port.Broadcaster) *BroadcastUseCase {
	targets := make([]port.Broadcaster, 0, len(broadcasters))
	for _, b := range broadcasters {
		if b != nil {
			targets = append(targets, b)
		}
	}
	return &BroadcastUseCase{broadcasters: targets}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if uc == nil || msg == nil {
		return
	}
	for _, b := range uc.broadcasters {
		b.Broadcast(ctx, msg)
	}
}

// Broadcast lets the use case stand in wherever a single port.Broadcaster is expected.
func (uc *BroadcastUseCase) Broadcast(ctx context.Context, msg *domain.Message) {
	uc.Execute(ctx, msg)
}
