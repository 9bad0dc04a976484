package notify

import (
	"context"

	"github.com/shariqazeem/umanity-social-sub000/internal/model"
)

// Notifier 治理事件下游通知，调用方只记录错误不重试
type Notifier interface {
	ProposalCreated(ctx context.Context, proposal *model.GovernanceProposalModel) error
	ProposalExecuted(ctx context.Context, proposal *model.GovernanceProposalModel) error
}

// NopNotifier 不发送任何通知
type NopNotifier struct{}

func (NopNotifier) ProposalCreated(context.Context, *model.GovernanceProposalModel) error {
	return nil
}

func (NopNotifier) ProposalExecuted(context.Context, *model.GovernanceProposalModel) error {
	return nil
}
