package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
)

const (
	EventProposalCreated  = "proposal_created"
	EventProposalExecuted = "proposal_executed"
)

// RedisNotifier 把治理事件写入 Redis Stream，供动态流服务消费
type RedisNotifier struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewRedisNotifier 创建 Redis 通知器
func NewRedisNotifier(rdb *redis.Client, stream string) *RedisNotifier {
	return &RedisNotifier{
		rdb:    rdb,
		stream: stream,
		maxLen: 10000,
	}
}

// ProposalCreated 提案创建事件
func (n *RedisNotifier) ProposalCreated(ctx context.Context, proposal *model.GovernanceProposalModel) error {
	values := n.baseValues(EventProposalCreated, proposal)
	values["title"] = proposal.Title
	values["creator"] = proposal.CreatorAddress
	values["options"] = strings.Join(proposal.Options, "|")
	values["closes_at"] = proposal.ClosesAt.Unix()
	return n.publish(ctx, values)
}

// ProposalExecuted 提案执行事件
func (n *RedisNotifier) ProposalExecuted(ctx context.Context, proposal *model.GovernanceProposalModel) error {
	values := n.baseValues(EventProposalExecuted, proposal)
	approved := proposal.Approved != nil && *proposal.Approved
	values["approved"] = strconv.FormatBool(approved)
	values["yes_weight"] = proposal.YesWeight
	values["no_weight"] = proposal.NoWeight
	values["total_voters"] = proposal.TotalVoters
	values["milestone_action"] = proposal.MilestoneAction
	return n.publish(ctx, values)
}

func (n *RedisNotifier) baseValues(eventType string, proposal *model.GovernanceProposalModel) map[string]interface{} {
	values := map[string]interface{}{
		"event_id":      uuid.NewString(),
		"type":          eventType,
		"proposal_id":   proposal.Id,
		"proposal_type": string(proposal.ProposalType),
		"time":          time.Now().Unix(),
	}
	if proposal.CampaignId != nil {
		values["campaign_id"] = *proposal.CampaignId
	}
	if proposal.MilestoneIndex != nil {
		values["milestone_index"] = *proposal.MilestoneIndex
	}
	return values
}

func (n *RedisNotifier) publish(ctx context.Context, values map[string]interface{}) error {
	if err := n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.maxLen,
		Approx: true,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", values["type"], n.stream, err)
	}
	return nil
}
