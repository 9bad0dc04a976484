package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shariqazeem/umanity-social-sub000/internal/chain"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// CampaignLogic 活动与里程碑业务逻辑
type CampaignLogic struct {
	db         *gorm.DB
	campaigns  *repository.CampaignRepository
	milestones *repository.MilestoneRepository
	donations  *repository.DonationRepository
	clock      Clock
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(db *gorm.DB, clock Clock) *CampaignLogic {
	return &CampaignLogic{
		db:         db,
		campaigns:  repository.NewCampaignRepository(db),
		milestones: repository.NewMilestoneRepository(db),
		donations:  repository.NewDonationRepository(db),
		clock:      clock,
	}
}

// MilestoneInput 创建活动时的里程碑定义
type MilestoneInput struct {
	Description string          `json:"description"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	PoolId       string           `json:"pool_id"`
	Recipient    string           `json:"recipient"`
	TargetAmount decimal.Decimal  `json:"target_amount"`
	Deadline     time.Time        `json:"deadline"`
	IsActive     *bool            `json:"is_active"`
	Milestones   []MilestoneInput `json:"milestones"`
}

// CreateCampaign 创建活动及其全部里程碑，里程碑初始为 pending
func (c *CampaignLogic) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*model.CampaignModel, error) {
	if err := c.validateCampaign(req); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	campaign := &model.CampaignModel{
		PoolId:       strings.TrimSpace(req.PoolId),
		Recipient:    req.Recipient,
		TargetAmount: req.TargetAmount,
		TotalRaised:  decimal.Zero,
		Deadline:     req.Deadline.UTC(),
		IsActive:     isActive,
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := c.campaigns.WithTx(tx).Create(ctx, campaign); err != nil {
			return fmt.Errorf("create campaign: %w", err)
		}

		milestones := make([]model.CampaignMilestoneModel, len(req.Milestones))
		for i, m := range req.Milestones {
			milestones[i] = model.CampaignMilestoneModel{
				CampaignId:  campaign.Id,
				Index:       i,
				Description: m.Description,
				Percentage:  m.Percentage,
				Status:      model.MilestoneStatusPending,
			}
		}
		if err := c.milestones.WithTx(tx).CreateBatch(ctx, milestones); err != nil {
			return fmt.Errorf("create milestones: %w", err)
		}
		campaign.Milestones = milestones
		return nil
	})
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

// ListCampaigns 获取活动列表
func (c *CampaignLogic) ListCampaigns(ctx context.Context) ([]model.CampaignModel, error) {
	campaigns, err := c.campaigns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

// GetCampaign 获取活动详情，包含里程碑
func (c *CampaignLogic) GetCampaign(ctx context.Context, id int64) (*model.CampaignModel, error) {
	campaign, err := c.findCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	milestones, err := c.milestones.ListByCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	campaign.Milestones = milestones
	return campaign, nil
}

func (c *CampaignLogic) findCampaign(ctx context.Context, id int64) (*model.CampaignModel, error) {
	campaign, err := c.campaigns.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return campaign, nil
}

// GetCampaignByPoolId 按捐赠池获取活动
func (c *CampaignLogic) GetCampaignByPoolId(ctx context.Context, poolId string) (*model.CampaignModel, error) {
	campaign, err := c.campaigns.GetByPoolId(ctx, poolId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("get campaign by pool: %w", err)
	}
	return campaign, nil
}

// GetMilestones 获取活动里程碑，按序号升序
func (c *CampaignLogic) GetMilestones(ctx context.Context, campaignId int64) ([]model.CampaignMilestoneModel, error) {
	if _, err := c.findCampaign(ctx, campaignId); err != nil {
		return nil, err
	}
	return c.milestones.ListByCampaign(ctx, campaignId)
}

// ListDonations 分页获取活动的捐赠记录
func (c *CampaignLogic) ListDonations(ctx context.Context, campaignId int64, page, pageSize int) ([]model.DonationRecordModel, int64, error) {
	campaign, err := c.findCampaign(ctx, campaignId)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, total, err := c.donations.ListByPool(ctx, campaign.PoolId, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	return records, total, nil
}

// MarkMilestoneReleased 链上转账完成后登记释放
func (c *CampaignLogic) MarkMilestoneReleased(ctx context.Context, campaignId int64, index int, signature string) (*model.CampaignMilestoneModel, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, invalid("release transaction signature is required")
	}

	if _, err := c.milestones.Get(ctx, campaignId, index); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}

	ok, err := c.milestones.MarkReleased(ctx, campaignId, index, signature, c.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("mark milestone released: %w", err)
	}
	if !ok {
		return nil, ErrMilestoneNotApproved
	}

	return c.milestones.Get(ctx, campaignId, index)
}

// validateCampaign 验证活动数据
func (c *CampaignLogic) validateCampaign(req CreateCampaignRequest) error {
	if strings.TrimSpace(req.PoolId) == "" {
		return invalid("pool_id is required")
	}
	if err := chain.ValidateAddress(req.Recipient); err != nil {
		return invalid("recipient: " + err.Error())
	}
	if !req.TargetAmount.IsPositive() {
		return invalid("target_amount must be greater than 0")
	}
	if req.Deadline.IsZero() {
		return invalid("deadline is required")
	}
	if len(req.Milestones) == 0 {
		return invalid("at least one milestone is required")
	}

	total := decimal.Zero
	for i, m := range req.Milestones {
		if !m.Percentage.IsPositive() || m.Percentage.GreaterThan(hundred) {
			return invalid(fmt.Sprintf("milestone %d percentage must be within (0, 100]", i))
		}
		total = total.Add(m.Percentage)
	}
	if total.GreaterThan(hundred) {
		return invalid("milestone percentages must not exceed 100 in total")
	}
	return nil
}
