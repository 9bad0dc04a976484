package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/shariqazeem/umanity-social-sub000/internal/chain"
	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DonationEvent 上游确认的一笔捐赠
type DonationEvent struct {
	PoolId    string          `json:"pool_id"`
	Donor     string          `json:"donor"`
	Amount    decimal.Decimal `json:"amount"`
	Signature string          `json:"signature"`
}

// DonationResult 捐赠登记结果
type DonationResult struct {
	Record       *model.DonationRecordModel `json:"record"`
	Duplicate    bool                       `json:"duplicate"`
	RewardPoints int64                      `json:"reward_points"`
}

// DonationProcessor 捐赠事件处理器
//
// 捐赠记录与募资总额在同一事务中写入，里程碑检测在协程池中异步执行。
type DonationProcessor struct {
	db           *gorm.DB
	donations    *repository.DonationRepository
	campaigns    *repository.CampaignRepository
	users        *repository.UserRepository
	threshold    *logic.ThresholdLogic
	pointsPerSol int64
	pool         *ants.Pool
	wg           sync.WaitGroup
}

// NewDonationProcessor 创建捐赠事件处理器
func NewDonationProcessor(db *gorm.DB, threshold *logic.ThresholdLogic, pointsPerSol int64, poolSize int) (*DonationProcessor, error) {
	if poolSize <= 0 {
		poolSize = 16
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create donation pool: %w", err)
	}

	return &DonationProcessor{
		db:           db,
		donations:    repository.NewDonationRepository(db),
		campaigns:    repository.NewCampaignRepository(db),
		users:        repository.NewUserRepository(db),
		threshold:    threshold,
		pointsPerSol: pointsPerSol,
		pool:         pool,
	}, nil
}

// Process 登记捐赠并累加募资总额，发放积分并提交里程碑检测
//
// 同一交易签名只处理一次。积分与里程碑检测失败只记录日志。
func (p *DonationProcessor) Process(ctx context.Context, donation DonationEvent) (*DonationResult, error) {
	if err := validateDonation(donation); err != nil {
		return nil, err
	}

	points := RewardPoints(donation.Amount, p.pointsPerSol)
	record := &model.DonationRecordModel{
		PoolId:       donation.PoolId,
		Donor:        donation.Donor,
		Amount:       donation.Amount,
		Signature:    donation.Signature,
		RewardPoints: points,
	}

	var inserted bool
	var raised *logic.RaisedChange
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inserted, err = p.donations.WithTx(tx).Insert(ctx, record)
		if err != nil {
			return fmt.Errorf("record donation: %w", err)
		}
		if !inserted {
			return nil
		}
		raised, err = p.addRaised(ctx, tx, donation)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !inserted {
		logger.Info("Donation %s already processed, skipping", donation.Signature)
		return &DonationResult{Duplicate: true}, nil
	}

	p.creditPoints(ctx, donation.Donor, points)
	if raised != nil {
		p.submitThresholdCheck(raised, donation.Donor)
	}

	logger.Info("Processed donation: %s SOL from %s to pool %s (%d points)",
		donation.Amount.String(), donation.Donor, donation.PoolId, points)
	return &DonationResult{Record: record, RewardPoints: points}, nil
}

// addRaised 累加活动募资总额，没有对应活动时返回 nil
func (p *DonationProcessor) addRaised(ctx context.Context, tx *gorm.DB, donation DonationEvent) (*logic.RaisedChange, error) {
	campaigns := p.campaigns.WithTx(tx)
	campaign, err := campaigns.GetByPoolId(ctx, donation.PoolId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("No campaign for pool %s, donation %s recorded without milestone check", donation.PoolId, donation.Signature)
			return nil, nil
		}
		return nil, fmt.Errorf("load campaign for pool %s: %w", donation.PoolId, err)
	}

	prev, next, err := campaigns.AddRaised(ctx, campaign.Id, donation.Amount)
	if err != nil {
		return nil, fmt.Errorf("update raised total for campaign %d: %w", campaign.Id, err)
	}
	campaign.TotalRaised = next
	return &logic.RaisedChange{Campaign: campaign, Prev: prev, Next: next}, nil
}

// creditPoints 为捐赠者增加积分，首次捐赠自动注册
func (p *DonationProcessor) creditPoints(ctx context.Context, donor string, points int64) {
	if points <= 0 {
		return
	}
	if _, err := p.users.CreateIfAbsent(ctx, &model.UserModel{Address: donor}); err != nil {
		logger.Error("Failed to register donor %s (non-blocking): %v", donor, err)
		return
	}
	if _, err := p.users.AddPoints(ctx, donor, points); err != nil {
		logger.Error("Failed to credit %d points to %s (non-blocking): %v", points, donor, err)
	}
}

// submitThresholdCheck 异步执行里程碑检测，不阻塞捐赠
func (p *DonationProcessor) submitThresholdCheck(raised *logic.RaisedChange, donor string) {
	campaignId := raised.Campaign.Id
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Milestone check for campaign %d panicked: %v", campaignId, r)
			}
		}()
		p.threshold.CheckMilestones(context.Background(), raised, donor)
	})
	if err != nil {
		p.wg.Done()
		logger.Error("Failed to submit milestone check for campaign %d: %v", campaignId, err)
	}
}

// Wait 等待已提交的里程碑检测完成
func (p *DonationProcessor) Wait() {
	p.wg.Wait()
}

// Release 等待任务完成后释放协程池
func (p *DonationProcessor) Release() {
	p.Wait()
	p.pool.Release()
}

// RewardPoints 捐赠积分，向下取整
func RewardPoints(amount decimal.Decimal, pointsPerSol int64) int64 {
	if !amount.IsPositive() || pointsPerSol <= 0 {
		return 0
	}
	return amount.Mul(decimal.NewFromInt(pointsPerSol)).Floor().IntPart()
}

func validateDonation(donation DonationEvent) error {
	if strings.TrimSpace(donation.PoolId) == "" {
		return fmt.Errorf("%w: pool_id is required", logic.ErrValidation)
	}
	if err := chain.ValidateAddress(donation.Donor); err != nil {
		return fmt.Errorf("%w: donor: %v", logic.ErrValidation, err)
	}
	if !donation.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", logic.ErrValidation)
	}
	if strings.TrimSpace(donation.Signature) == "" {
		return fmt.Errorf("%w: signature is required", logic.ErrValidation)
	}
	return nil
}
