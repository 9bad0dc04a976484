package logic

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shariqazeem/umanity-social-sub000/internal/chain"
	"github.com/shariqazeem/umanity-social-sub000/internal/config"
	"github.com/shariqazeem/umanity-social-sub000/internal/database/dbtest"
	"github.com/shariqazeem/umanity-social-sub000/internal/model"
	"github.com/shariqazeem/umanity-social-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu       sync.Mutex
	created  []int64
	executed []int64
}

func (n *recordingNotifier) ProposalCreated(_ context.Context, p *model.GovernanceProposalModel) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, p.Id)
	return nil
}

func (n *recordingNotifier) ProposalExecuted(_ context.Context, p *model.GovernanceProposalModel) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.executed = append(n.executed, p.Id)
	return nil
}

type testEnv struct {
	db         *gorm.DB
	clock      *fakeClock
	notifier   *recordingNotifier
	users      *UserLogic
	campaigns  *CampaignLogic
	proposals  *ProposalLogic
	votes      *VoteLogic
	execution  *ExecutionLogic
	threshold  *ThresholdLogic
	tally      *TallyLogic
	milestones *repository.MilestoneRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.New(t)
	clock := &fakeClock{now: testStart}
	notifier := &recordingNotifier{}
	proposals := NewProposalLogic(db, notifier, clock, config.DefaultGovernance())

	return &testEnv{
		db:         db,
		clock:      clock,
		notifier:   notifier,
		users:      NewUserLogic(db),
		campaigns:  NewCampaignLogic(db, clock),
		proposals:  proposals,
		votes:      NewVoteLogic(db, clock),
		execution:  NewExecutionLogic(db, notifier, clock),
		threshold:  NewThresholdLogic(db, proposals),
		tally:      NewTallyLogic(db),
		milestones: repository.NewMilestoneRepository(db),
	}
}

func testAddress(seed byte) string {
	var key [chain.PublicKeyLength]byte
	for i := range key {
		key[i] = seed
	}
	return chain.EncodeAddress(key)
}

// seedCampaign 目标 10 SOL，里程碑 30/30/40
func (e *testEnv) seedCampaign(t *testing.T, poolId string) *model.CampaignModel {
	t.Helper()
	campaign, err := e.campaigns.CreateCampaign(context.Background(), CreateCampaignRequest{
		PoolId:       poolId,
		Recipient:    testAddress(9),
		TargetAmount: decimal.NewFromInt(10),
		Deadline:     testStart.Add(30 * 24 * time.Hour),
		Milestones: []MilestoneInput{
			{Description: "Emergency supplies", Percentage: decimal.NewFromInt(30)},
			{Description: "Shelter repairs", Percentage: decimal.NewFromInt(30)},
			{Description: "Clinic reopening", Percentage: decimal.NewFromInt(40)},
		},
	})
	require.NoError(t, err)
	return campaign
}

func (e *testEnv) seedUser(t *testing.T, seed byte, points int64) string {
	t.Helper()
	ctx := context.Background()
	address := testAddress(seed)
	_, err := e.users.RegisterUser(ctx, address, "")
	require.NoError(t, err)
	require.NoError(t, e.users.SetRewardPoints(ctx, address, points))
	return address
}

func (e *testEnv) milestone(t *testing.T, campaignId int64, index int) *model.CampaignMilestoneModel {
	t.Helper()
	m, err := e.milestones.Get(context.Background(), campaignId, index)
	require.NoError(t, err)
	return m
}
