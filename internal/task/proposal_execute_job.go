package task

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/shariqazeem/umanity-social-sub000/internal/logic"
)

// ProposalExecuteJob 执行投票已截止的提案
type ProposalExecuteJob struct {
	proposals *logic.ProposalLogic
	execution *logic.ExecutionLogic
	interval  time.Duration
}

// NewProposalExecuteJob 创建提案执行任务
func NewProposalExecuteJob(proposals *logic.ProposalLogic, execution *logic.ExecutionLogic, interval time.Duration) *ProposalExecuteJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ProposalExecuteJob{
		proposals: proposals,
		execution: execution,
		interval:  interval,
	}
}

// GetName 获取任务名称
func (j *ProposalExecuteJob) GetName() string {
	return "proposal_executor"
}

// GetSchedule 获取调度配置
func (j *ProposalExecuteJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *ProposalExecuteJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	executed := j.run(ctx)
	if executed > 0 {
		logger.Info("Proposal execute task completed. Executed %d proposals", executed)
	}
}

func (j *ProposalExecuteJob) run(ctx context.Context) int {
	proposals, err := j.proposals.ListExpiredActive(ctx)
	if err != nil {
		logger.Error("Failed to fetch expired proposals: %v", err)
		return 0
	}

	executed := 0
	for _, proposal := range proposals {
		result, err := j.execution.Execute(ctx, proposal.Id)
		if err != nil {
			if errors.Is(err, logic.ErrAlreadyExecuted) {
				logger.Debug("Proposal %d already executed by another caller", proposal.Id)
				continue
			}
			logger.Error("Failed to execute proposal %d: %v", proposal.Id, err)
			continue
		}

		logger.Info("Executed proposal %d: approved=%t, milestone action=%q",
			proposal.Id, result.Approved, result.MilestoneAction)
		executed++
	}
	return executed
}
