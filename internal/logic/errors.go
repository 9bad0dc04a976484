package logic

import (
	"errors"
)

// ErrorKind 错误分类
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"     // 参数错误，未发生任何修改
	KindNotFound      ErrorKind = "not_found"      // 资源不存在
	KindStateConflict ErrorKind = "state_conflict" // 状态冲突，未发生任何修改
)

// Error 业务错误
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func newError(kind ErrorKind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

var (
	ErrValidation = newError(KindValidation, "invalid request")

	ErrProposalNotFound  = newError(KindNotFound, "proposal not found")
	ErrCampaignNotFound  = newError(KindNotFound, "campaign not found")
	ErrMilestoneNotFound = newError(KindNotFound, "milestone not found")
	ErrUserNotFound      = newError(KindNotFound, "user not found")

	ErrNotRegistered        = newError(KindStateConflict, "user not found, please register first")
	ErrDuplicateVote        = newError(KindStateConflict, "you have already voted on this proposal")
	ErrProposalNotActive    = newError(KindStateConflict, "this proposal is no longer active")
	ErrProposalExpired      = newError(KindStateConflict, "this proposal has expired")
	ErrVotingStillOpen      = newError(KindStateConflict, "voting period has not ended yet")
	ErrAlreadyExecuted      = newError(KindStateConflict, "proposal already executed")
	ErrInsufficientPoints   = newError(KindStateConflict, "not enough reward points to create a proposal")
	ErrMilestoneNotPending  = newError(KindStateConflict, "milestone is not pending")
	ErrMilestoneNotApproved = newError(KindStateConflict, "milestone is not approved")
	ErrCampaignInactive     = newError(KindStateConflict, "campaign is not active")
)

// validationError 携带具体原因的参数错误，errors.Is(err, ErrValidation) 成立
type validationError struct {
	reason string
}

func (e *validationError) Error() string {
	return e.reason
}

func (e *validationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(reason string) error {
	return &validationError{reason: reason}
}

// KindOf 返回错误分类，非业务错误返回空
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	return ""
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }
func IsStateConflict(err error) bool { return KindOf(err) == KindStateConflict }
