package rpc

import (
	"errors"
	"net/http"

	"launchpad/native/campaign"
	"launchpad/native/common"
)

const (
	codeCampaignInvalid   = -32030
	codeCampaignNotFound  = -32031
	codeCampaignForbidden = -32032
	codeCampaignConflict  = -32033
	codeCampaignPaused    = -32034
	codeCampaignQuota     = -32035
	codeCampaignInternal  = -32036
)

type callError struct {
	status int
	err    *RPCError
}

func invalidParams(message string) *callError {
	return &callError{
		status: http.StatusBadRequest,
		err:    &RPCError{Code: codeInvalidParams, Message: "invalid_params", Data: message},
	}
}

var (
	notFoundErrors = []error{
		campaign.ErrCampaignNotFound,
		campaign.ErrNoContribution,
		campaign.ErrConfigNotInitialized,
	}
	forbiddenErrors = []error{
		campaign.ErrInvalidCreator,
		campaign.ErrUnauthorized,
	}
	invalidErrors = []error{
		campaign.ErrInvalidTotalSupply,
		campaign.ErrInvalidAsset,
		campaign.ErrInvalidName,
		campaign.ErrInvalidSymbol,
		campaign.ErrInvalidFundingGoal,
		campaign.ErrInvalidExpiry,
		campaign.ErrTooManyBuckets,
		campaign.ErrInvalidAmount,
		campaign.ErrInvalidBucketName,
		campaign.ErrDuplicateName,
		campaign.ErrAllocationMismatch,
		campaign.ErrMissingRequiredBucket,
		campaign.ErrInvalidAirdropMaxCount,
		campaign.ErrAirdropAmountTooLow,
		campaign.ErrInvalidSupportAmount,
		campaign.ErrInvalidAddress,
		campaign.ErrInvalidFeePercentage,
		campaign.ErrInvalidUnlockMonths,
		campaign.ErrInsufficientFunds,
	}
	quotaErrors = []error{
		common.ErrQuotaRequestsExceeded,
		common.ErrQuotaAmountCapExceeded,
		common.ErrQuotaCounterOverflow,
	}
	internalErrors = []error{
		campaign.ErrArithmeticOverflow,
		campaign.ErrInsufficientVaultBalance,
	}
)

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// engineError maps an engine failure onto a JSON-RPC error. Anything not
// classified as a caller mistake is treated as a state conflict, which is
// what the remaining guard errors describe.
func engineError(err error) *callError {
	status, code := http.StatusConflict, codeCampaignConflict
	switch {
	case errors.Is(err, common.ErrModulePaused):
		status, code = http.StatusServiceUnavailable, codeCampaignPaused
	case matchesAny(err, quotaErrors):
		status, code = http.StatusTooManyRequests, codeCampaignQuota
	case matchesAny(err, notFoundErrors):
		status, code = http.StatusNotFound, codeCampaignNotFound
	case matchesAny(err, forbiddenErrors):
		status, code = http.StatusForbidden, codeCampaignForbidden
	case matchesAny(err, invalidErrors):
		status, code = http.StatusBadRequest, codeCampaignInvalid
	case matchesAny(err, internalErrors):
		status, code = http.StatusInternalServerError, codeCampaignInternal
	case !isCampaignError(err):
		status, code = http.StatusInternalServerError, codeServerError
	}
	return &callError{status: status, err: &RPCError{Code: code, Message: err.Error()}}
}

var conflictErrors = []error{
	campaign.ErrCampaignExists,
	campaign.ErrMissingRewardAllocation,
	campaign.ErrMissingDeveloperAllocation,
	campaign.ErrCampaignEnded,
	campaign.ErrCampaignSettled,
	campaign.ErrAlreadySupported,
	campaign.ErrAlreadySettled,
	campaign.ErrNotEnded,
	campaign.ErrNoFundsRaised,
	campaign.ErrNotImplemented,
	campaign.ErrPoolAlreadyCreated,
	campaign.ErrAlreadyClaimed,
	campaign.ErrAirdropExhausted,
	campaign.ErrNotSettled,
	campaign.ErrCampaignFailed,
	campaign.ErrUnlockNotStarted,
	campaign.ErrNothingToClaim,
	campaign.ErrAlreadyRefunded,
	campaign.ErrRefundWindowClosed,
	campaign.ErrNotRefundable,
	campaign.ErrNoDevFundAllocated,
	campaign.ErrFeesAlreadyDistributed,
	campaign.ErrNoFeesToDistribute,
	campaign.ErrConfigAlreadyInitialized,
}

func isCampaignError(err error) bool {
	return matchesAny(err, conflictErrors)
}
