package campaign

import "errors"

var (
	errNilState = errors.New("campaign engine: state not configured")

	// Arithmetic and resource failures.
	ErrArithmeticOverflow       = errors.New("campaign: arithmetic overflow")
	ErrInsufficientVaultBalance = errors.New("campaign: insufficient vault balance")
	ErrInsufficientFunds        = errors.New("campaign: insufficient balance")

	// Campaign creation.
	ErrCampaignNotFound           = errors.New("campaign: not found")
	ErrCampaignExists             = errors.New("campaign: already exists")
	ErrInvalidTotalSupply         = errors.New("campaign: total supply must be greater than zero")
	ErrInvalidAsset               = errors.New("campaign: asset identifier required")
	ErrInvalidName                = errors.New("campaign: invalid token name")
	ErrInvalidSymbol              = errors.New("campaign: invalid token symbol")
	ErrInvalidFundingGoal         = errors.New("campaign: funding goal must be greater than zero")
	ErrInvalidExpiry              = errors.New("campaign: expiry must be in the future")
	ErrTooManyBuckets             = errors.New("campaign: too many allocation buckets")
	ErrInvalidAmount              = errors.New("campaign: allocation amount must be greater than zero")
	ErrInvalidBucketName          = errors.New("campaign: invalid allocation name")
	ErrDuplicateName              = errors.New("campaign: duplicate allocation name")
	ErrAllocationMismatch         = errors.New("campaign: allocations do not sum to total supply")
	ErrMissingRequiredBucket      = errors.New("campaign: missing required allocation bucket")
	ErrInvalidAirdropMaxCount     = errors.New("campaign: airdrop max count must be greater than zero")
	ErrAirdropAmountTooLow        = errors.New("campaign: airdrop bucket too small for max claimants")
	ErrMissingRewardAllocation    = errors.New("campaign: missing crowdfunding allocation")
	ErrMissingDeveloperAllocation = errors.New("campaign: missing developer allocation")

	// Support.
	ErrCampaignEnded        = errors.New("campaign: contribution period has ended")
	ErrCampaignSettled      = errors.New("campaign: settled, no longer open")
	ErrInvalidSupportAmount = errors.New("campaign: invalid support amount")
	ErrAlreadySupported     = errors.New("campaign: contributor already supported")
	ErrNoContribution       = errors.New("campaign: no contribution found")

	// Settlement.
	ErrAlreadySettled     = errors.New("campaign: already settled")
	ErrNotEnded           = errors.New("campaign: contribution period has not ended")
	ErrNoFundsRaised      = errors.New("campaign: no funds were raised")
	ErrInvalidCreator     = errors.New("campaign: caller is not the campaign creator")
	ErrNotImplemented     = errors.New("campaign: liquidity pool creation not implemented")
	ErrPoolAlreadyCreated = errors.New("campaign: liquidity pool already created")

	// Claims and refunds.
	ErrAlreadyClaimed     = errors.New("campaign: airdrop already claimed")
	ErrAirdropExhausted   = errors.New("campaign: airdrop exhausted")
	ErrNotSettled         = errors.New("campaign: not settled")
	ErrCampaignFailed     = errors.New("campaign: crowdfunding was not successful")
	ErrUnlockNotStarted   = errors.New("campaign: unlock has not started")
	ErrNothingToClaim     = errors.New("campaign: nothing to claim")
	ErrAlreadyRefunded    = errors.New("campaign: already refunded")
	ErrRefundWindowClosed = errors.New("campaign: refund window closed")
	ErrNotRefundable      = errors.New("campaign: successful campaigns are not refundable")

	// Developer fund and fees.
	ErrNoDevFundAllocated       = errors.New("campaign: no developer fund allocated")
	ErrInvalidUnlockMonths      = errors.New("campaign: unlock months must be greater than zero")
	ErrFeesAlreadyDistributed   = errors.New("campaign: fees already distributed")
	ErrNoFeesToDistribute       = errors.New("campaign: no fees to distribute")
	ErrInvalidFeePercentage     = errors.New("campaign: invalid creator fee share")
	ErrConfigNotInitialized     = errors.New("campaign: config not initialized")
	ErrConfigAlreadyInitialized = errors.New("campaign: config already initialized")
	ErrUnauthorized             = errors.New("campaign: caller is not the config admin")
	ErrInvalidAddress           = errors.New("campaign: address must not be zero")
)
