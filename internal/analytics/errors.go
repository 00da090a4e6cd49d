package analytics

import (
	"fmt"

	"github.com/Mujtaba19938/FINDASH/internal/common"
)

// Parameter validation errors. All of them match common.ErrValidation.
var (
	ErrInvalidUserID  = fmt.Errorf("%w: valid user ID is required", common.ErrValidation)
	ErrInvalidMonths  = fmt.Errorf("%w: months must be between %d and %d", common.ErrValidation, MinForecastMonths, MaxForecastMonths)
	ErrInvalidAmount  = fmt.Errorf("%w: purchase amount must be positive", common.ErrValidation)
	ErrInvalidPercent = fmt.Errorf("%w: percent must be between %d and %d", common.ErrValidation, MinPercentChange, MaxPercentChange)
)
