package tui

import (
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
)

type summaryLoadedMsg struct {
	at      time.Time
	err     error
	summary *analytics.Summary
}

type refreshTickMsg time.Time
