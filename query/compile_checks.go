package query

import (
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[BalanceMessage, int64]            = (*BalanceQuery)(nil)
	_ gocmd.Querier[HistoryMessage, core.HistoryPage] = (*HistoryQuery)(nil)
	_ gocmd.Querier[StatusMessage, core.Session]      = (*StatusQuery)(nil)
)
