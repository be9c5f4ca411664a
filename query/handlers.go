package query

import (
	"context"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

type BalanceReader interface {
	CheckBalance(ctx context.Context) (int64, error)
}

type HistoryReader interface {
	History(ctx context.Context, page int, limit int) (core.HistoryPage, error)
}

type SessionReader interface {
	Snapshot() core.Session
}

type BalanceQuery struct {
	reader BalanceReader
}

func NewBalanceQuery(reader BalanceReader) *BalanceQuery {
	return &BalanceQuery{reader: reader}
}

func (q *BalanceQuery) Query(ctx context.Context, msg BalanceMessage) (int64, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: balance reader is required")
	}
	return q.reader.CheckBalance(ctx)
}

type HistoryQuery struct {
	reader HistoryReader
}

func NewHistoryQuery(reader HistoryReader) *HistoryQuery {
	return &HistoryQuery{reader: reader}
}

func (q *HistoryQuery) Query(ctx context.Context, msg HistoryMessage) (core.HistoryPage, error) {
	if q == nil || q.reader == nil {
		return core.HistoryPage{}, queryDependencyError("query: history reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.HistoryPage{}, queryInvalidInputError(err.Error())
	}
	return q.reader.History(ctx, msg.Page, msg.Limit)
}

type StatusQuery struct {
	reader SessionReader
}

func NewStatusQuery(reader SessionReader) *StatusQuery {
	return &StatusQuery{reader: reader}
}

func (q *StatusQuery) Query(ctx context.Context, msg StatusMessage) (core.Session, error) {
	if q == nil || q.reader == nil {
		return core.Session{}, queryDependencyError("query: session reader is required")
	}
	return q.reader.Snapshot(), nil
}
