package covtest

import "github.com/covault/covault"

// Handler implements covault.Handler and counts the calls it received.
type Handler struct {
	checkCall   int
	CheckResult covault.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult covault.DeliverResult
	DeliverErr    error
}

var _ covault.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	h.deliverCall++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
