package main

import (
	"context"
	"encoding/json"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/x"
	"github.com/covault/covault/x/vault"
)

// Tx is the wire format accepted by this binary: a JSON envelope
// carrying the signer condition, the routing path and the message.
//
// The signer is trusted as given. A production deployment would put a
// signature verification decorator in front, this binary is meant for
// local development.
type Tx struct {
	Signer covault.Condition `json:"signer"`
	Msg    covault.Msg       `json:"-"`
}

var _ covault.Tx = (*Tx)(nil)

// msgTypes maps routing paths to message constructors, used to decode
// the polymorphic message section of the envelope.
var msgTypes = map[string]func() covault.Msg{
	(&vault.InitializeVaultMsg{}).Path(): func() covault.Msg { return &vault.InitializeVaultMsg{} },
	(&vault.DepositMsg{}).Path():         func() covault.Msg { return &vault.DepositMsg{} },
	(&vault.CreateProposalMsg{}).Path():  func() covault.Msg { return &vault.CreateProposalMsg{} },
	(&vault.ApproveProposalMsg{}).Path(): func() covault.Msg { return &vault.ApproveProposalMsg{} },
	(&vault.ExecuteProposalMsg{}).Path(): func() covault.Msg { return &vault.ExecuteProposalMsg{} },
}

func (tx *Tx) GetMsg() (covault.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no message")
	}
	return tx.Msg, nil
}

type txEnvelope struct {
	Signer covault.Condition `json:"signer"`
	Path   string            `json:"path"`
	Msg    json.RawMessage   `json:"msg"`
}

func (tx *Tx) Marshal() ([]byte, error) {
	rawMsg, err := json.Marshal(tx.Msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(txEnvelope{
		Signer: tx.Signer,
		Path:   tx.Msg.Path(),
		Msg:    rawMsg,
	})
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var envelope txEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	newMsg, ok := msgTypes[envelope.Path]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "unknown path %q", envelope.Path)
	}
	msg := newMsg()
	if err := json.Unmarshal(envelope.Msg, msg); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	tx.Signer = envelope.Signer
	tx.Msg = msg
	return nil
}

func txDecoder(raw []byte) (covault.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

type signerCtxKey struct{}

// signerAuth authenticates the conditions the signer decorator put on
// the context.
type signerAuth struct{}

var _ x.Authenticator = signerAuth{}

func (signerAuth) GetConditions(ctx covault.Context) []covault.Condition {
	conds, _ := ctx.Value(signerCtxKey{}).([]covault.Condition)
	return conds
}

func (a signerAuth) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// signerDecorator moves the envelope signer onto the context.
type signerDecorator struct{}

var _ covault.Decorator = signerDecorator{}

func (signerDecorator) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Checker) (*covault.CheckResult, error) {
	return next.Check(withSigner(ctx, tx), db, tx)
}

func (signerDecorator) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Deliverer) (*covault.DeliverResult, error) {
	return next.Deliver(withSigner(ctx, tx), db, tx)
}

func withSigner(ctx covault.Context, tx covault.Tx) covault.Context {
	if t, ok := tx.(*Tx); ok && t.Signer != nil {
		return context.WithValue(ctx, signerCtxKey{}, []covault.Condition{t.Signer})
	}
	return ctx
}
