package covault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covault/covault/errors"
)

// sampleMsg is a minimal message implementation for kernel tests. The
// extension test doubles cannot be used here without an import cycle.
type sampleMsg struct {
	Content string
	err     error
}

var _ Msg = (*sampleMsg)(nil)

func (m *sampleMsg) Path() string             { return "sample/msg" }
func (m *sampleMsg) Validate() error          { return m.err }
func (m *sampleMsg) Marshal() ([]byte, error) { return []byte(m.Content), nil }
func (m *sampleMsg) Unmarshal(b []byte) error { m.Content = string(b); return nil }

type sampleTx struct {
	msg Msg
	err error
}

var _ Tx = (*sampleTx)(nil)

func (tx *sampleTx) GetMsg() (Msg, error)     { return tx.msg, tx.err }
func (tx *sampleTx) Marshal() ([]byte, error) { panic("not implemented") }
func (tx *sampleTx) Unmarshal([]byte) error   { panic("not implemented") }

func TestLoadMsg(t *testing.T) {
	tx := &sampleTx{msg: &sampleMsg{Content: "hello"}}

	var dest sampleMsg
	require.NoError(t, LoadMsg(tx, &dest))
	assert.Equal(t, "hello", dest.Content)
}

func TestLoadMsgValidates(t *testing.T) {
	tx := &sampleTx{msg: &sampleMsg{err: errors.ErrMsg.New("broken")}}

	var dest sampleMsg
	err := LoadMsg(tx, &dest)
	assert.True(t, errors.ErrMsg.Is(err))
}

func TestLoadMsgWrongType(t *testing.T) {
	tx := &sampleTx{msg: &sampleMsg{Content: "hello"}}

	var dest otherMsg
	err := LoadMsg(tx, &dest)
	assert.True(t, errors.ErrType.Is(err))
}

func TestLoadMsgTxError(t *testing.T) {
	tx := &sampleTx{err: errors.ErrInput.New("bad tx")}

	var dest sampleMsg
	err := LoadMsg(tx, &dest)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "sample/msg", GetPath(&sampleTx{msg: &sampleMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&sampleTx{err: errors.ErrInput.New("nope")}))
}

type otherMsg struct{}

var _ Msg = (*otherMsg)(nil)

func (m *otherMsg) Path() string             { return "other/msg" }
func (m *otherMsg) Validate() error          { return nil }
func (m *otherMsg) Marshal() ([]byte, error) { return nil, nil }
func (m *otherMsg) Unmarshal([]byte) error   { return nil }
