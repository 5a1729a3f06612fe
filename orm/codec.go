package orm

import (
	"github.com/fxamacker/cbor/v2"
)

// Models are persisted as canonical CBOR: map keys sorted, shortest
// integer forms. The encoding of a model is therefore deterministic,
// which keeps derived digests and test fixtures stable.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalBinary serializes a model into its canonical binary form.
func MarshalBinary(obj interface{}) ([]byte, error) {
	return encMode.Marshal(obj)
}

// UnmarshalBinary deserializes the canonical binary form into a model.
func UnmarshalBinary(raw []byte, obj interface{}) error {
	return decMode.Unmarshal(raw, obj)
}
