package types

import "github.com/fxamacker/cbor/v2"

var (
	cborEncMode, _ = cbor.CoreDetEncOptions().EncMode()
	cborDecMode, _ = cbor.DecOptions{}.DecMode()
)
