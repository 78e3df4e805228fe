package aot

import (
	"encoding/hex"

	"github.com/TevmFoundation/tevm-chain/common"
)

// SymbolLabel derives the exported symbol name for a code hash: an
// underscore followed by the first three bytes of the hash in lowercase hex,
// e.g. "_a1b2c3". The same mangling names the module inside the backend, the
// symbol in the linked object and the label column in the artifact store, so
// a reader holding only the hash can always recompute it.
func SymbolLabel(hash common.Hash) string {
	return "_" + hex.EncodeToString(hash[:3])
}
