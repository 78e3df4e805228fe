package main

/*
#include "libtevm.h"
#include <stdlib.h>

static int32_t tevm_call_read(tevm_db *db, tevm_view key, tevm_buf *value, tevm_buf *err) {
	return db->read_db(db->state, key, value, err);
}

static int32_t tevm_call_commit(tevm_db *db, tevm_view payload, tevm_buf *err) {
	return db->commit(db->state, payload, err);
}
*/
import "C"

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/state"
)

// goStorage adapts the host vtable to the Storage collaborator. Every read
// goes through the shared prefix key layout; commits are flattened into a
// length-prefixed key-value stream the host replays into its own store.
type goStorage struct {
	db *C.tevm_db
}

func newGoStorage(db *C.tevm_db) *goStorage {
	return &goStorage{db: db}
}

func viewOf(b []byte) C.tevm_view {
	var view C.tevm_view
	if len(b) > 0 {
		view.ptr = (*C.uint8_t)(unsafe.Pointer(&b[0]))
		view.len = C.size_t(len(b))
		view.is_some = 1
	}
	return view
}

func takeBuf(buf *C.tevm_buf) []byte {
	if buf.ptr == nil {
		return nil
	}
	out := C.GoBytes(unsafe.Pointer(buf.ptr), C.int(buf.len))
	C.free(unsafe.Pointer(buf.ptr))
	return out
}

func (g *goStorage) read(key []byte) ([]byte, error) {
	var value, errBuf C.tevm_buf
	rc := C.tevm_call_read(g.db, viewOf(key), &value, &errBuf)
	if rc != 0 {
		msg := takeBuf(&errBuf)
		return nil, fmt.Errorf("host read failed (%d): %s", int32(rc), msg)
	}
	return takeBuf(&value), nil
}

func (g *goStorage) GetAccount(addr common.Address) (*state.Account, error) {
	data, err := g.read(state.AccountKey(addr))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return state.DecodeAccount(data)
}

func (g *goStorage) GetCodeByHash(hash common.Hash) ([]byte, error) {
	return g.read(state.CodeKey(hash))
}

func (g *goStorage) GetStorage(addr common.Address, index common.Hash) (common.Hash, error) {
	data, err := g.read(state.StorageKey(addr, index))
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(data), nil
}

func (g *goStorage) GetBlockHash(number uint64) (common.Hash, error) {
	data, err := g.read(state.BlockKey(number))
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(data), nil
}

// Commit flattens the transaction's state changes into a key-value stream:
// for each record a 4-byte big-endian key length, the key, a 4-byte value
// length and the value. Deleted accounts are emitted with an empty value.
func (g *goStorage) Commit(accounts map[common.Address]*state.Account, storages map[common.Address]map[common.Hash]common.Hash, codes map[common.Hash][]byte, deleted []common.Address) error {
	var payload []byte
	emit := func(key, value []byte) {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(key)))
		payload = append(payload, l[:]...)
		payload = append(payload, key...)
		binary.BigEndian.PutUint32(l[:], uint32(len(value)))
		payload = append(payload, l[:]...)
		payload = append(payload, value...)
	}
	for addr, acc := range accounts {
		emit(state.AccountKey(addr), state.EncodeAccount(acc))
	}
	for addr, slots := range storages {
		for index, value := range slots {
			emit(state.StorageKey(addr, index), value.Bytes())
		}
	}
	for hash, code := range codes {
		emit(state.CodeKey(hash), code)
	}
	for _, addr := range deleted {
		emit(state.AccountKey(addr), nil)
	}
	var errBuf C.tevm_buf
	if rc := C.tevm_call_commit(g.db, viewOf(payload), &errBuf); rc != 0 {
		msg := takeBuf(&errBuf)
		return fmt.Errorf("host commit failed (%d): %s", int32(rc), msg)
	}
	return nil
}
