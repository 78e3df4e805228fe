// Copyright 2018 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package rawdb

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/crypto"
)

func TestCountRoundTrip(t *testing.T) {
	db := NewMemoryArtifactDB()
	defer db.Close()

	hash := crypto.Keccak256Hash([]byte{0x60, 0x00})
	if got := db.Count(hash); got != 0 {
		t.Fatalf("fresh count = %d, want 0", got)
	}
	for i := uint64(1); i <= 12; i++ {
		got, err := db.IncCount(hash)
		if err != nil {
			t.Fatalf("IncCount: %v", err)
		}
		if got != i {
			t.Fatalf("IncCount = %d, want %d", got, i)
		}
	}
	if got := db.Count(hash); got != 12 {
		t.Fatalf("Count = %d, want 12", got)
	}
}

func TestBytecodeRoundTrip(t *testing.T) {
	db := NewMemoryArtifactDB()
	defer db.Close()

	code := bytes.Repeat([]byte{0x5b, 0x60, 0x01}, 500)
	hash := crypto.Keccak256Hash(code)

	if _, ok := db.Bytecode(hash); ok {
		t.Fatal("bytecode present before put")
	}
	if err := db.PutBytecode(hash, code); err != nil {
		t.Fatalf("PutBytecode: %v", err)
	}
	got, ok := db.Bytecode(hash)
	if !ok {
		t.Fatal("bytecode missing after put")
	}
	if !bytes.Equal(got, code) {
		t.Fatal("bytecode mismatch after round trip")
	}
}

func TestPublishOrdering(t *testing.T) {
	db := NewMemoryArtifactDB()
	defer db.Close()

	hash := crypto.Keccak256Hash([]byte("contract"))
	if db.HasArtifact(hash) {
		t.Fatal("artifact present before publish")
	}
	if err := db.PublishArtifact(hash, "_a1b2c3", "/tmp/a.so"); err != nil {
		t.Fatalf("PublishArtifact: %v", err)
	}
	// A reader that sees the path must also see the label.
	path, ok := db.ArtifactPath(hash)
	if !ok || path != "/tmp/a.so" {
		t.Fatalf("ArtifactPath = %q, %v", path, ok)
	}
	label, ok := db.SymbolLabel(hash)
	if !ok || label != "_a1b2c3" {
		t.Fatalf("SymbolLabel = %q, %v", label, ok)
	}

	if err := db.DeleteArtifact(hash); err != nil {
		t.Fatalf("DeleteArtifact: %v", err)
	}
	if db.HasArtifact(hash) {
		t.Fatal("artifact present after delete")
	}
}

func TestIterateCounts(t *testing.T) {
	db := NewMemoryArtifactDB()
	defer db.Close()

	hashes := map[common.Hash]uint64{
		crypto.Keccak256Hash([]byte("a")): 3,
		crypto.Keccak256Hash([]byte("b")): 11,
		crypto.Keccak256Hash([]byte("c")): 7,
	}
	for hash, n := range hashes {
		for i := uint64(0); i < n; i++ {
			if _, err := db.IncCount(hash); err != nil {
				t.Fatalf("IncCount: %v", err)
			}
		}
	}
	// An unrelated column must not leak into the count iteration.
	if err := db.PublishArtifact(crypto.Keccak256Hash([]byte("d")), "_d00d00", "/tmp/d.so"); err != nil {
		t.Fatalf("PublishArtifact: %v", err)
	}
	seen := make(map[common.Hash]uint64)
	db.IterateCounts(func(hash common.Hash, count uint64) bool {
		seen[hash] = count
		return true
	})
	if len(seen) != len(hashes) {
		t.Fatalf("iterated %d counts, want %d", len(seen), len(hashes))
	}
	for hash, n := range hashes {
		if seen[hash] != n {
			t.Errorf("count for %v = %d, want %d", hash, seen[hash], n)
		}
	}
}

func TestPruneStaleArtifacts(t *testing.T) {
	db := NewMemoryArtifactDB()
	defer db.Close()

	live := filepath.Join(t.TempDir(), "live.so")
	if err := os.WriteFile(live, []byte{0x7f, 'E', 'L', 'F'}, 0o644); err != nil {
		t.Fatal(err)
	}
	liveHash := crypto.Keccak256Hash([]byte("live"))
	staleHash := crypto.Keccak256Hash([]byte("stale"))

	if err := db.PublishArtifact(liveHash, "_111111", live); err != nil {
		t.Fatal(err)
	}
	if err := db.PublishArtifact(staleHash, "_222222", filepath.Join(t.TempDir(), "gone.so")); err != nil {
		t.Fatal(err)
	}
	if pruned := db.PruneStaleArtifacts(); pruned != 1 {
		t.Fatalf("pruned %d records, want 1", pruned)
	}
	if !db.HasArtifact(liveHash) {
		t.Fatal("live artifact was pruned")
	}
	if db.HasArtifact(staleHash) {
		t.Fatal("stale artifact survived the prune")
	}
}
