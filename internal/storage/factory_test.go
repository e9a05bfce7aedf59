package storage

import (
	"context"
	"testing"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/storage/memory"
)

func TestNewProposalStore_Memory(t *testing.T) {
	store, err := NewProposalStore(context.Background(), common.StorageConfig{}, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*memory.ProposalStore); !ok {
		t.Errorf("store = %T, want *memory.ProposalStore", store)
	}
}

func TestNewProposalStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProposalStore(ctx, common.StorageConfig{Address: "ws://127.0.0.1:1/rpc"}, common.NewSilentLogger())
	if err == nil {
		t.Fatal("expected error for unreachable SurrealDB")
	}
}

func TestBackend(t *testing.T) {
	if got := Backend(common.StorageConfig{}); got != BackendMemory {
		t.Errorf("Backend(empty) = %q", got)
	}
	if got := Backend(common.StorageConfig{Address: "ws://db:8000/rpc"}); got != BackendSurrealDB {
		t.Errorf("Backend(address) = %q", got)
	}
}
