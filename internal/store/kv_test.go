package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := OpenKV(context.Background(), filepath.Join(t.TempDir(), "storage.sqlite"))
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKV_SetGetOverwriteDelete(t *testing.T) {
	kv := openTestKV(t)

	if _, ok, err := kv.Get("auth"); err != nil || ok {
		t.Fatalf("expected missing key; ok=%v err=%v", ok, err)
	}
	if err := kv.Set("auth", `{"id":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("auth", `{"id":2}`); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	v, ok, err := kv.Get("auth")
	if err != nil || !ok || v != `{"id":2}` {
		t.Fatalf("Get: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := kv.Set("app-lang", "pl"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	keys, err := kv.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"app-lang", "auth"}) {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if err := kv.Delete("auth"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get("auth"); ok {
		t.Fatalf("expected auth to be deleted")
	}
}

func TestKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.sqlite")
	kv, err := OpenKV(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	if err := kv.Set("app-lang", "pl"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = kv.Close()

	kv2, err := OpenKV(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()
	v, ok, err := kv2.Get("app-lang")
	if err != nil || !ok || v != "pl" {
		t.Fatalf("after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}
