// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"testing"
)

func productIDs(products []Product) []int {
	ids := make([]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}

func TestService_Similar(t *testing.T) {
	store := newFixtureStore()
	svc := NewService(newTestEngine(store, nil, nil), store)

	products, err := svc.Similar(context.Background(), 1)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}

	// Rank order, not catalog order
	want := []int{2, 3, 4, 5}
	got := productIDs(products)
	if len(got) != len(want) {
		t.Fatalf("Similar() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Similar()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if products[0].Name != "Bluetooth Speaker" {
		t.Errorf("first product = %q, want resolved record", products[0].Name)
	}
}

func TestService_Personalized(t *testing.T) {
	store := newFixtureStore()
	svc := NewService(newTestEngine(store, nil, nil), store)

	products, err := svc.Personalized(context.Background(), 1)
	if err != nil {
		t.Fatalf("Personalized() error = %v", err)
	}
	if len(products) != 5 {
		t.Errorf("len(Personalized()) = %d, want all 5 products", len(products))
	}
}

func TestService_Trending(t *testing.T) {
	store := newFixtureStore()
	svc := NewService(newTestEngine(store, nil, nil), store)

	products, err := svc.Trending(context.Background(), "")
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	got := productIDs(products)
	want := []int{4, 1, 2, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Trending()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestService_Rebuild(t *testing.T) {
	store := newFixtureStore()
	engine := newTestEngine(store, nil, nil)
	svc := NewService(engine, store)

	for i := 1; i <= 2; i++ {
		if err := svc.Rebuild(context.Background()); err != nil {
			t.Fatalf("Rebuild() error = %v", err)
		}
		if v := engine.Status().ModelVersion; v != i {
			t.Errorf("ModelVersion = %d, want %d", v, i)
		}
	}
}

func TestService_ResolveDropsMissingProducts(t *testing.T) {
	store := newFixtureStore()
	svc := NewService(newTestEngine(store, nil, nil), store)

	products, err := svc.resolve(context.Background(), []int{5, 42, 1})
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	got := productIDs(products)
	if len(got) != 2 || got[0] != 5 || got[1] != 1 {
		t.Errorf("resolve() = %v, want [5 1]", got)
	}

	empty, err := svc.resolve(context.Background(), nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("resolve(nil) = %v, %v, want empty slice", empty, err)
	}
}
