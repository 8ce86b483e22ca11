package openapi

import (
	"context"
	"net/http"
	"testing"
)

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	routes := []struct {
		path   string
		method string
	}{
		{"/api/v1/countries", http.MethodGet},
		{"/api/v1/countries/{id}", http.MethodDelete},
		{"/api/v1/cities", http.MethodPost},
		{"/api/v1/addresses/{id}", http.MethodPut},
		{"/api/v1/museums/{id}/detail", http.MethodPut},
		{"/api/v1/guides/{id}/museums", http.MethodGet},
		{"/api/v1/exhibitions/{id}/exhibits", http.MethodGet},
		{"/api/v1/exhibitions/{id}/detail", http.MethodPut},
		{"/api/v1/guides/{id}/detail", http.MethodGet},
		{"/api/v1/guides/{id}/detail", http.MethodPut},
		{"/api/v1/exhibits", http.MethodGet},
		{"/api/v1/museum-guides/{id}", http.MethodGet},
	}
	for _, r := range routes {
		item := doc.Paths.Find(r.path)
		if item == nil {
			t.Errorf("путь %s не описан", r.path)
			continue
		}
		if item.GetOperation(r.method) == nil {
			t.Errorf("операция %s %s не описана", r.method, r.path)
		}
	}
}

func TestEntityIDReadOnly(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, name := range []string{"Country", "City", "Address", "Museum", "Guide", "Exhibition", "Exhibit", "MuseumGuide"} {
		id := doc.Components.Schemas[name].Value.Properties["id"]
		if id == nil || !id.Value.ReadOnly {
			t.Errorf("%s.id должен быть readOnly", name)
		}
	}
	for _, name := range []string{"ExhibitionItem", "ExhibitItem", "MuseumGuideItem"} {
		if doc.Components.Schemas[name].Value.Properties["id"].Value.ReadOnly {
			t.Errorf("%s.id элемента формы должен быть доступен для записи", name)
		}
	}
}

func TestSpec(t *testing.T) {
	if len(Spec()) == 0 {
		t.Fatal("встроенный контракт пуст")
	}
}
