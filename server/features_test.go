package server

import (
	"net/http"
	"testing"

	"github.com/duyshop/backend/pkg/models"
)

func TestCreateFeature(t *testing.T) {
	features := newFakeFeatureStore()
	s := newTestServer(Stores{Features: features}, fakeGateway{})

	w, resp := doJSON(t, s, http.MethodPost, "/product-features", map[string]interface{}{
		"nameFeature":  "Chất liệu",
		"valueFeature": "Inox 304",
	})
	if w.Code != 201 {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := resp["data"].(map[string]interface{})
	if data["nameFeature"] != "Chất liệu" {
		t.Errorf("feature name lost: %v", data)
	}
	if data["isShow"] != float64(1) {
		t.Errorf("new feature should be visible by default, got %v", data["isShow"])
	}
}

func TestCreateFeatureMissingValue(t *testing.T) {
	s := newTestServer(Stores{Features: newFakeFeatureStore()}, fakeGateway{})

	w, _ := doJSON(t, s, http.MethodPost, "/product-features", map[string]interface{}{
		"nameFeature": "Chất liệu",
	})
	if w.Code != 400 {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestListFeaturesIsShowFilter(t *testing.T) {
	features := newFakeFeatureStore()
	for _, pf := range []*models.ProductFeature{
		{NameFeature: "Chất liệu", ValueFeature: "Inox 304", IsShow: 1},
		{NameFeature: "Xuất xứ", ValueFeature: "Việt Nam", IsShow: 0},
	} {
		if err := features.Create(nil, pf); err != nil {
			t.Fatal(err)
		}
	}

	s := newTestServer(Stores{Features: features}, fakeGateway{})

	w, resp := doJSON(t, s, http.MethodGet, "/product-features?isShow=1", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	list := resp["data"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected 1 visible feature, got %d", len(list))
	}
	if list[0].(map[string]interface{})["nameFeature"] != "Chất liệu" {
		t.Errorf("wrong feature returned: %v", list[0])
	}
}

func TestUpdateFeature(t *testing.T) {
	features := newFakeFeatureStore()
	feature := &models.ProductFeature{NameFeature: "Chất liệu", ValueFeature: "Inox 201", IsShow: 1}
	if err := features.Create(nil, feature); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(Stores{Features: features}, fakeGateway{})

	w, resp := doJSON(t, s, http.MethodPut, "/product-features/"+feature.ID.Hex(), map[string]interface{}{
		"valueFeature": "Inox 304",
	})
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := resp["data"].(map[string]interface{})
	if data["valueFeature"] != "Inox 304" {
		t.Errorf("value not updated: %v", data)
	}
	if data["nameFeature"] != "Chất liệu" {
		t.Errorf("untouched field changed: %v", data)
	}
}
