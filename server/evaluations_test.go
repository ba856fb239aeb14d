package server

import (
	"net/http"
	"testing"

	"github.com/duyshop/backend/pkg/models"
)

func evaluationPayload(productID string) map[string]interface{} {
	return map[string]interface{}{
		"productID":       productID,
		"fullName":        "Tran Thi C",
		"phone":           "0901234567",
		"email":           "c@example.com",
		"contentEvaluate": "Van chạy êm, lắp đặt dễ.",
		"starRating":      5,
	}
}

func TestCreateEvaluation(t *testing.T) {
	product := &models.Product{Name: "Van P1", Quantity: 5}
	products := newFakeProductStore(product)
	evaluations := newFakeEvaluationStore()
	s := newTestServer(Stores{Products: products, Evaluations: evaluations}, fakeGateway{})

	w, resp := doJSON(t, s, http.MethodPost, "/evaluate", evaluationPayload(product.ID.Hex()))
	if w.Code != 201 {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := resp["data"].(map[string]interface{})
	if data["starRating"] != float64(5) {
		t.Errorf("star rating lost: %v", data)
	}
	if data["isShow"] != float64(1) {
		t.Errorf("new evaluation should be visible by default, got %v", data["isShow"])
	}
	if evaluations.count() != 1 {
		t.Errorf("expected 1 stored evaluation, got %d", evaluations.count())
	}
}

func TestCreateEvaluationUnknownProduct(t *testing.T) {
	evaluations := newFakeEvaluationStore()
	s := newTestServer(Stores{Products: newFakeProductStore(), Evaluations: evaluations}, fakeGateway{})

	w, _ := doJSON(t, s, http.MethodPost, "/evaluate",
		evaluationPayload("64a000000000000000000005"))
	if w.Code != 404 {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if evaluations.count() != 0 {
		t.Errorf("evaluation for a missing product must not be stored")
	}
}

func TestCreateEvaluationMissingFields(t *testing.T) {
	product := &models.Product{Name: "Van P1"}
	products := newFakeProductStore(product)
	s := newTestServer(Stores{Products: products, Evaluations: newFakeEvaluationStore()}, fakeGateway{})

	payload := evaluationPayload(product.ID.Hex())
	delete(payload, "contentEvaluate")

	w, _ := doJSON(t, s, http.MethodPost, "/evaluate", payload)
	if w.Code != 400 {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEvaluationsByProductShowsVisibleOnly(t *testing.T) {
	product := &models.Product{Name: "Van P1"}
	products := newFakeProductStore(product)
	evaluations := newFakeEvaluationStore()

	visible := &models.Evaluation{ProductID: product.ID, FullName: "A", StarRating: 5, IsShow: 1}
	hidden := &models.Evaluation{ProductID: product.ID, FullName: "B", StarRating: 1, IsShow: 0}
	for _, e := range []*models.Evaluation{visible, hidden} {
		if err := evaluations.Create(nil, e); err != nil {
			t.Fatal(err)
		}
	}

	s := newTestServer(Stores{Products: products, Evaluations: evaluations}, fakeGateway{})

	w, resp := doJSON(t, s, http.MethodGet, "/evaluate/product/"+product.ID.Hex(), nil)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	list := resp["data"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected only the visible evaluation, got %d", len(list))
	}
	if list[0].(map[string]interface{})["fullName"] != "A" {
		t.Errorf("wrong evaluation returned: %v", list[0])
	}
}

func TestListEvaluationsStarFilter(t *testing.T) {
	evaluations := newFakeEvaluationStore()
	for _, e := range []*models.Evaluation{
		{FullName: "A", StarRating: 5, IsShow: 1},
		{FullName: "B", StarRating: 3, IsShow: 1},
	} {
		if err := evaluations.Create(nil, e); err != nil {
			t.Fatal(err)
		}
	}

	s := newTestServer(Stores{Evaluations: evaluations}, fakeGateway{})

	w, resp := doJSON(t, s, http.MethodGet, "/evaluate?starRating=5", nil)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	list := resp["data"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected 1 five-star evaluation, got %d", len(list))
	}
	if resp["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", resp["total"])
	}
}
