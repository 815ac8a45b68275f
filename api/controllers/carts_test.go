package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartsvc "github.com/storefrontlabs/storefront-backend/internal/cart"
	"github.com/storefrontlabs/storefront-backend/pkg/access"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/types"
)

type stubCartService struct {
	cart    *cartsvc.CartDTO
	message string
	err     error
}

func (s stubCartService) Create(ctx context.Context, p access.Principal) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) Get(ctx context.Context, cartID uuid.UUID, p access.Principal) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) Delete(ctx context.Context, cartID uuid.UUID, p access.Principal) error {
	return s.err
}

func (s stubCartService) AddItem(ctx context.Context, cartID uuid.UUID, p access.Principal, input cartsvc.AddItemInput) (string, error) {
	return s.message, s.err
}

func (s stubCartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, p access.Principal, input cartsvc.UpdateItemInput) (string, error) {
	return s.message, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID, p access.Principal) error {
	return s.err
}

func newCartRouter(svc cartsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/carts", CartCreate(svc, nil))
	r.Get("/carts/{cartId}", CartGet(svc, nil))
	r.Delete("/carts/{cartId}", CartDelete(svc, nil))
	r.Post("/carts/{cartId}/items", CartItemAdd(svc, nil))
	r.Put("/carts/{cartId}/items/{itemId}", CartItemUpdate(svc, nil))
	r.Delete("/carts/{cartId}/items/{itemId}", CartItemRemove(svc, nil))
	return r
}

func TestCartCreateReturnsCreated(t *testing.T) {
	cart := &cartsvc.CartDTO{ID: uuid.New(), UserID: uuid.New(), Items: []cartsvc.CartItemDTO{}}
	router := newCartRouter(stubCartService{cart: cart})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/carts", nil))

	require.Equal(t, http.StatusCreated, resp.Code)

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, cart.ID, envelope.Data.ID)
}

func TestCartGetRejectsMalformedID(t *testing.T) {
	router := newCartRouter(stubCartService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/carts/not-a-uuid", nil))

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartItemAddReturnsMessage(t *testing.T) {
	router := newCartRouter(stubCartService{message: "item added to cart"})

	body := bytes.NewReader([]byte(`{"productId":"` + uuid.NewString() + `","quantity":2}`))
	req := httptest.NewRequest(http.MethodPost, "/carts/"+uuid.NewString()+"/items", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "item added to cart", envelope.Data["message"])
}

func TestCartItemAddRejectsZeroQuantity(t *testing.T) {
	router := newCartRouter(stubCartService{message: "item added to cart"})

	body := bytes.NewReader([]byte(`{"productId":"` + uuid.NewString() + `","quantity":0}`))
	req := httptest.NewRequest(http.MethodPost, "/carts/"+uuid.NewString()+"/items", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartDeletePropagatesForbidden(t *testing.T) {
	router := newCartRouter(stubCartService{err: pkgerrors.New(pkgerrors.CodeForbidden, access.ForbiddenMessage)})

	req := httptest.NewRequest(http.MethodDelete, "/carts/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, access.ForbiddenMessage, envelope.Error.Message)
}

func TestCartItemRemoveNoContent(t *testing.T) {
	router := newCartRouter(stubCartService{})

	req := httptest.NewRequest(http.MethodDelete, "/carts/"+uuid.NewString()+"/items/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
}
