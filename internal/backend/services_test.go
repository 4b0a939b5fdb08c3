package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Users
// ============================================

func TestUserService_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/User/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@example.com", req.Email)

		_, _ = w.Write([]byte(`{"token":"jwt","user":{"id":5,"email":"a@example.com","name":"A","phone":"1","role":2}}`))
	})

	resp, err := NewUserService(c).Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(5), resp.User.ID)
	assert.True(t, resp.User.IsAdmin())
}

func TestUserService_LoginTopLevelFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"jwt","id":42,"email":"a@example.com"}`))
	})

	resp, err := NewUserService(c).Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)
	require.NotNil(t, resp.ID)
	assert.Equal(t, int64(42), *resp.ID)
	assert.Nil(t, resp.UserID)
}

func TestUserService_RegisterValidation(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := NewUserService(c).Register(context.Background(), RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
		Name:     "",
		Phone:    "555",
	})
	require.ErrorIs(t, err, ErrInvalidRequest)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "email must be a valid email address")
	assert.Contains(t, verr.Message, "password must be at least 8 characters")
	assert.Contains(t, verr.Message, "name is required")
	assert.False(t, called)
}

func TestUserService_Register(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/User/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`"User registered"`))
	})

	err := NewUserService(c).Register(context.Background(), RegisterRequest{
		Email: "b@example.com", Password: "longenough", Name: "B", Phone: "555",
	})
	assert.NoError(t, err)
}

// ============================================
// Products
// ============================================

func TestProductService_CRUD(t *testing.T) {
	var deleted bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/Product/addProduct":
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, 199.0, in["price"])
			_, _ = w.Write([]byte(`{"id":3,"name":"Collar","price":199}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/Product/update/3":
			_, _ = w.Write([]byte(`{"id":3,"name":"Collar v2","price":249.5}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/Product/delete/3":
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	svc := NewProductService(c)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductInput{Name: "Collar", Price: decimal.NewFromInt(199)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	updated, err := svc.Update(ctx, 3, ProductInput{Name: "Collar v2", Price: decimal.RequireFromString("249.5")})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("249.5")))

	require.NoError(t, svc.Delete(ctx, 3))
	assert.True(t, deleted)
}

func TestProductService_CreateRejectsNegativePrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	_, err := NewProductService(c).Create(context.Background(), ProductInput{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestProduct_DisplayImage(t *testing.T) {
	assert.Equal(t, "https://cdn/x.png", Product{ID: 1, ImageURL: "https://cdn/x.png", Image: "/legacy.png"}.DisplayImage())
	assert.Equal(t, "/legacy.png", Product{ID: 1, Image: "/legacy.png"}.DisplayImage())
	assert.NotEmpty(t, Product{ID: 1}.DisplayImage())
}

// ============================================
// Orders
// ============================================

func TestOrderService_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Order/addOrder", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"products":[{"productId":1,"quantity":2}],"userId":9}`, string(body))
		_, _ = w.Write([]byte(`{"id":77,"orderStatus":1,"paymentStatus":1,"total":398}`))
	})

	o, err := NewOrderService(c).Create(context.Background(), CreateOrderRequest{
		Products: []OrderLine{{ProductID: 1, Quantity: 2}},
		UserID:   9,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), o.ID)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(398)))
}

func TestOrderService_CreateRequiresProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := NewOrderService(c).Create(context.Background(), CreateOrderRequest{UserID: 9})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestOrderService_GetLineItemsFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":5,"orderItems":[{"productId":1,"quantity":2,"unitPrice":10}],"total":20,"createdAt":"2024-05-01T10:00:00"}`))
	})

	o, err := NewOrderService(c).Get(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, o.LineItems(), 1)
	assert.True(t, o.LineItems()[0].Subtotal().Equal(decimal.NewFromInt(20)))

	created, ok := o.Created()
	assert.True(t, ok)
	assert.Equal(t, 2024, created.Year())
}

func TestOrderService_Pay(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Order/order/5", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://shop.example/checkout/success", req["successURL"])
		_, _ = w.Write([]byte(`{"paymentUrl":"https://pay.example/cs_1","sessionId":"cs_1"}`))
	})

	ps, err := NewOrderService(c).Pay(context.Background(), 5, PaymentRequest{
		UserID:     9,
		Amount:     decimal.NewFromInt(20),
		SuccessURL: "https://shop.example/checkout/success",
		CancelURL:  "https://shop.example/checkout/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_1", ps.RedirectURL())
	assert.Equal(t, "cs_1", ps.ID())
}

func TestOrderService_UpdateStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/Order/status/5", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("updatedStatus"))
		_, _ = w.Write([]byte(`{"id":5,"orderStatus":4,"paymentStatus":2,"total":20}`))
	})
	svc := NewOrderService(c)

	o, err := svc.UpdateStatus(context.Background(), 5, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, o.OrderStatus)

	_, err = svc.UpdateStatus(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// ============================================
// Payments
// ============================================

func TestPaymentService_History(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Payment/history/9", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"userId":9,"amount":19.99,"status":2}]`))
	})

	history, err := NewPaymentService(c).History(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "19.99", history[0].Amount.StringFixed(2))
}

func TestPaymentService_Verify(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
		failed  bool
	}{
		{"object", `{"success":true,"message":"Payment verified"}`, "Payment verified", false},
		{"string", `"Payment verified"`, "Payment verified", false},
		{"empty", ``, "", false},
		{"declined", `{"success":false,"message":"Card declined"}`, "Card declined", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/Order/validate", r.URL.Path)
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, `{"orderId":5,"stripeSessionId":"cs_1"}`, string(body))
				_, _ = w.Write([]byte(tt.body))
			})

			res, err := NewPaymentService(c).Verify(context.Background(), 5, "cs_1")
			require.NoError(t, err)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.failed, res.Failed())
		})
	}
}

func TestPaymentService_VerifyRequiresSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := NewPaymentService(c).Verify(context.Background(), 5, " ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// ============================================
// Blobs
// ============================================

func TestBlobService_Upload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"json string", `"https://blob.example/a.png"`},
		{"plain text", `https://blob.example/a.png`},
		{"object", `{"url":"https://blob.example/a.png"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/Blob/upload", r.URL.Path)
				file, header, err := r.FormFile("file")
				require.NoError(t, err)
				defer file.Close()
				data, _ := io.ReadAll(file)
				assert.Equal(t, "a.png", header.Filename)
				assert.Equal(t, "PNGDATA", string(data))
				_, _ = w.Write([]byte(tt.body))
			})

			url, err := NewBlobService(c).Upload(context.Background(), "a.png", strings.NewReader("PNGDATA"))
			require.NoError(t, err)
			assert.Equal(t, "https://blob.example/a.png", url)
		})
	}
}

func TestBlobService_UploadRejectsNonURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`""`))
	})

	_, err := NewBlobService(c).Upload(context.Background(), "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
