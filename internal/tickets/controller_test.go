package tickets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/session"
)

func withSession(s session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		c.Next()
	}
}

func newTestEngine(f *fixture, s session.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	noop := func(c *gin.Context) { c.Next() }
	SetupTicketRoutes(engine.Group("/api/v1"), NewController(f.svc), withSession(s), noop)
	return engine
}

func postPurchase(engine *gin.Engine, f *fixture, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/"+f.eventID.String()+"/tickets/purchase", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPurchaseEndpoint(t *testing.T) {
	f := newFixture(t, 10)
	engine := newTestEngine(f, f.buyer)

	w := postPurchase(engine, f, `{"ticketTypeId":"`+f.ticket.ID.String()+`","quantity":3}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Status string           `json:"status"`
		Data   PurchaseResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "105.00", body.Data.TotalPrice.String())
}

func TestPurchaseEndpoint_Conflict(t *testing.T) {
	f := newFixture(t, 10)
	f.ticket.Sold = f.ticket.Quantity
	engine := newTestEngine(f, f.buyer)

	w := postPurchase(engine, f, `{"ticketTypeId":"`+f.ticket.ID.String()+`","quantity":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
}

func TestPurchaseEndpoint_DemoRejected(t *testing.T) {
	f := newFixture(t, 10)
	demo := f.buyer
	demo.IsDemo = true
	engine := newTestEngine(f, demo)

	w := postPurchase(engine, f, `{"ticketTypeId":"`+f.ticket.ID.String()+`","quantity":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, f.repo.types[f.ticket.ID].Sold)
}

func TestPurchaseEndpoint_BadBody(t *testing.T) {
	f := newFixture(t, 10)
	engine := newTestEngine(f, f.buyer)

	w := postPurchase(engine, f, `{"ticketTypeId":"nope","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
