package handler

import (
	"net/http"
	"testing"
	"time"

	"gruago/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRatedRequest(t *testing.T, db *gorm.DB, status string) *model.TowRequest {
	t.Helper()

	now := time.Now()
	request := &model.TowRequest{
		TenantID:           1,
		UserID:             1,
		ServiceID:          1,
		OriginAddress:      "A",
		DestinationAddress: "B",
		TotalPrice:         350,
		Status:             status,
		RequestedAt:        now,
	}
	if status == model.StatusCompleted {
		request.CompletedAt = &now
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestCreateRating(t *testing.T) {
	db := newTestDB(t)
	handler := NewRatingHandler(db)
	e := echo.New()
	request := seedRatedRequest(t, db, model.StatusCompleted)

	c, rec := newJSONContext(e, http.MethodPost, "/api/ratings",
		`{"request_id":1,"score":5,"comment":"Rapido y cuidadoso"}`)
	require.NoError(t, handler.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var rating model.Rating
	require.NoError(t, db.Where("request_id = ?", request.ID).First(&rating).Error)
	assert.Equal(t, 5, rating.Score)
	assert.Equal(t, "Rapido y cuidadoso", rating.Comment)
}

func TestCreateRatingRequiresCompletedRequest(t *testing.T) {
	db := newTestDB(t)
	handler := NewRatingHandler(db)
	e := echo.New()
	seedRatedRequest(t, db, model.StatusInProgress)

	c, rec := newJSONContext(e, http.MethodPost, "/api/ratings", `{"request_id":1,"score":4}`)
	require.NoError(t, handler.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRatingScoreBounds(t *testing.T) {
	db := newTestDB(t)
	handler := NewRatingHandler(db)
	e := echo.New()
	seedRatedRequest(t, db, model.StatusCompleted)

	for _, body := range []string{
		`{"request_id":1,"score":0}`,
		`{"request_id":1,"score":6}`,
		`{"score":5}`,
	} {
		c, rec := newJSONContext(e, http.MethodPost, "/api/ratings", body)
		require.NoError(t, handler.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestCreateRatingUnknownRequest(t *testing.T) {
	db := newTestDB(t)
	handler := NewRatingHandler(db)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/ratings", `{"request_id":99,"score":5}`)
	require.NoError(t, handler.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRatingsByRequest(t *testing.T) {
	db := newTestDB(t)
	handler := NewRatingHandler(db)
	e := echo.New()
	request := seedRatedRequest(t, db, model.StatusCompleted)

	require.NoError(t, db.Create(&model.Rating{RequestID: request.ID, Score: 4}).Error)
	require.NoError(t, db.Create(&model.Rating{RequestID: request.ID, Score: 5}).Error)

	c, rec := newJSONContext(e, http.MethodGet, "/api/ratings/request/1", "")
	c.SetParamNames("requestId")
	c.SetParamValues("1")
	require.NoError(t, handler.ListByRequest(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["count"])
}
