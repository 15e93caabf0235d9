package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/voyagabagae/backend/internal/models"
)

func TestCatalogHandler_GetCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler()
	r.GET("/api/catalog", h.GetCatalog)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Cities       []string `json:"cities"`
		PackageTypes []struct {
			Value     string  `json:"value"`
			MaxWeight float64 `json:"maxWeight"`
		} `json:"packageTypes"`
		PriceRanges []models.PriceRange `json:"priceRanges"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)

	assert.Len(t, body.Cities, len(models.MoroccanCities))
	assert.Len(t, body.PackageTypes, 4)
	assert.Equal(t, models.PackageTypeSmall, body.PackageTypes[0].Value)
	assert.Len(t, body.PriceRanges, len(models.PriceRanges))
}

func TestCatalogHandler_ListCities(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler()
	r.GET("/api/catalog/cities", h.ListCities)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/cities", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Casablanca")
}
