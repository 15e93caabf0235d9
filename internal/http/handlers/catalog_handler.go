package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyagabagae/backend/internal/models"
)

// CatalogHandler отдаёт справочные данные для формы объявления:
// города, типы колли, ценовые диапазоны и лимиты.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListCities GET /api/catalog/cities
func (h *CatalogHandler) ListCities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cities": models.MoroccanCities})
}

// GetCatalog GET /api/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	packageTypes := make([]gin.H, 0, len(models.PackageTypeMaxWeights))
	for _, t := range []string{
		models.PackageTypeSmall,
		models.PackageTypeMedium,
		models.PackageTypeLarge,
		models.PackageTypeBulky,
	} {
		packageTypes = append(packageTypes, gin.H{
			"value":     t,
			"maxWeight": models.PackageTypeMaxWeights[t],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"cities":       models.MoroccanCities,
		"packageTypes": packageTypes,
		"priceRanges":  models.PriceRanges,
		"limits": gin.H{
			"maxPackageWeight":         models.MaxPackageWeight,
			"maxPackageDimensions":     models.MaxPackageDimensions,
			"maxDimensionSide":         models.MaxDimensionSide,
			"maxTitleLength":           models.MaxTitleLength,
			"maxDescriptionLength":     models.MaxDescriptionLength,
			"maxPrice":                 models.MaxPrice,
			"maxImagesPerAnnouncement": models.MaxImagesPerAnnouncement,
		},
	})
}
