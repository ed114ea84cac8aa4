package bot

import (
	"log/slog"
	"strings"

	"bayon/models"

	"github.com/jinzhu/gorm"
)

// Gateway is the read-only, tenant-scoped view of business data the reply
// handlers consume. Storage errors are logged and come back as "no data":
// every caller has a defined fallback response, and the bot must never
// state a price, hour, address or phone that is not exactly on record.
type Gateway struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGateway(db *gorm.DB, logger *slog.Logger) *Gateway {
	return &Gateway{db: db, logger: logger}
}

// FindProduct matches name against the business's active products in three
// tiers: exact, query-contains-name, name-contains-query. Comparison is
// case-insensitive and whitespace-normalized; the contains tiers match on
// token boundaries so a "Tea" product does not fire inside "steak". First
// match in tier order wins, no further ranking.
func (g *Gateway) FindProduct(businessID int64, name string) *models.Product {
	products := g.ListProducts(businessID)
	if len(products) == 0 {
		return nil
	}

	query := normalizeText(name)
	if query == "" {
		return nil
	}

	for i := range products {
		if normalizeText(products[i].Name) == query {
			return &products[i]
		}
	}
	for i := range products {
		if containsTokens(query, normalizeText(products[i].Name)) {
			return &products[i]
		}
	}
	for i := range products {
		if containsTokens(normalizeText(products[i].Name), query) {
			return &products[i]
		}
	}
	return nil
}

// containsTokens reports whether needle appears in haystack as a whole
// space-delimited token run. Both sides are already normalized.
func containsTokens(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// ListProducts returns the business's active products ordered by name.
func (g *Gateway) ListProducts(businessID int64) []models.Product {
	var products []models.Product
	err := g.db.
		Where("business_id = ? AND active = ?", businessID, true).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		g.logger.Error("gateway: list products failed", "business_id", businessID, "error", err)
		return nil
	}
	return products
}

// OpeningHours returns the business's weekly schedule, one row per weekday
// at most.
func (g *Gateway) OpeningHours(businessID int64) []models.OpeningHour {
	var hours []models.OpeningHour
	err := g.db.
		Where("business_id = ?", businessID).
		Order("weekday asc").
		Find(&hours).Error
	if err != nil {
		g.logger.Error("gateway: load opening hours failed", "business_id", businessID, "error", err)
		return nil
	}
	return hours
}

func (g *Gateway) Address(businessID int64) string {
	b := g.business(businessID)
	if b == nil {
		return ""
	}
	return strings.TrimSpace(b.Address)
}

func (g *Gateway) Phone(businessID int64) string {
	b := g.business(businessID)
	if b == nil {
		return ""
	}
	return strings.TrimSpace(b.Phone)
}

func (g *Gateway) BusinessName(businessID int64) string {
	b := g.business(businessID)
	if b == nil {
		return ""
	}
	return strings.TrimSpace(b.Name)
}

func (g *Gateway) business(businessID int64) *models.Business {
	var b models.Business
	if err := g.db.First(&b, businessID).Error; err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			g.logger.Error("gateway: load business failed", "business_id", businessID, "error", err)
		}
		return nil
	}
	return &b
}
